package agent

const analysisPrompt = `Analyze current Bitcoin market conditions using all your available data sources and provide a comprehensive trading signal. Include:

1. Current Fear & Greed Index analysis
2. Seasonal patterns and historical tendencies for current month
3. USD Dollar Index impact on risk-on/risk-off environment
4. Market correlations with NASDAQ, S&P500, Gold, VIX
5. COT positioning and institutional flows
6. Technical price action and key levels
7. Multi-factor confluence analysis

Provide your analysis in JSON format with clear buy/sell/hold recommendation, reasoning, confidence score, and specific price levels.`

// AnalysisPrompt is the fixed request sent for every agent analysis.
func AnalysisPrompt() string {
	return analysisPrompt
}
