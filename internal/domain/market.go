package domain

import "time"

// FearGreed is the latest reading of the alternative.me Fear & Greed Index.
type FearGreed struct {
	Value            int       `json:"value"`
	Classification   string    `json:"classification"`
	Timestamp        time.Time `json:"timestamp"`
	TimeUntilUpdateS int       `json:"time_until_update_s"`
	// Fallback is set when the index could not be fetched and a neutral reading was substituted.
	Fallback bool `json:"fallback,omitempty"`
}

// NeutralFearGreed is substituted when the index API is unreachable.
func NeutralFearGreed() *FearGreed {
	return &FearGreed{Value: 50, Classification: "Neutral", Timestamp: time.Now().UTC(), Fallback: true}
}

// PriceQuote is a BTC/USD spot price from one of the price sources.
type PriceQuote struct {
	Symbol    string    `json:"symbol"`
	PriceUSD  float64   `json:"price_usd"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// DollarIndex is the (mocked) US Dollar Index reading.
type DollarIndex struct {
	Level           float64 `json:"level"`
	Trend           string  `json:"trend"`
	RiskEnvironment string  `json:"risk_environment"`
}

const (
	RiskOn      = "Risk-On"
	RiskOff     = "Risk-Off"
	RiskNeutral = "Neutral"
)

// Correlations holds BTC correlation percentages against traditional markets.
type Correlations struct {
	Nasdaq int    `json:"btc_nasdaq"`
	SPX    int    `json:"btc_spx"`
	Gold   int    `json:"btc_gold"`
	VIX    int    `json:"btc_vix"`
	Regime string `json:"regime"`
}

const RegimeRiskOnCorrelated = "Risk-On Correlated"

// Seasonal describes the historical tendency of the current month.
type Seasonal struct {
	Bias    string `json:"bias"`
	WinRate int    `json:"win_rate"`
	Pattern string `json:"pattern"`
}

const (
	BiasBullish = "Bullish"
	BiasBearish = "Bearish"
	BiasNeutral = "Neutral"
)
