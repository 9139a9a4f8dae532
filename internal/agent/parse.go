package agent

import (
	"strings"

	"btc-signal-bot/internal/domain"

	"github.com/tidwall/gjson"
)

// ParseReport extracts the structured verdict from an agent reply. The
// payload is the text between the first '{' and the last '}', optionally
// wrapped in a "response" object. Replies without JSON become an
// ANALYSIS_COMPLETE report carrying the text as reasoning.
func ParseReport(text string) *domain.AgentReport {
	payload, ok := extractJSON(text)
	if !ok {
		return &domain.AgentReport{
			Recommendation: domain.RecommendationAnalysisComplete,
			Reasoning:      text,
			Structured:     true,
			Raw:            text,
		}
	}

	root := gjson.Parse(payload)
	if wrapped := root.Get("response"); wrapped.IsObject() {
		root = wrapped
	}

	report := &domain.AgentReport{Raw: payload, Structured: true}
	for _, section := range []string{"action", "confluence", "fearGreedAnalysis", "levels"} {
		if v := root.Get(section); v.Exists() && !v.IsObject() {
			report.Structured = false
		}
	}
	if !root.IsObject() {
		report.Structured = false
	}
	if !report.Structured {
		report.Recommendation = domain.RecommendationHold
		return report
	}

	report.Recommendation = root.Get("action.recommendation").String()
	report.Reasoning = root.Get("action.reasoning").String()
	report.FearGreedCurrent = root.Get("fearGreedAnalysis.current").String()
	report.FearGreedClass = root.Get("fearGreedAnalysis.classification").String()
	report.BullishFactors = root.Get("confluence.bullishFactors").String()
	report.BearishFactors = root.Get("confluence.bearishFactors").String()
	report.Confidence = root.Get("confluence.confidence").String()
	report.Entry = truthy(root.Get("levels.entry"))
	report.StopLoss = truthy(root.Get("levels.stopLoss"))
	report.Target = truthy(root.Get("levels.target1"))
	return report
}

func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	payload := text[start : end+1]
	if !gjson.Valid(payload) {
		return "", false
	}
	return payload, true
}

// truthy drops empty, zero and false level values so they are not displayed.
func truthy(v gjson.Result) string {
	if !v.Exists() {
		return ""
	}
	switch v.Type {
	case gjson.Null, gjson.False:
		return ""
	case gjson.Number:
		if v.Float() == 0 {
			return ""
		}
	}
	return v.String()
}
