package agent

import (
	"testing"

	"btc-signal-bot/internal/domain"
)

func TestParseReportStructured(t *testing.T) {
	text := "Analysis follows.\n```json\n" + `{
  "action": {"recommendation": "BUY", "reasoning": "Fear with seasonal support"},
  "fearGreedAnalysis": {"current": 28, "classification": "Fear"},
  "confluence": {"bullishFactors": 4, "bearishFactors": 1, "confidence": 7},
  "levels": {"entry": 91000, "stopLoss": 86450, "target1": "104650"}
}` + "\n```"

	r := ParseReport(text)
	if !r.Structured {
		t.Fatal("expected structured report")
	}
	checks := map[string][2]string{
		"recommendation": {r.Recommendation, "BUY"},
		"reasoning":      {r.Reasoning, "Fear with seasonal support"},
		"fg current":     {r.FearGreedCurrent, "28"},
		"fg class":       {r.FearGreedClass, "Fear"},
		"bullish":        {r.BullishFactors, "4"},
		"bearish":        {r.BearishFactors, "1"},
		"confidence":     {r.Confidence, "7"},
		"entry":          {r.Entry, "91000"},
		"stop":           {r.StopLoss, "86450"},
		"target":         {r.Target, "104650"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s: got %q, want %q", name, c[0], c[1])
		}
	}
}

func TestParseReportUnwrapsResponse(t *testing.T) {
	r := ParseReport(`{"response": {"action": {"recommendation": "Strong SELL"}}}`)
	if r.Recommendation != "Strong SELL" {
		t.Fatalf("expected unwrapped recommendation, got %q", r.Recommendation)
	}
}

func TestParseReportPlainText(t *testing.T) {
	text := "Markets are choppy, no clear signal today."
	r := ParseReport(text)
	if r.Recommendation != domain.RecommendationAnalysisComplete {
		t.Fatalf("expected ANALYSIS_COMPLETE, got %q", r.Recommendation)
	}
	if r.Reasoning != text || !r.Structured {
		t.Fatalf("expected text carried as reasoning, got %+v", r)
	}
}

func TestParseReportInvalidJSONFallsBackToText(t *testing.T) {
	text := "levels {entry: soon} and {more"
	r := ParseReport(text)
	if r.Recommendation != domain.RecommendationAnalysisComplete || r.Reasoning != text {
		t.Fatalf("expected text fallback, got %+v", r)
	}
}

func TestParseReportMalformedSections(t *testing.T) {
	r := ParseReport(`{"action": "BUY now"}`)
	if r.Structured {
		t.Fatal("expected malformed report")
	}
	if r.Recommendation != domain.RecommendationHold {
		t.Fatalf("expected HOLD for malformed payload, got %q", r.Recommendation)
	}
	if r.Raw != `{"action": "BUY now"}` {
		t.Fatalf("expected raw payload kept, got %q", r.Raw)
	}
}

func TestParseReportSkipsZeroLevels(t *testing.T) {
	r := ParseReport(`{"action": {"recommendation": "HOLD"}, "levels": {"entry": 0, "stopLoss": null, "target1": ""}}`)
	if r.Entry != "" || r.StopLoss != "" || r.Target != "" {
		t.Fatalf("expected empty levels, got %q %q %q", r.Entry, r.StopLoss, r.Target)
	}
}
