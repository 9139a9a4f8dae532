package report

import (
	"strings"
	"testing"
	"time"

	"btc-signal-bot/internal/domain"
)

var ts = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func TestFormatSimpleBuy(t *testing.T) {
	a := &domain.Analysis{
		Variant:        domain.VariantSimple,
		Recommendation: "Strong BUY",
		Reasoning:      "Extreme Fear (12) - Contrarian opportunity",
		Emoji:          "🚀",
		Price:          ptr(91234.567),
		FearGreed:      &domain.FearGreed{Value: 12, Classification: "Extreme Fear"},
		Levels:         &domain.Levels{Entry: 91234.567, Stop: 86672.84, Target: 104919.75},
		Timestamp:      ts,
	}

	got := Format(a)
	for _, want := range []string{
		"🚀 *Bitcoin Analysis*\n⏰ 2026-03-14 09:30:00 UTC\n\n",
		"💰 *Price:* $91,234.57\n",
		"😱 *Fear & Greed:* 12 (Extreme Fear)\n\n",
		"🎯 *Signal:* Strong BUY\n",
		"📊 *Suggested Entry:* $91,235\n",
		"🛑 *Stop Loss:* $86,673 (-5%)\n",
		"🎁 *Target:* $104,920 (+15%)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatSimpleWithoutPrice(t *testing.T) {
	a := &domain.Analysis{
		Variant:        domain.VariantSimple,
		Recommendation: "HOLD",
		FearGreed:      &domain.FearGreed{Value: 50, Classification: "Neutral"},
		Timestamp:      ts,
	}
	got := FormatSimple(a)
	if strings.Contains(got, "Price") || strings.Contains(got, "Entry") {
		t.Fatalf("expected price and levels omitted:\n%s", got)
	}
}

func TestFormatHybridLimitsFactorLines(t *testing.T) {
	a := &domain.Analysis{
		Variant:        domain.VariantHybrid,
		Recommendation: "BUY",
		Emoji:          "📈",
		FearGreed:      &domain.FearGreed{Value: 40, Classification: "Fear"},
		Seasonal:       &domain.Seasonal{Bias: "Bullish", Pattern: "Q1 Recovery"},
		Dollar:         &domain.DollarIndex{Level: 106.5, RiskEnvironment: "Risk-Off"},
		Correlation:    &domain.Correlations{Nasdaq: 75},
		BullishFactors: 3,
		BearishFactors: 1,
		Confidence:     8,
		Factors:        []string{"f1", "f2", "f3", "f4", "f5"},
		Levels:         &domain.Levels{Entry: 91000, Stop: 86450, Target: 104650},
		Timestamp:      ts,
	}

	got := Format(a)
	if strings.Contains(got, "f5") {
		t.Fatal("expected at most four factor lines")
	}
	for _, want := range []string{
		"📈 *Bitcoin Enhanced Analysis*\n",
		"💪 *Confidence:* 8/10\n",
		"🟢 Bullish: 3 factors\n",
		"💵 *DXY:* 106.5 (Risk-Off)\n",
		"📈 *BTC-NASDAQ Correlation:* 75%\n",
		"f4\n",
		"🎯 Entry: $91,000\n🛑 Stop: $86,450\n🎁 Target: $104,650\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatAgent(t *testing.T) {
	a := &domain.Analysis{
		Variant:        domain.VariantAgent,
		Recommendation: "SELL",
		Timestamp:      ts,
		Agent: &domain.AgentReport{
			Recommendation:   "SELL",
			Reasoning:        "Greed into resistance",
			FearGreedCurrent: "78",
			FearGreedClass:   "Extreme Greed",
			BullishFactors:   "1",
			BearishFactors:   "4",
			Confidence:       "7",
			StopLoss:         "98000",
			Structured:       true,
		},
	}

	got := Format(a)
	for _, want := range []string{
		"🤖 *Bitcoin Analysis Update*\n",
		"📉 *SELL* 🔻\n",
		"😱 Fear & Greed: 78 (Extreme Greed)\n",
		"🎯 Confluence: 1 Bullish / 4 Bearish\n",
		"💪 Confidence: 7/10\n",
		"📊 *Key Levels:*\n🛑 Stop Loss: $98000\n",
		"💭 *Analysis:*\nGreed into resistance\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Entry") {
		t.Fatal("expected empty entry to be skipped")
	}
}

func TestFormatAgentDefaults(t *testing.T) {
	a := &domain.Analysis{
		Variant: domain.VariantAgent,
		Agent:   &domain.AgentReport{Recommendation: "ANALYSIS_COMPLETE", Reasoning: "text", Structured: true},
	}
	got := FormatAgent(a)
	for _, want := range []string{
		"⏸️ *ANALYSIS_COMPLETE* ⚖️\n",
		"Fear & Greed: N/A (N/A)",
		"Confluence: 0 Bullish / 0 Bearish",
		"Confidence: 0/10",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatAgentMalformedFallsBackToRaw(t *testing.T) {
	raw := strings.Repeat("x", 600)
	got := FormatAgent(&domain.Analysis{Variant: domain.VariantAgent, Agent: &domain.AgentReport{Raw: raw}})
	want := "🤖 Bitcoin analysis received but formatting failed. Raw data: " + strings.Repeat("x", 500) + "..."
	if got != want {
		t.Fatalf("unexpected fallback (len %d)", len(got))
	}
}

func TestAlertHeaders(t *testing.T) {
	tests := map[domain.Variant]string{
		domain.VariantSimple: "🚨 *SIGNAL CHANGE* 🚨",
		domain.VariantHybrid: "🚨 *ENHANCED SIGNAL CHANGE* 🚨",
		domain.VariantAgent:  "🚨 *ALERT* 🚨",
	}
	for v, want := range tests {
		if got := AlertHeader(v); got != want {
			t.Errorf("%s: got %q, want %q", v, got, want)
		}
	}

	msg := Alert(&domain.Analysis{Variant: domain.VariantSimple, Recommendation: "BUY", Timestamp: ts})
	if !strings.HasPrefix(msg, "🚨 *SIGNAL CHANGE* 🚨\n\n") {
		t.Fatalf("unexpected alert prefix: %q", msg[:40])
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   string
	}{
		{0, 0, "0"},
		{999, 0, "999"},
		{1000, 0, "1,000"},
		{91234.567, 2, "91,234.57"},
		{1234567.5, 0, "1,234,568"},
		{-4321.1, 1, "-4,321.1"},
	}
	for _, tt := range tests {
		if got := Money(tt.v, tt.places); got != tt.want {
			t.Errorf("Money(%v, %d) = %q, want %q", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	if got := Split("short", MaxMessageLength); len(got) != 1 || got[0] != "short" {
		t.Fatalf("unexpected split of short text: %v", got)
	}

	text := strings.Repeat("a", 4000) + strings.Repeat("b", 4000) + "c"
	got := Split(text, MaxMessageLength)
	if len(got) != 3 || got[2] != "c" || got[1] != strings.Repeat("b", 4000) {
		t.Fatalf("unexpected chunks: %d", len(got))
	}

	emoji := strings.Repeat("🚀", 5)
	got = Split(emoji, 2)
	if len(got) != 3 || got[0] != "🚀🚀" || got[2] != "🚀" {
		t.Fatalf("expected rune-safe chunks, got %q", got)
	}
}
