package analysis

import (
	"context"
	"errors"
	"testing"

	"btc-signal-bot/internal/domain"
)

func TestHybridExtremeFearIsStrongBuy(t *testing.T) {
	a := NewHybridAnalyzer(testTracer, &stubMarket{fg: 20, price: 100000}, &stubMacro{})

	got, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BullishFactors != 4 || got.BearishFactors != 1 {
		t.Fatalf("expected 4 bullish / 1 bearish, got %d / %d", got.BullishFactors, got.BearishFactors)
	}
	if got.Recommendation != domain.RecommendationStrongBuy || got.Emoji != "🚀" {
		t.Fatalf("expected Strong BUY, got %q", got.Recommendation)
	}
	if got.Confidence != 10 {
		t.Fatalf("expected confidence clamped to 10, got %d", got.Confidence)
	}
	if got.Levels.Entry != 100000 || got.Levels.Stop != 95000 || got.Levels.Target != 115000 {
		t.Fatalf("unexpected levels: %+v", got.Levels)
	}
	want := []string{
		"✅ Extreme Fear - Strong contrarian buy signal",
		"✅ Seasonal: Q1 Recovery (60% win rate)",
		"❌ DXY: 106.5 - Risk-off pressure",
		"✅ Correlation: High tech correlation during fear = opportunity",
	}
	if len(got.Factors) != len(want) {
		t.Fatalf("expected %d factor lines, got %v", len(want), got.Factors)
	}
	for i := range want {
		if got.Factors[i] != want[i] {
			t.Errorf("factor %d: got %q, want %q", i, got.Factors[i], want[i])
		}
	}
}

func TestHybridGreedIsStrongSellWithDefaultEntry(t *testing.T) {
	a := NewHybridAnalyzer(testTracer, &stubMarket{fg: 80, priceErr: errors.New("down")}, &stubMacro{})

	got, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BullishFactors != 1 || got.BearishFactors != 3 {
		t.Fatalf("expected 1 bullish / 3 bearish, got %d / %d", got.BullishFactors, got.BearishFactors)
	}
	if got.Recommendation != domain.RecommendationStrongSell || got.Confidence != 8 {
		t.Fatalf("expected Strong SELL at 8, got %q at %d", got.Recommendation, got.Confidence)
	}
	if got.Price != nil {
		t.Fatal("expected price omitted")
	}
	if got.Levels.Entry != DefaultEntry || got.Levels.Stop != 95550 || got.Levels.Target != 77350 {
		t.Fatalf("unexpected levels: %+v", got.Levels)
	}
}

func TestHybridAllNeutralIsHold(t *testing.T) {
	macro := &stubMacro{
		dxy:      &domain.DollarIndex{Level: 100, RiskEnvironment: domain.RiskNeutral},
		corr:     &domain.Correlations{Nasdaq: 30, Regime: "Decoupled"},
		seasonal: &domain.Seasonal{Bias: domain.BiasNeutral, WinRate: 50, Pattern: "Spring Uncertainty"},
	}
	a := NewHybridAnalyzer(testTracer, &stubMarket{fg: 50, price: 1000}, macro)

	got, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Recommendation != domain.RecommendationHold || got.Confidence != 1 {
		t.Fatalf("expected HOLD at 1, got %q at %d", got.Recommendation, got.Confidence)
	}
	if got.Factors[2] != "⚖️ DXY: 100 - Neutral" || got.Factors[3] != "⚖️ Correlation: Bitcoin decoupling from traditional risk" {
		t.Fatalf("unexpected neutral factors: %v", got.Factors)
	}
}

func TestHybridMacroError(t *testing.T) {
	a := NewHybridAnalyzer(testTracer, &stubMarket{fg: 50}, &stubMacro{err: errors.New("boom")})
	if _, err := a.Analyze(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNetSignal(t *testing.T) {
	tests := map[int]string{
		3:  "Strong BUY",
		2:  "Strong BUY",
		1:  "BUY",
		0:  "HOLD",
		-1: "SELL",
		-2: "Strong SELL",
		-4: "Strong SELL",
	}
	for net, want := range tests {
		if got, _ := netSignal(net); got != want {
			t.Errorf("net %d: got %q, want %q", net, got, want)
		}
	}
}

func TestConfidenceClamp(t *testing.T) {
	if got := confidence(0, 0); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
	if got := confidence(1, 1); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := confidence(5, 0); got != 10 {
		t.Fatalf("expected ceiling of 10, got %d", got)
	}
}
