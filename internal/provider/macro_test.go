package provider

import (
	"context"
	"testing"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestSeasonalFor(t *testing.T) {
	tests := map[time.Month]domain.Seasonal{
		time.November:  {Bias: domain.BiasBullish, WinRate: 65, Pattern: "Q4 Rally"},
		time.May:       {Bias: domain.BiasBearish, WinRate: 40, Pattern: "Sell in May"},
		time.October:   {Bias: domain.BiasNeutral, WinRate: 50, Pattern: "October Setup"},
		time.Month(13): {Bias: domain.BiasNeutral, WinRate: 50, Pattern: "Unknown"},
	}
	for month, want := range tests {
		if got := SeasonalFor(month); got != want {
			t.Errorf("SeasonalFor(%d) = %+v, want %+v", month, got, want)
		}
	}
}

func TestMacroProviderUsesClock(t *testing.T) {
	p := NewMacroProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.now = func() time.Time { return time.Date(2025, time.December, 3, 0, 0, 0, 0, time.UTC) }

	s, err := p.Seasonal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Pattern != "Year-end Rally" {
		t.Fatalf("expected December pattern, got %+v", s)
	}

	dxy, _ := p.DollarIndex(context.Background())
	if dxy.Level != 106.5 || dxy.RiskEnvironment != domain.RiskOff {
		t.Fatalf("unexpected DXY reading: %+v", dxy)
	}
	corr, _ := p.Correlations(context.Background())
	if corr.Nasdaq != 75 || corr.Regime != domain.RegimeRiskOnCorrelated {
		t.Fatalf("unexpected correlations: %+v", corr)
	}
}
