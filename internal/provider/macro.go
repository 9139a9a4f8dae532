package provider

import (
	"context"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// MacroProvider serves the macro inputs of the hybrid analysis. There is no
// free feed for DXY or cross-asset correlations, so the readings are fixed.
type MacroProvider struct {
	tracer trace.Tracer
	now    func() time.Time
}

func NewMacroProvider(tracer trace.Tracer) *MacroProvider {
	return &MacroProvider{tracer: tracer, now: time.Now}
}

func (p *MacroProvider) DollarIndex(ctx context.Context) (*domain.DollarIndex, error) {
	_, span := p.tracer.Start(ctx, "macro.dollar-index")
	defer span.End()

	return &domain.DollarIndex{
		Level:           106.5,
		Trend:           "Up",
		RiskEnvironment: domain.RiskOff,
	}, nil
}

func (p *MacroProvider) Correlations(ctx context.Context) (*domain.Correlations, error) {
	_, span := p.tracer.Start(ctx, "macro.correlations")
	defer span.End()

	return &domain.Correlations{
		Nasdaq: 75,
		SPX:    70,
		Gold:   -20,
		VIX:    -45,
		Regime: domain.RegimeRiskOnCorrelated,
	}, nil
}

// Seasonal returns the historical tendency for the current month.
func (p *MacroProvider) Seasonal(ctx context.Context) (*domain.Seasonal, error) {
	_, span := p.tracer.Start(ctx, "macro.seasonal")
	defer span.End()

	s := SeasonalFor(p.now().Month())
	return &s, nil
}

var seasonalTable = map[time.Month]domain.Seasonal{
	time.January:   {Bias: domain.BiasNeutral, WinRate: 55, Pattern: "January Effect"},
	time.February:  {Bias: domain.BiasBearish, WinRate: 45, Pattern: "Winter Lull"},
	time.March:     {Bias: domain.BiasBullish, WinRate: 60, Pattern: "Q1 Recovery"},
	time.April:     {Bias: domain.BiasNeutral, WinRate: 50, Pattern: "Spring Uncertainty"},
	time.May:       {Bias: domain.BiasBearish, WinRate: 40, Pattern: "Sell in May"},
	time.June:      {Bias: domain.BiasBearish, WinRate: 35, Pattern: "Summer Doldrums"},
	time.July:      {Bias: domain.BiasBearish, WinRate: 35, Pattern: "Summer Doldrums"},
	time.August:    {Bias: domain.BiasNeutral, WinRate: 45, Pattern: "Late Summer"},
	time.September: {Bias: domain.BiasBearish, WinRate: 40, Pattern: "September Effect"},
	time.October:   {Bias: domain.BiasNeutral, WinRate: 50, Pattern: "October Setup"},
	time.November:  {Bias: domain.BiasBullish, WinRate: 65, Pattern: "Q4 Rally"},
	time.December:  {Bias: domain.BiasBullish, WinRate: 70, Pattern: "Year-end Rally"},
}

// SeasonalFor looks up the seasonal table; unknown months are neutral.
func SeasonalFor(month time.Month) domain.Seasonal {
	if s, ok := seasonalTable[month]; ok {
		return s
	}
	return domain.Seasonal{Bias: domain.BiasNeutral, WinRate: 50, Pattern: "Unknown"}
}
