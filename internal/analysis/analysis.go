package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var ErrNotSupported = errors.New("analysis is not available for this variant")

// Analyzer produces one recommendation per call.
type Analyzer interface {
	Variant() domain.Variant
	Analyze(ctx context.Context) (*domain.Analysis, error)
}

// MarketData is the subset of the market service the analyzers read.
type MarketData interface {
	FearGreedOrNeutral(ctx context.Context) *domain.FearGreed
	BTCPrice(ctx context.Context) (*domain.PriceQuote, error)
}

type MacroData interface {
	DollarIndex(ctx context.Context) (*domain.DollarIndex, error)
	Correlations(ctx context.Context) (*domain.Correlations, error)
	Seasonal(ctx context.Context) (*domain.Seasonal, error)
}

type AgentAnalyst interface {
	Analyze(ctx context.Context) (*domain.AgentReport, error)
}

type Deps struct {
	Market MarketData
	Macro  MacroData
	Agent  AgentAnalyst
}

// New returns the analyzer for variant.
func New(tracer trace.Tracer, variant domain.Variant, deps Deps) (Analyzer, error) {
	switch variant {
	case domain.VariantSimple:
		return NewSimpleAnalyzer(tracer, deps.Market), nil
	case domain.VariantHybrid:
		if deps.Macro == nil {
			return nil, fmt.Errorf("hybrid analyzer: macro data source required")
		}
		return NewHybridAnalyzer(tracer, deps.Market, deps.Macro), nil
	case domain.VariantAgent:
		if deps.Agent == nil {
			return nil, fmt.Errorf("agent analyzer: agent not configured")
		}
		return NewAgentAnalyzer(tracer, deps.Agent), nil
	case domain.VariantChat:
		return nil, ErrNotSupported
	}
	return nil, fmt.Errorf("unknown variant %q", variant)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
