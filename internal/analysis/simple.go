package analysis

import (
	"context"
	"fmt"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SimpleAnalyzer maps the Fear & Greed Index onto a contrarian signal.
type SimpleAnalyzer struct {
	tracer trace.Tracer
	market MarketData
	now    func() time.Time
}

func NewSimpleAnalyzer(tracer trace.Tracer, market MarketData) *SimpleAnalyzer {
	return &SimpleAnalyzer{tracer: tracer, market: market, now: nowUTC}
}

func (a *SimpleAnalyzer) Variant() domain.Variant { return domain.VariantSimple }

func (a *SimpleAnalyzer) Analyze(ctx context.Context) (*domain.Analysis, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.simple")
	defer span.End()

	fg := a.market.FearGreedOrNeutral(ctx)
	price := fetchPrice(ctx, a.market)

	recommendation, reasoning, emoji := contrarianSignal(fg.Value)
	result := &domain.Analysis{
		Variant:        domain.VariantSimple,
		Recommendation: recommendation,
		Reasoning:      reasoning,
		Emoji:          emoji,
		Price:          price,
		FearGreed:      fg,
		Timestamp:      a.now(),
	}
	if price != nil && domain.IsBuy(recommendation) {
		lv := LongLevels(*price)
		result.Levels = &lv
	}

	span.SetAttributes(
		attribute.Int("fear_greed.value", fg.Value),
		attribute.String("recommendation", recommendation),
	)
	return result, nil
}

func contrarianSignal(v int) (recommendation, reasoning, emoji string) {
	switch {
	case v <= 25:
		return domain.RecommendationStrongBuy, fmt.Sprintf("Extreme Fear (%d) - Contrarian opportunity", v), "🚀"
	case v <= 45:
		return domain.RecommendationBuy, fmt.Sprintf("Fear (%d) - Good buying opportunity", v), "📈"
	case v >= 75:
		return domain.RecommendationSell, fmt.Sprintf("Greed (%d) - Consider taking profits", v), "📉"
	case v >= 55:
		return domain.RecommendationHoldSell, fmt.Sprintf("Greed building (%d) - Be cautious", v), "⚠️"
	default:
		return domain.RecommendationHold, fmt.Sprintf("Neutral sentiment (%d) - Wait for better setup", v), "⏸️"
	}
}

// fetchPrice returns nil when no price source answers; the analysis goes on
// without a price.
func fetchPrice(ctx context.Context, market MarketData) *float64 {
	quote, err := market.BTCPrice(ctx)
	if err != nil {
		log.Error("Error fetching BTC price", "err", err)
		return nil
	}
	p := quote.PriceUSD
	return &p
}
