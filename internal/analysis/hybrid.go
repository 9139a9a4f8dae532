package analysis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HybridAnalyzer scores four factors: sentiment, seasonality, the dollar
// index and the equity correlation regime.
type HybridAnalyzer struct {
	tracer trace.Tracer
	market MarketData
	macro  MacroData
	now    func() time.Time
}

func NewHybridAnalyzer(tracer trace.Tracer, market MarketData, macro MacroData) *HybridAnalyzer {
	return &HybridAnalyzer{tracer: tracer, market: market, macro: macro, now: nowUTC}
}

func (a *HybridAnalyzer) Variant() domain.Variant { return domain.VariantHybrid }

func (a *HybridAnalyzer) Analyze(ctx context.Context) (*domain.Analysis, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.hybrid")
	defer span.End()

	fg := a.market.FearGreedOrNeutral(ctx)
	price := fetchPrice(ctx, a.market)

	dxy, err := a.macro.DollarIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("dollar index: %w", err)
	}
	seasonal, err := a.macro.Seasonal(ctx)
	if err != nil {
		return nil, fmt.Errorf("seasonal: %w", err)
	}
	corr, err := a.macro.Correlations(ctx)
	if err != nil {
		return nil, fmt.Errorf("correlations: %w", err)
	}

	s := scoreFactors(fg, seasonal, dxy, corr)
	recommendation, emoji := netSignal(s.bullish - s.bearish)

	entry := float64(DefaultEntry)
	if price != nil {
		entry = *price
	}
	var lv domain.Levels
	if domain.IsBuy(recommendation) {
		lv = LongLevels(entry)
	} else {
		lv = ShortLevels(entry)
	}

	span.SetAttributes(
		attribute.Int("factors.bullish", s.bullish),
		attribute.Int("factors.bearish", s.bearish),
		attribute.String("recommendation", recommendation),
	)

	return &domain.Analysis{
		Variant:        domain.VariantHybrid,
		Recommendation: recommendation,
		Emoji:          emoji,
		Price:          price,
		FearGreed:      fg,
		Seasonal:       seasonal,
		Dollar:         dxy,
		Correlation:    corr,
		BullishFactors: s.bullish,
		BearishFactors: s.bearish,
		Confidence:     confidence(s.bullish, s.bearish),
		Factors:        s.lines,
		Levels:         &lv,
		Timestamp:      a.now(),
	}, nil
}

type score struct {
	bullish int
	bearish int
	lines   []string
}

func (s *score) bull(n int, line string) {
	s.bullish += n
	s.lines = append(s.lines, line)
}

func (s *score) bear(line string) {
	s.bearish++
	s.lines = append(s.lines, line)
}

func (s *score) neutral(line string) {
	s.lines = append(s.lines, line)
}

func scoreFactors(fg *domain.FearGreed, seasonal *domain.Seasonal, dxy *domain.DollarIndex, corr *domain.Correlations) score {
	var s score

	switch v := fg.Value; {
	case v <= 25:
		s.bull(2, "✅ Extreme Fear - Strong contrarian buy signal")
	case v <= 45:
		s.bull(1, "✅ Fear - Contrarian opportunity")
	case v >= 75:
		s.bear("❌ Greed - Distribution zone")
	case v >= 55:
		s.bear("❌ Building greed - Caution warranted")
	default:
		s.neutral("⚖️ Neutral sentiment")
	}

	switch seasonal.Bias {
	case domain.BiasBullish:
		s.bull(1, fmt.Sprintf("✅ Seasonal: %s (%d%% win rate)", seasonal.Pattern, seasonal.WinRate))
	case domain.BiasBearish:
		s.bear(fmt.Sprintf("❌ Seasonal: %s (%d%% win rate)", seasonal.Pattern, seasonal.WinRate))
	default:
		s.neutral(fmt.Sprintf("⚖️ Seasonal: %s (neutral)", seasonal.Pattern))
	}

	level := strconv.FormatFloat(dxy.Level, 'f', -1, 64)
	switch dxy.RiskEnvironment {
	case domain.RiskOn:
		s.bull(1, fmt.Sprintf("✅ DXY: %s - Risk-on environment", level))
	case domain.RiskOff:
		s.bear(fmt.Sprintf("❌ DXY: %s - Risk-off pressure", level))
	default:
		s.neutral(fmt.Sprintf("⚖️ DXY: %s - Neutral", level))
	}

	if corr.Nasdaq > 60 && corr.Regime == domain.RegimeRiskOnCorrelated {
		if fg.Value < 50 {
			s.bull(1, "✅ Correlation: High tech correlation during fear = opportunity")
		} else {
			s.bear("❌ Correlation: High tech correlation during greed = risk")
		}
	} else {
		s.neutral("⚖️ Correlation: Bitcoin decoupling from traditional risk")
	}

	return s
}

func netSignal(net int) (recommendation, emoji string) {
	switch {
	case net >= 2:
		return domain.RecommendationStrongBuy, "🚀"
	case net >= 1:
		return domain.RecommendationBuy, "📈"
	case net <= -2:
		return domain.RecommendationStrongSell, "📉"
	case net <= -1:
		return domain.RecommendationSell, "⬇️"
	default:
		return domain.RecommendationHold, "⏸️"
	}
}

// confidence is |net|*2 + total factor count, clamped to 1..10.
func confidence(bullish, bearish int) int {
	net := bullish - bearish
	if net < 0 {
		net = -net
	}
	c := net*2 + bullish + bearish
	return min(10, max(1, c))
}
