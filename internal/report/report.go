// Package report renders analyses as Telegram messages in legacy Markdown.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"btc-signal-bot/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// MaxMessageLength keeps replies under Telegram's 4096 character cap.
	MaxMessageLength = 4000

	maxFactorLines = 4
	rawFallbackLen = 500
	timestampFmt   = "2006-01-02 15:04:05 UTC"
)

// Format renders a according to the variant that produced it.
func Format(a *domain.Analysis) string {
	switch a.Variant {
	case domain.VariantHybrid:
		return FormatHybrid(a)
	case domain.VariantAgent:
		return FormatAgent(a)
	default:
		return FormatSimple(a)
	}
}

// Alert prefixes the formatted analysis with the variant's alert header.
func Alert(a *domain.Analysis) string {
	return AlertHeader(a.Variant) + "\n\n" + Format(a)
}

func AlertHeader(v domain.Variant) string {
	switch v {
	case domain.VariantHybrid:
		return "🚨 *ENHANCED SIGNAL CHANGE* 🚨"
	case domain.VariantAgent:
		return "🚨 *ALERT* 🚨"
	default:
		return "🚨 *SIGNAL CHANGE* 🚨"
	}
}

func FormatSimple(a *domain.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *Bitcoin Analysis*\n", a.Emoji)
	fmt.Fprintf(&sb, "⏰ %s\n\n", stamp(a.Timestamp))

	if a.Price != nil {
		fmt.Fprintf(&sb, "💰 *Price:* $%s\n", Money(*a.Price, 2))
	}
	if a.FearGreed != nil {
		fmt.Fprintf(&sb, "😱 *Fear & Greed:* %d (%s)\n\n", a.FearGreed.Value, a.FearGreed.Classification)
	}
	fmt.Fprintf(&sb, "🎯 *Signal:* %s\n", a.Recommendation)
	fmt.Fprintf(&sb, "💭 *Reason:* %s\n", a.Reasoning)

	if a.Levels != nil {
		fmt.Fprintf(&sb, "\n📊 *Suggested Entry:* $%s\n", Money(a.Levels.Entry, 0))
		fmt.Fprintf(&sb, "🛑 *Stop Loss:* $%s (-5%%)\n", Money(a.Levels.Stop, 0))
		fmt.Fprintf(&sb, "🎁 *Target:* $%s (+15%%)\n", Money(a.Levels.Target, 0))
	}
	return sb.String()
}

func FormatHybrid(a *domain.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *Bitcoin Enhanced Analysis*\n", a.Emoji)
	fmt.Fprintf(&sb, "⏰ %s\n\n", stamp(a.Timestamp))

	if a.Price != nil {
		fmt.Fprintf(&sb, "💰 *Price:* $%s\n\n", Money(*a.Price, 2))
	}

	fmt.Fprintf(&sb, "🎯 *Signal:* %s\n", a.Recommendation)
	fmt.Fprintf(&sb, "💪 *Confidence:* %d/10\n\n", a.Confidence)

	sb.WriteString("📊 *Factor Analysis:*\n")
	fmt.Fprintf(&sb, "🟢 Bullish: %d factors\n", a.BullishFactors)
	fmt.Fprintf(&sb, "🔴 Bearish: %d factors\n\n", a.BearishFactors)

	if a.FearGreed != nil {
		fmt.Fprintf(&sb, "😱 *Fear & Greed:* %d (%s)\n", a.FearGreed.Value, a.FearGreed.Classification)
	}
	if a.Seasonal != nil {
		fmt.Fprintf(&sb, "📅 *Seasonal:* %s (%s)\n", a.Seasonal.Bias, a.Seasonal.Pattern)
	}
	if a.Dollar != nil {
		fmt.Fprintf(&sb, "💵 *DXY:* %s (%s)\n", strconv.FormatFloat(a.Dollar.Level, 'f', -1, 64), a.Dollar.RiskEnvironment)
	}
	if a.Correlation != nil {
		fmt.Fprintf(&sb, "📈 *BTC-NASDAQ Correlation:* %d%%\n\n", a.Correlation.Nasdaq)
	}

	sb.WriteString("🔍 *Factor Breakdown:*\n")
	for i, factor := range a.Factors {
		if i == maxFactorLines {
			break
		}
		sb.WriteString(factor)
		sb.WriteString("\n")
	}

	if a.Levels != nil {
		sb.WriteString("\n📊 *Trading Levels:*\n")
		fmt.Fprintf(&sb, "🎯 Entry: $%s\n", Money(a.Levels.Entry, 0))
		fmt.Fprintf(&sb, "🛑 Stop: $%s\n", Money(a.Levels.Stop, 0))
		fmt.Fprintf(&sb, "🎁 Target: $%s\n", Money(a.Levels.Target, 0))
	}
	return sb.String()
}

func FormatAgent(a *domain.Analysis) string {
	r := a.Agent
	if r == nil || !r.Structured {
		raw := ""
		if r != nil {
			raw = r.Raw
		}
		return fmt.Sprintf("🤖 Bitcoin analysis received but formatting failed. Raw data: %s...", truncate(raw, rawFallbackLen))
	}

	var sb strings.Builder
	sb.WriteString("🤖 *Bitcoin Analysis Update*\n")
	fmt.Fprintf(&sb, "⏰ %s\n\n", stamp(a.Timestamp))

	rec := or(r.Recommendation, "N/A")
	switch {
	case domain.IsBuy(rec):
		fmt.Fprintf(&sb, "📈 *%s* 🚀\n", rec)
	case domain.IsSell(rec):
		fmt.Fprintf(&sb, "📉 *%s* 🔻\n", rec)
	default:
		fmt.Fprintf(&sb, "⏸️ *%s* ⚖️\n", rec)
	}

	fmt.Fprintf(&sb, "\n😱 Fear & Greed: %s (%s)\n", or(r.FearGreedCurrent, "N/A"), or(r.FearGreedClass, "N/A"))
	fmt.Fprintf(&sb, "🎯 Confluence: %s Bullish / %s Bearish\n", or(r.BullishFactors, "0"), or(r.BearishFactors, "0"))
	fmt.Fprintf(&sb, "💪 Confidence: %s/10\n", or(r.Confidence, "0"))

	if r.Entry != "" || r.StopLoss != "" || r.Target != "" {
		sb.WriteString("\n📊 *Key Levels:*\n")
		if r.Entry != "" {
			fmt.Fprintf(&sb, "🎯 Entry: $%s\n", r.Entry)
		}
		if r.StopLoss != "" {
			fmt.Fprintf(&sb, "🛑 Stop Loss: $%s\n", r.StopLoss)
		}
		if r.Target != "" {
			fmt.Fprintf(&sb, "🎁 Target: $%s\n", r.Target)
		}
	}

	if r.Reasoning != "" {
		fmt.Fprintf(&sb, "\n💭 *Analysis:*\n%s\n", r.Reasoning)
	}
	return sb.String()
}

// Money formats v with thousands separators and the given number of decimals.
func Money(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}

// Split breaks text into chunks of at most limit runes.
func Split(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := min(limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampFmt)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
