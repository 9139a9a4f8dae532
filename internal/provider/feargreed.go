package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const fearGreedBaseURL = "https://api.alternative.me"

// FearGreedProvider reads the alternative.me Fear & Greed Index.
type FearGreedProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewFearGreedProvider(tracer trace.Tracer) *FearGreedProvider {
	return &FearGreedProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: fearGreedBaseURL,
		tracer:  tracer,
	}
}

// FetchLatest returns today's reading. The API encodes every field as a string.
func (p *FearGreedProvider) FetchLatest(ctx context.Context) (*domain.FearGreed, error) {
	ctx, span := p.tracer.Start(ctx, "feargreed.fetch-latest")
	defer span.End()

	body, err := fetchJSON(ctx, p.client, "fear & greed", strings.TrimRight(p.baseURL, "/")+"/fng/?limit=1")
	if err != nil {
		return nil, err
	}

	row := gjson.GetBytes(body, "data.0")
	if !row.Exists() {
		return nil, fmt.Errorf("fear & greed response has no rows")
	}

	value, err := strconv.Atoi(strings.TrimSpace(row.Get("value").String()))
	if err != nil {
		return nil, fmt.Errorf("parse fear & greed value: %w", err)
	}
	if value < 0 || value > 100 {
		return nil, fmt.Errorf("fear & greed value out of range: %d", value)
	}

	ts, err := unixTime(row.Get("timestamp").String())
	if err != nil {
		return nil, fmt.Errorf("parse fear & greed timestamp: %w", err)
	}

	fg := &domain.FearGreed{
		Value:          value,
		Classification: row.Get("value_classification").String(),
		Timestamp:      ts,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(row.Get("time_until_update").String())); err == nil && n >= 0 {
		fg.TimeUntilUpdateS = n
	}

	span.SetAttributes(
		attribute.Int("feargreed.value", value),
		attribute.String("feargreed.classification", fg.Classification),
	)
	return fg, nil
}

// unixTime parses a seconds or milliseconds epoch. Empty means now.
func unixTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if n > 1_000_000_000_000 {
		n /= 1000
	}
	return time.Unix(n, 0).UTC(), nil
}
