package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

const coinbaseBaseURL = "https://api.coinbase.com"

// CoinbaseProvider reads the BTC/USD rate from the public Coinbase exchange-rates endpoint.
type CoinbaseProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinbaseProvider creates a provider limited to 10 requests per second.
func NewCoinbaseProvider(tracer trace.Tracer) *CoinbaseProvider {
	return &CoinbaseProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: coinbaseBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter("coinbase", 10, 100*time.Millisecond),
	}
}

func (p *CoinbaseProvider) Name() string { return "coinbase" }

func (p *CoinbaseProvider) FetchSpot(ctx context.Context) (*domain.PriceQuote, error) {
	ctx, span := p.tracer.Start(ctx, "coinbase.fetch-spot")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := strings.TrimRight(p.baseURL, "/") + "/v2/exchange-rates?currency=BTC"
	body, err := fetchJSON(ctx, p.client, p.Name(), url)
	if err != nil {
		return nil, err
	}

	// {"data": {"currency": "BTC", "rates": {"USD": "97000.12", ...}}}
	rate := gjson.GetBytes(body, "data.rates.USD")
	if !rate.Exists() {
		return nil, fmt.Errorf("coinbase response has no USD rate")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(rate.String()))
	if err != nil {
		return nil, fmt.Errorf("parse coinbase USD rate: %w", err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("coinbase USD rate not positive: %s", rate.String())
	}

	return &domain.PriceQuote{
		Symbol:    "BTC",
		PriceUSD:  price.InexactFloat64(),
		Source:    p.Name(),
		FetchedAt: time.Now().UTC(),
	}, nil
}
