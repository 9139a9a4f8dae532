package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider is the second price source, used when Coinbase fails.
// The free tier allows roughly 8 calls per minute.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter("coingecko", 8, 7500*time.Millisecond),
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

func (p *CoinGeckoProvider) FetchSpot(ctx context.Context) (*domain.PriceQuote, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-spot")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := strings.TrimRight(p.baseURL, "/") + "/simple/price?ids=bitcoin&vs_currencies=usd"
	body, err := fetchJSON(ctx, p.client, p.Name(), url)
	if err != nil {
		return nil, err
	}

	// {"bitcoin": {"usd": 97000}}
	price := gjson.GetBytes(body, "bitcoin.usd").Float()
	if price <= 0 {
		return nil, fmt.Errorf("coingecko response has no bitcoin USD price")
	}

	return &domain.PriceQuote{
		Symbol:    "BTC",
		PriceUSD:  price,
		Source:    p.Name(),
		FetchedAt: time.Now().UTC(),
	}, nil
}
