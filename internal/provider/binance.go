package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

const binanceSymbol = "BTCUSDT"

// BinanceProvider reads the public BTCUSDT spot ticker. USDT is treated as USD.
type BinanceProvider struct {
	client *binance.Client
	tracer trace.Tracer
}

func NewBinanceProvider(tracer trace.Tracer) *BinanceProvider {
	// Public market data needs no credentials.
	client := binance.NewClient("", "")
	client.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	return &BinanceProvider{client: client, tracer: tracer}
}

func (p *BinanceProvider) Name() string { return "binance" }

func (p *BinanceProvider) FetchSpot(ctx context.Context) (*domain.PriceQuote, error) {
	ctx, span := p.tracer.Start(ctx, "binance.fetch-spot")
	defer span.End()

	prices, err := p.client.NewListPricesService().Symbol(binanceSymbol).Do(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("binance ticker: %w", err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("binance ticker returned no prices for %s", binanceSymbol)
	}
	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return nil, fmt.Errorf("parse binance price: %w", err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("binance price not positive: %s", prices[0].Price)
	}

	return &domain.PriceQuote{
		Symbol:    "BTC",
		PriceUSD:  price.InexactFloat64(),
		Source:    p.Name(),
		FetchedAt: time.Now().UTC(),
	}, nil
}
