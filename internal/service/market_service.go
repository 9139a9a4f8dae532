package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	priceCacheKey        = "price:BTC"
	priceCacheTTL        = 60 * time.Second
	fearGreedCacheKey    = "feargreed:latest"
	fearGreedDefaultTTL  = 5 * time.Minute
	fearGreedMaxCacheTTL = 10 * time.Minute
)

var ErrNoPriceSource = errors.New("no price source configured")

type FearGreedSource interface {
	FetchLatest(ctx context.Context) (*domain.FearGreed, error)
}

// PriceSource is one BTC spot price backend. Sources are tried in order.
type PriceSource interface {
	Name() string
	FetchSpot(ctx context.Context) (*domain.PriceQuote, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// MarketService orchestrates market data fetching and caching.
type MarketService struct {
	tracer    trace.Tracer
	fearGreed FearGreedSource
	prices    []PriceSource
	redis     RedisClient
}

func NewMarketService(
	tracer trace.Tracer,
	fearGreed FearGreedSource,
	redisClient RedisClient,
	prices ...PriceSource,
) *MarketService {
	return &MarketService{
		tracer:    tracer,
		fearGreed: fearGreed,
		prices:    prices,
		redis:     redisClient,
	}
}

// FearGreed returns the latest index reading, from cache when fresh.
func (s *MarketService) FearGreed(ctx context.Context) (*domain.FearGreed, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.fear-greed")
	defer span.End()

	if s.redis != nil {
		var cached domain.FearGreed
		hit, err := s.getCache(ctx, fearGreedCacheKey, &cached)
		if err != nil {
			log.Warn("redis cache read error", "key", fearGreedCacheKey, "err", err)
		}
		if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached, nil
		}
	}

	fg, err := s.fearGreed.FetchLatest(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.redis != nil {
		ttl := fearGreedDefaultTTL
		if fg.TimeUntilUpdateS > 0 {
			ttl = time.Duration(fg.TimeUntilUpdateS) * time.Second
			if ttl > fearGreedMaxCacheTTL {
				ttl = fearGreedMaxCacheTTL
			}
		}
		if err := s.setCache(ctx, fearGreedCacheKey, fg, ttl); err != nil {
			log.Warn("redis cache write error", "key", fearGreedCacheKey, "err", err)
		}
	}
	return fg, nil
}

// FearGreedOrNeutral never fails: when the index is unreachable a neutral
// reading of 50 is substituted so the analysis can still run.
func (s *MarketService) FearGreedOrNeutral(ctx context.Context) *domain.FearGreed {
	fg, err := s.FearGreed(ctx)
	if err != nil {
		log.Error("Error fetching Fear & Greed", "err", err)
		return domain.NeutralFearGreed()
	}
	return fg
}

// BTCPrice returns the BTC spot price from the first source that answers.
func (s *MarketService) BTCPrice(ctx context.Context) (*domain.PriceQuote, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.btc-price")
	defer span.End()

	if s.redis != nil {
		var cached domain.PriceQuote
		hit, err := s.getCache(ctx, priceCacheKey, &cached)
		if err != nil {
			log.Warn("redis cache read error", "key", priceCacheKey, "err", err)
		}
		if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached, nil
		}
	}

	if len(s.prices) == 0 {
		return nil, ErrNoPriceSource
	}

	var errs []error
	for _, src := range s.prices {
		quote, err := src.FetchSpot(ctx)
		if err != nil {
			log.Warn("price source failed", "source", src.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		span.SetAttributes(attribute.String("price.source", quote.Source))
		if s.redis != nil {
			if err := s.setCache(ctx, priceCacheKey, quote, priceCacheTTL); err != nil {
				log.Warn("redis cache write error", "key", priceCacheKey, "err", err)
			}
		}
		return quote, nil
	}

	err := fmt.Errorf("all price sources failed: %w", errors.Join(errs...))
	span.RecordError(err)
	return nil, err
}

func (s *MarketService) setCache(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

func (s *MarketService) getCache(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}
