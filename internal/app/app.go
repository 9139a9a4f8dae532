// Package app assembles the services shared by the bot, MCP and CLI
// entrypoints.
package app

import (
	"time"

	"btc-signal-bot/internal/agent"
	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/cache"
	"btc-signal-bot/internal/config"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/provider"
	"btc-signal-bot/internal/repository"
	"btc-signal-bot/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var newFoundryClient = agent.NewFoundryClient

// Components holds the wired services. Optional parts are nil when their
// backing store or credentials are missing.
type Components struct {
	tracer trace.Tracer

	Market        *service.MarketService
	Macro         *provider.MacroProvider
	Agent         *agent.Service
	Alerts        *repository.AlertRepository
	Conversations *repository.ConversationRepository
	Snapshots     *cache.SnapshotStore
}

func Build(tracer trace.Tracer, cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client) *Components {
	c := &Components{
		tracer: tracer,
		Macro:  provider.NewMacroProvider(tracer),
	}

	var rc service.RedisClient
	if redisClient != nil {
		rc = redisClient
		c.Snapshots = cache.NewSnapshotStore(redisClient, tracer)
	}
	c.Market = service.NewMarketService(tracer,
		provider.NewFearGreedProvider(tracer),
		rc,
		provider.NewCoinbaseProvider(tracer),
		provider.NewCoinGeckoProvider(tracer),
		provider.NewBinanceProvider(tracer),
	)

	if pool != nil {
		c.Alerts = repository.NewAlertRepository(pool, tracer)
		c.Conversations = repository.NewConversationRepository(pool, tracer)
	}

	if cfg.AgentConfigured() {
		var store agent.ConversationStore
		if c.Conversations != nil {
			store = c.Conversations
		}
		llm := newFoundryClient(agent.FoundryConfig{
			Endpoint:   cfg.FoundryEndpoint,
			APIKey:     cfg.FoundryAPIKey,
			AgentName:  cfg.FoundryAgentName,
			APIVersion: cfg.FoundryAPIVersion,
		})
		c.Agent = agent.NewService(tracer, llm, store, cfg.AgentModel, cfg.AgentMaxHistory,
			time.Duration(cfg.AgentRetryDelaySecs)*time.Second)
	}
	return c
}

func (c *Components) Tracer() trace.Tracer { return c.tracer }

// Analyzer returns the analyzer for variant.
func (c *Components) Analyzer(variant domain.Variant) (analysis.Analyzer, error) {
	deps := analysis.Deps{Market: c.Market, Macro: c.Macro}
	if c.Agent != nil {
		deps.Agent = c.Agent
	}
	return analysis.New(c.tracer, variant, deps)
}
