package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"btc-signal-bot/internal/app"
	"btc-signal-bot/internal/cache"
	"btc-signal-bot/internal/config"
	"btc-signal-bot/internal/db"
	"btc-signal-bot/internal/logging"
	"btc-signal-bot/internal/mcpserver"
	"btc-signal-bot/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	setupLoggingFunc  = logging.Setup
	initPostgresFunc  = db.InitPostgres
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitTracer
	runStdioFunc      = func(ctx context.Context, s *mcpserver.Server) error { return s.Run(ctx) }
	startHTTPFunc     = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPFunc  = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	setupLoggingFunc(cfg.LogLevel, "mcp")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled,
		Endpoint:  cfg.OTLPEndpoint,
		Component: "mcp",
	})
	if err != nil {
		log.Fatal("failed to initialize tracer", "err", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down tracer provider", "err", err)
		}
	}()

	pool, err := initPostgresFunc(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn("postgres unavailable", "err", err)
	}
	redisClient, err := initRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable", "err", err)
	}

	components := app.Build(tracer, cfg, pool, redisClient)
	deps := mcpserver.Deps{
		Market:    components.Market,
		Analyzers: components.Analyzer,
	}
	if components.Snapshots != nil {
		deps.Snapshots = components.Snapshots
	}
	server := mcpserver.New(tracer, deps, mcpserver.Options{
		DefaultVariant: cfg.Variant,
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
		AgentTimeout:   mcpserver.AgentTimeout(time.Duration(cfg.AgentRetryDelaySecs) * time.Second),
	})

	switch cfg.MCPTransport {
	case "http":
		serveHTTP(ctx, cfg, server)
	default:
		log.Info("MCP server running on stdio")
		if err := runStdioFunc(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("MCP stdio session ended", "err", err)
		}
	}

	if pool != nil {
		pool.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info("MCP server exited")
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *mcpserver.Server) {
	if cfg.MCPAuthToken == "" {
		log.Fatal("MCP_AUTH_TOKEN is required for the http transport")
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.HTTPHandler(cfg.MCPAuthToken, cfg.MCPRateLimitPerMin))
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("MCP HTTP server listening", "addr", srv.Addr)
		if err := startHTTPFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("Shutting down MCP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	if err := shutdownHTTPFunc(srv, shutdownCtx); err != nil {
		log.Error("MCP server forced to shutdown", "err", err)
	}
}
