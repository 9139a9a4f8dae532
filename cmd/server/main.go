package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/app"
	"btc-signal-bot/internal/bot"
	"btc-signal-bot/internal/cache"
	"btc-signal-bot/internal/config"
	"btc-signal-bot/internal/db"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/errtrack"
	"btc-signal-bot/internal/handler"
	"btc-signal-bot/internal/job"
	"btc-signal-bot/internal/logging"
	"btc-signal-bot/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "btc-signal-bot/docs"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	setupLoggingFunc     = logging.Setup
	initErrtrackFunc     = errtrack.Init
	initPostgresFunc     = db.InitPostgres
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	runMigrationsFunc    = runMigrations
	newTelegramBotFunc   = bot.NewTelegramBot
	startTelegramBotFunc = func(ctx context.Context, b bot.Poller, n *bot.Notifier, chatID int64, startup string) {
		go bot.StartTelegramBot(ctx, b, n, chatID, startup)
	}
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           BTC Signal Bot API
// @version         1.0
// @description     Bitcoin signal analysis, monitoring and alert history.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()
	setupLoggingFunc(cfg.LogLevel, "bot")
	initErrtrackFunc(errtrack.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     tracing.ServiceName + "@1.0.0",
	})
	defer errtrack.Flush()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled,
		Endpoint:  cfg.OTLPEndpoint,
		Component: "bot",
	})
	if err != nil {
		log.Fatal("failed to initialize tracer", "err", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down tracer provider", "err", err)
		}
	}()

	// Postgres and Redis are optional; failures degrade features instead of exiting.
	pool, err := initPostgresFunc(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn("postgres unavailable, alert history disabled", "err", err)
		errtrack.CaptureMessage("postgres unavailable: "+err.Error(), sentry.LevelWarning, map[string]string{"component": "postgres"})
	}
	if pool != nil {
		if err := runMigrationsFunc(ctx, pool); err != nil {
			log.Fatal("failed to run migrations", "err", err)
		}
	}
	redisClient, err := initRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, caching disabled", "err", err)
		errtrack.CaptureMessage("redis unavailable: "+err.Error(), sentry.LevelWarning, map[string]string{"component": "redis"})
	}

	components := app.Build(tracer, cfg, pool, redisClient)
	variant := cfg.Variant
	log.Info("Starting BTC signal bot", "variant", variant)

	var analyzer analysis.Analyzer
	if variant.Analyzes() {
		analyzer, err = components.Analyzer(variant)
		if err != nil {
			log.Fatal("failed to build analyzer", "variant", variant, "err", err)
		}
	}

	b, err := newTelegramBotFunc(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal("failed to create Telegram bot", "err", err)
	}

	var monitor *job.SignalMonitor
	if b != nil {
		notifier := bot.NewNotifier(b)
		if analyzer != nil {
			opts := job.MonitorOptions{Report: errtrack.CaptureError}
			if components.Alerts != nil {
				opts.Alerts = components.Alerts
			}
			if components.Snapshots != nil {
				opts.Snapshots = components.Snapshots
			}
			monitor = job.NewSignalMonitor(tracer, analyzer, notifier, cfg.CheckIntervalSecs, opts)
		}

		botOpts := bot.Options{
			Variant:  variant,
			UserID:   cfg.TelegramUserID,
			Analyzer: analyzer,
			Files:    b,
		}
		if monitor != nil {
			botOpts.Monitor = monitor
		}
		if components.Agent != nil {
			botOpts.Assistant = components.Agent
		}
		if components.Alerts != nil {
			botOpts.Alerts = components.Alerts
		}
		if components.Conversations != nil {
			botOpts.Conversations = components.Conversations
		}
		bot.NewHandlers(ctx, tracer, botOpts).Register(b)
		startTelegramBotFunc(ctx, b, notifier, cfg.TelegramUserID, bot.StartupText(variant))
	} else {
		log.Warn("Telegram bot disabled, serving HTTP API only")
	}

	h := newHTTPHandler(ctx, components, variant, analyzer, monitor, cfg.TelegramUserID)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP API listening", "addr", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("Shutting down server...")

	if monitor != nil {
		monitor.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "err", err)
	}
	if pool != nil {
		pool.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exiting")
}

func newHTTPHandler(
	ctx context.Context,
	components *app.Components,
	variant domain.Variant,
	analyzer analysis.Analyzer,
	monitor *job.SignalMonitor,
	chatID int64,
) *handler.Handler {
	h := handler.New(components.Tracer(), variant, components.Market)
	if analyzer != nil {
		h.SetAnalyzer(analyzer)
	}
	if monitor != nil {
		h.SetMonitor(ctx, monitor, chatID)
	}
	if components.Alerts != nil {
		h.SetAlertHistory(components.Alerts)
	}
	if components.Snapshots != nil {
		h.SetSnapshots(components.Snapshots)
	}
	return h
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations, err := db.LoadMigrations(db.MigrationsFS)
	if err != nil {
		return err
	}
	applied, err := db.NewMigrator(pool, migrations).Up(ctx)
	if err != nil {
		return err
	}
	if applied > 0 {
		log.Info("Applied migrations", "count", applied)
	}
	return nil
}
