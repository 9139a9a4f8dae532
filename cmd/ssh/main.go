package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"btc-signal-bot/internal/cache"
	"btc-signal-bot/internal/config"
	"btc-signal-bot/internal/logging"
	"btc-signal-bot/internal/tui"
	"btc-signal-bot/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	setupLoggingFunc  = logging.Setup
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitTracer
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	setupLoggingFunc(cfg.LogLevel, "ssh")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled,
		Endpoint:  cfg.OTLPEndpoint,
		Component: "ssh",
	})
	if err != nil {
		log.Fatal("failed to initialize tracer", "err", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("error shutting down tracer provider", "err", err)
		}
	}()

	redisClient, err := initRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, dashboard will show no signals", "err", err)
	}
	var snapshots tui.SnapshotSource
	if redisClient != nil {
		snapshots = cache.NewSnapshotStore(redisClient, tracer)
	}

	allowed := fingerprintSet(cfg.SSHAuthorizedFingerprints)
	if len(allowed) == 0 {
		log.Warn("SSH_AUTHORIZED_FINGERPRINTS is empty, every login will be rejected")
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint, ok := authorizeKey(allowed, key)
			if !ok {
				log.Warn("SSH auth denied", "user", ctx.User(), "fingerprint", fingerprint)
				return false
			}
			log.Info("SSH auth accepted", "user", ctx.User(), "fingerprint", fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewDashboardModel(snapshots, cfg.Variant, s.User())
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)
				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			activeterm.Middleware(),
			wishlogging.StructuredMiddlewareWithLogger(log.Default(), log.InfoLevel),
		),
	)
	if err != nil {
		log.Fatal("failed to create SSH server", "err", err)
	}

	if srv != nil {
		go func() {
			log.Info("SSH server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Info("SSH server stopped", "err", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("SSH server shutdown error", "err", err)
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("SSH server exited")
}

func fingerprintSet(fingerprints []string) map[string]bool {
	set := make(map[string]bool, len(fingerprints))
	for _, fp := range fingerprints {
		fp = strings.TrimSpace(fp)
		if fp == "" {
			continue
		}
		if !strings.HasPrefix(fp, "SHA256:") {
			fp = "SHA256:" + fp
		}
		set[fp] = true
	}
	return set
}

// authorizeKey returns the key's SHA256 fingerprint and whether it is on the
// allow-list.
func authorizeKey(allowed map[string]bool, key ssh.PublicKey) (string, bool) {
	fingerprint := gossh.FingerprintSHA256(key)
	return fingerprint, allowed[fingerprint]
}
