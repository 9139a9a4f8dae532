package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"testing"
	"time"

	"btc-signal-bot/internal/config"
	"btc-signal-bot/pkg/tracing"

	"github.com/charmbracelet/ssh"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubSSHDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func TestFingerprintSet(t *testing.T) {
	set := fingerprintSet([]string{" SHA256:abc ", "def", ""})
	if len(set) != 2 || !set["SHA256:abc"] || !set["SHA256:def"] {
		t.Fatalf("unexpected set: %+v", set)
	}
}

func TestAuthorizeKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	key, err := gossh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	fingerprint := gossh.FingerprintSHA256(key)

	if _, ok := authorizeKey(fingerprintSet([]string{"SHA256:other"}), key); ok {
		t.Fatal("unknown key should be rejected")
	}
	got, ok := authorizeKey(fingerprintSet([]string{fingerprint}), key)
	if !ok || got != fingerprint {
		t.Fatalf("expected %s to be accepted, got %s %v", fingerprint, got, ok)
	}
}

func stubSSHDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origSetupLogging := setupLoggingFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			Variant:        "simple",
			SSHPort:        2222,
			SSHHostKeyPath: ".ssh/test_key",
		}
	}
	setupLoggingFunc = func(string, string) {}
	initRedisFunc = func(context.Context, string) (*redis.Client, error) { return nil, nil }
	initTracerFunc = func(context.Context, tracing.Options) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		setupLoggingFunc = origSetupLogging
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	}
}
