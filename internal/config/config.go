package config

import (
	"os"
	"strconv"
	"strings"

	"btc-signal-bot/internal/domain"

	"github.com/charmbracelet/log"
)

type Config struct {
	TelegramBotToken  string
	TelegramUserID    int64
	Variant           domain.Variant
	CheckIntervalSecs int

	FoundryEndpoint     string
	FoundryAPIKey       string
	FoundryAgentName    string
	FoundryAPIVersion   string
	AgentModel          string
	AgentRetryDelaySecs int
	AgentMaxHistory     int

	DatabaseURL string
	RedisURL    string

	HTTPPort int
	APIKey   string

	SentryDSN         string
	SentryEnvironment string
	LogLevel          string

	SSHPort                   int
	SSHHostKeyPath            string
	SSHAuthorizedFingerprints []string

	MCPTransport          string
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int

	TracingEnabled bool
	OTLPEndpoint   string
}

// AgentConfigured reports whether the Foundry agent can be reached.
func (c *Config) AgentConfigured() bool {
	return c.FoundryEndpoint != "" && c.FoundryAPIKey != ""
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		FoundryEndpoint:  strings.TrimSpace(os.Getenv("FOUNDRY_ENDPOINT")),
		FoundryAPIKey:    os.Getenv("FOUNDRY_API_KEY"),
		AgentModel:       strings.TrimSpace(os.Getenv("AGENT_MODEL")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set")
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_USER_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramUserID = n
		} else {
			log.Warn("invalid TELEGRAM_USER_ID, every sender will be rejected", "value", v)
		}
	} else {
		log.Warn("TELEGRAM_USER_ID not set, every sender will be rejected")
	}

	cfg.Variant = domain.VariantSimple
	if v := os.Getenv("BOT_VARIANT"); v != "" {
		if parsed, err := domain.ParseVariant(v); err == nil {
			cfg.Variant = parsed
		} else {
			log.Warn("unsupported BOT_VARIANT, defaulting to simple", "value", v)
		}
	}

	cfg.CheckIntervalSecs = positiveInt("CHECK_INTERVAL", 300)

	cfg.FoundryAgentName = stringOr("FOUNDRY_AGENT_NAME", "FinanceCompanion")
	cfg.FoundryAPIVersion = stringOr("FOUNDRY_API_VERSION", "2025-11-15-preview")
	cfg.AgentRetryDelaySecs = positiveInt("AGENT_RETRY_DELAY_SECS", 60)
	cfg.AgentMaxHistory = positiveInt("AGENT_MAX_HISTORY", 20)

	if cfg.Variant.UsesAgent() && !cfg.AgentConfigured() {
		log.Warn("FOUNDRY_ENDPOINT or FOUNDRY_API_KEY not set, falling back to simple variant", "variant", cfg.Variant)
		cfg.Variant = domain.VariantSimple
	}

	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, caching and snapshots disabled")
	}

	cfg.HTTPPort = positiveInt("HTTP_PORT", 8080)
	if cfg.APIKey == "" {
		log.Warn("API_KEY not set, monitor control endpoints are unauthenticated")
	}

	cfg.SentryEnvironment = stringOr("SENTRY_ENVIRONMENT", "development")
	cfg.LogLevel = strings.ToLower(stringOr("LOG_LEVEL", "info"))

	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = stringOr("SSH_HOST_KEY_PATH", ".ssh/id_ed25519")
	for _, fp := range strings.Split(os.Getenv("SSH_AUTHORIZED_FINGERPRINTS"), ",") {
		if fp = strings.TrimSpace(fp); fp != "" {
			cfg.SSHAuthorizedFingerprints = append(cfg.SSHAuthorizedFingerprints, fp)
		}
	}

	cfg.MCPTransport = strings.ToLower(stringOr("MCP_TRANSPORT", "stdio"))
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn("unsupported MCP_TRANSPORT, defaulting to stdio", "value", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}
	cfg.MCPHTTPBind = stringOr("MCP_HTTP_BIND", "127.0.0.1")
	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 5)
	cfg.MCPRateLimitPerMin = positiveInt("MCP_RATE_LIMIT_PER_MIN", 60)

	cfg.TracingEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "false")

	return cfg
}

// positiveInt reads key as a positive integer; unset or invalid values yield def.
func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn("ignoring invalid value", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func stringOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
