package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/report"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServerName    = "btc-signal-bot"
	ServerVersion = "1.0.0"
)

type MarketData interface {
	FearGreed(ctx context.Context) (*domain.FearGreed, error)
	BTCPrice(ctx context.Context) (*domain.PriceQuote, error)
}

type SnapshotReader interface {
	Latest(ctx context.Context, variant domain.Variant) (*domain.Snapshot, error)
}

// AnalyzerFactory returns the analyzer for a variant.
type AnalyzerFactory func(variant domain.Variant) (analysis.Analyzer, error)

type Deps struct {
	Market    MarketData
	Analyzers AnalyzerFactory
	Snapshots SnapshotReader
}

// agentCallBudget is the time allowed for one Foundry agent response.
const agentCallBudget = 3 * time.Minute

type Options struct {
	DefaultVariant domain.Variant
	// RequestTimeout bounds market lookups and local analyzers.
	RequestTimeout time.Duration
	// AgentTimeout bounds agent analysis, which may wait out 429 retries.
	AgentTimeout time.Duration
}

// AgentTimeout is the budget for three agent attempts separated by
// retryDelay.
func AgentTimeout(retryDelay time.Duration) time.Duration {
	return 3*agentCallBudget + 2*retryDelay
}

// Server exposes the market data and analyzers as MCP tools.
type Server struct {
	tracer trace.Tracer
	deps   Deps
	opts   Options
	mcp    *mcp.Server
}

type VariantInput struct {
	Variant string `json:"variant,omitempty" jsonschema:"bot variant: simple, hybrid or agent; defaults to the configured variant"`
}

type EmptyInput struct{}

func New(tracer trace.Tracer, deps Deps, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.AgentTimeout <= 0 {
		opts.AgentTimeout = AgentTimeout(60 * time.Second)
	}
	if opts.DefaultVariant == "" || !opts.DefaultVariant.Analyzes() {
		opts.DefaultVariant = domain.VariantSimple
	}

	s := &Server{tracer: tracer, deps: deps, opts: opts}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, &mcp.ServerOptions{
		Logger: slog.New(log.Default()),
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "btc_analysis",
		Description: "Run a Bitcoin signal analysis (Fear & Greed contrarian, multi-factor, or hosted agent) and return the recommendation with levels.",
	}, s.btcAnalysis)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "fear_greed",
		Description: "Current alternative.me Crypto Fear & Greed Index reading.",
	}, s.fearGreed)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "btc_price",
		Description: "Current BTC/USD spot price.",
	}, s.btcPrice)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "latest_signal",
		Description: "The signal most recently published by the monitoring loop.",
	}, s.latestSignal)

	return s
}

// MCP returns the underlying protocol server for a transport to run.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves the tools over stdio until ctx is done or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) btcAnalysis(ctx context.Context, req *mcp.CallToolRequest, in VariantInput) (*mcp.CallToolResult, any, error) {
	variant, err := s.variant(in.Variant)
	if err != nil {
		return nil, nil, err
	}

	ctx, span := s.tracer.Start(ctx, "mcp.btc_analysis")
	defer span.End()
	span.SetAttributes(attribute.String("variant", string(variant)))

	if s.deps.Analyzers == nil {
		return nil, nil, fmt.Errorf("analysis not configured")
	}
	analyzer, err := s.deps.Analyzers(variant)
	if err != nil {
		return nil, nil, err
	}

	timeout := s.opts.RequestTimeout
	if variant == domain.VariantAgent {
		timeout = s.opts.AgentTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := analyzer.Analyze(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, nil, fmt.Errorf("analyze %s: %w", variant, err)
	}
	return textResult(report.Format(result), result)
}

func (s *Server) fearGreed(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.fear_greed")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	fg, err := s.deps.Market.FearGreed(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Fear & Greed Index: %d (%s)", fg.Value, fg.Classification), fg)
}

func (s *Server) btcPrice(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.btc_price")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	quote, err := s.deps.Market.BTCPrice(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("BTC: $%s (%s)", report.Money(quote.PriceUSD, 2), quote.Source), quote)
}

func (s *Server) latestSignal(ctx context.Context, req *mcp.CallToolRequest, in VariantInput) (*mcp.CallToolResult, any, error) {
	variant, err := s.variant(in.Variant)
	if err != nil {
		return nil, nil, err
	}

	ctx, span := s.tracer.Start(ctx, "mcp.latest_signal")
	defer span.End()
	span.SetAttributes(attribute.String("variant", string(variant)))

	if s.deps.Snapshots == nil {
		return nil, nil, fmt.Errorf("snapshot store not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	snap, err := s.deps.Snapshots.Latest(ctx, variant)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	return textResult(snap.Message, snap)
}

func (s *Server) variant(raw string) (domain.Variant, error) {
	if raw == "" {
		return s.opts.DefaultVariant, nil
	}
	v, err := domain.ParseVariant(raw)
	if err != nil {
		return "", err
	}
	if !v.Analyzes() {
		return "", fmt.Errorf("variant %q does not produce signals", v)
	}
	return v, nil
}

// textResult returns a human summary followed by the JSON payload.
func textResult(summary string, payload any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary},
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
