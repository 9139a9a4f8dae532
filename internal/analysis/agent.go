package analysis

import (
	"context"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AgentAnalyzer delegates the analysis to the hosted agent. Agent failures
// are returned as errors.
type AgentAnalyzer struct {
	tracer trace.Tracer
	agent  AgentAnalyst
	now    func() time.Time
}

func NewAgentAnalyzer(tracer trace.Tracer, agent AgentAnalyst) *AgentAnalyzer {
	return &AgentAnalyzer{tracer: tracer, agent: agent, now: nowUTC}
}

func (a *AgentAnalyzer) Variant() domain.Variant { return domain.VariantAgent }

func (a *AgentAnalyzer) Analyze(ctx context.Context) (*domain.Analysis, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.agent")
	defer span.End()

	report, err := a.agent.Analyze(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	recommendation := report.Recommendation
	if recommendation == "" {
		recommendation = domain.RecommendationHold
	}
	span.SetAttributes(attribute.String("recommendation", recommendation))

	return &domain.Analysis{
		Variant:        domain.VariantAgent,
		Recommendation: recommendation,
		Reasoning:      report.Reasoning,
		Agent:          report,
		Timestamp:      a.now(),
	}, nil
}
