package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 60 * time.Second
	defaultMaxHistory  = 20
)

var ErrEmptyReply = errors.New("agent returned an empty reply")

// ConversationStore persists and retrieves conversation messages.
type ConversationStore interface {
	AppendMessage(ctx context.Context, chatID int64, role, content string) error
	RecentMessages(ctx context.Context, chatID int64, limit int) ([]domain.ConversationMessage, error)
}

type Service struct {
	tracer      trace.Tracer
	llm         LLMClient
	convStore   ConversationStore
	model       string
	maxHistory  int
	maxAttempts int
	retryDelay  time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewService builds the agent service. convStore may be nil, in which case
// every question is sent without history.
func NewService(
	tracer trace.Tracer,
	llm LLMClient,
	convStore ConversationStore,
	model string,
	maxHistory int,
	retryDelay time.Duration,
) *Service {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Service{
		tracer:      tracer,
		llm:         llm,
		convStore:   convStore,
		model:       model,
		maxHistory:  maxHistory,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  retryDelay,
		sleep:       sleepContext,
	}
}

// Analyze sends the fixed analysis prompt and parses the verdict.
func (s *Service) Analyze(ctx context.Context) (*domain.AgentReport, error) {
	ctx, span := s.tracer.Start(ctx, "agent.analyze")
	defer span.End()

	input := responses.ResponseInputParam{
		responses.ResponseInputItemParamOfMessage(AnalysisPrompt(), responses.EasyInputMessageRoleUser),
	}
	reply, err := s.respond(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("agent analysis: %w", err)
	}

	report := ParseReport(reply)
	span.SetAttributes(
		attribute.String("agent.recommendation", report.Recommendation),
		attribute.Bool("agent.structured", report.Structured),
	)
	return report, nil
}

// Ask forwards a free-form user message to the agent.
func (s *Service) Ask(ctx context.Context, chatID int64, userMessage string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "agent.ask")
	defer span.End()
	span.SetAttributes(attribute.Int64("chat_id", chatID))

	msg := responses.ResponseInputItemParamOfMessage(userMessage, responses.EasyInputMessageRoleUser)
	reply, err := s.converse(ctx, chatID, msg, userMessage)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return reply, nil
}

// AskWithImage forwards a photo and its caption to the agent. The image is
// inlined as a base64 data URL.
func (s *Service) AskWithImage(ctx context.Context, chatID int64, caption, mimeType string, image []byte) (string, error) {
	ctx, span := s.tracer.Start(ctx, "agent.ask-with-image")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("chat_id", chatID),
		attribute.Int("image.bytes", len(image)),
	)

	if caption == "" {
		caption = "Analyze this image in the context of the Bitcoin market."
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	content := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: caption}},
		{OfInputImage: &responses.ResponseInputImageParam{
			ImageURL: openai.String(dataURL),
			Detail:   responses.ResponseInputImageDetailAuto,
		}},
	}
	msg := responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser)

	reply, err := s.converse(ctx, chatID, msg, "[image] "+caption)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return reply, nil
}

// converse prepends stored history to msg, calls the agent and records both
// sides of the exchange. Store failures are logged and never fatal.
func (s *Service) converse(
	ctx context.Context,
	chatID int64,
	msg responses.ResponseInputItemUnionParam,
	transcript string,
) (string, error) {
	var history []domain.ConversationMessage
	if s.convStore != nil {
		var err error
		history, err = s.convStore.RecentMessages(ctx, chatID, s.maxHistory)
		if err != nil {
			log.Warn("failed to load conversation history", "chat_id", chatID, "err", err)
			history = nil
		}
		if err := s.convStore.AppendMessage(ctx, chatID, "user", transcript); err != nil {
			log.Warn("failed to store user message", "chat_id", chatID, "err", err)
		}
	}

	input := append(buildHistory(history), msg)
	reply, err := s.respond(ctx, input)
	if err != nil {
		return "", fmt.Errorf("agent unavailable: %w", err)
	}

	if s.convStore != nil {
		if err := s.convStore.AppendMessage(ctx, chatID, "assistant", reply); err != nil {
			log.Warn("failed to store assistant reply", "chat_id", chatID, "err", err)
		}
	}
	return reply, nil
}

func buildHistory(history []domain.ConversationMessage) responses.ResponseInputParam {
	items := make(responses.ResponseInputParam, 0, len(history)+1)
	for _, msg := range history {
		switch msg.Role {
		case "user":
			items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleUser))
		case "assistant":
			items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleAssistant))
		}
	}
	return items
}

// respond calls the agent, retrying only on HTTP 429 with a fixed delay.
func (s *Service) respond(ctx context.Context, input responses.ResponseInputParam) (string, error) {
	ctx, span := s.tracer.Start(ctx, "agent.llm-call")
	defer span.End()
	span.SetAttributes(attribute.Int("llm.input_items", len(input)))

	params := responses.ResponseNewParams{
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: input},
	}
	if s.model != "" {
		params.Model = s.model
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		reply, err := s.llm.CreateResponse(ctx, params)
		if err == nil {
			if reply == "" {
				return "", ErrEmptyReply
			}
			span.SetAttributes(
				attribute.Int("llm.attempts", attempt),
				attribute.Int("llm.reply_length", len(reply)),
			)
			return reply, nil
		}
		lastErr = err
		if !IsRateLimited(err) || attempt == s.maxAttempts {
			break
		}
		log.Info("agent rate limited, waiting before retry", "delay", s.retryDelay, "attempt", attempt)
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return "", err
		}
	}
	span.RecordError(lastErr)
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
