package bot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/report"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

const maxPhotoBytes = 10 << 20

type Monitor interface {
	Start(ctx context.Context, chatID int64) bool
	Stop() bool
	Status() domain.MonitorStatus
	Interval() time.Duration
}

// Assistant forwards free-form questions to the hosted agent.
type Assistant interface {
	Ask(ctx context.Context, chatID int64, text string) (string, error)
	AskWithImage(ctx context.Context, chatID int64, caption, mimeType string, image []byte) (string, error)
}

type AlertHistory interface {
	RecentAlerts(ctx context.Context, variant domain.Variant, limit int) ([]domain.Alert, error)
}

type ConversationResetter interface {
	ClearConversation(ctx context.Context, chatID int64) (int64, error)
}

// FileFetcher downloads Telegram files. *tele.Bot satisfies it.
type FileFetcher interface {
	File(file *tele.File) (io.ReadCloser, error)
}

// Registrar is the routing part of *tele.Bot.
type Registrar interface {
	Use(middleware ...tele.MiddlewareFunc)
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

type Options struct {
	Variant       domain.Variant
	UserID        int64
	Analyzer      analysis.Analyzer
	Monitor       Monitor
	Assistant     Assistant
	Alerts        AlertHistory
	Conversations ConversationResetter
	Files         FileFetcher
}

// Handlers implements the bot commands for one variant.
type Handlers struct {
	ctx    context.Context
	tracer trace.Tracer
	opts   Options
}

// NewHandlers binds the command handlers to ctx, which outlives single
// updates and scopes the monitoring loop.
func NewHandlers(ctx context.Context, tracer trace.Tracer, opts Options) *Handlers {
	return &Handlers{ctx: ctx, tracer: tracer, opts: opts}
}

func (h *Handlers) Register(r Registrar) {
	r.Use(h.authorize)

	r.Handle("/start", h.handleStart)
	r.Handle("/analyze", h.handleAnalyze)
	r.Handle("/monitor", h.handleMonitor)
	r.Handle("/stop", h.handleStop)
	r.Handle("/status", h.handleStatus)
	r.Handle("/history", h.handleHistory)

	if h.opts.Variant.UsesAgent() {
		r.Handle("/reset", h.handleReset)
		r.Handle(tele.OnText, h.handleText)
		r.Handle(tele.OnPhoto, h.handlePhoto)
	}
}

func (h *Handlers) authorize(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || sender.ID != h.opts.UserID {
			id := int64(0)
			if sender != nil {
				id = sender.ID
			}
			log.Warn("rejected unauthorized user", "user_id", id)
			return c.Send(unauthorizedText)
		}
		return next(c)
	}
}

func (h *Handlers) handleStart(c tele.Context) error {
	return sendMarkdown(c, helpText(h.opts.Variant))
}

func (h *Handlers) handleAnalyze(c tele.Context) error {
	if !h.opts.Variant.Analyzes() || h.opts.Analyzer == nil {
		return c.Send(notAvailableText)
	}

	ctx, span := h.tracer.Start(h.ctx, "bot.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("variant", string(h.opts.Variant)))

	if err := c.Send(progressText(h.opts.Variant)); err != nil {
		return err
	}

	result, err := h.opts.Analyzer.Analyze(ctx)
	if err != nil {
		span.RecordError(err)
		log.Error("analysis failed", "variant", h.opts.Variant, "err", err)
		if h.opts.Variant == domain.VariantAgent {
			return c.Send(agentFailedText)
		}
		return c.Send("❌ Analysis failed: " + err.Error())
	}
	return sendMarkdown(c, report.Format(result))
}

func (h *Handlers) handleMonitor(c tele.Context) error {
	if !h.opts.Variant.Analyzes() || h.opts.Monitor == nil {
		return c.Send(notAvailableText)
	}
	if !h.opts.Monitor.Start(h.ctx, c.Chat().ID) {
		return c.Send("📡 Monitoring is already running. Use /stop first.")
	}
	return c.Send(monitorStartedText(h.opts.Variant, h.opts.Monitor.Interval()))
}

func (h *Handlers) handleStop(c tele.Context) error {
	if !h.opts.Variant.Analyzes() || h.opts.Monitor == nil {
		return c.Send(notAvailableText)
	}
	h.opts.Monitor.Stop()
	return c.Send(monitorStoppedText(h.opts.Variant))
}

func (h *Handlers) handleStatus(c tele.Context) error {
	if !h.opts.Variant.Analyzes() || h.opts.Monitor == nil {
		return c.Send(notAvailableText)
	}
	return sendMarkdown(c, statusText(h.opts.Monitor.Status()))
}

func (h *Handlers) handleHistory(c tele.Context) error {
	if !h.opts.Variant.Analyzes() {
		return c.Send(notAvailableText)
	}
	if h.opts.Alerts == nil {
		return c.Send(noHistoryStore)
	}

	ctx, span := h.tracer.Start(h.ctx, "bot.history")
	defer span.End()

	alerts, err := h.opts.Alerts.RecentAlerts(ctx, h.opts.Variant, historyLimit)
	if err != nil {
		span.RecordError(err)
		return c.Send("❌ Error: " + err.Error())
	}
	return sendMarkdown(c, historyText(alerts))
}

func (h *Handlers) handleReset(c tele.Context) error {
	if h.opts.Conversations == nil {
		return c.Send(noConversationTxt)
	}
	n, err := h.opts.Conversations.ClearConversation(h.ctx, c.Chat().ID)
	if err != nil {
		return c.Send("❌ Error: " + err.Error())
	}
	return c.Send(fmt.Sprintf("🧹 Conversation cleared (%d messages).", n))
}

func (h *Handlers) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, span := h.tracer.Start(h.ctx, "bot.ask")
	defer span.End()

	if err := c.Send(askProgressText); err != nil {
		return err
	}
	reply, err := h.opts.Assistant.Ask(ctx, c.Chat().ID, text)
	if err != nil {
		span.RecordError(err)
		log.Error("Error in message handler", "err", err)
		return c.Send("❌ Error: " + err.Error())
	}
	return sendChunks(c, reply)
}

func (h *Handlers) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	if h.opts.Files == nil {
		return c.Send("❌ Error: image download is not available")
	}

	ctx, span := h.tracer.Start(h.ctx, "bot.ask_image")
	defer span.End()

	rc, err := h.opts.Files.File(&msg.Photo.File)
	if err != nil {
		span.RecordError(err)
		return c.Send("❌ Error: " + err.Error())
	}
	defer rc.Close()

	image, err := io.ReadAll(io.LimitReader(rc, maxPhotoBytes+1))
	if err != nil {
		span.RecordError(err)
		return c.Send("❌ Error: " + err.Error())
	}
	if len(image) > maxPhotoBytes {
		log.Warn("photo exceeds size limit", "limit", maxPhotoBytes)
		return c.Send(photoTooLargeText)
	}
	span.SetAttributes(attribute.Int("image.bytes", len(image)))

	if err := c.Send(askProgressText); err != nil {
		return err
	}
	reply, err := h.opts.Assistant.AskWithImage(ctx, c.Chat().ID, msg.Caption, "image/jpeg", image)
	if err != nil {
		span.RecordError(err)
		log.Error("Error in photo handler", "err", err)
		return c.Send("❌ Error: " + err.Error())
	}
	return sendChunks(c, reply)
}

func sendMarkdown(c tele.Context, text string) error {
	if err := c.Send(text, tele.ModeMarkdown); err != nil {
		log.Warn("markdown reply failed, retrying as plain text", "err", err)
		return c.Send(text)
	}
	return nil
}

func sendChunks(c tele.Context, text string) error {
	for _, chunk := range report.Split(text, report.MaxMessageLength) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}
