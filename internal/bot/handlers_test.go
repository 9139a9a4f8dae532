package bot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

const ownerID = int64(1001)

func TestAuthorizeRejectsOtherUsers(t *testing.T) {
	h := newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID})
	c := newFakeContext(2002, "/start")

	called := false
	handler := h.authorize(func(tele.Context) error {
		called = true
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if called {
		t.Fatal("next handler should not run for unauthorized user")
	}
	if c.last() != unauthorizedText {
		t.Fatalf("unexpected reply %q", c.last())
	}
}

func TestRegisterRoutesPerVariant(t *testing.T) {
	r := &fakeRegistrar{}
	newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID}).Register(r)
	if r.has(tele.OnText) || r.has("/reset") {
		t.Fatal("simple variant should not forward text")
	}
	if !r.has("/analyze") || r.middlewares != 1 {
		t.Fatalf("unexpected routes: %+v", r.endpoints)
	}

	r = &fakeRegistrar{}
	newTestHandlers(Options{Variant: domain.VariantChat, UserID: ownerID}).Register(r)
	if !r.has(tele.OnText) || !r.has(tele.OnPhoto) || !r.has("/reset") {
		t.Fatalf("chat variant should forward text and photos: %+v", r.endpoints)
	}
}

func TestHandleStartUsesVariantHelp(t *testing.T) {
	h := newTestHandlers(Options{Variant: domain.VariantHybrid, UserID: ownerID})
	c := newFakeContext(ownerID, "/start")

	if err := h.handleStart(c); err != nil {
		t.Fatalf("handleStart: %v", err)
	}
	if !strings.Contains(c.last(), "Enhanced Bitcoin Trading Bot") {
		t.Fatalf("unexpected help: %q", c.last())
	}
}

func TestHandleAnalyzeSendsProgressThenReport(t *testing.T) {
	analyzer := &stubAnalyzer{variant: domain.VariantSimple, result: &domain.Analysis{
		Variant:        domain.VariantSimple,
		Recommendation: "BUY",
		Emoji:          "📈",
		FearGreed:      &domain.FearGreed{Value: 40, Classification: "Fear"},
		Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	h := newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID, Analyzer: analyzer})
	c := newFakeContext(ownerID, "/analyze")

	if err := h.handleAnalyze(c); err != nil {
		t.Fatalf("handleAnalyze: %v", err)
	}
	if len(c.sent) != 2 {
		t.Fatalf("expected progress and report, got %d messages", len(c.sent))
	}
	if c.sent[0].text != "🔍 Analyzing Bitcoin..." {
		t.Fatalf("unexpected progress %q", c.sent[0].text)
	}
	if !c.sent[1].markdown || !strings.Contains(c.sent[1].text, "BUY") {
		t.Fatalf("unexpected report: %+v", c.sent[1])
	}
}

func TestHandleAnalyzeFallsBackToPlainText(t *testing.T) {
	analyzer := &stubAnalyzer{variant: domain.VariantSimple, result: &domain.Analysis{
		Variant:        domain.VariantSimple,
		Recommendation: "HOLD",
		FearGreed:      &domain.FearGreed{Value: 50, Classification: "Neutral"},
	}}
	h := newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID, Analyzer: analyzer})
	c := newFakeContext(ownerID, "/analyze")
	c.failMarkdown = true

	if err := h.handleAnalyze(c); err != nil {
		t.Fatalf("handleAnalyze: %v", err)
	}
	if got := c.sent[len(c.sent)-1]; got.markdown {
		t.Fatal("expected plain text retry")
	}
}

func TestHandleAnalyzeAgentFailure(t *testing.T) {
	analyzer := &stubAnalyzer{variant: domain.VariantAgent, err: errors.New("429")}
	h := newTestHandlers(Options{Variant: domain.VariantAgent, UserID: ownerID, Analyzer: analyzer})
	c := newFakeContext(ownerID, "/analyze")

	if err := h.handleAnalyze(c); err != nil {
		t.Fatalf("handleAnalyze: %v", err)
	}
	if c.last() != agentFailedText {
		t.Fatalf("unexpected reply %q", c.last())
	}
}

func TestChatVariantRejectsAnalysisCommands(t *testing.T) {
	h := newTestHandlers(Options{Variant: domain.VariantChat, UserID: ownerID})
	for _, fn := range []tele.HandlerFunc{h.handleAnalyze, h.handleMonitor, h.handleStop, h.handleStatus, h.handleHistory} {
		c := newFakeContext(ownerID, "/analyze")
		if err := fn(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if c.last() != notAvailableText {
			t.Fatalf("unexpected reply %q", c.last())
		}
	}
}

func TestHandleMonitorIsIdempotent(t *testing.T) {
	monitor := &stubMonitor{interval: 5 * time.Minute}
	h := newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID, Monitor: monitor})

	c := newFakeContext(ownerID, "/monitor")
	if err := h.handleMonitor(c); err != nil {
		t.Fatalf("handleMonitor: %v", err)
	}
	if c.last() != "📡 Monitoring started! Checking every 5 minutes for signal changes." {
		t.Fatalf("unexpected reply %q", c.last())
	}
	if monitor.chatID != ownerID {
		t.Fatalf("expected monitor bound to chat %d, got %d", ownerID, monitor.chatID)
	}

	c = newFakeContext(ownerID, "/monitor")
	if err := h.handleMonitor(c); err != nil {
		t.Fatalf("handleMonitor: %v", err)
	}
	if !strings.Contains(c.last(), "already running") {
		t.Fatalf("unexpected reply %q", c.last())
	}

	c = newFakeContext(ownerID, "/stop")
	if err := h.handleStop(c); err != nil {
		t.Fatalf("handleStop: %v", err)
	}
	if monitor.running || c.last() != "🛑 Monitoring stopped" {
		t.Fatalf("expected stopped monitor, reply %q", c.last())
	}
}

func TestHandleStatus(t *testing.T) {
	monitor := &stubMonitor{interval: 5 * time.Minute, status: domain.MonitorStatus{
		Running:            true,
		Variant:            domain.VariantHybrid,
		Interval:           5 * time.Minute,
		LastCheck:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		LastRecommendation: "BUY",
	}}
	h := newTestHandlers(Options{Variant: domain.VariantHybrid, UserID: ownerID, Monitor: monitor})
	c := newFakeContext(ownerID, "/status")

	if err := h.handleStatus(c); err != nil {
		t.Fatalf("handleStatus: %v", err)
	}
	want := "🤖 *Enhanced Bot Status*\nMonitoring: 🟢 Active\nCheck interval: 5 minutes\nLast check: 03:04:05 UTC\nLast signal: BUY"
	if c.last() != want {
		t.Fatalf("unexpected status:\n%s", c.last())
	}
}

func TestHandleHistory(t *testing.T) {
	alerts := &stubAlerts{alerts: []domain.Alert{
		{Recommendation: "BUY", CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)},
	}}
	h := newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID, Alerts: alerts})
	c := newFakeContext(ownerID, "/history")

	if err := h.handleHistory(c); err != nil {
		t.Fatalf("handleHistory: %v", err)
	}
	if !strings.Contains(c.last(), "2026-01-02 03:04 UTC  BUY") {
		t.Fatalf("unexpected history %q", c.last())
	}
	if alerts.variant != domain.VariantSimple || alerts.limit != historyLimit {
		t.Fatalf("unexpected query %s/%d", alerts.variant, alerts.limit)
	}

	h = newTestHandlers(Options{Variant: domain.VariantSimple, UserID: ownerID})
	c = newFakeContext(ownerID, "/history")
	if err := h.handleHistory(c); err != nil {
		t.Fatalf("handleHistory: %v", err)
	}
	if c.last() != noHistoryStore {
		t.Fatalf("unexpected reply %q", c.last())
	}
}

func TestHandleTextForwardsToAssistant(t *testing.T) {
	assistant := &stubAssistant{reply: strings.Repeat("x", 4500)}
	h := newTestHandlers(Options{Variant: domain.VariantChat, UserID: ownerID, Assistant: assistant})
	c := newFakeContext(ownerID, "should I buy?")

	if err := h.handleText(c); err != nil {
		t.Fatalf("handleText: %v", err)
	}
	if assistant.question != "should I buy?" || assistant.chatID != ownerID {
		t.Fatalf("unexpected forward: %+v", assistant)
	}
	if len(c.sent) != 3 || c.sent[0].text != askProgressText {
		t.Fatalf("expected progress plus 2 chunks, got %d", len(c.sent))
	}
}

func TestHandleTextIgnoresCommands(t *testing.T) {
	assistant := &stubAssistant{}
	h := newTestHandlers(Options{Variant: domain.VariantChat, UserID: ownerID, Assistant: assistant})
	c := newFakeContext(ownerID, "/unknown")

	if err := h.handleText(c); err != nil {
		t.Fatalf("handleText: %v", err)
	}
	if len(c.sent) != 0 || assistant.question != "" {
		t.Fatal("commands should not be forwarded")
	}
}

func TestHandleTextReportsError(t *testing.T) {
	assistant := &stubAssistant{err: errors.New("agent down")}
	h := newTestHandlers(Options{Variant: domain.VariantAgent, UserID: ownerID, Assistant: assistant})
	c := newFakeContext(ownerID, "hello")

	if err := h.handleText(c); err != nil {
		t.Fatalf("handleText: %v", err)
	}
	if c.last() != "❌ Error: agent down" {
		t.Fatalf("unexpected reply %q", c.last())
	}
}

func TestHandlePhotoForwardsImage(t *testing.T) {
	assistant := &stubAssistant{reply: "looks bullish"}
	files := &stubFiles{data: []byte{0xff, 0xd8, 0xff}}
	h := newTestHandlers(Options{Variant: domain.VariantAgent, UserID: ownerID, Assistant: assistant, Files: files})
	c := newFakeContext(ownerID, "")
	c.msg.Photo = &tele.Photo{File: tele.File{FileID: "abc"}}
	c.msg.Caption = "what about this chart?"

	if err := h.handlePhoto(c); err != nil {
		t.Fatalf("handlePhoto: %v", err)
	}
	if files.fileID != "abc" {
		t.Fatalf("expected file abc, got %q", files.fileID)
	}
	if !bytes.Equal(assistant.image, files.data) || assistant.mimeType != "image/jpeg" {
		t.Fatalf("unexpected image forward: %+v", assistant)
	}
	if assistant.question != "what about this chart?" || c.last() != "looks bullish" {
		t.Fatalf("unexpected reply %q", c.last())
	}
}

func TestHandlePhotoRejectsOversizedImage(t *testing.T) {
	assistant := &stubAssistant{reply: "looks bullish"}
	files := &stubFiles{data: make([]byte, maxPhotoBytes+1)}
	h := newTestHandlers(Options{Variant: domain.VariantChat, UserID: ownerID, Assistant: assistant, Files: files})
	c := newFakeContext(ownerID, "")
	c.msg.Photo = &tele.Photo{File: tele.File{FileID: "big"}}

	if err := h.handlePhoto(c); err != nil {
		t.Fatalf("handlePhoto: %v", err)
	}
	if c.last() != photoTooLargeText {
		t.Fatalf("unexpected reply %q", c.last())
	}
	if assistant.image != nil {
		t.Fatalf("oversized image reached the assistant: %d bytes", len(assistant.image))
	}
}

func TestHandleResetClearsConversation(t *testing.T) {
	conv := &stubConversations{cleared: 4}
	h := newTestHandlers(Options{Variant: domain.VariantChat, UserID: ownerID, Conversations: conv})
	c := newFakeContext(ownerID, "/reset")

	if err := h.handleReset(c); err != nil {
		t.Fatalf("handleReset: %v", err)
	}
	if conv.chatID != ownerID || c.last() != "🧹 Conversation cleared (4 messages)." {
		t.Fatalf("unexpected reset: chat %d reply %q", conv.chatID, c.last())
	}
}

func newTestHandlers(opts Options) *Handlers {
	return NewHandlers(context.Background(), trace.NewNoopTracerProvider().Tracer("test"), opts)
}

type fakeContext struct {
	tele.Context
	sender       *tele.User
	chat         *tele.Chat
	msg          *tele.Message
	sent         []sentMessage
	failMarkdown bool
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: userID},
		msg:    &tele.Message{Text: text},
	}
}

func (c *fakeContext) Sender() *tele.User { return c.sender }

func (c *fakeContext) Chat() *tele.Chat { return c.chat }

func (c *fakeContext) Message() *tele.Message { return c.msg }

func (c *fakeContext) Text() string { return c.msg.Text }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	markdown := hasMarkdown(opts)
	c.sent = append(c.sent, sentMessage{to: c.chat, text: what.(string), markdown: markdown})
	if markdown && c.failMarkdown {
		return errors.New("can't parse entities")
	}
	return nil
}

func (c *fakeContext) last() string {
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1].text
}

type fakeRegistrar struct {
	endpoints   []interface{}
	middlewares int
}

func (r *fakeRegistrar) Use(m ...tele.MiddlewareFunc) { r.middlewares += len(m) }

func (r *fakeRegistrar) Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc) {
	r.endpoints = append(r.endpoints, endpoint)
}

func (r *fakeRegistrar) has(endpoint string) bool {
	for _, e := range r.endpoints {
		if e == endpoint {
			return true
		}
	}
	return false
}

type stubAnalyzer struct {
	variant domain.Variant
	result  *domain.Analysis
	err     error
}

func (s *stubAnalyzer) Variant() domain.Variant { return s.variant }

func (s *stubAnalyzer) Analyze(ctx context.Context) (*domain.Analysis, error) {
	return s.result, s.err
}

type stubMonitor struct {
	running  bool
	chatID   int64
	interval time.Duration
	status   domain.MonitorStatus
}

func (s *stubMonitor) Start(ctx context.Context, chatID int64) bool {
	if s.running {
		return false
	}
	s.running = true
	s.chatID = chatID
	return true
}

func (s *stubMonitor) Stop() bool {
	was := s.running
	s.running = false
	return was
}

func (s *stubMonitor) Status() domain.MonitorStatus { return s.status }

func (s *stubMonitor) Interval() time.Duration { return s.interval }

type stubAssistant struct {
	reply    string
	err      error
	chatID   int64
	question string
	mimeType string
	image    []byte
}

func (s *stubAssistant) Ask(ctx context.Context, chatID int64, text string) (string, error) {
	s.chatID = chatID
	s.question = text
	return s.reply, s.err
}

func (s *stubAssistant) AskWithImage(ctx context.Context, chatID int64, caption, mimeType string, image []byte) (string, error) {
	s.chatID = chatID
	s.question = caption
	s.mimeType = mimeType
	s.image = image
	return s.reply, s.err
}

type stubAlerts struct {
	alerts  []domain.Alert
	variant domain.Variant
	limit   int
}

func (s *stubAlerts) RecentAlerts(ctx context.Context, variant domain.Variant, limit int) ([]domain.Alert, error) {
	s.variant = variant
	s.limit = limit
	return s.alerts, nil
}

type stubConversations struct {
	chatID  int64
	cleared int64
}

func (s *stubConversations) ClearConversation(ctx context.Context, chatID int64) (int64, error) {
	s.chatID = chatID
	return s.cleared, nil
}

type stubFiles struct {
	fileID string
	data   []byte
}

func (s *stubFiles) File(file *tele.File) (io.ReadCloser, error) {
	s.fileID = file.FileID
	return io.NopCloser(bytes.NewReader(s.data)), nil
}
