package job

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/report"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Notifier delivers an alert to a chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

type AlertRecorder interface {
	InsertAlert(ctx context.Context, alert *domain.Alert) error
}

type SnapshotPublisher interface {
	Publish(ctx context.Context, snap *domain.Snapshot) error
}

// ErrorReporter forwards loop failures to error tracking.
type ErrorReporter func(err error, tags map[string]string)

type MonitorOptions struct {
	Alerts    AlertRecorder
	Snapshots SnapshotPublisher
	Report    ErrorReporter
}

// SignalMonitor runs the periodic analysis loop and pushes an alert when the
// signal changes.
type SignalMonitor struct {
	tracer    trace.Tracer
	analyzer  analysis.Analyzer
	notifier  Notifier
	alerts    AlertRecorder
	snapshots SnapshotPublisher
	capture   ErrorReporter
	interval  time.Duration
	now       func() time.Time

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation int
	chatID     int64
	last       *domain.Analysis
	status     domain.MonitorStatus
}

func NewSignalMonitor(
	tracer trace.Tracer,
	analyzer analysis.Analyzer,
	notifier Notifier,
	intervalSecs int,
	opts MonitorOptions,
) *SignalMonitor {
	if intervalSecs <= 0 {
		intervalSecs = 300
	}
	capture := opts.Report
	if capture == nil {
		capture = func(error, map[string]string) {}
	}
	interval := time.Duration(intervalSecs) * time.Second
	return &SignalMonitor{
		tracer:    tracer,
		analyzer:  analyzer,
		notifier:  notifier,
		alerts:    opts.Alerts,
		snapshots: opts.Snapshots,
		capture:   capture,
		interval:  interval,
		now:       func() time.Time { return time.Now().UTC() },
		status: domain.MonitorStatus{
			Variant:  analyzer.Variant(),
			Interval: interval,
		},
	}
}

func (m *SignalMonitor) Interval() time.Duration { return m.interval }

// Start launches the loop for chatID. It returns false when a loop is
// already running. The loop lives until Stop is called or ctx is done.
func (m *SignalMonitor) Start(ctx context.Context, chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return false
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.generation++
	m.chatID = chatID
	m.last = nil
	m.status.Running = true
	m.status.LastError = ""

	go m.run(loopCtx, m.generation)
	log.Info("signal monitor started", "variant", m.status.Variant, "interval", m.interval, "chat_id", chatID)
	return true
}

// Stop cancels the running loop. It returns false when nothing was running.
func (m *SignalMonitor) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return false
	}
	m.cancel()
	m.cancel = nil
	m.generation++
	m.status.Running = false
	log.Info("signal monitor stopped", "variant", m.status.Variant)
	return true
}

func (m *SignalMonitor) Status() domain.MonitorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *SignalMonitor) run(ctx context.Context, generation int) {
	defer func() {
		m.mu.Lock()
		if m.generation == generation && m.cancel != nil {
			m.cancel()
			m.cancel = nil
			m.status.Running = false
		}
		m.mu.Unlock()
	}()

	for {
		if err := m.check(ctx, generation); err != nil && ctx.Err() == nil {
			log.Error("Error in monitoring loop", "variant", m.status.Variant, "err", err)
			m.capture(err, map[string]string{"component": "monitor", "variant": string(m.analyzer.Variant())})
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Check runs one monitoring cycle: analyze, publish the snapshot and alert
// when the signal changed.
func (m *SignalMonitor) Check(ctx context.Context) error {
	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()
	return m.check(ctx, generation)
}

// check runs a cycle on behalf of one Start generation. Results of a cycle
// that outlived its session are discarded.
func (m *SignalMonitor) check(ctx context.Context, generation int) error {
	ctx, span := m.tracer.Start(ctx, "monitor.check")
	defer span.End()

	current, err := m.analyzer.Analyze(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		log.Debug("discarding check from a stopped session", "variant", m.status.Variant)
		return nil
	}
	m.status.LastCheck = m.now()
	if err != nil {
		m.status.LastError = err.Error()
		m.mu.Unlock()
		span.RecordError(err)
		return fmt.Errorf("analyze: %w", err)
	}
	m.status.LastRecommendation = current.Recommendation
	m.status.LastError = ""
	previous := m.last
	chatID := m.chatID
	m.mu.Unlock()

	message := report.Format(current)
	if m.snapshots != nil {
		snap := &domain.Snapshot{Analysis: current, Message: message, PublishedAt: m.now()}
		if err := m.snapshots.Publish(ctx, snap); err != nil {
			log.Warn("failed to publish snapshot", "err", err)
		}
	}

	alert := ShouldAlert(previous, current)
	span.SetAttributes(
		attribute.String("recommendation", current.Recommendation),
		attribute.Bool("alert", alert),
	)

	if !alert {
		m.remember(generation, current, false)
		return nil
	}

	text := report.AlertHeader(current.Variant) + "\n\n" + message
	if err := m.notifier.Notify(ctx, chatID, text); err != nil {
		// Nothing is remembered so the next cycle retries the alert.
		m.mu.Lock()
		if m.generation == generation {
			m.status.LastError = err.Error()
		}
		m.mu.Unlock()
		span.RecordError(err)
		return fmt.Errorf("notify: %w", err)
	}
	m.remember(generation, current, true)
	log.Info("Signal sent to user", "recommendation", current.Recommendation)

	if m.alerts != nil {
		rec := &domain.Alert{
			Variant:        current.Variant,
			ChatID:         chatID,
			Recommendation: current.Recommendation,
			Message:        text,
			CreatedAt:      m.now(),
		}
		if err := m.alerts.InsertAlert(ctx, rec); err != nil {
			log.Warn("failed to record alert", "err", err)
		}
	}
	return nil
}

// remember stores the analysis used for the next comparison. The agent
// variant only remembers signals that were actually delivered.
func (m *SignalMonitor) remember(generation int, a *domain.Analysis, alerted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != generation {
		return
	}
	if alerted {
		m.status.AlertsSent++
	}
	if a.Variant == domain.VariantAgent && !alerted {
		return
	}
	m.last = a
}

// ShouldAlert decides whether current differs enough from previous to push
// an alert. A nil previous means this is the first check of the session.
func ShouldAlert(previous, current *domain.Analysis) bool {
	if previous == nil {
		return true
	}
	if current.Recommendation != previous.Recommendation {
		return true
	}
	switch current.Variant {
	case domain.VariantHybrid:
		delta := current.BullishFactors - previous.BullishFactors
		return delta >= 2 || delta <= -2
	case domain.VariantAgent:
		return strings.Contains(current.Recommendation, "Strong")
	}
	return false
}
