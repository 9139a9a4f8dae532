package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"btc-signal-bot/internal/cache"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/report"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fetchTimeout   = 5 * time.Second
	defaultRefresh = 30 * time.Second
)

// SnapshotSource reads the signal most recently published by a bot.
type SnapshotSource interface {
	Latest(ctx context.Context, variant domain.Variant) (*domain.Snapshot, error)
}

type snapshotMsg struct {
	variant domain.Variant
	snap    *domain.Snapshot
	err     error
}

type refreshMsg struct{}

// DashboardModel shows the latest signal per variant and refreshes it on a
// timer or on demand.
type DashboardModel struct {
	source   SnapshotSource
	styles   Styles
	spinner  spinner.Model
	variants []domain.Variant
	selected int
	username string
	refresh  time.Duration

	loading bool
	snap    *domain.Snapshot
	err     error
	width   int
	height  int
}

func NewDashboardModel(source SnapshotSource, variant domain.Variant, username string) DashboardModel {
	variants := []domain.Variant{domain.VariantSimple, domain.VariantHybrid, domain.VariantAgent}
	selected := 0
	for i, v := range variants {
		if v == variant {
			selected = i
		}
	}
	return DashboardModel{
		source:   source,
		styles:   DefaultStyles(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		variants: variants,
		selected: selected,
		username: username,
		refresh:  defaultRefresh,
		loading:  true,
		width:    80,
		height:   24,
	}
}

func (m *DashboardModel) SetSize(w, h int) {
	if w > 0 {
		m.width = w
	}
	if h > 0 {
		m.height = h
	}
}

func (m DashboardModel) Variant() domain.Variant {
	return m.variants[m.selected]
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), m.scheduleRefresh())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.fetch()
		case "tab", "right", "l":
			m.selected = (m.selected + 1) % len(m.variants)
			m.loading = true
			m.snap = nil
			return m, m.fetch()
		case "shift+tab", "left", "h":
			m.selected = (m.selected + len(m.variants) - 1) % len(m.variants)
			m.loading = true
			m.snap = nil
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case snapshotMsg:
		if msg.variant != m.Variant() {
			return m, nil
		}
		m.loading = false
		m.snap = msg.snap
		m.err = msg.err

	case refreshMsg:
		return m, tea.Batch(m.fetch(), m.scheduleRefresh())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DashboardModel) fetch() tea.Cmd {
	variant := m.Variant()
	source := m.source
	return func() tea.Msg {
		if source == nil {
			return snapshotMsg{variant: variant, err: errors.New("snapshot store not configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snap, err := source.Latest(ctx, variant)
		return snapshotMsg{variant: variant, snap: snap, err: err}
	}
}

func (m DashboardModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m DashboardModel) View() string {
	var sb strings.Builder

	title := "₿ BTC Signal Dashboard"
	if m.username != "" {
		title += "  ·  " + m.username
	}
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.tabs())
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Box.Width(m.boxWidth()).Render(m.body()))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("r refresh · tab switch variant · q quit"))
	return sb.String()
}

func (m DashboardModel) tabs() string {
	parts := make([]string, len(m.variants))
	for i, v := range m.variants {
		style := m.styles.Tab
		if i == m.selected {
			style = m.styles.ActiveTab
		}
		parts[i] = style.Render(string(v))
	}
	return strings.Join(parts, " ")
}

func (m DashboardModel) boxWidth() int {
	if m.width > 4 {
		return m.width - 4
	}
	return m.width
}

func (m DashboardModel) body() string {
	switch {
	case m.loading && m.snap == nil:
		return m.spinner.View() + " Loading latest signal..."
	case errors.Is(m.err, cache.ErrNoSnapshot):
		return m.styles.Muted.Render("No signal published yet. Start monitoring with /monitor.")
	case m.err != nil:
		return m.styles.Error.Render("Error: " + m.err.Error())
	case m.snap == nil || m.snap.Analysis == nil:
		return m.styles.Muted.Render("No signal published yet.")
	}

	a := m.snap.Analysis
	var sb strings.Builder
	m.row(&sb, "Signal", m.recommendationStyle(a.Recommendation))
	if a.Price != nil {
		m.row(&sb, "Price", "$"+report.Money(*a.Price, 2))
	}
	if a.FearGreed != nil {
		m.row(&sb, "Fear & Greed", fmt.Sprintf("%d (%s)", a.FearGreed.Value, a.FearGreed.Classification))
	}
	if a.Variant == domain.VariantHybrid {
		m.row(&sb, "Confluence", fmt.Sprintf("%d bullish / %d bearish", a.BullishFactors, a.BearishFactors))
		m.row(&sb, "Confidence", fmt.Sprintf("%d/10", a.Confidence))
	}
	if a.Agent != nil && a.Agent.Confidence != "" {
		m.row(&sb, "Confidence", a.Agent.Confidence)
	}
	if a.Levels != nil {
		m.row(&sb, "Entry", "$"+report.Money(a.Levels.Entry, 0))
		m.row(&sb, "Stop", "$"+report.Money(a.Levels.Stop, 0))
		m.row(&sb, "Target", "$"+report.Money(a.Levels.Target, 0))
	}
	if a.Reasoning != "" {
		m.row(&sb, "Reason", a.Reasoning)
	}
	for _, f := range a.Factors {
		sb.WriteString("  • " + f + "\n")
	}

	stamp := "Published " + m.snap.PublishedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	if m.loading {
		stamp = m.spinner.View() + " " + stamp
	}
	sb.WriteString("\n" + m.styles.Muted.Render(stamp))
	return sb.String()
}

func (m DashboardModel) row(sb *strings.Builder, label, value string) {
	sb.WriteString(m.styles.Label.Render(label))
	sb.WriteString(value)
	sb.WriteString("\n")
}

func (m DashboardModel) recommendationStyle(rec string) string {
	switch {
	case domain.IsBuy(rec):
		return m.styles.Buy.Render(rec)
	case domain.IsSell(rec):
		return m.styles.Sell.Render(rec)
	default:
		return m.styles.Hold.Render(rec)
	}
}
