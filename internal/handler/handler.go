package handler

import (
	"context"

	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type MarketData interface {
	FearGreed(ctx context.Context) (*domain.FearGreed, error)
	BTCPrice(ctx context.Context) (*domain.PriceQuote, error)
}

type Monitor interface {
	Start(ctx context.Context, chatID int64) bool
	Stop() bool
	Status() domain.MonitorStatus
}

type AlertHistory interface {
	RecentAlerts(ctx context.Context, variant domain.Variant, limit int) ([]domain.Alert, error)
}

type SnapshotReader interface {
	Latest(ctx context.Context, variant domain.Variant) (*domain.Snapshot, error)
}

type Handler struct {
	tracer     trace.Tracer
	variant    domain.Variant
	market     MarketData
	analyzer   analysis.Analyzer
	monitor    Monitor
	monitorCtx context.Context
	chatID     int64
	alerts     AlertHistory
	snapshots  SnapshotReader
}

func New(tracer trace.Tracer, variant domain.Variant, market MarketData) *Handler {
	return &Handler{
		tracer:  tracer,
		variant: variant,
		market:  market,
	}
}

// SetAnalyzer enables /api/analysis. The chat variant leaves it unset.
func (h *Handler) SetAnalyzer(a analysis.Analyzer) {
	h.analyzer = a
}

// SetMonitor enables the monitor endpoints. Loops started over HTTP live
// until ctx is done and alert chatID.
func (h *Handler) SetMonitor(ctx context.Context, m Monitor, chatID int64) {
	h.monitorCtx = ctx
	h.monitor = m
	h.chatID = chatID
}

func (h *Handler) SetAlertHistory(a AlertHistory) {
	h.alerts = a
}

func (h *Handler) SetSnapshots(s SnapshotReader) {
	h.snapshots = s
}

// RegisterRoutes mounts the API. State-changing routes require apiKey when
// it is set.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/analysis", h.GetAnalysis)
	api.GET("/analysis/latest", h.GetLatestSnapshot)
	api.GET("/fear-greed", h.GetFearGreed)
	api.GET("/price", h.GetPrice)
	api.GET("/monitor", h.GetMonitorStatus)
	api.GET("/alerts", h.GetAlerts)

	protected := api.Group("", APIKeyAuth(apiKey))
	protected.POST("/monitor/start", h.StartMonitor)
	protected.POST("/monitor/stop", h.StopMonitor)
}
