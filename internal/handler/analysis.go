package handler

import (
	"errors"
	"net/http"

	"btc-signal-bot/internal/cache"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/report"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type analysisResponse struct {
	Analysis *domain.Analysis `json:"analysis"`
	Message  string           `json:"message"`
}

// GetAnalysis godoc
// @Summary      Run a Bitcoin analysis
// @Description  Runs the configured analyzer and returns the result with the rendered Telegram message
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  analysisResponse
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/analysis [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis")
	defer span.End()
	span.SetAttributes(attribute.String("variant", string(h.variant)))

	if h.analyzer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis is not available for variant " + string(h.variant)})
		return
	}

	result, err := h.analyzer.Analyze(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysisResponse{Analysis: result, Message: report.Format(result)})
}

// GetLatestSnapshot godoc
// @Summary      Latest published signal
// @Description  Returns the snapshot most recently published by the monitoring loop
// @Tags         analysis
// @Produce      json
// @Param        variant  query  string  false  "Bot variant (simple, hybrid, agent)"
// @Success      200  {object}  domain.Snapshot
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/analysis/latest [get]
func (h *Handler) GetLatestSnapshot(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-latest-snapshot")
	defer span.End()

	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store not configured"})
		return
	}

	variant := h.variant
	if v := c.Query("variant"); v != "" {
		parsed, err := domain.ParseVariant(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		variant = parsed
	}
	span.SetAttributes(attribute.String("variant", string(variant)))

	snap, err := h.snapshots.Latest(ctx, variant)
	if errors.Is(err, cache.ErrNoSnapshot) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no signal published yet for " + string(variant)})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
