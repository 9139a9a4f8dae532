package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetAlerts godoc
// @Summary      Recent alerts
// @Description  Returns the most recent alerts pushed by the monitoring loop
// @Tags         monitor
// @Produce      json
// @Param        limit  query  int  false  "Number of alerts (default 10, max 100)"  default(10)
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/alerts [get]
func (h *Handler) GetAlerts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-alerts")
	defer span.End()

	if h.alerts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert history not configured"})
		return
	}

	limit := 10
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	span.SetAttributes(attribute.Int("limit", limit))

	alerts, err := h.alerts.RecentAlerts(ctx, h.variant, limit)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"variant": h.variant, "alerts": alerts})
}
