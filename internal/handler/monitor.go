package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMonitorStatus godoc
// @Summary      Monitoring loop status
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  domain.MonitorStatus
// @Failure      503  {object}  map[string]string
// @Router       /api/monitor [get]
func (h *Handler) GetMonitorStatus(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "monitoring not available"})
		return
	}
	c.JSON(http.StatusOK, h.monitor.Status())
}

// StartMonitor godoc
// @Summary      Start the monitoring loop
// @Description  Starts periodic analysis with alerts to the configured Telegram user
// @Tags         monitor
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/monitor/start [post]
func (h *Handler) StartMonitor(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.start-monitor")
	defer span.End()

	if h.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "monitoring not available"})
		return
	}
	if !h.monitor.Start(h.monitorCtx, h.chatID) {
		c.JSON(http.StatusConflict, gin.H{"error": "monitoring already running"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"started": true, "status": h.monitor.Status()})
}

// StopMonitor godoc
// @Summary      Stop the monitoring loop
// @Tags         monitor
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/monitor/stop [post]
func (h *Handler) StopMonitor(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.stop-monitor")
	defer span.End()

	if h.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "monitoring not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopped": h.monitor.Stop()})
}
