package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status     string `json:"status"`
	Variant    string `json:"variant"`
	Monitoring *bool  `json:"monitoring,omitempty"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports liveness and the running variant, plus the monitor state when monitoring is wired
// @Tags         health
// @Produce      json
// @Success      200  {object}  handler.healthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := healthResponse{Status: "healthy", Variant: string(h.variant)}
	if h.monitor != nil {
		running := h.monitor.Status().Running
		resp.Monitoring = &running
	}
	c.JSON(http.StatusOK, resp)
}
