package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetFearGreed godoc
// @Summary      Current Fear & Greed Index
// @Description  Returns the latest alternative.me Fear & Greed reading
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.FearGreed
// @Failure      502  {object}  map[string]string
// @Router       /api/fear-greed [get]
func (h *Handler) GetFearGreed(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-fear-greed")
	defer span.End()

	fg, err := h.market.FearGreed(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fg)
}

// GetPrice godoc
// @Summary      Current BTC price
// @Description  Returns the BTC/USD spot price from the first source that answers
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.PriceQuote
// @Failure      502  {object}  map[string]string
// @Router       /api/price [get]
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	quote, err := h.market.BTCPrice(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}
