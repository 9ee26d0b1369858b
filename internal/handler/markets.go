package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moneyline/internal/service"
)

type MarketsHandler struct {
	Service  *service.MarketService
	Logger   *zap.Logger
	Location *time.Location
}

func (h *MarketsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/markets")
	group.GET("", h.stats)
	group.GET("/stored/:game_id", h.stored)
}

// @Summary Fetch live order books for a matchup and derive bid/ask stats
// @Tags markets
// @Param away query string true "away team"
// @Param home query string true "home team"
// @Param date query string false "local game date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} apiResponse
// @Router /api/markets [get]
func (h *MarketsHandler) stats(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	q, err := parseGameQuery(c, h.Location)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	out, err := h.Service.Stats(c.Request.Context(), q)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("market stats failed",
				zap.String("away", q.Away),
				zap.String("home", q.Home),
				zap.Error(err))
		}
		ServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

// @Summary Get the last stored book stats for a game
// @Tags markets
// @Param game_id path string true "sportsbook event id"
// @Success 200 {object} apiResponse
// @Router /api/markets/stored/{game_id} [get]
func (h *MarketsHandler) stored(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	gameID := strings.TrimSpace(c.Param("game_id"))
	rows, err := h.Service.Stored(c.Request.Context(), gameID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if len(rows) == 0 {
		Error(c, http.StatusNotFound, "no book stats stored for game", nil)
		return
	}
	Ok(c, rows, nil)
}
