package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moneyline/internal/service"
)

type ConsensusHandler struct {
	Service  *service.ConsensusService
	Logger   *zap.Logger
	Location *time.Location
}

func (h *ConsensusHandler) Register(r *gin.Engine) {
	group := r.Group("/api/consensus")
	group.GET("", h.compute)
	group.GET("/latest/:game_id", h.latest)
}

// @Summary Compute weighted consensus probabilities for a matchup
// @Tags consensus
// @Param away query string true "away team"
// @Param home query string true "home team"
// @Param date query string false "local game date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} apiResponse
// @Router /api/consensus [get]
func (h *ConsensusHandler) compute(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	q, err := parseGameQuery(c, h.Location)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	out, err := h.Service.Compute(c.Request.Context(), q)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("consensus compute failed",
				zap.String("away", q.Away),
				zap.String("home", q.Home),
				zap.Error(err))
		}
		ServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

// @Summary Get the last stored consensus for a game
// @Tags consensus
// @Param game_id path string true "sportsbook event id"
// @Success 200 {object} apiResponse
// @Router /api/consensus/latest/{game_id} [get]
func (h *ConsensusHandler) latest(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	gameID := strings.TrimSpace(c.Param("game_id"))
	row, err := h.Service.Latest(c.Request.Context(), gameID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if row == nil {
		Error(c, http.StatusNotFound, "no consensus stored for game", nil)
		return
	}
	Ok(c, row, nil)
}
