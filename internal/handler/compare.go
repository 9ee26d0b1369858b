package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moneyline/internal/service"
)

type CompareHandler struct {
	Service  *service.CompareService
	Logger   *zap.Logger
	Location *time.Location
}

func (h *CompareHandler) Register(r *gin.Engine) {
	r.GET("/api/compare", h.compare)
}

// @Summary Compare sportsbook consensus against prediction market prices
// @Tags compare
// @Param away query string true "away team"
// @Param home query string true "home team"
// @Param date query string false "local game date (YYYY-MM-DD), defaults to today"
// @Param min_edge query number false "value screen threshold, defaults to the configured edge"
// @Success 200 {object} apiResponse
// @Router /api/compare [get]
func (h *CompareHandler) compare(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	q, err := parseGameQuery(c, h.Location)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var out *service.CompareOutput
	if raw := strings.TrimSpace(c.Query("min_edge")); raw != "" {
		minEdge, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || minEdge < 0 || minEdge >= 1 {
			Error(c, http.StatusBadRequest, "invalid min_edge, want a fraction in [0,1)", nil)
			return
		}
		out, err = h.Service.CompareWithMinEdge(c.Request.Context(), q, minEdge)
	} else {
		out, err = h.Service.Compare(c.Request.Context(), q)
	}
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("compare failed",
				zap.String("away", q.Away),
				zap.String("home", q.Home),
				zap.Error(err))
		}
		ServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}
