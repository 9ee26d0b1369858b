package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moneyline/internal/service"
)

type ScanHandler struct {
	Service *service.ScanService
	Logger  *zap.Logger
}

func (h *ScanHandler) Register(r *gin.Engine) {
	r.POST("/api/scan", h.run)
}

// @Summary Sweep today's games, link prediction markets and store consensus
// @Tags scan
// @Success 200 {object} apiResponse
// @Router /api/scan [post]
func (h *ScanHandler) run(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Service.Scan(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("scan failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
