package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moneyline/internal/consensus"
	"moneyline/internal/resolve"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// ServiceError maps domain errors onto HTTP statuses: unknown games and
// markets are 404s, everything else is treated as an upstream failure.
func ServiceError(c *gin.Context, err error) {
	Error(c, errorStatus(err), err.Error(), nil)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, resolve.ErrEventNotFound),
		errors.Is(err, resolve.ErrMarketNotFound),
		errors.Is(err, consensus.ErrNoQuotes):
		return http.StatusNotFound
	case errors.Is(err, consensus.ErrInvalidWeights):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
