package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moneyline/internal/models"
	"moneyline/internal/repository"
	"moneyline/internal/resolve"
	"moneyline/internal/service"
)

type GamesHandler struct {
	Store  repository.Repository
	Logger *zap.Logger
}

func (h *GamesHandler) Register(r *gin.Engine) {
	group := r.Group("/api/games")
	group.GET("", h.listGames)
	group.GET("/:id", h.getGame)
}

var gameOrderColumns = map[string]string{
	"date":     "game_date",
	"commence": "commence_time",
	"updated":  "updated_at",
	"sport":    "sport",
}

// @Summary List tracked games
// @Tags games
// @Param sport query string false "sportsbook sport key"
// @Param date query string false "local game date (YYYY-MM-DD)"
// @Param sort query string false "date|commence|updated|sport"
// @Param order query string false "asc|desc"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} apiResponse
// @Router /api/games [get]
func (h *GamesHandler) listGames(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	date := strings.TrimSpace(c.Query("date"))
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			Error(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", nil)
			return
		}
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListGamesParams{
		Sport:    strings.TrimSpace(c.Query("sport")),
		GameDate: date,
		OrderBy:  parseOrder(c.Query("sort"), gameOrderColumns),
		Asc:      ascQueryPtr(c, "order"),
		Limit:    limit,
		Offset:   offset,
	}
	games, err := h.Store.ListGames(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Store.CountGames(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, games, paginationMeta(limit, offset, total))
}

type gameDetail struct {
	Game      models.Game                `json:"game"`
	Tokens    []models.OutcomeToken      `json:"tokens,omitempty"`
	Consensus *models.ConsensusLatest    `json:"consensus,omitempty"`
	Stats     []models.MarketStatsLatest `json:"stats,omitempty"`
}

// @Summary Get one game with its stored consensus and book stats
// @Tags games
// @Param id path string true "sportsbook event id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id} [get]
func (h *GamesHandler) getGame(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	game, err := h.Store.GetGame(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if game == nil {
		Error(c, http.StatusNotFound, "game not found", nil)
		return
	}
	tokens, err := h.Store.ListOutcomeTokensByGame(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	cons, err := h.Store.GetConsensusLatest(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	stats, err := h.Store.ListMarketStatsByGame(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gameDetail{Game: *game, Tokens: tokens, Consensus: cons, Stats: stats}, nil)
}

// parseGameQuery reads the away/home/date triple shared by the consensus,
// markets and compare routes. The date defaults to today in loc.
func parseGameQuery(c *gin.Context, loc *time.Location) (service.GameQuery, error) {
	if loc == nil {
		loc = time.UTC
	}
	away := strings.TrimSpace(c.Query("away"))
	home := strings.TrimSpace(c.Query("home"))
	if away == "" || home == "" {
		return service.GameQuery{}, fmt.Errorf("away and home are required")
	}
	if resolve.NormalizeTeam(away) == resolve.NormalizeTeam(home) {
		return service.GameQuery{}, fmt.Errorf("away and home must be different teams")
	}
	date := time.Now().In(loc)
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return service.GameQuery{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
		}
		date = parsed
	}
	return service.GameQuery{Away: away, Home: home, Date: date}, nil
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func ascQueryPtr(c *gin.Context, key string) *bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "asc":
		v := true
		return &v
	case "desc":
		v := false
		return &v
	default:
		return nil
	}
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
