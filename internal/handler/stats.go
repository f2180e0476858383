package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"edgebook/internal/service"
)

type StatsHandler struct {
	Service *service.StatsService
}

func (h *StatsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/stats")
	group.GET("/scoreboard", h.scoreboard)
	group.GET("/teams/:id", h.teamStats)
	group.GET("/players/:id", h.playerStats)
	group.GET("/players/:id/career", h.playerCareer)
	group.GET("/props", h.props)
	group.GET("/query", h.query)
}

// @Summary Today's scoreboard
// @Tags stats
// @Produce json
// @Router /api/v1/stats/scoreboard [get]
func (h *StatsHandler) scoreboard(c *gin.Context) {
	payload, err := h.Service.LiveScores(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

// @Summary Team season aggregates
// @Tags stats
// @Produce json
// @Router /api/v1/stats/teams/{id} [get]
func (h *StatsHandler) teamStats(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payload, err := h.Service.TeamStatistics(c.Request.Context(), id, c.Query("season"), c.Query("per_mode"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

// @Summary Player season aggregates
// @Tags stats
// @Produce json
// @Router /api/v1/stats/players/{id} [get]
func (h *StatsHandler) playerStats(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payload, err := h.Service.PlayerStatistics(c.Request.Context(), id, c.Query("season"), c.Query("per_mode"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

// @Summary Player career averages
// @Tags stats
// @Produce json
// @Router /api/v1/stats/players/{id}/career [get]
func (h *StatsHandler) playerCareer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payload, err := h.Service.PlayerCareer(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

// @Summary Prop score leaders
// @Tags stats
// @Produce json
// @Router /api/v1/stats/props [get]
func (h *StatsHandler) props(c *gin.Context) {
	payload, err := h.Service.PropRecommendations(c.Request.Context(),
		c.Query("season"), c.Query("per_mode"), intQuery(c, "limit", 0))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

// @Summary Free-text stats query
// @Tags stats
// @Produce json
// @Router /api/v1/stats/query [get]
func (h *StatsHandler) query(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		Error(c, http.StatusBadRequest, "q is required", nil)
		return
	}
	payload, err := h.Service.HandleQuery(c.Request.Context(), q)
	if errors.Is(err, service.ErrNotBasketballQuery) {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
