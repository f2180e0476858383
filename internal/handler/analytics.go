package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"edgebook/internal/repository"
)

type AnalyticsHandler struct {
	Repo repository.Repository
}

func (h *AnalyticsHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/analytics/summary", h.summary)
}

// @Summary Betting record, units and CLV summary
// @Tags analytics
// @Produce json
// @Router /api/v1/analytics/summary [get]
func (h *AnalyticsHandler) summary(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	summary, err := h.Repo.BetSummary(c.Request.Context(), userID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, summary, nil)
}
