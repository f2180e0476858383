package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edgebook/internal/repository"
)

type OddsHandler struct {
	Repo repository.Repository
}

func (h *OddsHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/odds", h.listQuotes)
}

// @Summary List odds quotes
// @Tags odds
// @Produce json
// @Router /api/v1/odds [get]
func (h *OddsHandler) listQuotes(c *gin.Context) {
	params := repository.ListOddsQuotesParams{
		GameExternalID: strQueryPtr(c, "game"),
		MarketKey:      strQueryPtr(c, "market"),
		Bookmaker:      strQueryPtr(c, "bookmaker"),
		Limit:          intQuery(c, "limit", 100),
		Offset:         intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListOddsQuotes(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
