package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"edgebook/internal/repository"
)

type GameHandler struct {
	Repo repository.Repository
}

func (h *GameHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/games")
	group.GET("", h.listGames)
	group.GET("/:externalID", h.getGame)
}

// @Summary List games
// @Tags games
// @Produce json
// @Router /api/v1/games [get]
func (h *GameHandler) listGames(c *gin.Context) {
	params := repository.ListGamesParams{
		Sport:  strQueryPtr(c, "sport"),
		Status: strQueryPtr(c, "status"),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListGames(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountGames(c.Request.Context(), repository.ListGamesParams{
		Sport:  params.Sport,
		Status: params.Status,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary Get one game by provider ID
// @Tags games
// @Produce json
// @Router /api/v1/games/{externalID} [get]
func (h *GameHandler) getGame(c *gin.Context) {
	externalID := strings.TrimSpace(c.Param("externalID"))
	if externalID == "" {
		Error(c, http.StatusBadRequest, "external id is required", nil)
		return
	}
	game, err := h.Repo.GetGameByExternalID(c.Request.Context(), externalID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if game == nil {
		Error(c, http.StatusNotFound, "game not found", nil)
		return
	}
	Ok(c, game, nil)
}
