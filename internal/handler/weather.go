package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edgebook/internal/repository"
)

type WeatherHandler struct {
	Repo repository.Repository
}

func (h *WeatherHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/weather", h.latest)
}

// @Summary Latest weather per venue city
// @Tags weather
// @Produce json
// @Router /api/v1/weather [get]
func (h *WeatherHandler) latest(c *gin.Context) {
	items, err := h.Repo.ListLatestWeather(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
