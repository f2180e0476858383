package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edgebook/internal/service"
)

type SettlementHandler struct {
	Service *service.SettlementService
}

func (h *SettlementHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/settlements/run", h.run)
}

// @Summary Trigger a settlement pass
// @Tags settlements
// @Produce json
// @Router /api/v1/settlements/run [post]
func (h *SettlementHandler) run(c *gin.Context) {
	result, err := h.Service.Run(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
