package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edgebook/internal/betting"
)

type ParlayHandler struct {
	Config betting.Config
}

func (h *ParlayHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/parlays/evaluate", h.evaluate)
}

type parlayLegRequest struct {
	MarketKey      string   `json:"market_key" binding:"required"`
	Selection      string   `json:"selection"`
	Odds           int      `json:"odds" binding:"required"`
	Line           *float64 `json:"line"`
	WinProbability float64  `json:"win_probability" binding:"required"`
	EventID        string   `json:"event_id" binding:"required"`
	Sport          string   `json:"sport"`
}

type parlayEvaluateRequest struct {
	Stake float64            `json:"stake" binding:"required"`
	Legs  []parlayLegRequest `json:"legs" binding:"required"`
}

// @Summary Evaluate a parlay
// @Tags parlays
// @Accept json
// @Produce json
// @Router /api/v1/parlays/evaluate [post]
func (h *ParlayHandler) evaluate(c *gin.Context) {
	var req parlayEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	parlay := betting.Parlay{Stake: req.Stake}
	for _, leg := range req.Legs {
		parlay.Legs = append(parlay.Legs, betting.Leg{
			MarketKey:      leg.MarketKey,
			Selection:      leg.Selection,
			Odds:           leg.Odds,
			Line:           leg.Line,
			WinProbability: leg.WinProbability,
			EventID:        leg.EventID,
			Sport:          leg.Sport,
		})
	}

	evaluation, err := h.Config.EvaluateParlay(parlay)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, evaluation, nil)
}
