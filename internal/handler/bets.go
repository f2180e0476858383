package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"edgebook/internal/betting"
	"edgebook/internal/models"
	"edgebook/internal/repository"
)

type BetHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *BetHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/bets")
	group.POST("", h.placeBet)
	group.GET("", h.listBets)
	group.GET("/:id", h.getBet)
	group.GET("/:id/clv", h.getCLV)
}

type placeBetRequest struct {
	UserID         string   `json:"user_id" binding:"required"`
	GameExternalID string   `json:"game_external_id" binding:"required"`
	Sport          string   `json:"sport"`
	Description    string   `json:"description"`
	MarketKey      string   `json:"market_key" binding:"required"`
	Selection      string   `json:"selection" binding:"required"`
	Line           *float64 `json:"line"`
	Odds           int      `json:"odds" binding:"required"`
	Amount         float64  `json:"amount" binding:"required"`
	WinProbability *float64 `json:"win_probability"`
}

// @Summary Place a bet
// @Tags bets
// @Accept json
// @Produce json
// @Router /api/v1/bets [post]
func (h *BetHandler) placeBet(c *gin.Context) {
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	switch req.MarketKey {
	case betting.MarketMoneyline, betting.MarketSpread, betting.MarketTotal:
	default:
		Error(c, http.StatusBadRequest, "unsupported market key", nil)
		return
	}

	potential, err := betting.PotentialReturn(req.Amount, req.Odds)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	bet := models.Bet{
		UserID:          req.UserID,
		GameExternalID:  req.GameExternalID,
		Sport:           req.Sport,
		Description:     req.Description,
		MarketKey:       req.MarketKey,
		Selection:       req.Selection,
		Odds:            req.Odds,
		Amount:          decimal.NewFromFloat(req.Amount),
		PotentialReturn: decimal.NewFromFloat(potential),
		WinProbability:  req.WinProbability,
		Outcome:         models.BetOutcomePending,
		PlacedAt:        time.Now().UTC(),
	}
	if req.Line != nil {
		line := decimal.NewFromFloat(*req.Line)
		bet.Line = &line
		bet.OpeningLine = &line
	}

	if err := h.Repo.InsertBet(c.Request.Context(), &bet); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, bet, nil)
}

// @Summary List bets
// @Tags bets
// @Produce json
// @Router /api/v1/bets [get]
func (h *BetHandler) listBets(c *gin.Context) {
	params := repository.ListBetsParams{
		UserID:  strQueryPtr(c, "user_id"),
		Outcome: strQueryPtr(c, "outcome"),
		Limit:   intQuery(c, "limit", 50),
		Offset:  intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListBets(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountBets(c.Request.Context(), repository.ListBetsParams{
		UserID:  params.UserID,
		Outcome: params.Outcome,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary Get one bet
// @Tags bets
// @Produce json
// @Router /api/v1/bets/{id} [get]
func (h *BetHandler) getBet(c *gin.Context) {
	bet, ok := h.loadBet(c)
	if !ok {
		return
	}
	Ok(c, bet, nil)
}

type clvPayload struct {
	BetID       uint64  `json:"bet_id"`
	BetOdds     int     `json:"bet_odds"`
	ClosingOdds int     `json:"closing_odds"`
	CLVPercent  float64 `json:"clv_percent"`
	Stored      bool    `json:"stored"`
}

// @Summary Closing line value for a bet
// @Tags bets
// @Produce json
// @Router /api/v1/bets/{id}/clv [get]
func (h *BetHandler) getCLV(c *gin.Context) {
	bet, ok := h.loadBet(c)
	if !ok {
		return
	}

	// Settled bets carry the CLV computed at grading time.
	if bet.ClosingOdds != nil && bet.CLVPercent != nil {
		Ok(c, clvPayload{
			BetID:       bet.ID,
			BetOdds:     bet.Odds,
			ClosingOdds: *bet.ClosingOdds,
			CLVPercent:  *bet.CLVPercent,
			Stored:      true,
		}, nil)
		return
	}

	game, err := h.Repo.GetGameByExternalID(c.Request.Context(), bet.GameExternalID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	cutoff := time.Now().UTC()
	if game != nil && !game.CommenceAt.IsZero() {
		cutoff = game.CommenceAt
	}

	quote, err := h.Repo.LatestQuoteBefore(c.Request.Context(), bet.GameExternalID, bet.MarketKey, bet.Selection, cutoff)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if quote == nil {
		Error(c, http.StatusNotFound, "no closing quote recorded for this bet", nil)
		return
	}

	clv, err := betting.ClosingLineValue(
		betting.QuoteRef{
			MarketKey: bet.MarketKey,
			Selection: bet.Selection,
			Odds:      bet.Odds,
			Point:     decimalPtrToFloat(bet.Line),
		},
		betting.QuoteRef{
			MarketKey: quote.MarketKey,
			Selection: quote.OutcomeName,
			Odds:      quote.Price,
			Point:     decimalPtrToFloat(quote.Point),
		},
	)
	if err != nil {
		Error(c, http.StatusConflict, err.Error(), nil)
		return
	}
	Ok(c, clvPayload{
		BetID:       bet.ID,
		BetOdds:     bet.Odds,
		ClosingOdds: quote.Price,
		CLVPercent:  clv,
	}, nil)
}

func (h *BetHandler) loadBet(c *gin.Context) (*models.Bet, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid bet id", nil)
		return nil, false
	}
	bet, err := h.Repo.GetBetByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if bet == nil {
		Error(c, http.StatusNotFound, "bet not found", nil)
		return nil, false
	}
	return bet, true
}

func decimalPtrToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
