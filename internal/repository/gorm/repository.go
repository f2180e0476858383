package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edgebook/internal/models"
	"edgebook/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Games -------------------------------------------------------------------

func (s *Store) UpsertGames(ctx context.Context, items []models.Game) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sport",
			"home_team",
			"away_team",
			"home_score",
			"away_score",
			"status",
			"venue_city",
			"commence_at",
			"last_synced_at",
			"raw_json",
			"updated_at",
		}),
	}).CreateInBatches(items, 200).Error
}

// UpsertGameSchedules writes schedule data only. Status and scores belong to
// the score sync; the odds feed keeps listing live games and must not revert
// them to scheduled or wipe their scores.
func (s *Store) UpsertGameSchedules(ctx context.Context, items []models.Game) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sport",
			"home_team",
			"away_team",
			"commence_at",
			"last_synced_at",
			"raw_json",
			"updated_at",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) GetGameByExternalID(ctx context.Context, externalID string) (*models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var item models.Game
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListGames(ctx context.Context, params repository.ListGamesParams) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.gamesQuery(ctx, params).Order("commence_at desc")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Game
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountGames(ctx context.Context, params repository.ListGamesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.gamesQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) gamesQuery(ctx context.Context, params repository.ListGamesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Game{})
	if params.Sport != nil && strings.TrimSpace(*params.Sport) != "" {
		query = query.Where("sport = ?", strings.TrimSpace(*params.Sport))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	return query
}

func (s *Store) ListFinalGamesByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	externalIDs = cleanStrings(externalIDs)
	if len(externalIDs) == 0 {
		return nil, nil
	}
	var items []models.Game
	err := s.db.WithContext(ctx).
		Where("external_id IN ?", externalIDs).
		Where("status = ?", models.GameStatusFinal).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Bets --------------------------------------------------------------------

func (s *Store) InsertBet(ctx context.Context, item *models.Bet) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetBetByID(ctx context.Context, id uint64) (*models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Bet
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListBets(ctx context.Context, params repository.ListBetsParams) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.betsQuery(ctx, params).Order("placed_at desc")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Bet
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountBets(ctx context.Context, params repository.ListBetsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.betsQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) betsQuery(ctx context.Context, params repository.ListBetsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Bet{})
	if params.UserID != nil && strings.TrimSpace(*params.UserID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(*params.UserID))
	}
	if params.Outcome != nil && strings.TrimSpace(*params.Outcome) != "" {
		query = query.Where("outcome = ?", strings.TrimSpace(*params.Outcome))
	}
	return query
}

// ListPendingBetsForUpdateTx locks the returned rows for the duration of the
// transaction so concurrent settlement passes cannot grade the same bet twice.
func (s *Store) ListPendingBetsForUpdateTx(ctx context.Context, tx *gorm.DB, limit int) ([]models.Bet, error) {
	if s == nil || tx == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var items []models.Bet
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("outcome = ?", models.BetOutcomePending).
		Order("placed_at asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SettleBetTx(ctx context.Context, tx *gorm.DB, id uint64, outcome string, update repository.SettleUpdate) error {
	if s == nil || tx == nil {
		return nil
	}
	updates := map[string]any{
		"outcome":       outcome,
		"actual_return": update.ActualReturn,
		"settled_at":    update.SettledAt,
	}
	if update.ClosingOdds != nil {
		updates["closing_odds"] = *update.ClosingOdds
	}
	if update.CLVPercent != nil {
		updates["clv_percent"] = *update.CLVPercent
	}
	return tx.WithContext(ctx).
		Model(&models.Bet{}).
		Where("id = ?", id).
		Where("outcome = ?", models.BetOutcomePending).
		Updates(updates).Error
}

// --- Odds quotes ---------------------------------------------------------------

func (s *Store) UpsertOddsQuotes(ctx context.Context, items []models.OddsQuote) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "game_external_id"},
			{Name: "bookmaker"},
			{Name: "market_key"},
			{Name: "outcome_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"price",
			"point",
			"last_updated",
			"updated_at",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) ListOddsQuotes(ctx context.Context, params repository.ListOddsQuotesParams) ([]models.OddsQuote, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.OddsQuote{})
	if params.GameExternalID != nil && strings.TrimSpace(*params.GameExternalID) != "" {
		query = query.Where("game_external_id = ?", strings.TrimSpace(*params.GameExternalID))
	}
	if params.MarketKey != nil && strings.TrimSpace(*params.MarketKey) != "" {
		query = query.Where("market_key = ?", strings.TrimSpace(*params.MarketKey))
	}
	if params.Bookmaker != nil && strings.TrimSpace(*params.Bookmaker) != "" {
		query = query.Where("bookmaker = ?", strings.TrimSpace(*params.Bookmaker))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.OddsQuote
	err := query.Order("last_updated desc").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LatestQuoteBefore returns the newest quote for the outcome strictly before
// the cutoff, used as the closing line for CLV.
func (s *Store) LatestQuoteBefore(ctx context.Context, gameExternalID, marketKey, outcomeName string, before time.Time) (*models.OddsQuote, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.OddsQuote
	err := s.db.WithContext(ctx).
		Where("game_external_id = ?", strings.TrimSpace(gameExternalID)).
		Where("market_key = ?", strings.TrimSpace(marketKey)).
		Where("LOWER(outcome_name) = LOWER(?)", strings.TrimSpace(outcomeName)).
		Where("last_updated < ?", before).
		Order("last_updated desc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- Weather -------------------------------------------------------------------

func (s *Store) InsertWeatherObservation(ctx context.Context, item *models.WeatherObservation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// ListLatestWeather returns the most recent observation per city.
func (s *Store) ListLatestWeather(ctx context.Context) ([]models.WeatherObservation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.WeatherObservation
	err := s.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (city) *
		     FROM weather_observations
		     ORDER BY city, observed_at DESC`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Notifications ----------------------------------------------------------------

func (s *Store) InsertNotification(ctx context.Context, item *models.Notification) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListNotifications(ctx context.Context, params repository.ListNotificationsParams) ([]models.Notification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Notification{})
	if params.UserID != nil && strings.TrimSpace(*params.UserID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(*params.UserID))
	}
	if params.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Notification
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// --- Analytics --------------------------------------------------------------------

func (s *Store) BetSummary(ctx context.Context, userID string) (repository.BetSummary, error) {
	summary := repository.BetSummary{
		TotalStaked: decimal.Zero,
		NetUnits:    decimal.Zero,
	}
	if s == nil || s.db == nil {
		return summary, nil
	}
	userID = strings.TrimSpace(userID)

	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Bet{})
		if userID != "" {
			query = query.Where("user_id = ?", userID)
		}
		return query
	}

	var outcomes []struct {
		Outcome string
		Count   int64
	}
	if err := base().
		Select("outcome, COUNT(*) AS count").
		Group("outcome").
		Scan(&outcomes).Error; err != nil {
		return summary, err
	}
	for _, row := range outcomes {
		switch row.Outcome {
		case models.BetOutcomeWin:
			summary.Wins = row.Count
		case models.BetOutcomeLoss:
			summary.Losses = row.Count
		case models.BetOutcomePush:
			summary.Pushes = row.Count
		case models.BetOutcomePending:
			summary.Pending = row.Count
		}
	}

	var totals struct {
		TotalStaked float64
		NetUnits    float64
	}
	if err := base().
		Select(`COALESCE(SUM(amount),0) AS total_staked,
		        COALESCE(SUM(CASE WHEN outcome IN ('win','loss','push')
		            THEN COALESCE(actual_return,0) - amount ELSE 0 END),0) AS net_units`).
		Scan(&totals).Error; err != nil {
		return summary, err
	}
	summary.TotalStaked = decimal.NewFromFloat(totals.TotalStaked)
	summary.NetUnits = decimal.NewFromFloat(totals.NetUnits)

	var clv struct {
		AvgCLV  float64
		Sampled int64
	}
	if err := base().
		Select("COALESCE(AVG(clv_percent),0) AS avg_clv, COUNT(clv_percent) AS sampled").
		Where("clv_percent IS NOT NULL").
		Scan(&clv).Error; err != nil {
		return summary, err
	}
	if clv.Sampled > 0 {
		summary.AvgCLV = &clv.AvgCLV
	}

	var byMarket []struct {
		MarketKey string
		Wins      int64
		Losses    int64
		Pushes    int64
		NetUnits  float64
	}
	if err := base().
		Select(`market_key,
		        COUNT(*) FILTER (WHERE outcome = 'win') AS wins,
		        COUNT(*) FILTER (WHERE outcome = 'loss') AS losses,
		        COUNT(*) FILTER (WHERE outcome = 'push') AS pushes,
		        COALESCE(SUM(CASE WHEN outcome IN ('win','loss','push')
		            THEN COALESCE(actual_return,0) - amount ELSE 0 END),0) AS net_units`).
		Group("market_key").
		Order("market_key asc").
		Scan(&byMarket).Error; err != nil {
		return summary, err
	}
	for _, row := range byMarket {
		summary.ByMarket = append(summary.ByMarket, repository.MarketBreakdown{
			MarketKey: row.MarketKey,
			Wins:      row.Wins,
			Losses:    row.Losses,
			Pushes:    row.Pushes,
			NetUnits:  decimal.NewFromFloat(row.NetUnits),
		})
	}

	return summary, nil
}

// --- helpers ------------------------------------------------------------------

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, raw := range items {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
