package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edgebook/internal/betting"
	"edgebook/internal/models"
	"edgebook/internal/repository"
)

type stubRepo struct {
	bets           []models.Bet
	games          map[string]models.Game
	quotes         map[string]models.OddsQuote
	settled        map[uint64]string
	updates        map[uint64]repository.SettleUpdate
	notifications  []models.Notification
	fullUpserts    []models.Game
	schedUpserts   []models.Game
	upsertedQuotes []models.OddsQuote
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		games:   map[string]models.Game{},
		quotes:  map[string]models.OddsQuote{},
		settled: map[uint64]string{},
		updates: map[uint64]repository.SettleUpdate{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) UpsertGames(ctx context.Context, items []models.Game) error {
	s.fullUpserts = append(s.fullUpserts, items...)
	return nil
}

func (s *stubRepo) UpsertGameSchedules(ctx context.Context, items []models.Game) error {
	s.schedUpserts = append(s.schedUpserts, items...)
	return nil
}

func (s *stubRepo) GetGameByExternalID(ctx context.Context, externalID string) (*models.Game, error) {
	if g, ok := s.games[externalID]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *stubRepo) ListGames(ctx context.Context, params repository.ListGamesParams) ([]models.Game, error) {
	return nil, nil
}

func (s *stubRepo) CountGames(ctx context.Context, params repository.ListGamesParams) (int64, error) {
	return 0, nil
}

func (s *stubRepo) ListFinalGamesByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Game, error) {
	var out []models.Game
	seen := map[string]struct{}{}
	for _, id := range externalIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if g, ok := s.games[id]; ok && g.Status == models.GameStatusFinal {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertBet(ctx context.Context, item *models.Bet) error { return nil }

func (s *stubRepo) GetBetByID(ctx context.Context, id uint64) (*models.Bet, error) {
	return nil, nil
}

func (s *stubRepo) ListBets(ctx context.Context, params repository.ListBetsParams) ([]models.Bet, error) {
	return nil, nil
}

func (s *stubRepo) CountBets(ctx context.Context, params repository.ListBetsParams) (int64, error) {
	return 0, nil
}

func (s *stubRepo) ListPendingBetsForUpdateTx(ctx context.Context, tx *gorm.DB, limit int) ([]models.Bet, error) {
	var out []models.Bet
	for _, b := range s.bets {
		if b.Outcome == models.BetOutcomePending {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) SettleBetTx(ctx context.Context, tx *gorm.DB, id uint64, outcome string, update repository.SettleUpdate) error {
	s.settled[id] = outcome
	s.updates[id] = update
	return nil
}

func (s *stubRepo) UpsertOddsQuotes(ctx context.Context, items []models.OddsQuote) error {
	s.upsertedQuotes = append(s.upsertedQuotes, items...)
	return nil
}

func (s *stubRepo) ListOddsQuotes(ctx context.Context, params repository.ListOddsQuotesParams) ([]models.OddsQuote, error) {
	return nil, nil
}

func (s *stubRepo) LatestQuoteBefore(ctx context.Context, gameExternalID, marketKey, outcomeName string, before time.Time) (*models.OddsQuote, error) {
	if q, ok := s.quotes[gameExternalID+"|"+marketKey+"|"+outcomeName]; ok {
		return &q, nil
	}
	return nil, nil
}

func (s *stubRepo) InsertWeatherObservation(ctx context.Context, item *models.WeatherObservation) error {
	return nil
}

func (s *stubRepo) ListLatestWeather(ctx context.Context) ([]models.WeatherObservation, error) {
	return nil, nil
}

func (s *stubRepo) InsertNotification(ctx context.Context, item *models.Notification) error {
	s.notifications = append(s.notifications, *item)
	return nil
}

func (s *stubRepo) ListNotifications(ctx context.Context, params repository.ListNotificationsParams) ([]models.Notification, error) {
	return nil, nil
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, id uint64) error { return nil }

func (s *stubRepo) BetSummary(ctx context.Context, userID string) (repository.BetSummary, error) {
	return repository.BetSummary{}, nil
}

func intPtr(v int) *int { return &v }

func testGame(externalID string, homeScore, awayScore int) models.Game {
	return models.Game{
		ExternalID: externalID,
		Sport:      "basketball_nba",
		HomeTeam:   "Boston Celtics",
		AwayTeam:   "Miami Heat",
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
		Status:     models.GameStatusFinal,
		CommenceAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func testBet(id uint64, selection string, odds int, amount, potential float64) models.Bet {
	return models.Bet{
		ID:              id,
		UserID:          "u1",
		GameExternalID:  "evt-1",
		Sport:           "basketball_nba",
		MarketKey:       betting.MarketMoneyline,
		Selection:       selection,
		Odds:            odds,
		Amount:          decimal.NewFromFloat(amount),
		PotentialReturn: decimal.NewFromFloat(potential),
		Outcome:         models.BetOutcomePending,
		PlacedAt:        time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
	}
}

func newSettlementService(repo *stubRepo) *SettlementService {
	return &SettlementService{
		Store:     repo,
		Resolver:  &betting.Resolver{Logger: zap.NewNop()},
		Logger:    zap.NewNop(),
		Notify:    true,
		BatchSize: 100,
	}
}

func TestSettlementRun_WinWithCLV(t *testing.T) {
	repo := newStubRepo()
	repo.games["evt-1"] = testGame("evt-1", 110, 104)
	repo.bets = append(repo.bets, testBet(1, "Boston Celtics", 150, 100, 250))
	repo.quotes["evt-1|h2h|Boston Celtics"] = models.OddsQuote{
		GameExternalID: "evt-1",
		Bookmaker:      "draftkings",
		MarketKey:      betting.MarketMoneyline,
		OutcomeName:    "Boston Celtics",
		Price:          120,
		LastUpdated:    time.Date(2026, 1, 9, 23, 0, 0, 0, time.UTC),
	}

	svc := newSettlementService(repo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Settled != 1 || result.Wins != 1 {
		t.Fatalf("result=%+v want 1 settled win", result)
	}
	if got := repo.settled[1]; got != models.BetOutcomeWin {
		t.Fatalf("outcome=%q want win", got)
	}
	update := repo.updates[1]
	if !update.ActualReturn.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("actual return=%s want 250", update.ActualReturn)
	}
	if update.ClosingOdds == nil || *update.ClosingOdds != 120 {
		t.Fatalf("closing odds=%v want 120", update.ClosingOdds)
	}
	// +150 implies 0.40, +120 implies ~0.4545: bettor beat the close.
	if update.CLVPercent == nil || math.Abs(*update.CLVPercent-5.4545) > 0.01 {
		t.Fatalf("clv=%v want ~+5.45", update.CLVPercent)
	}
	if len(repo.notifications) != 1 {
		t.Fatalf("notifications=%d want 1", len(repo.notifications))
	}
	if repo.notifications[0].Kind != models.NotificationKindSettlement {
		t.Fatalf("notification kind=%q", repo.notifications[0].Kind)
	}
}

func TestSettlementRun_LossWithoutQuote(t *testing.T) {
	repo := newStubRepo()
	repo.games["evt-1"] = testGame("evt-1", 104, 110)
	repo.bets = append(repo.bets, testBet(2, "Boston Celtics", -110, 110, 210))

	svc := newSettlementService(repo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Losses != 1 {
		t.Fatalf("result=%+v want 1 loss", result)
	}
	update := repo.updates[2]
	if !update.ActualReturn.IsZero() {
		t.Fatalf("actual return=%s want 0", update.ActualReturn)
	}
	if update.ClosingOdds != nil || update.CLVPercent != nil {
		t.Fatalf("expected no CLV without a closing quote, got %+v", update)
	}
}

func TestSettlementRun_UnresolvableStaysPending(t *testing.T) {
	repo := newStubRepo()
	repo.games["evt-1"] = testGame("evt-1", 110, 104)
	repo.bets = append(repo.bets, testBet(3, "Chicago Bulls", 150, 100, 250))

	svc := newSettlementService(repo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Unresolved != 1 || result.Settled != 0 {
		t.Fatalf("result=%+v want 1 unresolved, 0 settled", result)
	}
	if _, ok := repo.settled[3]; ok {
		t.Fatalf("unresolvable bet must not be graded")
	}
	if len(repo.notifications) != 0 {
		t.Fatalf("unresolvable bet must not notify")
	}
}

func TestSettlementRun_GameNotFinalSkipped(t *testing.T) {
	repo := newStubRepo()
	game := testGame("evt-1", 50, 48)
	game.Status = models.GameStatusInProgress
	repo.games["evt-1"] = game
	repo.bets = append(repo.bets, testBet(4, "Boston Celtics", 150, 100, 250))

	svc := newSettlementService(repo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Examined != 1 || result.Settled != 0 {
		t.Fatalf("result=%+v want examined but unsettled", result)
	}
}

func TestSettlementRun_PushReturnsStake(t *testing.T) {
	repo := newStubRepo()
	game := testGame("evt-1", 107, 100)
	repo.games["evt-1"] = game
	bet := testBet(5, "Boston Celtics", -110, 110, 210)
	bet.MarketKey = betting.MarketSpread
	line := decimal.NewFromFloat(-7)
	bet.Line = &line
	repo.bets = append(repo.bets, bet)

	svc := newSettlementService(repo)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Pushes != 1 {
		t.Fatalf("result=%+v want 1 push", result)
	}
	update := repo.updates[5]
	if !update.ActualReturn.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("actual return=%s want stake back", update.ActualReturn)
	}
}
