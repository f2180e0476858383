package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCurrentSeason(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"october starts new season", time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC), "2025-26"},
		{"spring belongs to prior start year", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "2025-26"},
		{"september still prior season", time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), "2024-25"},
		{"century rollover pads year", time.Date(1999, 11, 1, 0, 0, 0, 0, time.UTC), "1999-00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := currentSeason(tt.date); got != tt.want {
				t.Fatalf("currentSeason(%s)=%q want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestExtractFirstInteger(t *testing.T) {
	id, ok := extractFirstInteger("nba player stats for 2544 please")
	if !ok || id != 2544 {
		t.Fatalf("got (%d,%v) want (2544,true)", id, ok)
	}
	if _, ok := extractFirstInteger("nba player stats"); ok {
		t.Fatalf("expected no integer")
	}
}

func TestHandleQuery_RejectsNonNBA(t *testing.T) {
	svc := &StatsService{Logger: zap.NewNop()}
	_, err := svc.HandleQuery(context.Background(), "what is the weather in Boston")
	if !errors.Is(err, ErrNotBasketballQuery) {
		t.Fatalf("err=%v want ErrNotBasketballQuery", err)
	}
}
