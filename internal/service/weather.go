package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"edgebook/internal/client/weatherapi"
	"edgebook/internal/models"
	"edgebook/internal/repository"
)

// WeatherService snapshots current conditions for the configured venue
// cities.
type WeatherService struct {
	Store   repository.Repository
	Weather *weatherapi.Client
	Logger  *zap.Logger
	Cities  []string
}

type WeatherPollResult struct {
	Cities int `json:"cities"`
	Errors int `json:"errors"`
}

func (s *WeatherService) Poll(ctx context.Context) (WeatherPollResult, error) {
	var result WeatherPollResult
	now := time.Now().UTC()

	for _, city := range s.Cities {
		current, err := s.Weather.GetCurrent(ctx, city)
		if err != nil {
			result.Errors++
			s.Logger.Error("weather fetch failed",
				zap.String("city", city),
				zap.Error(err))
			continue
		}
		obs := models.WeatherObservation{
			City:          current.City,
			TempC:         current.TempC,
			WindKph:       current.WindKph,
			Precipitation: current.Precipitation,
			Condition:     current.Condition,
			ObservedAt:    now,
		}
		if err := s.Store.InsertWeatherObservation(ctx, &obs); err != nil {
			result.Errors++
			s.Logger.Error("weather insert failed",
				zap.String("city", city),
				zap.Error(err))
			continue
		}
		result.Cities++
	}
	return result, nil
}
