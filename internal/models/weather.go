package models

import "time"

// WeatherObservation is a point-in-time weather snapshot for a venue city.
type WeatherObservation struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	City          string    `gorm:"type:varchar(120);index;not null"`
	TempC         float64   `gorm:"not null"`
	WindKph       float64   `gorm:"not null"`
	Precipitation float64   `gorm:"not null"`
	Condition     string    `gorm:"type:varchar(80)"`
	ObservedAt    time.Time `gorm:"type:timestamptz;index;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (WeatherObservation) TableName() string {
	return "weather_observations"
}
