package db

import (
	"edgebook/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Game{},
		&models.Bet{},
		&models.OddsQuote{},
		&models.WeatherObservation{},
		&models.Notification{},
	)
}
