package models

import "time"

const (
	NotificationKindSettlement = "settlement"
	NotificationKindCLV        = "clv"
)

// Notification is a bookkeeping row surfaced to the UI when a bet settles
// or a closing line is recorded.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(100);index;not null"`
	Kind      string    `gorm:"type:varchar(30);not null"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Body      string    `gorm:"type:text"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
