package models

import "time"

const (
	NotificationApplicationReceived = "application_received"
	NotificationApplicationStatus   = "application_status"
	NotificationPremiumGranted      = "premium_granted"
	NotificationProfileVerified     = "profile_verified"
)

type Notification struct {
	BaseModel
	UserID uint       `gorm:"index;not null" json:"user_id"`
	Kind   string     `gorm:"type:varchar(50);not null;index" json:"kind"`
	Title  string     `gorm:"type:varchar(200);not null" json:"title"`
	Body   string     `gorm:"type:text" json:"body"`
	Link   string     `gorm:"type:varchar(500)" json:"link"`
	ReadAt *time.Time `gorm:"type:timestamptz;index" json:"read_at"`
}
