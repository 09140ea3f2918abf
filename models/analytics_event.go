package models

import "time"

// AnalyticsEvent is a page-view/interaction beacon sent by the browser.
type AnalyticsEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Name       string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Path       string    `gorm:"type:varchar(500);index" json:"path"`
	Referrer   string    `gorm:"type:varchar(500)" json:"referrer"`
	SessionID  string    `gorm:"type:varchar(64);index" json:"session_id"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	UserAgent  string    `gorm:"type:varchar(500)" json:"user_agent"`
	Properties string    `gorm:"type:text" json:"properties"` // JSON object
}
