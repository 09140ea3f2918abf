package models

import "time"

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

func (s JobStatus) Valid() bool {
	return s == JobStatusDraft || s == JobStatusOpen || s == JobStatusClosed
}

// Job is an inspection/attendance assignment posted by a manager.
type Job struct {
	BaseModel
	ManagerUserID     uint       `gorm:"index;not null" json:"manager_user_id"`
	Manager           *User      `gorm:"foreignKey:ManagerUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"manager,omitempty"`
	Title             string     `gorm:"type:varchar(200);not null" json:"title"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	VesselType        string     `gorm:"type:varchar(100);index" json:"vessel_type"`
	PortLocode        string     `gorm:"type:varchar(5);index" json:"port_locode"`
	StartDate         *time.Time `gorm:"type:timestamptz" json:"start_date"`
	DurationDays      int        `gorm:"type:integer;default:1" json:"duration_days"`
	DayRateMin        float64    `gorm:"type:numeric(12,2);default:0" json:"day_rate_min"`
	DayRateMax        float64    `gorm:"type:numeric(12,2);default:0" json:"day_rate_max"`
	Currency          string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status            JobStatus  `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	ApplicationsCount int        `gorm:"type:integer;default:0" json:"applications_count"`
}
