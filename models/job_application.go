package models

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn" // Only the applicant sets this
)

// ReviewStatus reports whether a job owner may set s.
func (s ApplicationStatus) ReviewStatus() bool {
	return s == ApplicationStatusShortlisted || s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// JobApplication is a superintendent's application to a job. One per pair.
type JobApplication struct {
	BaseModel
	JobID                uint              `gorm:"not null;uniqueIndex:idx_application_job_user" json:"job_id"`
	Job                  *Job              `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"job,omitempty"`
	SuperintendentUserID uint              `gorm:"not null;uniqueIndex:idx_application_job_user;index" json:"superintendent_user_id"`
	Superintendent       *User             `gorm:"foreignKey:SuperintendentUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"superintendent,omitempty"`
	CoverLetter          string            `gorm:"type:text" json:"cover_letter"`
	ProposedRate         float64           `gorm:"type:numeric(12,2);default:0" json:"proposed_rate"`
	Status               ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}
