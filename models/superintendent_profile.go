package models

import (
	"strings"
	"time"

	"marinehub.app/pkg/premium"

	"gorm.io/gorm"
)

// SuperintendentProfile is the public profile of a marine inspection contractor.
type SuperintendentProfile struct {
	BaseModel
	UserID          uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User            *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Headline        string     `gorm:"type:varchar(200)" json:"headline"`
	Bio             string     `gorm:"type:text" json:"bio"`
	YearsExperience int        `gorm:"type:integer;default:0" json:"years_experience"`
	VesselTypes     string     `gorm:"type:varchar(500)" json:"vessel_types"` // Comma separated
	Certifications  string     `gorm:"type:text" json:"certifications"`
	HomePortLocode  string     `gorm:"type:varchar(5);index" json:"home_port_locode"`
	DayRate         float64    `gorm:"type:numeric(12,2);default:0" json:"day_rate"`
	Currency        string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Available       bool       `gorm:"default:true;index" json:"available"`
	Verified        bool       `gorm:"default:false;index" json:"verified"`
	PremiumSince    *time.Time `gorm:"type:timestamptz" json:"-"`
	PremiumUntil    *time.Time `gorm:"type:timestamptz;index" json:"-"`

	Premium premium.Status `gorm:"-" json:"premium"`
}

// AfterFind fills the computed premium badge.
func (p *SuperintendentProfile) AfterFind(tx *gorm.DB) error {
	p.RefreshPremium(time.Now().UTC())
	return nil
}

func (p *SuperintendentProfile) RefreshPremium(now time.Time) {
	p.Premium = premium.StatusAt(p.PremiumSince, p.PremiumUntil, now)
}

// VesselTypeList splits VesselTypes into trimmed, non-empty entries.
func (p *SuperintendentProfile) VesselTypeList() []string {
	var out []string
	for _, v := range strings.Split(p.VesselTypes, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
