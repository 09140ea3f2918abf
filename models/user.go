package models

import "time"

type UserRole string

const (
	RoleManager        UserRole = "manager"        // Posts jobs on behalf of a company
	RoleSuperintendent UserRole = "superintendent" // Marine inspection contractor
	RoleAdmin          UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleManager, RoleSuperintendent, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable roles can be chosen at sign up.
func (r UserRole) SelfRegistrable() bool {
	return r == RoleManager || r == RoleSuperintendent
}

type User struct {
	BaseModel
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName        string     `gorm:"type:varchar(150);not null" json:"full_name"`
	Role            UserRole   `gorm:"type:varchar(20);not null;index" json:"role"`
	EmailVerifiedAt *time.Time `gorm:"type:timestamptz" json:"email_verified_at"`
	IsActive        bool       `gorm:"default:true;index" json:"is_active"`
	LastLoginAt     *time.Time `gorm:"type:timestamptz" json:"last_login_at,omitempty"`
	AvatarURL       string     `gorm:"type:varchar(500)" json:"avatar_url"`
}

func (u *User) IsVerified() bool { return u.EmailVerifiedAt != nil }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
