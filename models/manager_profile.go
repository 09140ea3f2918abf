package models

// ManagerProfile describes the company a manager posts jobs for.
type ManagerProfile struct {
	BaseModel
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	CompanyName    string `gorm:"type:varchar(200)" json:"company_name"`
	CompanyWebsite string `gorm:"type:varchar(255)" json:"company_website"`
	Position       string `gorm:"type:varchar(100)" json:"position"`
	Phone          string `gorm:"type:varchar(30)" json:"phone"`
	CountryCode    string `gorm:"type:varchar(2)" json:"country_code"`
}
