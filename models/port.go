package models

import "time"

const (
	PortSourceUNLocode = "unlocode"
	PortSourceGeoNames = "geonames"
)

// Port is a row of the worldwide ports reference dataset. Rows are written by
// the importer with raw SQL, so the table carries no audit columns.
type Port struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UNLocode    string    `gorm:"column:unlocode;type:varchar(16);uniqueIndex;not null" json:"unlocode"`
	Name        string    `gorm:"type:varchar(200);not null;index" json:"name"`
	NameASCII   string    `gorm:"column:name_ascii;type:varchar(200);index" json:"name_ascii"`
	CountryCode string    `gorm:"type:varchar(2);not null;index" json:"country_code"`
	Subdivision string    `gorm:"type:varchar(10)" json:"subdivision"`
	Latitude    *float64  `gorm:"type:double precision" json:"latitude"`
	Longitude   *float64  `gorm:"type:double precision" json:"longitude"`
	Function    string    `gorm:"type:varchar(8)" json:"function"`
	Status      string    `gorm:"type:varchar(2)" json:"status"`
	IATA        string    `gorm:"column:iata;type:varchar(3)" json:"iata"`
	Timezone    string    `gorm:"type:varchar(64)" json:"timezone"`
	Source      string    `gorm:"type:varchar(10);not null" json:"source"`
	GeonameID   *int64    `gorm:"column:geoname_id;index" json:"geoname_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
