package models

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool { return s == PostStatusDraft || s == PostStatusPublished }

type BlogCategory struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

type BlogPost struct {
	BaseModel
	AuthorUserID       uint          `gorm:"index;not null" json:"author_user_id"`
	Author             *User         `gorm:"foreignKey:AuthorUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author,omitempty"`
	CategoryID         *uint         `gorm:"index" json:"category_id"`
	Category           *BlogCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Title              string        `gorm:"type:varchar(255);not null" json:"title"`
	Slug               string        `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Excerpt            string        `gorm:"type:text" json:"excerpt"`
	Content            string        `gorm:"type:text;not null" json:"content"`
	CoverImageURL      string        `gorm:"type:varchar(500)" json:"cover_image_url"`
	Status             PostStatus    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	PublishedAt        *time.Time    `gorm:"type:timestamptz;index" json:"published_at"`
	ReadingTimeMinutes int           `gorm:"type:integer;default:1" json:"reading_time_minutes"`
	ViewCount          int64         `gorm:"default:0" json:"view_count"`
	Tags               string        `gorm:"type:varchar(500)" json:"tags"` // Comma separated
	SEO                *BlogSEOData  `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"seo,omitempty"`
}

type BlogSEOData struct {
	BaseModel
	PostID          uint   `gorm:"uniqueIndex;not null" json:"post_id"`
	MetaTitle       string `gorm:"type:varchar(255)" json:"meta_title"`
	MetaDescription string `gorm:"type:varchar(500)" json:"meta_description"`
	Keywords        string `gorm:"type:varchar(500)" json:"keywords"`
	OGImageURL      string `gorm:"type:varchar(500)" json:"og_image_url"`
	CanonicalURL    string `gorm:"type:varchar(500)" json:"canonical_url"`
}

func (BlogSEOData) TableName() string { return "blog_seo_data" }
