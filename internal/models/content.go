package models

import "github.com/google/uuid"

type BakingTool struct {
	Base
	Name         string `gorm:"size:120;not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	Category     string `gorm:"size:50" json:"category"`
	AffiliateURL string `gorm:"size:512" json:"affiliate_url"`
	ImageURL     string `gorm:"size:512" json:"image_url"`
	PriceRange   string `gorm:"size:30" json:"price_range"`
}

func (BakingTool) TableName() string {
	return "baking_tools"
}

type WellnessItem struct {
	Base
	Title       string `gorm:"size:200;not null" json:"title"`
	Body        string `gorm:"type:text" json:"body"`
	Category    string `gorm:"size:50" json:"category"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	IsPublished bool   `gorm:"not null;default:false" json:"is_published"`
}

func (WellnessItem) TableName() string {
	return "wellness"
}

type FavoriteBaker struct {
	Base
	Name       string `gorm:"size:120;not null" json:"name"`
	Bio        string `gorm:"type:text" json:"bio"`
	ImageURL   string `gorm:"size:512" json:"image_url"`
	WebsiteURL string `gorm:"size:512" json:"website_url"`
	Instagram  string `gorm:"size:80" json:"instagram"`
	Position   int    `gorm:"not null;default:0" json:"position"`
}

type BlogPost struct {
	Base
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Body        string     `gorm:"type:text" json:"body"`
	CoverURL    string     `gorm:"size:512" json:"cover_url"`
	IsPublished bool       `gorm:"not null;default:false;index" json:"is_published"`
	AuthorID    *uuid.UUID `gorm:"type:uuid" json:"author_id,omitempty"`
}

type ForumPost struct {
	Base
	AuthorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Title    string         `gorm:"size:200;not null" json:"title"`
	Body     string         `gorm:"type:text;not null" json:"body"`
	Category string         `gorm:"size:50" json:"category"`
	Comments []ForumComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

type ForumComment struct {
	Base
	PostID   uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body     string    `gorm:"type:text;not null" json:"body"`
}

// SupportSetting is a "support the site" link shown in the footer.
type SupportSetting struct {
	Base
	Platform string `gorm:"size:50;not null" json:"platform"`
	Label    string `gorm:"size:120" json:"label"`
	URL      string `gorm:"size:512;not null" json:"url"`
	Enabled  bool   `gorm:"not null" json:"enabled"`
}

type SupportClick struct {
	Base
	SettingID uuid.UUID  `gorm:"type:uuid;not null;index" json:"setting_id"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
}
