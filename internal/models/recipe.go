package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	Base
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Slug         string           `gorm:"size:255;index" json:"slug"`
	Description  string           `gorm:"type:text" json:"description"`
	Category     string           `gorm:"size:50" json:"category"`
	ImageURL     string           `gorm:"size:255" json:"image_url"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	PrepMinutes  int              `json:"prep_minutes"`
	BakeMinutes  int              `json:"bake_minutes"`
	Servings     int              `json:"servings"`
	Difficulty   string           `gorm:"size:20" json:"difficulty"`
	IsPublic     bool             `gorm:"not null;index" json:"is_public"`
	IsPremium    bool             `gorm:"not null;default:false" json:"is_premium"`
	CreatedBy    *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`
	Embedding    pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	Photos       []RecipePhoto    `gorm:"foreignKey:RecipeID" json:"photos,omitempty"`
}

type RecipePhoto struct {
	Base
	RecipeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	URL        string    `gorm:"size:512;not null" json:"url"`
	StorageKey string    `gorm:"size:255" json:"storage_key,omitempty"`
	Caption    string    `gorm:"size:255" json:"caption"`
	Position   int       `gorm:"not null;default:0" json:"position"`
}

// RecipeRating is unique per recipe and user; re-rating updates the row.
type RecipeRating struct {
	Base
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_recipe_rating,priority:1" json:"recipe_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_recipe_rating,priority:2" json:"user_id"`
	Rating   int       `gorm:"not null" json:"rating"`
	Comment  string    `gorm:"type:text" json:"comment"`
}
