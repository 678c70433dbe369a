package models

import "github.com/google/uuid"

// BakeBook is a named folder in a user's saved-recipe collection.
type BakeBook struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	IsWishlist bool      `gorm:"not null;default:false" json:"is_wishlist"`
}

func (BakeBook) TableName() string {
	return "user_bakebooks"
}

// BakeBookEntry is a saved recipe. A user saves a recipe at most once.
type BakeBookEntry struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_bakebook_entry,priority:1" json:"user_id"`
	RecipeID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_bakebook_entry,priority:2" json:"recipe_id"`
	BakeBookID *uuid.UUID `gorm:"type:uuid;index" json:"bakebook_id,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes"`
	Recipe     *Recipe    `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

func (BakeBookEntry) TableName() string {
	return "bakebook_entries"
}
