package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the primary key and timestamps shared by every table.
// IDs are generated client side so the same models work on Postgres and SQLite.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a new UUID when none was set.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&ProfileSetting{},
		&UserRole{},
		&PromoUser{},
		&ChatMute{},
		&PasswordReset{},
		&Recipe{},
		&RecipePhoto{},
		&RecipeRating{},
		&BakeBook{},
		&BakeBookEntry{},
		&TrainingNote{},
		&ChatConversation{},
		&ChatMessage{},
		&BakingTool{},
		&WellnessItem{},
		&FavoriteBaker{},
		&BlogPost{},
		&ForumPost{},
		&ForumComment{},
		&SupportSetting{},
		&SupportClick{},
	}
}

// ResetIdentity clears the key and timestamps so a client payload cannot choose them.
func (b *Base) ResetIdentity() {
	b.ID = uuid.Nil
	b.CreatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
}
