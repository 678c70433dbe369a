package models

import "github.com/google/uuid"

// Training note categories, in the order they appear in Sasha's system prompt.
const (
	NoteStyle = "style"
	NoteFact  = "fact"
	NoteDo    = "do"
	NoteDont  = "dont"
	NoteStory = "story"
)

// NoteCategories lists the training note categories in prompt order.
var NoteCategories = []string{NoteStyle, NoteFact, NoteDo, NoteDont, NoteStory}

// IsNoteCategory reports whether c is a known training note category.
func IsNoteCategory(c string) bool {
	for _, known := range NoteCategories {
		if c == known {
			return true
		}
	}
	return false
}

type TrainingNote struct {
	Base
	Category  string     `gorm:"size:20;not null;index" json:"category"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Source    string     `gorm:"size:30;not null;default:'manual'" json:"source"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
}

func (TrainingNote) TableName() string {
	return "sasha_training_notes"
}

type ChatConversation struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title  string    `gorm:"size:255" json:"title"`
}

func (ChatConversation) TableName() string {
	return "sasha_conversations"
}

type ChatMessage struct {
	Base
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Role           string    `gorm:"size:20;not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	ImageURL       string    `gorm:"type:text" json:"image_url,omitempty"`
}

func (ChatMessage) TableName() string {
	return "sasha_messages"
}
