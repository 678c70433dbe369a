package types

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=80"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=255"`
	Newsletter  *bool   `json:"newsletter"`
}

// RecipeRequest is the admin payload for creating or replacing a recipe.
type RecipeRequest struct {
	Title        string         `json:"title" binding:"required,max=255"`
	Slug         string         `json:"slug"`
	Description  string         `json:"description"`
	Category     string         `json:"category" binding:"max=50"`
	ImageURL     string         `json:"image_url"`
	Ingredients  []string       `json:"ingredients"`
	Instructions []string       `json:"instructions"`
	PrepMinutes  int            `json:"prep_minutes" binding:"min=0"`
	BakeMinutes  int            `json:"bake_minutes" binding:"min=0"`
	Servings     int            `json:"servings" binding:"min=0"`
	Difficulty   string         `json:"difficulty"`
	IsPublic     *bool          `json:"is_public"`
	IsPremium    bool           `json:"is_premium"`
	Photos       []PhotoRequest `json:"photos"`
}

type PhotoRequest struct {
	URL     string `json:"url" binding:"required"`
	Caption string `json:"caption"`
}

type RatingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type BakeBookRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	IsWishlist bool   `json:"is_wishlist"`
}

type SaveRecipeRequest struct {
	RecipeID   uuid.UUID  `json:"recipe_id" binding:"required"`
	BakeBookID *uuid.UUID `json:"bakebook_id"`
	Notes      string     `json:"notes"`
}

type MoveEntryRequest struct {
	BakeBookID *uuid.UUID `json:"bakebook_id"`
	Notes      *string    `json:"notes"`
}

// ChatTurn is one message of a Sasha conversation as sent by the client.
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

type ChatRequest struct {
	Messages       []ChatTurn `json:"messages" binding:"required,min=1,dive"`
	ConversationID *uuid.UUID `json:"conversationId"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

type TrainingChatRequest struct {
	Messages []ChatTurn `json:"messages" binding:"required,min=1,dive"`
}

type TrainingChatResponse struct {
	Message       string `json:"message"`
	InsightsSaved int    `json:"insightsSaved"`
}

type ConversationRequest struct {
	Title string `json:"title" binding:"max=255"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin collaborator paid free"`
}

type PromoGrantRequest struct {
	Note      string     `json:"note"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type MuteRequest struct {
	MutedUntil time.Time `json:"muted_until" binding:"required"`
	Reason     string    `json:"reason"`
}

type ForumPostRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category" binding:"max=50"`
}

type ForumCommentRequest struct {
	Body string `json:"body" binding:"required"`
}
