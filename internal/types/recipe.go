package types

import (
	"time"

	"github.com/google/uuid"
)

// RecipeView is a recipe as shown to one caller. Locked views carry no
// ingredients or instructions.
type RecipeView struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	ImageURL     string        `json:"image_url"`
	PrepMinutes  int           `json:"prep_minutes"`
	BakeMinutes  int           `json:"bake_minutes"`
	Servings     int           `json:"servings"`
	Difficulty   string        `json:"difficulty"`
	IsPublic     bool          `json:"is_public"`
	IsPremium    bool          `json:"is_premium"`
	Ingredients  []string      `json:"ingredients,omitempty"`
	Instructions []string      `json:"instructions,omitempty"`
	Photos       []PhotoView   `json:"photos,omitempty"`
	Rating       RatingSummary `json:"rating"`
	Locked       bool          `json:"locked"`
	LockedReason string        `json:"locked_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type PhotoView struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Caption  string    `json:"caption"`
	Position int       `json:"position"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type RecipeFilter struct {
	Query          string
	Category       string
	IncludePrivate bool
}
