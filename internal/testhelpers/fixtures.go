package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
)

// CreateUser inserts a user and, when role is not empty, a role row.
func CreateUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Baker " + role,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if role != "" {
		AddRole(t, db, user.ID, role)
	}
	return user
}

func AddRole(t *testing.T, db *gorm.DB, userID uuid.UUID, role string) {
	t.Helper()
	if err := db.Create(&models.UserRole{UserID: userID, Role: role}).Error; err != nil {
		t.Fatalf("failed to add role: %v", err)
	}
}

// CreateRecipe inserts a public recipe with ingredients and instructions.
func CreateRecipe(t *testing.T, db *gorm.DB, title string, premium bool) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:        title,
		Slug:         service.Slugify(title),
		Description:  "A lovely " + title,
		Category:     "bread",
		Ingredients:  models.JSONBStringArray{"500g flour", "350g water", "10g salt"},
		Instructions: models.JSONBStringArray{"Mix", "Proof", "Bake"},
		IsPublic:     true,
		IsPremium:    premium,
	}
	recipe.Embedding = service.RecipeEmbedding(recipe)
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

// Mute mutes a user for d from now.
func Mute(t *testing.T, db *gorm.DB, userID uuid.UUID, d time.Duration, reason string) *models.ChatMute {
	t.Helper()
	mute := &models.ChatMute{UserID: userID, MutedUntil: time.Now().Add(d), Reason: reason}
	if err := db.Create(mute).Error; err != nil {
		t.Fatalf("failed to mute user: %v", err)
	}
	return mute
}

// MockCompleter is a testify mock of service.Completer.
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req service.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
