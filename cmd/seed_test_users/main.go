package main

import (
	"errors"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/database"
	"github.com/sashabakes/sasha-bakes/backend/internal/logging"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
)

// testUser is one demo account per access tier.
type testUser struct {
	name   string
	email  string
	role   string
	promo  time.Duration
	muteHr int
}

var testUsers = []testUser{
	{name: "Sasha Admin", email: "admin@sashabakes.test", role: models.RoleAdmin},
	{name: "Cleo Collaborator", email: "collaborator@sashabakes.test", role: models.RoleCollaborator},
	{name: "Paige Paid", email: "paid@sashabakes.test", role: models.RolePaid},
	{name: "Fern Free", email: "free@sashabakes.test", role: models.RoleFree},
	{name: "Pru Promo", email: "promo@sashabakes.test", role: models.RoleFree, promo: 30 * 24 * time.Hour},
	{name: "Milo Muted", email: "muted@sashabakes.test", role: models.RoleFree, muteHr: 24},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(config.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		logger.Fatal("refusing to seed test users in production")
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	password := os.Getenv("TEST_USER_PASSWORD")
	if password == "" {
		password = "bakewell123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	for _, u := range testUsers {
		err := db.Where("email = ?", u.email).First(&models.User{}).Error
		if err == nil {
			logger.Info("user already exists, skipping", zap.String("email", u.email))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Fatal("failed to look up user", zap.String("email", u.email), zap.Error(err))
		}

		if err := db.Transaction(func(tx *gorm.DB) error { return createTestUser(tx, u, string(hashed)) }); err != nil {
			logger.Fatal("failed to create user", zap.String("email", u.email), zap.Error(err))
		}
		logger.Info("created test user", zap.String("email", u.email), zap.String("role", u.role))
	}

	logger.Info("test users ready", zap.Int("count", len(testUsers)), zap.String("password", password))
}

func createTestUser(tx *gorm.DB, u testUser, passwordHash string) error {
	user := &models.User{Name: u.name, Email: u.email, PasswordHash: passwordHash}
	if err := tx.Create(user).Error; err != nil {
		return err
	}
	if err := tx.Create(&models.ProfileSetting{UserID: user.ID, DisplayName: u.name}).Error; err != nil {
		return err
	}
	if err := tx.Create(&models.UserRole{UserID: user.ID, Role: u.role}).Error; err != nil {
		return err
	}
	if u.promo > 0 {
		expires := time.Now().Add(u.promo)
		if err := tx.Create(&models.PromoUser{UserID: user.ID, Note: "test account", ExpiresAt: &expires}).Error; err != nil {
			return err
		}
	}
	if u.muteHr > 0 {
		mute := &models.ChatMute{
			UserID:     user.ID,
			MutedUntil: time.Now().Add(time.Duration(u.muteHr) * time.Hour),
			Reason:     "test account",
		}
		if err := tx.Create(mute).Error; err != nil {
			return err
		}
	}
	return nil
}
