package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
)

// AutoMigrate creates or updates every table. Postgres needs the vector extension first.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to enable pgvector: %w", err)
		}
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
