package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/threads-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the SQL schema. It is a no-op for the document store,
// whose indexes are created on connect.
func (m *Manager) Migrate() error {
	db := m.Gorm()
	if db == nil {
		return nil
	}
	return AutoMigrate(db)
}

// AutoMigrate runs GORM migrations for every model.
func AutoMigrate(db *gorm.DB) error {
	log.Info("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Thread{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := backfillNameFold(db); err != nil {
		return fmt.Errorf("failed to backfill folded names: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}

// backfillNameFold fills the folded name of users stored before the column existed.
func backfillNameFold(db *gorm.DB) error {
	var users []models.User
	return db.Where("name_fold = ? AND name <> ?", "", "").
		FindInBatches(&users, 200, func(_ *gorm.DB, _ int) error {
			for i := range users {
				err := db.Model(&models.User{}).
					Where("id = ?", users[i].ID).
					UpdateColumn("name_fold", models.FoldName(users[i].Name)).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}
