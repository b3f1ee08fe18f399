package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Upsert creates the user or updates the profile fields of the existing one.
// ID and CreatedAt of an existing user are preserved.
func (r *GormUserRepository) Upsert(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("auth_id = ?", user.AuthID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Omit("Threads").Create(user).Error
		}
		if err != nil {
			return err
		}

		existing.Username = user.Username
		existing.Name = user.Name
		existing.Bio = user.Bio
		existing.Image = user.Image
		existing.Onboarded = user.Onboarded
		if !user.UpdatedAt.IsZero() {
			existing.UpdatedAt = user.UpdatedAt
		}
		if err := tx.Omit("Threads").Save(&existing).Error; err != nil {
			return err
		}
		*user = existing
		return nil
	})
	return translateGormError(err)
}

// FindByAuthID finds a user by identity provider id
func (r *GormUserRepository) FindByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("auth_id = ?", authID).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

// FindWithPosts finds a user with their top-level threads in posting order
func (r *GormUserRepository) FindWithPosts(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Threads", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(database.TopLevel, database.OldestFirst)
		}).
		Preload("Threads.Community").
		Preload("Threads.Children", database.OldestFirst).
		Preload("Threads.Children.Author").
		Where("auth_id = ?", authID).
		First(&user).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

// Search lists users other than the caller whose username or name contains
// the search string, case-insensitively.
func (r *GormUserRepository) Search(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	matches := func(db *gorm.DB) *gorm.DB {
		db = db.Where("auth_id <> ?", filter.ExcludeAuthID)
		if term := strings.TrimSpace(filter.Search); term != "" {
			pattern := "%" + likeEscaper.Replace(models.FoldName(term)) + "%"
			db = db.Where("(LOWER(username) LIKE ? ESCAPE '!' OR name_fold LIKE ? ESCAPE '!')", pattern, pattern)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(matches).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if filter.Ascending {
		order = "created_at ASC"
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Scopes(matches, database.Paginate(filter.Offset, filter.Limit)).
		Order(order).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
