package repository

import (
	"context"

	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"gorm.io/gorm"
)

// GormCommunityRepository is a GORM implementation of CommunityRepository
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &GormCommunityRepository{db: db}
}

// Create creates a new community
func (r *GormCommunityRepository) Create(ctx context.Context, community *models.Community) error {
	return translateGormError(r.db.WithContext(ctx).Omit("Threads").Create(community).Error)
}

// FindByCommunityID finds a community by its external id
func (r *GormCommunityRepository) FindByCommunityID(ctx context.Context, communityID string) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Where("community_id = ?", communityID).First(&community).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &community, nil
}

// FindWithPosts finds a community with its threads in posting order
func (r *GormCommunityRepository) FindWithPosts(ctx context.Context, communityID string) (*models.Community, error) {
	var community models.Community
	err := r.db.WithContext(ctx).
		Preload("Threads", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(database.TopLevel, database.OldestFirst)
		}).
		Preload("Threads.Author").
		Preload("Threads.Children", database.OldestFirst).
		Preload("Threads.Children.Author").
		Where("community_id = ?", communityID).
		First(&community).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &community, nil
}
