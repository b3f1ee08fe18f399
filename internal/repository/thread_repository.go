package repository

import (
	"context"

	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"gorm.io/gorm"
)

// GormThreadRepository is a GORM implementation of ThreadRepository
type GormThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new ThreadRepository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &GormThreadRepository{db: db}
}

// Create creates a new top-level thread. The author and, when set, the
// community must exist.
func (r *GormThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, thread.AuthorID); err != nil {
			return err
		}
		if thread.CommunityID != nil {
			if err := requireRow(tx, &models.Community{}, *thread.CommunityID); err != nil {
				return err
			}
		}
		return tx.Omit("Author", "Community", "Children").Create(thread).Error
	})
	return translateGormError(err)
}

// CreateReply creates a reply under an existing thread
func (r *GormThreadRepository) CreateReply(ctx context.Context, reply *models.Thread) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reply.ParentID == nil {
			return ErrNotFound
		}
		if err := requireRow(tx, &models.Thread{}, *reply.ParentID); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, reply.AuthorID); err != nil {
			return err
		}
		return tx.Omit("Author", "Community", "Children").Create(reply).Error
	})
	return translateGormError(err)
}

// ListTopLevel retrieves a page of top-level threads, newest first
func (r *GormThreadRepository) ListTopLevel(ctx context.Context, offset, limit int) ([]models.Thread, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Thread{}).Scopes(database.TopLevel).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []models.Thread
	err := r.db.WithContext(ctx).
		Scopes(database.TopLevel, database.Paginate(offset, limit)).
		Order("created_at DESC").
		Preload("Author").
		Preload("Community").
		Preload("Children", database.OldestFirst).
		Preload("Children.Author").
		Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

// FindWithReplies finds a thread by ID with two levels of replies
func (r *GormThreadRepository) FindWithReplies(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Community").
		Preload("Children", database.OldestFirst).
		Preload("Children.Author").
		Preload("Children.Children", database.OldestFirst).
		Preload("Children.Children.Author").
		Where("id = ?", id).
		First(&thread).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &thread, nil
}

// ListRepliesTo lists replies by other users to threads written by authorID
func (r *GormThreadRepository) ListRepliesTo(ctx context.Context, authorID string) ([]models.Thread, error) {
	ownThreads := r.db.Model(&models.Thread{}).Select("id").Where("author_id = ?", authorID)

	var replies []models.Thread
	err := r.db.WithContext(ctx).
		Where("parent_id IN (?)", ownThreads).
		Where("author_id <> ?", authorID).
		Order("created_at DESC").
		Preload("Author").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}
