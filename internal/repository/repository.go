package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate record")
)

// ThreadRepository defines the interface for thread data access
type ThreadRepository interface {
	// Create inserts a top-level thread and appends it to its author's and
	// community's thread collections in one transaction.
	Create(ctx context.Context, thread *models.Thread) error

	// CreateReply inserts a reply and appends it to the parent's children
	// in one transaction. A missing parent yields ErrNotFound and no writes.
	CreateReply(ctx context.Context, reply *models.Thread) error

	// ListTopLevel returns a page of threads without parent, newest first,
	// with author, community and children (with authors) resolved.
	ListTopLevel(ctx context.Context, offset, limit int) ([]models.Thread, int64, error)

	// FindWithReplies returns a thread with author, community and two
	// levels of replies, each with its author.
	FindWithReplies(ctx context.Context, id string) (*models.Thread, error)

	// ListRepliesTo returns replies written by others to any thread authored
	// by authorID, newest first, with authors resolved.
	ListRepliesTo(ctx context.Context, authorID string) ([]models.Thread, error)
}

// UserFilter holds filtering options for searching users
type UserFilter struct {
	ExcludeAuthID string
	Search        string
	Ascending     bool
	Offset        int
	Limit         int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert creates or updates the user keyed by AuthID and loads the stored record back into user.
	Upsert(ctx context.Context, user *models.User) error

	// FindByAuthID finds a user by identity provider id
	FindByAuthID(ctx context.Context, authID string) (*models.User, error)

	// FindWithPosts finds a user with their top-level threads, each with
	// community and children (with authors) resolved.
	FindWithPosts(ctx context.Context, authID string) (*models.User, error)

	// Search lists users matching the filter and the total match count
	Search(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}

// CommunityRepository defines the interface for community data access
type CommunityRepository interface {
	// Create creates a new community
	Create(ctx context.Context, community *models.Community) error

	// FindByCommunityID finds a community by its external id
	FindByCommunityID(ctx context.Context, communityID string) (*models.Community, error)

	// FindWithPosts finds a community with its threads, each with author
	// and children (with authors) resolved.
	FindWithPosts(ctx context.Context, communityID string) (*models.Community, error)
}

// Repositories groups the repositories backed by one store.
type Repositories struct {
	Threads     ThreadRepository
	Users       UserRepository
	Communities CommunityRepository
}

// New picks the implementations matching the manager's active connection.
func New(m *database.Manager) (*Repositories, error) {
	if mongoDB := m.Mongo(); mongoDB != nil {
		return &Repositories{
			Threads:     NewMongoThreadRepository(mongoDB),
			Users:       NewMongoUserRepository(mongoDB),
			Communities: NewMongoCommunityRepository(mongoDB),
		}, nil
	}
	if db := m.Gorm(); db != nil {
		return &Repositories{
			Threads:     NewThreadRepository(db),
			Users:       NewUserRepository(db),
			Communities: NewCommunityRepository(db),
		}, nil
	}
	return nil, fmt.Errorf("repository: database %q is not connected", m.Driver())
}
