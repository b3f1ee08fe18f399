package services

import (
	"context"
	"strings"
	"time"

	"github.com/yukikurage/threads-api/internal/constants"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/repository"
	"github.com/yukikurage/threads-api/internal/revalidate"
)

// UserService handles user profile, search and activity logic
type UserService struct {
	userRepo   repository.UserRepository
	threadRepo repository.ThreadRepository
	notifier   revalidate.Notifier
	now        func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, threadRepo repository.ThreadRepository, notifier revalidate.Notifier) *UserService {
	if notifier == nil {
		notifier = revalidate.LogNotifier{}
	}
	return &UserService{
		userRepo:   userRepo,
		threadRepo: threadRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to stamp profile writes.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// UpdateUserInput represents a profile save
type UpdateUserInput struct {
	AuthID   string
	Username string
	Name     string
	Bio      string
	Image    string
	Path     string
}

// FetchUsersInput represents a user search
type FetchUsersInput struct {
	AuthID       string
	SearchString string
	PageNumber   int
	PageSize     int
	SortBy       string
}

// UserPage is one page of user search results.
type UserPage struct {
	Users  []models.User
	IsNext bool
}

// UpdateUser creates or updates the profile of input.AuthID and marks it onboarded.
// Invalidation is signalled only for saves from the profile edit page.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*models.User, error) {
	const op = "update user"

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if strings.TrimSpace(input.AuthID) == "" || username == "" {
		return nil, fail(op, apierrors.Newf(apierrors.ErrValidation, op, "auth id and username are required"))
	}

	now := s.now()
	user := &models.User{
		AuthID:    input.AuthID,
		Username:  username,
		Name:      input.Name,
		Bio:       input.Bio,
		Image:     input.Image,
		Onboarded: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fail(op, err)
	}

	if input.Path == constants.ProfileEditPath {
		s.notifier.Invalidate(ctx, input.Path)
	}
	return user, nil
}

// FetchUser returns the profile of authID.
func (s *UserService) FetchUser(ctx context.Context, authID string) (*models.User, error) {
	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, fail("fetch user", err)
	}
	return user, nil
}

// FetchUsers searches users other than the requester by username or name.
func (s *UserService) FetchUsers(ctx context.Context, input FetchUsersInput) (*UserPage, error) {
	const op = "fetch users"

	pageNumber, pageSize := input.PageNumber, input.PageSize
	if pageNumber == 0 {
		pageNumber = 1
	}
	if pageSize == 0 {
		pageSize = constants.DefaultPageSize
	}
	offset, err := pageOffset(op, pageNumber, pageSize)
	if err != nil {
		return nil, fail(op, err)
	}

	sortBy := strings.ToLower(input.SortBy)
	switch sortBy {
	case "":
		sortBy = constants.SortDesc
	case constants.SortAsc, constants.SortDesc:
	default:
		return nil, fail(op, apierrors.Newf(apierrors.ErrValidation, op, "unknown sort order %q", input.SortBy))
	}

	users, total, err := s.userRepo.Search(ctx, repository.UserFilter{
		ExcludeAuthID: input.AuthID,
		Search:        input.SearchString,
		Ascending:     sortBy == constants.SortAsc,
		Offset:        offset,
		Limit:         pageSize,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &UserPage{
		Users:  users,
		IsNext: total > int64(offset+len(users)),
	}, nil
}

// FetchUserPosts returns the user with their top-level threads.
func (s *UserService) FetchUserPosts(ctx context.Context, authID string) (*models.User, error) {
	user, err := s.userRepo.FindWithPosts(ctx, authID)
	if err != nil {
		return nil, fail("fetch user posts", err)
	}
	return user, nil
}

// FetchActivities returns replies by other users to threads the user wrote, newest first.
func (s *UserService) FetchActivities(ctx context.Context, authID string) ([]models.Thread, error) {
	const op = "fetch activity"

	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, fail(op, err)
	}

	replies, err := s.threadRepo.ListRepliesTo(ctx, user.ID)
	if err != nil {
		return nil, fail(op, err)
	}
	return replies, nil
}
