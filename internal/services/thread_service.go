package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/metrics"
	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/repository"
	"github.com/yukikurage/threads-api/internal/revalidate"
)

// ThreadService handles thread business logic
type ThreadService struct {
	threadRepo    repository.ThreadRepository
	communityRepo repository.CommunityRepository
	notifier      revalidate.Notifier
	now           func() time.Time
}

// NewThreadService creates a new ThreadService
func NewThreadService(threadRepo repository.ThreadRepository, communityRepo repository.CommunityRepository, notifier revalidate.Notifier) *ThreadService {
	if notifier == nil {
		notifier = revalidate.LogNotifier{}
	}
	return &ThreadService{
		threadRepo:    threadRepo,
		communityRepo: communityRepo,
		notifier:      notifier,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to stamp new threads.
func (s *ThreadService) WithClock(now func() time.Time) *ThreadService {
	s.now = now
	return s
}

// CreateThreadInput represents input for creating a thread
type CreateThreadInput struct {
	Text     string
	AuthorID string
	// CommunityID is the external community id. Unknown ids make a personal thread.
	CommunityID *string
	Path        string
}

// AddCommentInput represents input for replying to a thread
type AddCommentInput struct {
	ThreadID string
	Text     string
	AuthorID string
	Path     string
}

// ThreadPage is one page of the home feed.
type ThreadPage struct {
	Threads []models.Thread
	IsNext  bool
}

// CreateThread creates a top-level thread and signals invalidation of input.Path.
func (s *ThreadService) CreateThread(ctx context.Context, input CreateThreadInput) (*models.Thread, error) {
	const op = "create thread"

	if strings.TrimSpace(input.Text) == "" {
		return nil, fail(op, apierrors.Newf(apierrors.ErrValidation, op, "thread text cannot be empty"))
	}

	thread := &models.Thread{
		Text:      input.Text,
		AuthorID:  input.AuthorID,
		CreatedAt: s.now(),
	}

	var community *models.Community
	if input.CommunityID != nil && *input.CommunityID != "" {
		found, err := s.communityRepo.FindByCommunityID(ctx, *input.CommunityID)
		switch {
		case err == nil:
			community = found
			thread.CommunityID = &found.ID
		case errors.Is(err, repository.ErrNotFound):
			// personal thread
		default:
			return nil, fail(op, err)
		}
	}

	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, fail(op, err)
	}
	thread.Community = community

	metrics.PostsCreated.WithLabelValues(metrics.KindThread).Inc()
	s.notifier.Invalidate(ctx, input.Path)
	return thread, nil
}

// FetchThreads returns a page of top-level threads, newest first.
func (s *ThreadService) FetchThreads(ctx context.Context, pageNumber, pageSize int) (*ThreadPage, error) {
	const op = "fetch threads"

	offset, err := pageOffset(op, pageNumber, pageSize)
	if err != nil {
		return nil, fail(op, err)
	}

	threads, total, err := s.threadRepo.ListTopLevel(ctx, offset, pageSize)
	if err != nil {
		return nil, fail(op, err)
	}

	return &ThreadPage{
		Threads: threads,
		IsNext:  total > int64(offset+len(threads)),
	}, nil
}

// FetchThreadByID returns a thread with two levels of replies.
func (s *ThreadService) FetchThreadByID(ctx context.Context, id string) (*models.Thread, error) {
	thread, err := s.threadRepo.FindWithReplies(ctx, id)
	if err != nil {
		return nil, fail("fetch thread", err)
	}
	return thread, nil
}

// AddCommentToThread replies to an existing thread. Nothing is written and no
// invalidation is signalled when the thread does not exist.
func (s *ThreadService) AddCommentToThread(ctx context.Context, input AddCommentInput) (*models.Thread, error) {
	const op = "add comment to thread"

	if strings.TrimSpace(input.Text) == "" {
		return nil, fail(op, apierrors.Newf(apierrors.ErrValidation, op, "comment text cannot be empty"))
	}

	parentID := input.ThreadID
	reply := &models.Thread{
		Text:      input.Text,
		AuthorID:  input.AuthorID,
		ParentID:  &parentID,
		CreatedAt: s.now(),
	}

	if err := s.threadRepo.CreateReply(ctx, reply); err != nil {
		return nil, fail(op, err)
	}

	metrics.PostsCreated.WithLabelValues(metrics.KindReply).Inc()
	s.notifier.Invalidate(ctx, input.Path)
	return reply, nil
}
