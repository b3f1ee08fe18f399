package services

import (
	"context"
	"strings"
	"time"

	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/repository"
)

// CommunityService provides read access to communities
type CommunityService struct {
	communityRepo repository.CommunityRepository
	now           func() time.Time
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		now:           time.Now,
	}
}

// CreateCommunityInput represents a community mirrored from the identity provider
type CreateCommunityInput struct {
	CommunityID string
	Name        string
	Image       string
}

// CreateCommunity stores a community. Communities are normally provisioned
// outside this service; the seed command uses it.
func (s *CommunityService) CreateCommunity(ctx context.Context, input CreateCommunityInput) (*models.Community, error) {
	const op = "create community"

	if strings.TrimSpace(input.CommunityID) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fail(op, apierrors.Newf(apierrors.ErrValidation, op, "community id and name are required"))
	}

	community := &models.Community{
		CommunityID: input.CommunityID,
		Name:        input.Name,
		Image:       input.Image,
		CreatedAt:   s.now(),
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, fail(op, err)
	}
	return community, nil
}

// FetchCommunityPosts returns the community with its threads.
func (s *CommunityService) FetchCommunityPosts(ctx context.Context, communityID string) (*models.Community, error) {
	community, err := s.communityRepo.FindWithPosts(ctx, communityID)
	if err != nil {
		return nil, fail("fetch community posts", err)
	}
	return community, nil
}
