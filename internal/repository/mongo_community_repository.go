package repository

import (
	"context"

	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MongoCommunityRepository is a MongoDB implementation of CommunityRepository
type MongoCommunityRepository struct {
	m      *database.Mongo
	loader mongoLoader
}

// NewMongoCommunityRepository creates a new CommunityRepository backed by MongoDB
func NewMongoCommunityRepository(m *database.Mongo) CommunityRepository {
	return &MongoCommunityRepository{m: m, loader: mongoLoader{m: m}}
}

// Create creates a new community
func (r *MongoCommunityRepository) Create(ctx context.Context, community *models.Community) error {
	if community.ID == "" {
		community.ID = models.NewID()
	}
	if community.ThreadIDs == nil {
		community.ThreadIDs = []string{}
	}
	_, err := r.m.Communities.InsertOne(ctx, community)
	return translateMongoError(err)
}

// FindByCommunityID finds a community by its external id
func (r *MongoCommunityRepository) FindByCommunityID(ctx context.Context, communityID string) (*models.Community, error) {
	var community models.Community
	if err := r.m.Communities.FindOne(ctx, bson.M{"id": communityID}).Decode(&community); err != nil {
		return nil, translateMongoError(err)
	}
	return &community, nil
}

// FindWithPosts finds a community with its threads in posting order
func (r *MongoCommunityRepository) FindWithPosts(ctx context.Context, communityID string) (*models.Community, error) {
	community, err := r.FindByCommunityID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	threads, err := r.loader.threadsInOrder(ctx, community.ThreadIDs)
	if err != nil {
		return nil, err
	}
	if err := r.loader.attachAuthors(ctx, threads); err != nil {
		return nil, err
	}
	if err := r.loader.attachChildren(ctx, threads); err != nil {
		return nil, err
	}

	community.Threads = threads
	return community, nil
}
