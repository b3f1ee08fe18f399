package repository

import (
	"context"

	"github.com/samber/lo"
	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoThreadRepository is a MongoDB implementation of ThreadRepository
type MongoThreadRepository struct {
	m      *database.Mongo
	loader mongoLoader
}

// NewMongoThreadRepository creates a new ThreadRepository backed by MongoDB
func NewMongoThreadRepository(m *database.Mongo) ThreadRepository {
	return &MongoThreadRepository{m: m, loader: mongoLoader{m: m}}
}

// Create inserts the thread and appends its id to the author's and the community's threads.
func (r *MongoThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	prepareThread(thread)
	err := runInTransaction(ctx, r.m, func(sc mongo.SessionContext) error {
		if _, err := r.m.Threads.InsertOne(sc, thread); err != nil {
			return err
		}
		if err := pushRef(sc, r.m.Users, thread.AuthorID, "threads", thread.ID); err != nil {
			return err
		}
		if thread.CommunityID != nil {
			return pushRef(sc, r.m.Communities, *thread.CommunityID, "threads", thread.ID)
		}
		return nil
	})
	return translateMongoError(err)
}

// CreateReply appends the reply id to the parent's children and inserts the reply.
func (r *MongoThreadRepository) CreateReply(ctx context.Context, reply *models.Thread) error {
	if reply.ParentID == nil {
		return ErrNotFound
	}
	prepareThread(reply)
	err := runInTransaction(ctx, r.m, func(sc mongo.SessionContext) error {
		if err := pushRef(sc, r.m.Threads, *reply.ParentID, "children", reply.ID); err != nil {
			return err
		}
		n, err := r.m.Users.CountDocuments(sc, bson.M{"_id": reply.AuthorID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err = r.m.Threads.InsertOne(sc, reply)
		return err
	})
	return translateMongoError(err)
}

// ListTopLevel retrieves a page of top-level threads, newest first
func (r *MongoThreadRepository) ListTopLevel(ctx context.Context, offset, limit int) ([]models.Thread, int64, error) {
	filter := bson.M{"parent_id": nil}

	total, err := r.m.Threads.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	threads, err := r.loader.findThreads(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	if err := r.loader.attachAuthors(ctx, threads); err != nil {
		return nil, 0, err
	}
	if err := r.loader.attachCommunities(ctx, threads); err != nil {
		return nil, 0, err
	}
	if err := r.loader.attachChildren(ctx, threads); err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

// FindWithReplies finds a thread by ID with two levels of replies
func (r *MongoThreadRepository) FindWithReplies(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	if err := r.m.Threads.FindOne(ctx, bson.M{"_id": id}).Decode(&thread); err != nil {
		return nil, translateMongoError(err)
	}

	threads := []models.Thread{thread}
	if err := r.loader.attachAuthors(ctx, threads); err != nil {
		return nil, err
	}
	if err := r.loader.attachCommunities(ctx, threads); err != nil {
		return nil, err
	}
	if err := r.loader.attachChildren(ctx, threads); err != nil {
		return nil, err
	}
	if err := r.loader.attachChildren(ctx, threads[0].Children); err != nil {
		return nil, err
	}

	return &threads[0], nil
}

// ListRepliesTo lists replies by other users to threads written by authorID
func (r *MongoThreadRepository) ListRepliesTo(ctx context.Context, authorID string) ([]models.Thread, error) {
	own, err := r.loader.findThreads(ctx,
		bson.M{"author": authorID},
		options.Find().SetProjection(bson.M{"children": 1}),
	)
	if err != nil {
		return nil, err
	}

	childIDs := lo.Uniq(lo.FlatMap(own, func(t models.Thread, _ int) []string { return t.ChildIDs }))
	if len(childIDs) == 0 {
		return []models.Thread{}, nil
	}

	replies, err := r.loader.findThreads(ctx,
		bson.M{
			"_id":    bson.M{"$in": childIDs},
			"author": bson.M{"$ne": authorID},
		},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	if err := r.loader.attachAuthors(ctx, replies); err != nil {
		return nil, err
	}
	return replies, nil
}
