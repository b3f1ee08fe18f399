package repository

import (
	"context"
	"regexp"
	"strings"

	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository is a MongoDB implementation of UserRepository
type MongoUserRepository struct {
	m      *database.Mongo
	loader mongoLoader
}

// NewMongoUserRepository creates a new UserRepository backed by MongoDB
func NewMongoUserRepository(m *database.Mongo) UserRepository {
	return &MongoUserRepository{m: m, loader: mongoLoader{m: m}}
}

// Upsert creates or updates the user keyed by auth_id in a single round trip.
func (r *MongoUserRepository) Upsert(ctx context.Context, user *models.User) error {
	id := user.ID
	if id == "" {
		id = models.NewID()
	}

	update := bson.M{
		"$set": bson.M{
			"username":   user.Username,
			"name":       user.Name,
			"bio":        user.Bio,
			"image":      user.Image,
			"onboarded":  user.Onboarded,
			"updated_at": user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        id,
			"created_at": user.CreatedAt,
			"threads":    []string{},
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.User
	err := r.m.Users.FindOneAndUpdate(ctx, bson.M{"auth_id": user.AuthID}, update, opts).Decode(&stored)
	if err != nil {
		return translateMongoError(err)
	}
	*user = stored
	return nil
}

// FindByAuthID finds a user by identity provider id
func (r *MongoUserRepository) FindByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	if err := r.m.Users.FindOne(ctx, bson.M{"auth_id": authID}).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

// FindWithPosts finds a user with their threads in posting order
func (r *MongoUserRepository) FindWithPosts(ctx context.Context, authID string) (*models.User, error) {
	user, err := r.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	threads, err := r.loader.threadsInOrder(ctx, user.ThreadIDs)
	if err != nil {
		return nil, err
	}
	if err := r.loader.attachCommunities(ctx, threads); err != nil {
		return nil, err
	}
	if err := r.loader.attachChildren(ctx, threads); err != nil {
		return nil, err
	}

	user.Threads = threads
	return user, nil
}

// Search lists users other than the caller whose username or name contains
// the search string, case-insensitively.
func (r *MongoUserRepository) Search(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := bson.M{"auth_id": bson.M{"$ne": filter.ExcludeAuthID}}
	if term := strings.TrimSpace(filter.Search); term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"username": re},
			bson.M{"name": re},
		}
	}

	total, err := r.m.Users.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	direction := -1
	if filter.Ascending {
		direction = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: direction}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	cur, err := r.m.Users.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
