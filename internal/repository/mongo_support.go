package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// runInTransaction runs fn in a multi-document transaction. The deployment
// must be a replica set or sharded cluster.
func runInTransaction(ctx context.Context, m *database.Mongo, fn func(sc mongo.SessionContext) error) error {
	session, err := m.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// pushRef appends ref to the array field of the document with the given id.
func pushRef(ctx context.Context, coll *mongo.Collection, id, field, ref string) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{field: ref}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, coll.Name(), id)
	}
	return nil
}

// mongoLoader resolves references stored as id arrays.
type mongoLoader struct {
	m *database.Mongo
}

func (l mongoLoader) findThreads(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Thread, error) {
	cur, err := l.m.Threads.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	threads := []models.Thread{}
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// threadsInOrder loads the threads with the given ids, keeping the order of ids.
// Dangling ids are skipped.
func (l mongoLoader) threadsInOrder(ctx context.Context, ids []string) ([]models.Thread, error) {
	if len(ids) == 0 {
		return []models.Thread{}, nil
	}
	found, err := l.findThreads(ctx, bson.M{"_id": bson.M{"$in": lo.Uniq(ids)}})
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(found, func(t models.Thread) string { return t.ID })
	return lo.FilterMap(ids, func(id string, _ int) (models.Thread, bool) {
		t, ok := byID[id]
		return t, ok
	}), nil
}

func (l mongoLoader) attachAuthors(ctx context.Context, threads []models.Thread) error {
	ids := lo.Uniq(lo.Map(threads, func(t models.Thread, _ int) string { return t.AuthorID }))
	if len(ids) == 0 {
		return nil
	}

	cur, err := l.m.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return err
	}

	byID := lo.KeyBy(users, func(u models.User) string { return u.ID })
	for i := range threads {
		if u, ok := byID[threads[i].AuthorID]; ok {
			threads[i].Author = &u
		}
	}
	return nil
}

func (l mongoLoader) attachCommunities(ctx context.Context, threads []models.Thread) error {
	ids := lo.Uniq(lo.FilterMap(threads, func(t models.Thread, _ int) (string, bool) {
		if t.CommunityID == nil {
			return "", false
		}
		return *t.CommunityID, true
	}))
	if len(ids) == 0 {
		return nil
	}

	cur, err := l.m.Communities.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	var communities []models.Community
	if err := cur.All(ctx, &communities); err != nil {
		return err
	}

	byID := lo.KeyBy(communities, func(c models.Community) string { return c.ID })
	for i := range threads {
		if threads[i].CommunityID == nil {
			continue
		}
		if c, ok := byID[*threads[i].CommunityID]; ok {
			threads[i].Community = &c
		}
	}
	return nil
}

// attachChildren resolves one level of replies, each with its author.
func (l mongoLoader) attachChildren(ctx context.Context, threads []models.Thread) error {
	ids := lo.Uniq(lo.FlatMap(threads, func(t models.Thread, _ int) []string { return t.ChildIDs }))
	if len(ids) == 0 {
		return nil
	}

	children, err := l.findThreads(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	if err := l.attachAuthors(ctx, children); err != nil {
		return err
	}

	byID := lo.KeyBy(children, func(t models.Thread) string { return t.ID })
	for i := range threads {
		threads[i].Children = lo.FilterMap(threads[i].ChildIDs, func(id string, _ int) (models.Thread, bool) {
			c, ok := byID[id]
			return c, ok
		})
	}
	return nil
}

func prepareThread(t *models.Thread) {
	if t.ID == "" {
		t.ID = models.NewID()
	}
	if t.ChildIDs == nil {
		t.ChildIDs = []string{}
	}
}
