// Package seed fills a store with fake users, communities and conversations
// for local development.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/services"
)

// Options controls how much data a run creates.
type Options struct {
	Users            int
	Communities      int
	ThreadsPerUser   int
	RepliesPerThread int
	// Seed makes the generated content reproducible. Zero picks a random seed.
	Seed int64
}

// DefaultOptions is a small but browsable data set.
var DefaultOptions = Options{
	Users:            12,
	Communities:      3,
	ThreadsPerUser:   4,
	RepliesPerThread: 3,
}

// Result counts what a run created.
type Result struct {
	Users       int
	Communities int
	Threads     int
	Replies     int
}

// Seeder writes fake data through the services so every invariant holds.
type Seeder struct {
	threads     *services.ThreadService
	users       *services.UserService
	communities *services.CommunityService
	faker       *gofakeit.Faker
	opts        Options
}

// NewSeeder creates a Seeder.
func NewSeeder(threads *services.ThreadService, users *services.UserService, communities *services.CommunityService, opts Options) *Seeder {
	return &Seeder{
		threads:     threads,
		users:       users,
		communities: communities,
		faker:       gofakeit.New(opts.Seed),
		opts:        opts,
	}
}

// Run creates communities, onboarded users, their threads and replies from other users.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	communities := make([]*models.Community, 0, s.opts.Communities)
	for i := 0; i < s.opts.Communities; i++ {
		community, err := s.communities.CreateCommunity(ctx, services.CreateCommunityInput{
			CommunityID: "org_" + s.faker.UUID(),
			Name:        s.faker.Company(),
			Image:       s.faker.ImageURL(256, 256),
		})
		if err != nil {
			return result, fmt.Errorf("failed to seed community: %w", err)
		}
		communities = append(communities, community)
		result.Communities++
	}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.users.UpdateUser(ctx, services.UpdateUserInput{
			AuthID:   "seed_" + s.faker.UUID(),
			Username: fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i),
			Name:     s.faker.Name(),
			Bio:      s.faker.Sentence(12),
			Image:    s.faker.ImageURL(128, 128),
		})
		if err != nil {
			return result, fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
		result.Users++
	}

	for _, author := range users {
		for i := 0; i < s.opts.ThreadsPerUser; i++ {
			input := services.CreateThreadInput{
				Text:     s.faker.Sentence(s.faker.Number(5, 25)),
				AuthorID: author.ID,
			}
			if len(communities) > 0 && s.faker.Bool() {
				c := communities[s.faker.Number(0, len(communities)-1)]
				input.CommunityID = &c.CommunityID
			}

			thread, err := s.threads.CreateThread(ctx, input)
			if err != nil {
				return result, fmt.Errorf("failed to seed thread: %w", err)
			}
			result.Threads++

			if err := s.reply(ctx, thread, author, users, result); err != nil {
				return result, err
			}
		}
	}

	log.WithFields(log.Fields{
		"users":       result.Users,
		"communities": result.Communities,
		"threads":     result.Threads,
		"replies":     result.Replies,
	}).Info("Seed completed")
	return result, nil
}

func (s *Seeder) reply(ctx context.Context, thread *models.Thread, author *models.User, users []*models.User, result *Result) error {
	if len(users) < 2 {
		return nil
	}
	for i := 0; i < s.opts.RepliesPerThread; i++ {
		replier := users[s.faker.Number(0, len(users)-1)]
		if replier.ID == author.ID {
			continue
		}
		if _, err := s.threads.AddCommentToThread(ctx, services.AddCommentInput{
			ThreadID: thread.ID,
			Text:     s.faker.Sentence(s.faker.Number(3, 15)),
			AuthorID: replier.ID,
		}); err != nil {
			return fmt.Errorf("failed to seed reply: %w", err)
		}
		result.Replies++
	}
	return nil
}
