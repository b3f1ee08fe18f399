// Package app wires configuration, store, notifier and services together.
package app

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/threads-api/internal/config"
	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/repository"
	"github.com/yukikurage/threads-api/internal/revalidate"
	"github.com/yukikurage/threads-api/internal/services"
)

// App holds the long-lived collaborators of a process.
type App struct {
	Config      *config.Config
	Manager     *database.Manager
	Notifier    revalidate.Notifier
	Threads     *services.ThreadService
	Users       *services.UserService
	Communities *services.CommunityService
}

// New connects to the store, migrates it and builds the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	manager := database.NewManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		return nil, err
	}
	if err := manager.Migrate(); err != nil {
		_ = manager.Close(ctx)
		return nil, err
	}

	repos, err := repository.New(manager)
	if err != nil {
		_ = manager.Close(ctx)
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	notifier := revalidate.Connect(ctx, cfg.RedisURL, cfg.RevalidateChannel)

	return &App{
		Config:      cfg,
		Manager:     manager,
		Notifier:    notifier,
		Threads:     services.NewThreadService(repos.Threads, repos.Communities, notifier),
		Users:       services.NewUserService(repos.Users, repos.Threads, notifier),
		Communities: services.NewCommunityService(repos.Communities),
	}, nil
}

// Close releases the notifier and the store connection.
func (a *App) Close(ctx context.Context) {
	if closer, ok := a.Notifier.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.WithError(err).Warn("Failed to close revalidation notifier")
		}
	}
	if err := a.Manager.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to close database connection")
	}
}
