package main

import (
	"context"
	"flag"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/threads-api/internal/app"
	"github.com/yukikurage/threads-api/internal/config"
	"github.com/yukikurage/threads-api/internal/logging"
	"github.com/yukikurage/threads-api/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	flag.IntVar(&opts.Communities, "communities", opts.Communities, "number of communities to create")
	flag.IntVar(&opts.ThreadsPerUser, "threads", opts.ThreadsPerUser, "threads per user")
	flag.IntVar(&opts.RepliesPerThread, "replies", opts.RepliesPerThread, "replies per thread")
	flag.Int64Var(&opts.Seed, "seed", 0, "random seed (0 for random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close(ctx)

	seeder := seed.NewSeeder(application.Threads, application.Users, application.Communities, opts)
	if _, err := seeder.Run(ctx); err != nil {
		log.Errorf("Seed failed: %v", err)
		return
	}
}
