package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/threads-api/internal/database"
	"github.com/yukikurage/threads-api/internal/models"
	"github.com/yukikurage/threads-api/internal/repository"
	"github.com/yukikurage/threads-api/internal/revalidate"
	"github.com/yukikurage/threads-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeeder_Run(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	manager := database.NewManagerWithGorm(db)
	require.NoError(t, manager.Migrate())
	repos, err := repository.New(manager)
	require.NoError(t, err)

	notifier := revalidate.LogNotifier{}
	seeder := NewSeeder(
		services.NewThreadService(repos.Threads, repos.Communities, notifier),
		services.NewUserService(repos.Users, repos.Threads, notifier),
		services.NewCommunityService(repos.Communities),
		Options{Users: 4, Communities: 2, ThreadsPerUser: 2, RepliesPerThread: 2, Seed: 42},
	)

	result, err := seeder.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Users)
	assert.Equal(t, 2, result.Communities)
	assert.Equal(t, 8, result.Threads)
	assert.LessOrEqual(t, result.Replies, 16)

	var users, threads int64
	require.NoError(t, db.Model(&models.User{}).Where("onboarded = ?", true).Count(&users).Error)
	require.NoError(t, db.Model(&models.Thread{}).Count(&threads).Error)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(result.Threads+result.Replies), threads)
}
