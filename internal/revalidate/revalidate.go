// Package revalidate signals the rendering layer that a cached view is stale.
package revalidate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/threads-api/internal/metrics"
)

const pingTimeout = 3 * time.Second

// Notifier emits fire-and-forget invalidation signals. Failures are logged, never returned.
type Notifier interface {
	Invalidate(ctx context.Context, path string)
}

// RedisNotifier publishes invalidated paths on a Redis channel.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

// NewRedisNotifier creates a RedisNotifier. A nil client makes it a no-op.
func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, channel: channel}
}

// Invalidate publishes path on the configured channel.
func (n *RedisNotifier) Invalidate(ctx context.Context, path string) {
	if n.rdb == nil || path == "" {
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, path).Err(); err != nil {
		metrics.Invalidations.WithLabelValues("failed").Inc()
		log.WithError(err).WithFields(log.Fields{
			"channel": n.channel,
			"path":    path,
		}).Warn("Failed to publish revalidation")
		return
	}
	metrics.Invalidations.WithLabelValues("published").Inc()
}

// Close closes the underlying client.
func (n *RedisNotifier) Close() error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}

// LogNotifier only logs invalidated paths. Used when Redis is not configured.
type LogNotifier struct{}

// Invalidate logs path.
func (LogNotifier) Invalidate(_ context.Context, path string) {
	if path == "" {
		return
	}
	metrics.Invalidations.WithLabelValues("logged").Inc()
	log.WithField("path", path).Debug("Revalidate path")
}

// Connect returns a RedisNotifier for redisURL, or a LogNotifier when the URL
// is empty, invalid or the server does not answer.
func Connect(ctx context.Context, redisURL, channel string) Notifier {
	if redisURL == "" {
		log.Info("REDIS_URL not set, revalidation signals are only logged")
		return LogNotifier{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.WithError(err).Warn("Invalid REDIS_URL, revalidation signals are only logged")
		return LogNotifier{}
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		log.WithError(err).Warn("Redis unreachable, revalidation signals are only logged")
		return LogNotifier{}
	}

	log.WithField("channel", channel).Info("Publishing revalidation signals to Redis")
	return NewRedisNotifier(rdb, channel)
}
