package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// channelPrefix namespaces the pub/sub channels that announce writes.
const channelPrefix = "storage:"

// RedisStorage is a Storage backed by a Redis server shared by every tab.
// Each instance is one tab: writes are announced on storage:<key> with the
// instance's origin id, and announcements from other origins reach Watch.
type RedisStorage struct {
	client *redis.Client
	origin string
	logger zerolog.Logger

	watchers  registry
	pubsub    *redis.PubSub
	done      chan struct{}
	closeOnce sync.Once
}

// NewRedisStorage accepts a Redis URL ("redis://host:port/0") or a plain
// "host:port" address and returns a connected tab.
func NewRedisStorage(ctx context.Context, addr string, logger zerolog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// If not in "redis://..." format, use it as a simple Addr.
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	s, err := NewRedisStorageWithClient(ctx, client, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// NewRedisStorageWithClient creates a tab on an existing client. It
// subscribes to write announcements before returning.
func NewRedisStorageWithClient(ctx context.Context, client *redis.Client, logger zerolog.Logger) (*RedisStorage, error) {
	origin := uuid.NewString()

	pubsub := client.PSubscribe(ctx, channelPrefix+"*")
	// Wait for the subscription to be confirmed so no write is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to storage events: %w", err)
	}

	s := &RedisStorage{
		client: client,
		origin: origin,
		logger: logger.With().Str("component", "redis-storage").Str("origin", origin).Logger(),
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	go s.listen()

	s.logger.Debug().Msg("redis storage tab opened")

	return s, nil
}

// Origin returns the id this tab stamps on its write announcements.
func (s *RedisStorage) Origin() string {
	return s.origin
}

// GetItem returns the value stored under key.
func (s *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, true, nil
}

// SetItem stores value and announces the write to the other tabs.
func (s *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}

	// The value is committed; a lost announcement only delays other tabs.
	if err := s.client.Publish(ctx, channelPrefix+key, s.origin).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to announce storage write")
	}
	return nil
}

// Watch calls fn when another tab writes key.
func (s *RedisStorage) Watch(key string, fn func()) (unsubscribe func()) {
	return s.watchers.add(key, fn)
}

// Close stops listening for announcements. The client is left open.
func (s *RedisStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.pubsub.Close()
		<-s.done
	})
	return err
}

func (s *RedisStorage) listen() {
	defer close(s.done)

	for msg := range s.pubsub.Channel() {
		if msg.Payload == s.origin {
			continue
		}
		key := strings.TrimPrefix(msg.Channel, channelPrefix)
		s.logger.Debug().Str("key", key).Str("writer", msg.Payload).Msg("storage changed in another tab")
		s.watchers.notify(key)
	}
}
