package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/drakos74/envelope/internal/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPrefix = "envelope"
	// DefaultLockTTL bounds the lock in case the holder dies without releasing it.
	DefaultLockTTL = 5 * time.Minute
)

// the lock is only released by its holder
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Config holds the redis connection details.
type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewClient creates a new redis client.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Storage keeps every key as a json string value in redis.
type Storage struct {
	rdb     *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// NewStorage creates a new redis storage with keys under the given prefix.
func NewStorage(rdb *redis.Client, prefix string) *Storage {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Storage{
		rdb:     rdb,
		prefix:  prefix,
		ttl:     DefaultLockTTL,
		timeout: 10 * time.Second,
	}
}

// WithLockTTL sets the expiry of the lock keys.
func (s *Storage) WithLockTTL(ttl time.Duration) *Storage {
	s.ttl = ttl
	return s
}

// Key returns the redis key of the storage key.
func (s *Storage) Key(k storage.Key) string {
	return fmt.Sprintf("%s:%s", s.prefix, k.Path())
}

func (s *Storage) lockKey(k storage.Key) string {
	return fmt.Sprintf("%s:lock", s.Key(k))
}

func (s *Storage) Store(k storage.Key, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.rdb.Set(ctx, s.Key(k), data, 0).Err(); err != nil {
		return fmt.Errorf("could not store '%s': %w", s.Key(k), err)
	}
	return nil
}

func (s *Storage) Load(k storage.Key, value interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	data, err := s.rdb.Get(ctx, s.Key(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("could not find '%s': %w", s.Key(k), storage.ErrNotFound)
		}
		return fmt.Errorf("could not load '%s': %w", s.Key(k), err)
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("could not unmarshal '%s' %s: %w", s.Key(k), err.Error(), storage.ErrCouldNotLoad)
	}
	return nil
}

// Lock sets the lock key only if it does not exist.
// The lock expires after the configured ttl if never released.
func (s *Storage) Lock(ctx context.Context, k storage.Key) (func() error, error) {
	key := s.lockKey(k)
	token := uuid.New().String()
	ok, err := s.rdb.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("could not lock '%s': %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("'%s': %w", key, storage.ErrLocked)
	}
	log.Debug().Str("lock", key).Str("token", token).Msg("acquired lock")
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := unlockScript.Run(ctx, s.rdb, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("could not unlock '%s': %w", key, err)
		}
		return nil
	}, nil
}
