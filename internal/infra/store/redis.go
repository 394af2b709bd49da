package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/config"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/repository"
)

const convKeyPrefix = "conv:"

// Compile-time check
var _ repository.ConversationStore = (*RedisStore)(nil)

// RedisStore snapshots conversations into redis with a key TTL, giving the
// store bounded growth without a sweeper. Per-key serialization is still
// local: the process is the only writer, so an in-process lock per key is
// enough to order append-call-append sequences.
type RedisStore struct {
	cli *redis.Client
	ttl time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	log *zerolog.Logger
}

// NewRedisClient connects and pings so a bad endpoint is caught at wiring
// time rather than on the first request.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return cli, nil
}

func NewRedisStore(cli *redis.Client, ttl time.Duration, logger *zerolog.Logger) *RedisStore {
	storeLog := logger.With().Str("component", "RedisStore").Logger()
	return &RedisStore{
		cli:   cli,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
		log:   &storeLog,
	}
}

func (r *RedisStore) With(ctx context.Context, key model.ConversationKey, fn func(conv *model.Conversation) error) error {
	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	conv, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(conv); err != nil {
		return err
	}
	return r.save(ctx, conv)
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	total := 0
	for {
		keys, next, err := r.cli.Scan(ctx, cursor, convKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

// EvictIdle is a no-op: redis expires keys by TTL on its own.
func (r *RedisStore) EvictIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	return 0, nil
}

func (r *RedisStore) keyLock(key model.ConversationKey) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key.String()
	lock, ok := r.locks[k]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[k] = lock
	}
	return lock
}

func (r *RedisStore) load(ctx context.Context, key model.ConversationKey) (*model.Conversation, error) {
	data, err := r.cli.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.log.Debug().Str("session_id", key.SessionID).Msg("conversation created")
		return model.NewConversation(key), nil
	}
	if err != nil {
		return nil, err
	}
	var conv model.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *RedisStore) save(ctx context.Context, conv *model.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return r.cli.Set(ctx, redisKey(conv.Key), data, r.ttl).Err()
}

// redisKey hashes the composite key: instructions are free-form text and
// would otherwise produce unbounded, binary-unsafe key names.
func redisKey(key model.ConversationKey) string {
	sum := sha256.Sum256([]byte(key.String()))
	return convKeyPrefix + hex.EncodeToString(sum[:])
}
