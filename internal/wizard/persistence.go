package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNoDraft = errors.New("no draft stored")

// Persistence stores raw draft blobs per owner and key.
type Persistence interface {
	Load(ctx context.Context, owner, key string) ([]byte, error)
	Save(ctx context.Context, owner, key string, data []byte) error
	Clear(ctx context.Context, owner string, keys ...string) error
}

type MemoryPersistence struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{drafts: make(map[string][]byte)}
}

func draftKey(owner, key string) string {
	return fmt.Sprintf("wizard:%s:%s", owner, key)
}

func (m *MemoryPersistence) Load(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.drafts[draftKey(owner, key)]
	if !ok {
		return nil, ErrNoDraft
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryPersistence) Save(_ context.Context, owner, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draftKey(owner, key)] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryPersistence) Clear(_ context.Context, owner string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.drafts, draftKey(owner, k))
	}
	return nil
}

// DraftTTL bounds how long an abandoned draft stays in Redis.
const DraftTTL = 30 * 24 * time.Hour

type RedisPersistence struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisPersistence(client *redis.Client, logger *zap.Logger) *RedisPersistence {
	return &RedisPersistence{client: client, logger: logger.Named("RedisWizardDrafts")}
}

func (r *RedisPersistence) Load(ctx context.Context, owner, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, draftKey(owner, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoDraft
	}
	if err != nil {
		r.logger.Error("Failed to load draft", zap.String("owner", owner), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return data, nil
}

func (r *RedisPersistence) Save(ctx context.Context, owner, key string, data []byte) error {
	if err := r.client.Set(ctx, draftKey(owner, key), data, DraftTTL).Err(); err != nil {
		r.logger.Error("Failed to save draft", zap.String("owner", owner), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *RedisPersistence) Clear(ctx context.Context, owner string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = draftKey(owner, k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		r.logger.Error("Failed to clear drafts", zap.String("owner", owner), zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("clear drafts: %w", err)
	}
	return nil
}
