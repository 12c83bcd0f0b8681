package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/triage/pkg/common/models"
)

// StatusStore keeps the idle/loading/success/error state of the latest
// analysis pass.
type StatusStore interface {
	Save(ctx context.Context, state models.AnalysisState) error
	Load(ctx context.Context) (models.AnalysisState, error)
}

type MemoryStatusStore struct {
	mu    sync.RWMutex
	state models.AnalysisState
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{state: models.AnalysisState{Phase: models.PhaseIdle}}
}

func (m *MemoryStatusStore) Save(_ context.Context, state models.AnalysisState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

func (m *MemoryStatusStore) Load(_ context.Context) (models.AnalysisState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, nil
}

const DefaultStatusKey = "triage:analysis:state"

// RedisStatusStore shares the analysis state between service instances.
type RedisStatusStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStatusStore(client *redis.Client, key string, ttl time.Duration) *RedisStatusStore {
	if key == "" {
		key = DefaultStatusKey
	}
	return &RedisStatusStore{client: client, key: key, ttl: ttl}
}

func (r *RedisStatusStore) Save(ctx context.Context, state models.AnalysisState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding analysis state: %w", err)
	}
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

func (r *RedisStatusStore) Load(ctx context.Context) (models.AnalysisState, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.AnalysisState{Phase: models.PhaseIdle}, nil
	}
	if err != nil {
		return models.AnalysisState{}, err
	}

	var state models.AnalysisState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.AnalysisState{}, fmt.Errorf("decoding analysis state: %w", err)
	}
	return state, nil
}
