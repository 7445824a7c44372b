package memory

import (
	"context"
	"sync"

	"github.com/omarshaarawi/bolao/internal/repository"
)

type Repository struct {
	values map[string][]byte
	mu     sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{values: make(map[string][]byte)}
}

func (r *Repository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *Repository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *Repository) Close() error {
	return nil
}
