// Package store persists the pool's three collections as JSON documents in a
// key-value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/bolao/internal/models"
	"github.com/omarshaarawi/bolao/internal/pool"
	"github.com/omarshaarawi/bolao/internal/repository"
)

type Collection string

const (
	Profiles    Collection = "profiles"
	Matches     Collection = "matches"
	Predictions Collection = "predictions"
)

var Collections = []Collection{Profiles, Matches, Predictions}

// Store wraps a KV backend. Collections are written independently; there is
// no transaction spanning more than one key.
type Store struct {
	kv     repository.KV
	prefix string
}

func NewStore(kv repository.KV, keyPrefix string) *Store {
	return &Store{kv: kv, prefix: keyPrefix}
}

func (s *Store) Key(c Collection) string {
	return s.prefix + string(c)
}

// LoadOrInit reads every collection. Missing or unreadable documents are
// replaced by seed data, which is written back immediately.
func (s *Store) LoadOrInit(ctx context.Context) (pool.State, error) {
	var st pool.State
	var err error

	if st.Profiles, err = loadOrSeed(ctx, s, Profiles, models.DefaultProfiles); err != nil {
		return pool.State{}, err
	}
	if st.Matches, err = loadOrSeed(ctx, s, Matches, models.DefaultMatches); err != nil {
		return pool.State{}, err
	}
	if st.Predictions, err = loadOrSeed(ctx, s, Predictions, func() []models.Prediction { return []models.Prediction{} }); err != nil {
		return pool.State{}, err
	}
	return st, nil
}

// Save writes one collection of st.
func (s *Store) Save(ctx context.Context, st pool.State, c Collection) error {
	var v any
	switch c {
	case Profiles:
		v = nonNil(st.Profiles)
	case Matches:
		v = nonNil(st.Matches)
	case Predictions:
		v = nonNil(st.Predictions)
	default:
		return fmt.Errorf("unknown collection %q", c)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c, err)
	}
	if err := s.kv.Set(ctx, s.Key(c), data); err != nil {
		return fmt.Errorf("saving %s: %w", c, err)
	}
	return nil
}

func loadOrSeed[T any](ctx context.Context, s *Store, c Collection, seed func() []T) ([]T, error) {
	data, err := s.kv.Get(ctx, s.Key(c))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		slog.Info("Seeding collection", "collection", c)
	case err != nil:
		return nil, fmt.Errorf("loading %s: %w", c, err)
	default:
		var out []T
		if jsonErr := json.Unmarshal(data, &out); jsonErr == nil && out != nil {
			return out, nil
		} else if jsonErr != nil {
			slog.Warn("Discarding malformed collection", "collection", c, "error", jsonErr)
		}
	}

	out := seed()
	data, err = json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding %s seed: %w", c, err)
	}
	if err := s.kv.Set(ctx, s.Key(c), data); err != nil {
		return nil, fmt.Errorf("saving %s seed: %w", c, err)
	}
	return out, nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
