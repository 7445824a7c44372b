package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/omarshaarawi/bolao/internal/models"
	"github.com/omarshaarawi/bolao/internal/pool"
	"github.com/omarshaarawi/bolao/internal/scoring"
	"github.com/omarshaarawi/bolao/internal/session"
	"github.com/omarshaarawi/bolao/internal/store"
)

// PoolService owns the pool state and the active session. Every mutation
// persists the collection it touched, recomputes points and persists the
// profiles only when a total moved.
type PoolService struct {
	store   *store.Store
	gate    session.Gate
	seed    func() []models.Match
	mu      sync.RWMutex
	state   pool.State
	session session.Session
	// one-shot token handed out by RequestReset
	resetToken string
}

func NewPoolService(ctx context.Context, st *store.Store, gate session.Gate) (*PoolService, error) {
	state, err := st.LoadOrInit(ctx)
	if err != nil {
		return nil, err
	}

	s := &PoolService{store: st, gate: gate, seed: models.DefaultMatches, state: state}
	if err := s.recalculate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns a copy of the current state for read-only use.
func (s *PoolService) Snapshot() pool.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *PoolService) Login(name, password string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.gate.Authenticate(s.state.Profiles, name, password)
	if err != nil {
		slog.Info("Login failed", "name", name)
		return models.Profile{}, err
	}
	s.session.Start(profile.ID)
	s.resetToken = ""
	slog.Info("Logged in", "profile", profile.ID)
	return profile, nil
}

func (s *PoolService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.End()
	s.resetToken = ""
}

// CurrentProfile resolves the session against live state, so the points
// are always current.
func (s *PoolService) CurrentProfile() (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentProfile()
}

func (s *PoolService) PlaceBet(ctx context.Context, matchID string, scoreA, scoreB int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.currentProfile()
	if !ok {
		return pool.ErrNoSession
	}
	if profile.IsAdmin() {
		return fmt.Errorf("admins do not place bets: %w", pool.ErrPermissionDenied)
	}

	next, err := pool.PlaceBet(s.state, profile.ID, matchID, scoreA, scoreB)
	if err != nil {
		return err
	}
	if err := s.commit(ctx, next, store.Predictions); err != nil {
		return err
	}
	slog.Info("Bet placed", "profile", profile.ID, "match", matchID, "scoreA", scoreA, "scoreB", scoreB)
	return nil
}

func (s *PoolService) SetResult(ctx context.Context, matchID string, scoreA, scoreB int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireAdmin(); err != nil {
		return err
	}
	next, err := pool.SetResult(s.state, matchID, scoreA, scoreB)
	if err != nil {
		return err
	}
	if err := s.commit(ctx, next, store.Matches); err != nil {
		return err
	}
	slog.Info("Result published", "match", matchID, "scoreA", scoreA, "scoreB", scoreB)
	return nil
}

// ToggleLock returns the match's new status.
func (s *PoolService) ToggleLock(ctx context.Context, matchID string) (models.MatchStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireAdmin(); err != nil {
		return "", err
	}
	next, err := pool.ToggleLock(s.state, matchID)
	if err != nil {
		return "", err
	}
	if err := s.commit(ctx, next, store.Matches); err != nil {
		return "", err
	}
	m, _ := next.Match(matchID)
	slog.Info("Match lock toggled", "match", matchID, "status", m.Status)
	return m.Status, nil
}

// RequestReset starts the reset protocol and returns the token that
// ConfirmReset expects. A new request replaces any earlier token.
func (s *PoolService) RequestReset() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireAdmin(); err != nil {
		return "", err
	}
	s.resetToken = uuid.New().String()
	return s.resetToken, nil
}

// ConfirmReset restores the seed matches. Predictions survive the reset.
func (s *PoolService) ConfirmReset(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if s.resetToken == "" || token != s.resetToken {
		return pool.ErrResetNotConfirmed
	}
	s.resetToken = ""

	if err := s.commit(ctx, pool.Reset(s.state, s.seed()), store.Matches); err != nil {
		return err
	}
	slog.Warn("Pool reset", "by", profile.ID)
	return nil
}

// Recalculate recomputes every profile's points and persists them if any
// total changed.
func (s *PoolService) Recalculate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recalculate(ctx)
}

// commit persists the mutated collection, then adopts next as the current
// state and recalculates. Nothing changes in memory if the first write fails.
// If only the profiles write fails, the stored points stay behind and the
// next recalculation writes them again.
func (s *PoolService) commit(ctx context.Context, next pool.State, changed store.Collection) error {
	if err := s.store.Save(ctx, next, changed); err != nil {
		return err
	}
	s.state = next
	return s.recalculate(ctx)
}

func (s *PoolService) recalculate(ctx context.Context) error {
	profiles := scoring.Recalculate(s.state.Profiles, s.state.Matches, s.state.Predictions)
	if !scoring.Changed(s.state.Profiles, profiles) {
		return nil
	}

	next := s.state.Clone()
	next.Profiles = profiles
	if err := s.store.Save(ctx, next, store.Profiles); err != nil {
		return err
	}
	s.state.Profiles = profiles
	slog.Info("Points updated", "profiles", len(profiles))
	return nil
}

func (s *PoolService) currentProfile() (models.Profile, bool) {
	id, ok := s.session.ProfileID()
	if !ok {
		return models.Profile{}, false
	}
	return s.state.Profile(id)
}

func (s *PoolService) requireAdmin() (models.Profile, error) {
	profile, ok := s.currentProfile()
	if !ok {
		return models.Profile{}, pool.ErrNoSession
	}
	if !profile.IsAdmin() {
		return models.Profile{}, pool.ErrPermissionDenied
	}
	return profile, nil
}
