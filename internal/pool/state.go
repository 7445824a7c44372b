// Package pool holds the betting pool state and its transitions. Transitions
// take a State and return a new one; the input is left untouched.
package pool

import (
	"fmt"

	"github.com/omarshaarawi/bolao/internal/models"
)

const (
	MinScore = 0
	MaxScore = 20
)

type State struct {
	Profiles    []models.Profile
	Matches     []models.Match
	Predictions []models.Prediction
}

// Clone returns a deep copy so a transition can edit freely.
func (s State) Clone() State {
	out := State{
		Profiles:    append([]models.Profile(nil), s.Profiles...),
		Matches:     make([]models.Match, len(s.Matches)),
		Predictions: append([]models.Prediction(nil), s.Predictions...),
	}
	for i, m := range s.Matches {
		out.Matches[i] = cloneMatch(m)
	}
	return out
}

func (s State) Profile(id string) (models.Profile, bool) {
	for _, p := range s.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return models.Profile{}, false
}

func (s State) Match(id string) (models.Match, bool) {
	i := s.matchIndex(id)
	if i < 0 {
		return models.Match{}, false
	}
	return s.Matches[i], true
}

// Prediction returns the profile's prediction for a match, if any.
func (s State) Prediction(profileID, matchID string) (models.Prediction, bool) {
	for _, p := range s.Predictions {
		if p.ProfileID == profileID && p.MatchID == matchID {
			return p, true
		}
	}
	return models.Prediction{}, false
}

func (s State) matchIndex(id string) int {
	for i, m := range s.Matches {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// ValidateScore rejects values outside [MinScore, MaxScore].
func ValidateScore(scoreA, scoreB int) error {
	for _, v := range []int{scoreA, scoreB} {
		if v < MinScore || v > MaxScore {
			return fmt.Errorf("%d: %w", v, ErrInvalidScore)
		}
	}
	return nil
}

func cloneMatch(m models.Match) models.Match {
	if m.ScoreA != nil {
		a := *m.ScoreA
		m.ScoreA = &a
	}
	if m.ScoreB != nil {
		b := *m.ScoreB
		m.ScoreB = &b
	}
	return m
}
