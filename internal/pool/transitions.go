package pool

import (
	"fmt"

	"github.com/omarshaarawi/bolao/internal/models"
)

// PlaceBet upserts the prediction for (profileID, matchID). Any earlier
// prediction for the pair is dropped and the new one goes to the end.
func PlaceBet(st State, profileID, matchID string, scoreA, scoreB int) (State, error) {
	if err := ValidateScore(scoreA, scoreB); err != nil {
		return st, err
	}
	m, ok := st.Match(matchID)
	if !ok {
		return st, fmt.Errorf("%s: %w", matchID, ErrMatchNotFound)
	}
	if m.Status != models.StatusScheduled {
		return st, fmt.Errorf("%s is %s: %w", m.Title(), m.Status, ErrBettingClosed)
	}

	next := st.Clone()
	kept := next.Predictions[:0]
	for _, p := range next.Predictions {
		if p.ProfileID == profileID && p.MatchID == matchID {
			continue
		}
		kept = append(kept, p)
	}
	next.Predictions = append(kept, models.Prediction{
		ProfileID: profileID,
		MatchID:   matchID,
		ScoreA:    scoreA,
		ScoreB:    scoreB,
	})
	return next, nil
}

// SetResult publishes the final score. Scheduled matches are refused so a
// result can never appear while betting is still open.
func SetResult(st State, matchID string, scoreA, scoreB int) (State, error) {
	if err := ValidateScore(scoreA, scoreB); err != nil {
		return st, err
	}
	i := st.matchIndex(matchID)
	if i < 0 {
		return st, fmt.Errorf("%s: %w", matchID, ErrMatchNotFound)
	}
	if st.Matches[i].Status == models.StatusScheduled {
		return st, fmt.Errorf("%s: %w", st.Matches[i].Title(), ErrMatchNotLockable)
	}

	next := st.Clone()
	m := &next.Matches[i]
	m.ScoreA = &scoreA
	m.ScoreB = &scoreB
	m.Status = models.StatusFinished
	return next, nil
}

// ToggleLock flips a match between SCHEDULED and LOCKED.
func ToggleLock(st State, matchID string) (State, error) {
	i := st.matchIndex(matchID)
	if i < 0 {
		return st, fmt.Errorf("%s: %w", matchID, ErrMatchNotFound)
	}

	next := st.Clone()
	m := &next.Matches[i]
	switch m.Status {
	case models.StatusScheduled:
		m.Status = models.StatusLocked
	case models.StatusLocked:
		m.Status = models.StatusScheduled
	default:
		return st, fmt.Errorf("%s: %w", m.Title(), ErrMatchAlreadyFinished)
	}
	return next, nil
}

// Reset restores the seed matches. Predictions are kept; they score nothing
// until their matches finish again.
func Reset(st State, seed []models.Match) State {
	next := st.Clone()
	next.Matches = make([]models.Match, len(seed))
	for i, m := range seed {
		next.Matches[i] = cloneMatch(m)
	}
	return next
}
