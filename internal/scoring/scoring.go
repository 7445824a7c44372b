// Package scoring derives profile points from match results and predictions.
// Every function here is pure: inputs are never modified.
package scoring

import (
	"sort"

	"github.com/omarshaarawi/bolao/internal/models"
)

const (
	ExactScorePoints = 3
	OutcomePoints    = 1
)

// Outcome classifies a score pair by the sign of its goal difference.
func Outcome(scoreA, scoreB int) models.Outcome {
	switch diff := scoreA - scoreB; {
	case diff > 0:
		return models.OutcomeHome
	case diff < 0:
		return models.OutcomeAway
	default:
		return models.OutcomeDraw
	}
}

// ScorePrediction returns the points a prediction earns against a match.
// Matches without a published result are worth nothing.
func ScorePrediction(p models.Prediction, m models.Match) int {
	if !m.HasResult() {
		return 0
	}
	actualA, actualB := *m.ScoreA, *m.ScoreB

	if p.ScoreA == actualA && p.ScoreB == actualB {
		return ExactScorePoints
	}
	if Outcome(p.ScoreA, p.ScoreB) == Outcome(actualA, actualB) {
		return OutcomePoints
	}
	return 0
}

// Recalculate returns a copy of profiles with Points recomputed from scratch.
func Recalculate(profiles []models.Profile, matches []models.Match, predictions []models.Prediction) []models.Profile {
	byID := make(map[string]models.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	totals := make(map[string]int, len(profiles))
	for _, p := range predictions {
		m, ok := byID[p.MatchID]
		if !ok {
			continue
		}
		totals[p.ProfileID] += ScorePrediction(p, m)
	}

	out := make([]models.Profile, len(profiles))
	for i, profile := range profiles {
		profile.Points = totals[profile.ID]
		out[i] = profile
	}
	return out
}

// Changed reports whether any profile's points differ between two lists.
// Lists of different shape always count as changed.
func Changed(before, after []models.Profile) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Points != after[i].Points {
			return true
		}
	}
	return false
}

// Ranking orders non-admin profiles by points, highest first. Ties keep
// their original order.
func Ranking(profiles []models.Profile) []models.Standing {
	players := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.IsAdmin() {
			continue
		}
		players = append(players, p)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Points > players[j].Points
	})

	standings := make([]models.Standing, len(players))
	for i, p := range players {
		standings[i] = models.Standing{Position: i + 1, Profile: p}
	}
	return standings
}
