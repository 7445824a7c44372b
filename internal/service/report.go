package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/bolao/internal/models"
	"github.com/omarshaarawi/bolao/internal/pool"
	"github.com/omarshaarawi/bolao/internal/scoring"
)

func (s *PoolService) GetRanking() string {
	st := s.Snapshot()
	standings := scoring.Ranking(st.Profiles)

	var sb strings.Builder
	sb.WriteString("🏆 *Official Ranking*\n\n")
	if len(standings) == 0 {
		sb.WriteString("No players yet.")
		return sb.String()
	}
	for _, standing := range standings {
		crown := ""
		if standing.Position == 1 {
			crown = " 👑"
		}
		sb.WriteString(fmt.Sprintf("%dº *%s*%s - %d pts\n", standing.Position, standing.Profile.Name, crown, standing.Profile.Points))
	}
	return sb.String()
}

// GetMatches lists every match without anyone's predictions.
func (s *PoolService) GetMatches() string {
	return renderMatches(s.Snapshot(), nil)
}

// GetMyMatches adds the logged-in player's prediction under each match.
func (s *PoolService) GetMyMatches() string {
	viewer, ok := s.CurrentProfile()
	if !ok || viewer.IsAdmin() {
		return s.GetMatches()
	}
	return renderMatches(s.Snapshot(), &viewer)
}

func renderMatches(st pool.State, viewer *models.Profile) string {
	var sb strings.Builder
	sb.WriteString("⚽ *Matches & Predictions*\n\n")
	for _, m := range st.Matches {
		special := ""
		if m.IsSpecial {
			special = " ★ SPECIAL ★"
		}
		sb.WriteString(fmt.Sprintf("[%s] *%s*%s\n", m.ID, m.Title(), special))
		sb.WriteString(fmt.Sprintf("   %s | %s\n", m.Date, m.Location))

		switch m.Status {
		case models.StatusFinished:
			sb.WriteString(fmt.Sprintf("   Final: %s\n", scoreLine(m)))
		case models.StatusLocked:
			sb.WriteString("   Betting closed\n")
		default:
			sb.WriteString("   Open for bets\n")
		}

		if viewer != nil {
			if p, ok := st.Prediction(viewer.ID, m.ID); ok {
				sb.WriteString(fmt.Sprintf("   Your bet: %d x %d", p.ScoreA, p.ScoreB))
				if m.HasResult() {
					sb.WriteString(fmt.Sprintf(" (+%d)", scoring.ScorePrediction(p, m)))
				}
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func GetRules() string {
	var sb strings.Builder
	sb.WriteString("📋 *Scoring Rules*\n\n")
	sb.WriteString(fmt.Sprintf("%d pts: exact score (bet 2x1, final 2x1)\n", scoring.ExactScorePoints))
	sb.WriteString(fmt.Sprintf("%d pt: right winner or draw, wrong score\n", scoring.OutcomePoints))
	sb.WriteString("0 pts: everything else\n")
	return sb.String()
}

func scoreLine(m models.Match) string {
	if m.ScoreA == nil || m.ScoreB == nil {
		return fmt.Sprintf("%s - %s", m.TeamA, m.TeamB)
	}
	return fmt.Sprintf("%s %d - %d %s", m.TeamA, *m.ScoreA, *m.ScoreB, m.TeamB)
}
