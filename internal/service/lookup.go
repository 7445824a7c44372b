package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/bolao/internal/models"
	"github.com/omarshaarawi/bolao/internal/pool"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const similarityThreshold = 0.6

var ErrAmbiguousMatch = errors.New("more than one match fits")

// FindMatch resolves a user-typed reference to a match. An exact ID wins;
// otherwise team names are searched, first as an in-order subsequence
// ("bra" finds Brasil x Argentina), then by edit distance to catch typos.
func (s *PoolService) FindMatch(ref string) (models.Match, error) {
	s.mu.RLock()
	matches := s.state.Clone().Matches
	s.mu.RUnlock()

	return findMatch(matches, ref)
}

func findMatch(matches []models.Match, ref string) (models.Match, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Match{}, fmt.Errorf("empty match reference: %w", pool.ErrMatchNotFound)
	}
	for _, m := range matches {
		if strings.EqualFold(m.ID, ref) {
			return m, nil
		}
	}

	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = m.Title()
	}
	ranks := fuzzy.RankFindNormalizedFold(ref, titles)
	switch len(ranks) {
	case 0:
	case 1:
		return matches[ranks[0].OriginalIndex], nil
	default:
		// Several titles contain the letters; only a prefix hit on a single
		// match settles it.
		hit := -1
		for _, r := range ranks {
			if !hasNamePrefix(matches[r.OriginalIndex], ref) {
				continue
			}
			if hit >= 0 {
				hit = -1
				break
			}
			hit = r.OriginalIndex
		}
		if hit < 0 {
			return models.Match{}, fmt.Errorf("%q: %w", ref, ErrAmbiguousMatch)
		}
		return matches[hit], nil
	}

	best, bestScore := -1, 0.0
	needle := strings.ToLower(ref)
	for i, m := range matches {
		for _, team := range []string{m.TeamA, m.TeamB} {
			name := strings.ToLower(team)
			distance := fuzzy.LevenshteinDistance(needle, name)
			maxLen := float64(max(len(needle), len(name)))
			similarity := 1 - float64(distance)/maxLen

			if similarity > similarityThreshold && similarity > bestScore {
				bestScore = similarity
				best = i
			}
		}
	}
	if best < 0 {
		return models.Match{}, fmt.Errorf("%q: %w", ref, pool.ErrMatchNotFound)
	}
	return matches[best], nil
}

func hasNamePrefix(m models.Match, ref string) bool {
	prefix := fold(ref)
	for _, name := range []string{m.Title(), m.TeamA, m.TeamB} {
		if strings.HasPrefix(fold(name), prefix) {
			return true
		}
	}
	return false
}

// fold lowercases and strips accents so "mex" matches "México".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
