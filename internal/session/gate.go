// Package session validates logins and tracks the active profile.
package session

import (
	"errors"
	"strings"

	"github.com/omarshaarawi/bolao/internal/models"
)

var ErrAuthFailure = errors.New("invalid username or password")

// Gate checks credentials against the known profiles.
type Gate interface {
	Authenticate(profiles []models.Profile, name, password string) (models.Profile, error)
}

// PlaintextGate compares names case-insensitively and passwords exactly.
// The pool is shared by a closed group, so no hashing is done.
type PlaintextGate struct{}

func (PlaintextGate) Authenticate(profiles []models.Profile, name, password string) (models.Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) && p.Password == password {
			return p, nil
		}
	}
	return models.Profile{}, ErrAuthFailure
}

// Session remembers who is logged in by profile ID, so readers always see
// the profile's current points rather than a copy taken at login.
type Session struct {
	profileID string
}

func (s *Session) Start(profileID string) {
	s.profileID = profileID
}

func (s *Session) End() {
	s.profileID = ""
}

func (s *Session) ProfileID() (string, bool) {
	return s.profileID, s.profileID != ""
}
