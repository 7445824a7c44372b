package models

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusLocked    MatchStatus = "LOCKED"
	StatusFinished  MatchStatus = "FINISHED"
)

// Profile is a pool participant. Points is derived from predictions and is
// only ever written by the scoring engine.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	Points   int    `json:"points"`
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Match is a fixture open for predictions. ScoreA and ScoreB stay nil until
// an admin publishes the result.
type Match struct {
	ID        string      `json:"id"`
	TeamA     string      `json:"teamA"`
	TeamB     string      `json:"teamB"`
	FlagA     string      `json:"flagA"`
	FlagB     string      `json:"flagB"`
	Date      string      `json:"date"`
	Location  string      `json:"location"`
	ScoreA    *int        `json:"scoreA"`
	ScoreB    *int        `json:"scoreB"`
	Status    MatchStatus `json:"status"`
	IsSpecial bool        `json:"isSpecial,omitempty"`
}

// HasResult reports whether the match is finished with both scores recorded.
func (m Match) HasResult() bool {
	return m.Status == StatusFinished && m.ScoreA != nil && m.ScoreB != nil
}

func (m Match) Title() string {
	return m.TeamA + " x " + m.TeamB
}

// Prediction is a profile's guess for one match. The profile key is
// serialized as userId so older bg_bets records keep loading.
type Prediction struct {
	ProfileID string `json:"userId"`
	MatchID   string `json:"matchId"`
	ScoreA    int    `json:"scoreA"`
	ScoreB    int    `json:"scoreB"`
}

type Standing struct {
	Position int
	Profile  Profile
}

type Outcome int

const (
	OutcomeAway Outcome = iota - 1
	OutcomeDraw
	OutcomeHome
)
