package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/omarshaarawi/bolao/internal/pool"
	"github.com/omarshaarawi/bolao/internal/service"
	"github.com/omarshaarawi/bolao/internal/session"
)

const helpText = "Available commands:\n" +
	"login <name> <password> - Enter the pool (quote a password with spaces)\n" +
	"logout - Leave the session\n" +
	"whoami - Show who is logged in\n" +
	"matches - List matches and your bets\n" +
	"ranking - Show the leaderboard\n" +
	"rules - Show scoring rules\n" +
	"bet <match> <a> <b> - Place or update a bet\n" +
	"lock <match> - Close or reopen betting (admin)\n" +
	"result <match> <a> <b> - Publish a final score (admin)\n" +
	"reset - Clear all results (admin, asks for confirmation)\n" +
	"confirm <token> - Confirm a reset\n" +
	"quit - Exit"

type Handler struct {
	poolService *service.PoolService
}

func NewHandler(poolService *service.PoolService) *Handler {
	return &Handler{poolService: poolService}
}

// HandleQuery answers the read-only commands. ok is false for anything else.
func (h *Handler) HandleQuery(command string) (text string, ok bool) {
	switch strings.ToLower(command) {
	case "start":
		return "Welcome to the pool! Use help to see available commands.", true
	case "help":
		return helpText, true
	case "ranking":
		return h.poolService.GetRanking(), true
	case "matches":
		return h.poolService.GetMatches(), true
	case "rules":
		return service.GetRules(), true
	}
	return "", false
}

// HandleCommand runs any command, including the ones that change the pool.
func (h *Handler) HandleCommand(ctx context.Context, command, args string) string {
	if strings.EqualFold(command, "matches") {
		return h.poolService.GetMyMatches()
	}
	if text, ok := h.HandleQuery(command); ok {
		return text
	}

	switch strings.ToLower(command) {
	case "login":
		return h.handleLogin(args)
	case "logout":
		h.poolService.Logout()
		return "Logged out."
	case "whoami":
		return h.handleWhoAmI()
	case "bet":
		return h.handleBet(ctx, args)
	case "lock":
		return h.handleLock(ctx, args)
	case "result":
		return h.handleResult(ctx, args)
	case "reset":
		return h.handleReset()
	case "confirm":
		return h.handleConfirm(ctx, args)
	default:
		return "Unknown command. Use help to see available commands."
	}
}

func (h *Handler) handleLogin(args string) string {
	name, password, ok := parseLogin(args)
	if !ok {
		return "Usage: login <name> <password>"
	}
	profile, err := h.poolService.Login(name, password)
	if err != nil {
		return errorText(err)
	}
	return fmt.Sprintf("Hello, %s! You have %d pts.", profile.Name, profile.Points)
}

// parseLogin splits "<name> <password>". The password is the last word, or
// the text inside a trailing pair of double quotes.
func parseLogin(args string) (name, password string, ok bool) {
	args = strings.TrimSpace(args)
	if strings.HasSuffix(args, `"`) {
		if open := strings.LastIndex(args[:len(args)-1], `"`); open >= 0 {
			name = strings.Join(strings.Fields(args[:open]), " ")
			password = args[open+1 : len(args)-1]
			return name, password, name != "" && password != ""
		}
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", "", false
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1], true
}

func (h *Handler) handleWhoAmI() string {
	profile, ok := h.poolService.CurrentProfile()
	if !ok {
		return "Nobody is logged in."
	}
	return fmt.Sprintf("%s (%s) - %d pts", profile.Name, profile.Role, profile.Points)
}

func (h *Handler) handleBet(ctx context.Context, args string) string {
	ref, scoreA, scoreB, err := parseScoreArgs(args)
	if err != nil {
		return "Usage: bet <match> <a> <b>\n" + errorText(err)
	}
	m, err := h.poolService.FindMatch(ref)
	if err != nil {
		return errorText(err)
	}
	if err := h.poolService.PlaceBet(ctx, m.ID, scoreA, scoreB); err != nil {
		return errorText(err)
	}
	return fmt.Sprintf("Bet saved: %s %d x %d %s", m.TeamA, scoreA, scoreB, m.TeamB)
}

func (h *Handler) handleLock(ctx context.Context, args string) string {
	if strings.TrimSpace(args) == "" {
		return "Usage: lock <match>"
	}
	m, err := h.poolService.FindMatch(args)
	if err != nil {
		return errorText(err)
	}
	status, err := h.poolService.ToggleLock(ctx, m.ID)
	if err != nil {
		return errorText(err)
	}
	return fmt.Sprintf("%s is now %s.", m.Title(), status)
}

func (h *Handler) handleResult(ctx context.Context, args string) string {
	ref, scoreA, scoreB, err := parseScoreArgs(args)
	if err != nil {
		return "Usage: result <match> <a> <b>\n" + errorText(err)
	}
	m, err := h.poolService.FindMatch(ref)
	if err != nil {
		return errorText(err)
	}
	if err := h.poolService.SetResult(ctx, m.ID, scoreA, scoreB); err != nil {
		return errorText(err)
	}
	return fmt.Sprintf("Result published: %s %d - %d %s", m.TeamA, scoreA, scoreB, m.TeamB)
}

func (h *Handler) handleReset() string {
	token, err := h.poolService.RequestReset()
	if err != nil {
		return errorText(err)
	}
	return "WARNING: this clears every result and reopens all matches. Bets are kept.\n" +
		"To continue, run: confirm " + token
}

func (h *Handler) handleConfirm(ctx context.Context, args string) string {
	if err := h.poolService.ConfirmReset(ctx, strings.TrimSpace(args)); err != nil {
		return errorText(err)
	}
	return "All matches were reset."
}

// parseScoreArgs splits "<match ref...> <a> <b>".
func parseScoreArgs(args string) (ref string, scoreA, scoreB int, err error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", 0, 0, errors.New("missing arguments")
	}
	n := len(fields)
	scoreA, err = parseScore(fields[n-2])
	if err != nil {
		return "", 0, 0, err
	}
	scoreB, err = parseScore(fields[n-1])
	if err != nil {
		return "", 0, 0, err
	}
	return strings.Join(fields[:n-2], " "), scoreA, scoreB, nil
}

func parseScore(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, pool.ErrInvalidScore)
	}
	return v, nil
}

func errorText(err error) string {
	switch {
	case errors.Is(err, session.ErrAuthFailure):
		return "Invalid username or password!"
	case errors.Is(err, pool.ErrNoSession):
		return "Please log in first."
	case errors.Is(err, pool.ErrPermissionDenied):
		return "You are not allowed to do that."
	case errors.Is(err, pool.ErrInvalidScore):
		return fmt.Sprintf("Scores must be whole numbers from %d to %d.", pool.MinScore, pool.MaxScore)
	case errors.Is(err, pool.ErrMatchNotLockable):
		return "Lock the match before publishing its result."
	case errors.Is(err, pool.ErrMatchAlreadyFinished):
		return "That match is already finished."
	case errors.Is(err, pool.ErrBettingClosed):
		return "Betting is closed for that match."
	case errors.Is(err, pool.ErrResetNotConfirmed):
		return "Reset not confirmed. Run reset again to get a new token."
	case errors.Is(err, service.ErrAmbiguousMatch):
		return "More than one match fits. Use the match id."
	case errors.Is(err, pool.ErrMatchNotFound):
		return "Match not found."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
