package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/omarshaarawi/bolao/internal/models"
	"github.com/omarshaarawi/bolao/internal/pool"
	"github.com/omarshaarawi/bolao/internal/repository/memory"
	"github.com/omarshaarawi/bolao/internal/session"
	"github.com/omarshaarawi/bolao/internal/store"
)

// countingKV records how many times each key was written.
type countingKV struct {
	*memory.Repository
	mu     sync.Mutex
	writes map[string]int
	fail   map[string]error
}

func newCountingKV() *countingKV {
	return &countingKV{
		Repository: memory.NewRepository(),
		writes:     make(map[string]int),
		fail:       make(map[string]error),
	}
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail[key]; err != nil {
		return err
	}
	c.writes[key]++
	return c.Repository.Set(ctx, key, value)
}

func (c *countingKV) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes[key]
}

func newTestService(t *testing.T) (*PoolService, *countingKV) {
	t.Helper()
	kv := newCountingKV()
	svc, err := NewPoolService(context.Background(), store.NewStore(kv, "bg_"), session.PlaintextGate{})
	if err != nil {
		t.Fatal(err)
	}
	return svc, kv
}

func login(t *testing.T, svc *PoolService, name, password string) {
	t.Helper()
	if _, err := svc.Login(name, password); err != nil {
		t.Fatalf("login %s: %v", name, err)
	}
}

func points(t *testing.T, svc *PoolService, id string) int {
	t.Helper()
	p, ok := svc.Snapshot().Profile(id)
	if !ok {
		t.Fatalf("profile %s missing", id)
	}
	return p.Points
}

func TestFullRound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	bets := []struct {
		name, password string
		a, b           int
	}{
		{"fabio", "123", 2, 1},
		{"DINA", "123", 3, 1},
		{"Junior", "123", 1, 1},
	}
	for _, bet := range bets {
		login(t, svc, bet.name, bet.password)
		if err := svc.PlaceBet(ctx, "m1", bet.a, bet.b); err != nil {
			t.Fatalf("%s bet: %v", bet.name, err)
		}
	}

	login(t, svc, "ADM", "1234")
	if err := svc.SetResult(ctx, "m1", 2, 1); !errors.Is(err, pool.ErrMatchNotLockable) {
		t.Fatalf("result on open match: err = %v", err)
	}
	if status, err := svc.ToggleLock(ctx, "m1"); err != nil || status != models.StatusLocked {
		t.Fatalf("lock: %s, %v", status, err)
	}
	if err := svc.SetResult(ctx, "m1", 2, 1); err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"u1": 3, "u2": 1, "u3": 0, "u4": 0, "admin": 0}
	for id, pts := range want {
		if got := points(t, svc, id); got != pts {
			t.Errorf("%s points = %d, want %d", id, got, pts)
		}
	}

	ranking := svc.GetRanking()
	if !strings.HasPrefix(strings.SplitN(ranking, "\n", 4)[2], "1º *FABIO* 👑") {
		t.Errorf("unexpected ranking:\n%s", ranking)
	}
	if strings.Contains(ranking, "ADM") {
		t.Errorf("admin listed in ranking")
	}
}

func TestSessionSeesLivePoints(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	login(t, svc, "FABIO", "123")
	if err := svc.PlaceBet(ctx, "m2", 0, 0); err != nil {
		t.Fatal(err)
	}
	before, _ := svc.CurrentProfile()

	// publish a result behind the session's back
	svc.mu.Lock()
	next, err := pool.ToggleLock(svc.state, "m2")
	if err == nil {
		next, err = pool.SetResult(next, "m2", 1, 1)
	}
	svc.state = next
	svc.mu.Unlock()
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Recalculate(ctx); err != nil {
		t.Fatal(err)
	}

	after, ok := svc.CurrentProfile()
	if !ok || before.Points != 0 || after.Points != 1 {
		t.Errorf("points before=%d after=%d, want 0 then 1", before.Points, after.Points)
	}
}

func TestPlaceBetRequiresPlayer(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService(t)
	before := kv.count("bg_predictions")

	if err := svc.PlaceBet(ctx, "m1", 1, 0); !errors.Is(err, pool.ErrNoSession) {
		t.Errorf("no session: err = %v", err)
	}
	login(t, svc, "ADM", "1234")
	if err := svc.PlaceBet(ctx, "m1", 1, 0); !errors.Is(err, pool.ErrPermissionDenied) {
		t.Errorf("admin bet: err = %v", err)
	}
	if len(svc.Snapshot().Predictions) != 0 || kv.count("bg_predictions") != before {
		t.Errorf("rejected bet changed state")
	}
}

func TestAdminOnlyOperations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	login(t, svc, "DINA", "123")

	if _, err := svc.ToggleLock(ctx, "m1"); !errors.Is(err, pool.ErrPermissionDenied) {
		t.Errorf("ToggleLock: err = %v", err)
	}
	if err := svc.SetResult(ctx, "m1", 1, 0); !errors.Is(err, pool.ErrPermissionDenied) {
		t.Errorf("SetResult: err = %v", err)
	}
	if _, err := svc.RequestReset(); !errors.Is(err, pool.ErrPermissionDenied) {
		t.Errorf("RequestReset: err = %v", err)
	}

	svc.Logout()
	if _, err := svc.ToggleLock(ctx, "m1"); !errors.Is(err, pool.ErrNoSession) {
		t.Errorf("logged out ToggleLock: err = %v", err)
	}
}

func TestLoginFailure(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Login("FABIO", "wrong"); !errors.Is(err, session.ErrAuthFailure) {
		t.Errorf("err = %v, want ErrAuthFailure", err)
	}
	if _, ok := svc.CurrentProfile(); ok {
		t.Errorf("failed login opened a session")
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	login(t, svc, "RONALDO", "123")
	if err := svc.PlaceBet(ctx, "m3", 2, 0); err != nil {
		t.Fatal(err)
	}
	login(t, svc, "ADM", "1234")
	if _, err := svc.ToggleLock(ctx, "m3"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetResult(ctx, "m3", 2, 0); err != nil {
		t.Fatal(err)
	}
	if got := points(t, svc, "u4"); got != 3 {
		t.Fatalf("u4 points = %d, want 3", got)
	}

	if err := svc.ConfirmReset(ctx, "anything"); !errors.Is(err, pool.ErrResetNotConfirmed) {
		t.Fatalf("unrequested confirm: err = %v", err)
	}
	token, err := svc.RequestReset()
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ConfirmReset(ctx, "wrong"); !errors.Is(err, pool.ErrResetNotConfirmed) {
		t.Fatalf("wrong token: err = %v", err)
	}
	if err := svc.ConfirmReset(ctx, token); err != nil {
		t.Fatal(err)
	}
	if err := svc.ConfirmReset(ctx, token); !errors.Is(err, pool.ErrResetNotConfirmed) {
		t.Errorf("token reused: err = %v", err)
	}

	st := svc.Snapshot()
	for _, m := range st.Matches {
		if m.Status != models.StatusScheduled || m.ScoreA != nil {
			t.Errorf("match %s not reset", m.ID)
		}
	}
	if len(st.Predictions) != 1 {
		t.Errorf("predictions = %d, want 1", len(st.Predictions))
	}
	if got := points(t, svc, "u4"); got != 0 {
		t.Errorf("u4 points after reset = %d, want 0", got)
	}
}

func TestLogoutDropsPendingReset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	login(t, svc, "ADM", "1234")

	token, err := svc.RequestReset()
	if err != nil {
		t.Fatal(err)
	}
	svc.Logout()
	login(t, svc, "ADM", "1234")
	if err := svc.ConfirmReset(ctx, token); !errors.Is(err, pool.ErrResetNotConfirmed) {
		t.Errorf("err = %v, want ErrResetNotConfirmed", err)
	}
}

func TestProfilesPersistedOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService(t)
	initial := kv.count("bg_profiles")

	login(t, svc, "FABIO", "123")
	if err := svc.PlaceBet(ctx, "m1", 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := svc.Recalculate(ctx); err != nil {
		t.Fatal(err)
	}
	if got := kv.count("bg_profiles"); got != initial {
		t.Errorf("profiles written %d times without point changes", got-initial)
	}

	login(t, svc, "ADM", "1234")
	if _, err := svc.ToggleLock(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetResult(ctx, "m1", 1, 0); err != nil {
		t.Fatal(err)
	}
	if got := kv.count("bg_profiles"); got != initial+1 {
		t.Errorf("profiles writes = %d, want %d", got, initial+1)
	}
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService(t)
	kv.fail["bg_predictions"] = errors.New("disk full")

	login(t, svc, "FABIO", "123")
	if err := svc.PlaceBet(ctx, "m1", 1, 0); err == nil {
		t.Fatal("expected write error")
	}
	if len(svc.Snapshot().Predictions) != 0 {
		t.Errorf("prediction kept after failed write")
	}
}

func storedPoints(t *testing.T, kv *countingKV, id string) int {
	t.Helper()
	raw, err := kv.Get(context.Background(), "bg_profiles")
	if err != nil {
		t.Fatal(err)
	}
	var profiles []models.Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		t.Fatal(err)
	}
	for _, p := range profiles {
		if p.ID == id {
			return p.Points
		}
	}
	t.Fatalf("profile %s not stored", id)
	return 0
}

func TestFailedProfilesWriteIsRetried(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService(t)

	login(t, svc, "FABIO", "123")
	if err := svc.PlaceBet(ctx, "m1", 2, 1); err != nil {
		t.Fatal(err)
	}
	login(t, svc, "ADM", "1234")
	if _, err := svc.ToggleLock(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	kv.fail["bg_profiles"] = errors.New("disk full")
	if err := svc.SetResult(ctx, "m1", 2, 1); err == nil {
		t.Fatal("expected write error")
	}
	if got := points(t, svc, "u1"); got != 0 {
		t.Errorf("points in memory = %d before they were stored", got)
	}
	if got := storedPoints(t, kv, "u1"); got != 0 {
		t.Errorf("stored points = %d, want 0", got)
	}

	delete(kv.fail, "bg_profiles")
	if err := svc.Recalculate(ctx); err != nil {
		t.Fatal(err)
	}
	if got := points(t, svc, "u1"); got != 3 {
		t.Errorf("points in memory = %d, want 3", got)
	}
	if got := storedPoints(t, kv, "u1"); got != 3 {
		t.Errorf("stored points = %d, want 3", got)
	}
}

func TestStalePointsCorrectedAtStartup(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewRepository()
	stale := `[{"id":"u1","name":"FABIO","password":"123","role":"USER","points":42}]`
	if err := kv.Set(ctx, "bg_profiles", []byte(stale)); err != nil {
		t.Fatal(err)
	}

	svc, err := NewPoolService(ctx, store.NewStore(kv, "bg_"), session.PlaintextGate{})
	if err != nil {
		t.Fatal(err)
	}
	if got := points(t, svc, "u1"); got != 0 {
		t.Errorf("points = %d, want 0", got)
	}
	raw, _ := kv.Get(ctx, "bg_profiles")
	if strings.Contains(string(raw), "42") {
		t.Errorf("stale points still stored: %s", raw)
	}
}

func TestMatchesReport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	login(t, svc, "DINA", "123")
	if err := svc.PlaceBet(ctx, "m4", 0, 2); err != nil {
		t.Fatal(err)
	}

	mine := svc.GetMyMatches()
	if !strings.Contains(mine, "Your bet: 0 x 2") {
		t.Errorf("own bet missing:\n%s", mine)
	}
	if strings.Contains(svc.GetMatches(), "Your bet") {
		t.Errorf("public report shows a bet")
	}
	if !strings.Contains(mine, "★ SPECIAL ★") {
		t.Errorf("special match not flagged")
	}
}
