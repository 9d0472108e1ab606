package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/game/dice"
	"github.com/louisbranch/rspfootball/internal/game/engine"
	"github.com/louisbranch/rspfootball/internal/storage"
)

// fakeStore keeps games in memory behind the same conditional-write contract
// as the SQLite store. Records round-trip through JSON so tests exercise the
// same encoding the real store does.
type fakeStore struct {
	mu        sync.Mutex
	games     map[string][]byte
	conflicts int
	putCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{games: map[string][]byte{}}
}

func (s *fakeStore) seed(t *testing.T, g *game.Game) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal seed game: %v", err)
	}
	s.games[g.ID] = payload
}

func (s *fakeStore) Get(ctx context.Context, id string) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.games[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	var g game.Game
	if err := json.Unmarshal(payload, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *fakeStore) Create(ctx context.Context, g *game.Game, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok && !overwrite {
		return storage.ErrAlreadyExists
	}
	payload, err := json.Marshal(g)
	if err != nil {
		return err
	}
	s.games[g.ID] = payload
	return nil
}

func (s *fakeStore) Put(ctx context.Context, g *game.Game, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	if s.conflicts > 0 {
		s.conflicts--
		return storage.ErrVersionConflict
	}
	payload, ok := s.games[g.ID]
	if !ok {
		return storage.ErrVersionConflict
	}
	var stored game.Game
	if err := json.Unmarshal(payload, &stored); err != nil {
		return err
	}
	if stored.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	updated, err := json.Marshal(g)
	if err != nil {
		return err
	}
	s.games[g.ID] = updated
	return nil
}

func (s *fakeStore) Join(ctx context.Context, id, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.games[id]
	if !ok {
		return storage.ErrNotFound
	}
	var g game.Game
	if err := json.Unmarshal(payload, &g); err != nil {
		return err
	}
	if g.Players[game.PlayerAway] != nil {
		return storage.ErrSeatUnavailable
	}
	if seat := g.Players[game.PlayerHome]; seat != nil && *seat == user {
		return storage.ErrSeatUnavailable
	}
	g.Players[game.PlayerAway] = &user
	g.Version++
	updated, err := json.Marshal(&g)
	if err != nil {
		return err
	}
	s.games[id] = updated
	return nil
}

func (s *fakeStore) List(ctx context.Context, query storage.ListQuery) ([]storage.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := []storage.GameSummary{}
	for _, payload := range s.games {
		var g game.Game
		if err := json.Unmarshal(payload, &g); err != nil {
			return nil, err
		}
		available := query.Available && g.Players[game.PlayerAway] == nil
		var involved bool
		if query.User != "" {
			if _, ok := g.PlayerFor(query.User); ok {
				involved = true
			}
		}
		if available || involved {
			summaries = append(summaries, storage.GameSummary{ID: g.ID, Players: g.Players})
		}
	}
	return summaries, nil
}

func newTestService(t *testing.T, store storage.Store, config Config) *Service {
	t.Helper()
	eng, err := engine.New(dice.New(1))
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	if config.MaxUpdateAttempts == 0 {
		config.MaxUpdateAttempts = 3
	}
	if config.MaxPollTime == 0 {
		config.MaxPollTime = 100 * time.Millisecond
	}
	if config.PollInterval == 0 {
		config.PollInterval = 5 * time.Millisecond
	}
	return New(store, eng, config)
}

func seededGame(t *testing.T, store *fakeStore) *game.Game {
	t.Helper()
	g := game.New("g1", "alice")
	bob := "bob"
	g.Players[game.PlayerAway] = &bob
	store.seed(t, g)
	return g
}

func TestHandleActionAppliesAndBumpsVersion(t *testing.T) {
	store := newFakeStore()
	seededGame(t, store)
	service := newTestService(t, store, Config{})

	g, err := service.HandleAction(context.Background(), "g1", "alice", game.RspAction{Choice: game.RspRock})
	if err != nil {
		t.Fatalf("handle action: %v", err)
	}

	if g.Version != 1 {
		t.Fatalf("expected version 1, got %d", g.Version)
	}
	if g.Rsp[game.PlayerHome] == nil || *g.Rsp[game.PlayerHome] != game.RspRock {
		t.Fatalf("expected parked throw, got %v", g.Rsp[game.PlayerHome])
	}
	if !g.ActionAllowed(game.PlayerAway, game.ActionNameRsp) {
		t.Fatalf("expected away prompted for RSP, got %v", g.Actions[game.PlayerAway])
	}
	// The reset leaves seats the handler did not address on POLL.
	if !g.ActionAllowed(game.PlayerHome, game.ActionNamePoll) {
		t.Fatalf("expected home reset to POLL, got %v", g.Actions[game.PlayerHome])
	}

	stored, err := store.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("reload game: %v", err)
	}
	if stored.Version != 1 {
		t.Fatalf("expected stored version 1, got %d", stored.Version)
	}
}

func TestHandleActionResetsResultLog(t *testing.T) {
	store := newFakeStore()
	g := game.New("g1", "alice")
	bob := "bob"
	g.Players[game.PlayerAway] = &bob
	g.Result = game.ResultList{game.ScoreResult{Type: game.ScoreTouchdown}}
	store.seed(t, g)
	service := newTestService(t, store, Config{})

	updated, err := service.HandleAction(context.Background(), "g1", "alice", game.RspAction{Choice: game.RspRock})
	if err != nil {
		t.Fatalf("handle action: %v", err)
	}

	for _, result := range updated.Result {
		if _, ok := result.(game.ScoreResult); ok {
			t.Fatalf("expected stale results cleared, got %v", updated.Result)
		}
	}
}

func TestHandleActionRetriesOnConflict(t *testing.T) {
	store := newFakeStore()
	seededGame(t, store)
	store.conflicts = 2
	service := newTestService(t, store, Config{MaxUpdateAttempts: 3})

	if _, err := service.HandleAction(context.Background(), "g1", "alice", game.RspAction{Choice: game.RspRock}); err != nil {
		t.Fatalf("handle action: %v", err)
	}
	if store.putCalls != 3 {
		t.Fatalf("expected 3 put attempts, got %d", store.putCalls)
	}
}

func TestHandleActionExhaustsRetries(t *testing.T) {
	store := newFakeStore()
	seededGame(t, store)
	store.conflicts = 10
	service := newTestService(t, store, Config{MaxUpdateAttempts: 3})

	_, err := service.HandleAction(context.Background(), "g1", "alice", game.RspAction{Choice: game.RspRock})
	if !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed, got %v", err)
	}
	if store.putCalls != 3 {
		t.Fatalf("expected the retry budget respected, got %d puts", store.putCalls)
	}
}

func TestHandleActionGameNotFound(t *testing.T) {
	service := newTestService(t, newFakeStore(), Config{})

	_, err := service.HandleAction(context.Background(), "missing", "alice", game.RspAction{Choice: game.RspRock})
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestHandleActionPlayerNotInGame(t *testing.T) {
	store := newFakeStore()
	seededGame(t, store)
	service := newTestService(t, store, Config{})

	_, err := service.HandleAction(context.Background(), "g1", "mallory", game.RspAction{Choice: game.RspRock})
	if !errors.Is(err, ErrPlayerNotInGame) {
		t.Fatalf("expected ErrPlayerNotInGame, got %v", err)
	}
}

func TestHandleActionNotAllowed(t *testing.T) {
	store := newFakeStore()
	seededGame(t, store)
	service := newTestService(t, store, Config{})

	_, err := service.HandleAction(context.Background(), "g1", "alice", game.RollAction{Count: 1})
	if !errors.Is(err, ErrActionNotAllowed) {
		t.Fatalf("expected ErrActionNotAllowed, got %v", err)
	}
}

func TestHandleActionIllegalActionLeavesGameUntouched(t *testing.T) {
	store := newFakeStore()
	g := game.New("g1", "alice")
	bob := "bob"
	g.Players[game.PlayerAway] = &bob
	g.State = game.StateKickoff
	possession := game.PlayerHome
	g.Possession = &possession
	g.Actions[game.PlayerHome] = []game.ActionName{game.ActionNameRoll}
	store.seed(t, g)
	service := newTestService(t, store, Config{})

	_, err := service.HandleAction(context.Background(), "g1", "alice", game.RollAction{Count: 2})
	if !engine.IsIllegalAction(err) {
		t.Fatalf("expected illegal action, got %v", err)
	}

	stored, err := store.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("reload game: %v", err)
	}
	if stored.Version != 0 {
		t.Fatalf("expected rejected action to leave version 0, got %d", stored.Version)
	}
}

func TestPollReturnsImmediatelyOnNewerVersion(t *testing.T) {
	store := newFakeStore()
	g := seededGame(t, store)
	g.Version = 3
	store.seed(t, g)
	service := newTestService(t, store, Config{MaxPollTime: 5 * time.Second})

	start := time.Now()
	polled, err := service.Poll(context.Background(), "g1", 2)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if polled.Version != 3 {
		t.Fatalf("expected version 3, got %d", polled.Version)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected an immediate return, waited %v", elapsed)
	}
}

func TestPollWakesWhenVersionAdvances(t *testing.T) {
	store := newFakeStore()
	g := seededGame(t, store)
	service := newTestService(t, store, Config{MaxPollTime: 2 * time.Second, PollInterval: 5 * time.Millisecond})

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Version = 1
		payload, _ := json.Marshal(g)
		store.mu.Lock()
		store.games[g.ID] = payload
		store.mu.Unlock()
	}()

	polled, err := service.Poll(context.Background(), "g1", 0)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if polled.Version != 1 {
		t.Fatalf("expected to observe version 1, got %d", polled.Version)
	}
}

func TestPollTimesOutAtCurrentVersion(t *testing.T) {
	store := newFakeStore()
	seededGame(t, store)
	service := newTestService(t, store, Config{MaxPollTime: 30 * time.Millisecond, PollInterval: 10 * time.Millisecond})

	polled, err := service.Poll(context.Background(), "g1", 0)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if polled.Version != 0 {
		t.Fatalf("expected the unchanged game, got version %d", polled.Version)
	}
}

func TestPollGameNotFound(t *testing.T) {
	service := newTestService(t, newFakeStore(), Config{})

	_, err := service.Poll(context.Background(), "missing", 0)
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestNewGameRejectsExistingID(t *testing.T) {
	store := newFakeStore()
	service := newTestService(t, store, Config{})

	if _, err := service.NewGame(context.Background(), "g1", "alice"); err != nil {
		t.Fatalf("new game: %v", err)
	}
	_, err := service.NewGame(context.Background(), "g1", "carol")
	if !errors.Is(err, ErrGameExists) {
		t.Fatalf("expected ErrGameExists, got %v", err)
	}
}

func TestNewGameOverwriteAllowed(t *testing.T) {
	store := newFakeStore()
	service := newTestService(t, store, Config{AllowOverwrites: true})

	if _, err := service.NewGame(context.Background(), "g1", "alice"); err != nil {
		t.Fatalf("new game: %v", err)
	}
	g, err := service.NewGame(context.Background(), "g1", "carol")
	if err != nil {
		t.Fatalf("overwrite game: %v", err)
	}
	if seat := g.Players[game.PlayerHome]; seat == nil || *seat != "carol" {
		t.Fatalf("expected carol in the home seat, got %v", seat)
	}
}

func TestJoinGame(t *testing.T) {
	store := newFakeStore()
	service := newTestService(t, store, Config{})
	if _, err := service.NewGame(context.Background(), "g1", "alice"); err != nil {
		t.Fatalf("new game: %v", err)
	}

	if err := service.JoinGame(context.Background(), "g1", "bob"); err != nil {
		t.Fatalf("join game: %v", err)
	}

	g, err := store.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("reload game: %v", err)
	}
	if seat := g.Players[game.PlayerAway]; seat == nil || *seat != "bob" {
		t.Fatalf("expected bob seated, got %v", seat)
	}
	if g.Version != 1 {
		t.Fatalf("expected the join to bump the version, got %d", g.Version)
	}

	if err := service.JoinGame(context.Background(), "g1", "carol"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull, got %v", err)
	}
	if err := service.JoinGame(context.Background(), "missing", "bob"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestJoinGameRejectsHomeUser(t *testing.T) {
	store := newFakeStore()
	service := newTestService(t, store, Config{})
	if _, err := service.NewGame(context.Background(), "g1", "alice"); err != nil {
		t.Fatalf("new game: %v", err)
	}

	if err := service.JoinGame(context.Background(), "g1", "alice"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull for self-join, got %v", err)
	}
}
