package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/rspfootball/internal/app"
	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/game/engine"
	"github.com/louisbranch/rspfootball/internal/storage"
)

type stubService struct {
	newGameErr error
	joinErr    error
	actionErr  error
	pollErr    error
	listErr    error

	game      *game.Game
	summaries []storage.GameSummary
	lastQuery storage.ListQuery
	action    game.Action
}

func (s *stubService) NewGame(ctx context.Context, gameID, user string) (*game.Game, error) {
	if s.newGameErr != nil {
		return nil, s.newGameErr
	}
	return s.game, nil
}

func (s *stubService) JoinGame(ctx context.Context, gameID, user string) error {
	return s.joinErr
}

func (s *stubService) HandleAction(ctx context.Context, gameID, user string, action game.Action) (*game.Game, error) {
	s.action = action
	if s.actionErr != nil {
		return nil, s.actionErr
	}
	return s.game, nil
}

func (s *stubService) Poll(ctx context.Context, gameID string, clientVersion int) (*game.Game, error) {
	if s.pollErr != nil {
		return nil, s.pollErr
	}
	return s.game, nil
}

func (s *stubService) ListGames(ctx context.Context, query storage.ListQuery) ([]storage.GameSummary, error) {
	s.lastQuery = query
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.summaries, nil
}

func doRequest(t *testing.T, service Service, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	NewHandler(service).ServeHTTP(recorder, req)
	return recorder
}

func decodeMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var message string
	if err := json.Unmarshal(recorder.Body.Bytes(), &message); err != nil {
		t.Fatalf("decode message body %q: %v", recorder.Body.String(), err)
	}
	return message
}

func TestNewGameReturnsGame(t *testing.T) {
	stub := &stubService{game: game.New("g1", "alice")}

	recorder := doRequest(t, stub, http.MethodPost, "/new-game", `{"gameId": "g1", "user": "alice"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var g game.Game
	if err := json.Unmarshal(recorder.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	if g.ID != "g1" || g.State != game.StateCoinToss {
		t.Fatalf("unexpected game %v", g)
	}
}

func TestNewGameConflict(t *testing.T) {
	stub := &stubService{newGameErr: app.ErrGameExists}

	recorder := doRequest(t, stub, http.MethodPost, "/new-game", `{"gameId": "g1", "user": "alice"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if message := decodeMessage(t, recorder); message != "Invalid gameId: game with id already exists" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestNewGameMissingFields(t *testing.T) {
	recorder := doRequest(t, &stubService{}, http.MethodPost, "/new-game", `{"user": "alice"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if message := decodeMessage(t, recorder); !strings.Contains(message, "gameId") {
		t.Fatalf("expected the missing attribute named, got %q", message)
	}
}

func TestJoinGameResponses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"joined", nil, http.StatusOK, "Joined game"},
		{"full", app.ErrGameFull, http.StatusBadRequest, "Cannot join game: game is full"},
		{"missing", app.ErrGameNotFound, http.StatusBadRequest, "Game not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubService{joinErr: tc.err}
			recorder := doRequest(t, stub, http.MethodPost, "/join-game", `{"gameId": "g1", "user": "bob"}`)

			if recorder.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", recorder.Code, tc.wantStatus)
			}
			if message := decodeMessage(t, recorder); message != tc.wantBody {
				t.Fatalf("body = %q, want %q", message, tc.wantBody)
			}
		})
	}
}

func TestActionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", app.ErrGameNotFound, http.StatusBadRequest, "Game not found"},
		{"wrong player", app.ErrPlayerNotInGame, http.StatusBadRequest, "Player not in game"},
		{"not allowed", app.ErrActionNotAllowed, http.StatusBadRequest, "Action not allowed"},
		{"illegal", &engine.IllegalActionError{Reason: "must roll [3] dice in state KICKOFF"}, http.StatusBadRequest, "Illegal action: must roll [3] dice in state KICKOFF"},
		{"exhausted", app.ErrUpdateFailed, http.StatusInternalServerError, "Failed to update game"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubService{actionErr: tc.err}
			body := `{"gameId": "g1", "user": "alice", "action": {"name": "RSP", "choice": "ROCK"}}`
			recorder := doRequest(t, stub, http.MethodPost, "/action", body)

			if recorder.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", recorder.Code, tc.wantStatus)
			}
			if message := decodeMessage(t, recorder); message != tc.wantBody {
				t.Fatalf("body = %q, want %q", message, tc.wantBody)
			}
		})
	}
}

func TestActionDecodesPayload(t *testing.T) {
	stub := &stubService{game: game.New("g1", "alice")}
	body := `{"gameId": "g1", "user": "alice", "action": {"name": "ROLL", "count": 3}}`

	recorder := doRequest(t, stub, http.MethodPost, "/action", body)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if stub.action != (game.RollAction{Count: 3}) {
		t.Fatalf("service saw action %#v", stub.action)
	}
}

func TestActionRejectsUndecodableAction(t *testing.T) {
	body := `{"gameId": "g1", "user": "alice", "action": {"name": "PENALTY"}}`

	recorder := doRequest(t, &stubService{}, http.MethodPost, "/action", body)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if message := decodeMessage(t, recorder); !strings.HasPrefix(message, "Illegal action") {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestPollRequiresVersion(t *testing.T) {
	recorder := doRequest(t, &stubService{}, http.MethodPost, "/poll", `{"gameId": "g1"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if message := decodeMessage(t, recorder); !strings.Contains(message, "version") {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestPollAcceptsVersionZero(t *testing.T) {
	stub := &stubService{game: game.New("g1", "alice")}

	recorder := doRequest(t, stub, http.MethodPost, "/poll", `{"gameId": "g1", "version": 0}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestListGamesPassesFilters(t *testing.T) {
	stub := &stubService{summaries: []storage.GameSummary{{ID: "g1"}}}

	recorder := doRequest(t, stub, http.MethodGet, "/list-games?available=true&user=alice", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !stub.lastQuery.Available || stub.lastQuery.User != "alice" {
		t.Fatalf("service saw query %+v", stub.lastQuery)
	}

	var response struct {
		Games []storage.GameSummary `json:"games"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response.Games) != 1 || response.Games[0].ID != "g1" {
		t.Fatalf("unexpected games %v", response.Games)
	}
}

func TestListGamesWithoutFiltersShortCircuits(t *testing.T) {
	stub := &stubService{}

	recorder := doRequest(t, stub, http.MethodGet, "/list-games", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var response struct {
		Games   []storage.GameSummary `json:"games"`
		Message string                `json:"message"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response.Games) != 0 {
		t.Fatalf("expected no games, got %v", response.Games)
	}
	if response.Message != "The provided query requests no results" {
		t.Fatalf("unexpected message %q", response.Message)
	}
}

func TestListGamesRejectsBadAvailable(t *testing.T) {
	recorder := doRequest(t, &stubService{}, http.MethodGet, "/list-games?available=maybe", "")

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}
