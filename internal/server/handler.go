package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/louisbranch/rspfootball/internal/app"
	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/game/engine"
	"github.com/louisbranch/rspfootball/internal/storage"
)

// Service defines the game operations consumed by the HTTP handlers.
type Service interface {
	NewGame(ctx context.Context, gameID, user string) (*game.Game, error)
	JoinGame(ctx context.Context, gameID, user string) error
	HandleAction(ctx context.Context, gameID, user string, action game.Action) (*game.Game, error)
	Poll(ctx context.Context, gameID string, clientVersion int) (*game.Game, error)
	ListGames(ctx context.Context, query storage.ListQuery) ([]storage.GameSummary, error)
}

// NewHandler builds the HTTP handler for the game server.
func NewHandler(service Service) http.Handler {
	h := &handler{service: service}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /new-game", h.handleNewGame)
	mux.HandleFunc("POST /join-game", h.handleJoinGame)
	mux.HandleFunc("POST /action", h.handleAction)
	mux.HandleFunc("POST /poll", h.handlePoll)
	mux.HandleFunc("GET /list-games", h.handleListGames)
	return mux
}

type handler struct {
	service Service
}

type gameRequest struct {
	GameID string `json:"gameId"`
	User   string `json:"user"`
}

type actionRequest struct {
	GameID string          `json:"gameId"`
	User   string          `json:"user"`
	Action json.RawMessage `json:"action"`
}

type pollRequest struct {
	GameID  string `json:"gameId"`
	Version *int   `json:"version"`
}

type listGamesResponse struct {
	Games   []storage.GameSummary `json:"games"`
	Message string                `json:"message,omitempty"`
}

func (h *handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, field{"gameId", req.GameID}, field{"user", req.User}) {
		return
	}

	g, err := h.service.NewGame(r.Context(), req.GameID, req.User)
	if err != nil {
		if errors.Is(err, app.ErrGameExists) {
			writeJSON(w, http.StatusBadRequest, "Invalid gameId: game with id already exists")
			return
		}
		writeServerFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handler) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, field{"gameId", req.GameID}, field{"user", req.User}) {
		return
	}

	if err := h.service.JoinGame(r.Context(), req.GameID, req.User); err != nil {
		switch {
		case errors.Is(err, app.ErrGameNotFound):
			writeJSON(w, http.StatusBadRequest, "Game not found")
		case errors.Is(err, app.ErrGameFull):
			writeJSON(w, http.StatusBadRequest, "Cannot join game: game is full")
		default:
			writeServerFault(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, "Joined game")
}

func (h *handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, field{"gameId", req.GameID}, field{"user", req.User}) {
		return
	}
	if len(req.Action) == 0 {
		writeJSON(w, http.StatusBadRequest, "Missing required attribute: action")
		return
	}

	action, err := game.ParseAction(req.Action)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "Illegal action: "+err.Error())
		return
	}

	g, err := h.service.HandleAction(r.Context(), req.GameID, req.User, action)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrGameNotFound):
			writeJSON(w, http.StatusBadRequest, "Game not found")
		case errors.Is(err, app.ErrPlayerNotInGame):
			writeJSON(w, http.StatusBadRequest, "Player not in game")
		case errors.Is(err, app.ErrActionNotAllowed):
			writeJSON(w, http.StatusBadRequest, "Action not allowed")
		case engine.IsIllegalAction(err):
			var illegal *engine.IllegalActionError
			errors.As(err, &illegal)
			writeJSON(w, http.StatusBadRequest, "Illegal action: "+illegal.Reason)
		case errors.Is(err, app.ErrUpdateFailed):
			writeJSON(w, http.StatusInternalServerError, "Failed to update game")
		default:
			writeServerFault(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handler) handlePoll(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, field{"gameId", req.GameID}) {
		return
	}
	if req.Version == nil {
		writeJSON(w, http.StatusBadRequest, "Missing required attribute: version")
		return
	}

	g, err := h.service.Poll(r.Context(), req.GameID, *req.Version)
	if err != nil {
		if errors.Is(err, app.ErrGameNotFound) {
			writeJSON(w, http.StatusBadRequest, "Game not found")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		writeServerFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleListGames answers the game search. A query with no filters asks for
// nothing, so it gets an empty listing with an explanatory message instead
// of a table scan.
func (h *handler) handleListGames(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var query storage.ListQuery
	if raw := params.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, "Invalid query parameter: available")
			return
		}
		query.Available = available
	}
	query.User = params.Get("user")

	if !query.Available && query.User == "" {
		writeJSON(w, http.StatusOK, listGamesResponse{
			Games:   []storage.GameSummary{},
			Message: "The provided query requests no results",
		})
		return
	}

	games, err := h.service.ListGames(r.Context(), query)
	if err != nil {
		writeServerFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listGamesResponse{Games: games})
}

type field struct {
	name  string
	value string
}

func requireFields(w http.ResponseWriter, fields ...field) bool {
	for _, f := range fields {
		if f.value == "" {
			writeJSON(w, http.StatusBadRequest, "Missing required attribute: "+f.name)
			return false
		}
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, "Couldn't read event body")
		return false
	}
	return true
}

func writeServerFault(w http.ResponseWriter, err error) {
	log.Printf("request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, "Internal error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
