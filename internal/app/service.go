package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/game/engine"
	"github.com/louisbranch/rspfootball/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrGameNotFound indicates the requested game does not exist.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNotInGame indicates the user holds no seat in the game.
	ErrPlayerNotInGame = errors.New("player not in game")
	// ErrActionNotAllowed indicates the action name is outside the
	// player's permitted vocabulary for the current state.
	ErrActionNotAllowed = errors.New("action not allowed")
	// ErrUpdateFailed indicates the conditional store kept losing races
	// until the retry budget ran out.
	ErrUpdateFailed = errors.New("failed to update game")
	// ErrGameExists indicates a new-game request collided with an
	// existing id while overwrites are disabled.
	ErrGameExists = errors.New("game with id already exists")
	// ErrGameFull indicates a join found no open seat for the user.
	ErrGameFull = errors.New("game is full")
)

// Config carries the tunables of the service operations.
type Config struct {
	// MaxUpdateAttempts bounds the optimistic-concurrency retry loop.
	MaxUpdateAttempts int
	// MaxPollTime bounds how long a poll request may block.
	MaxPollTime time.Duration
	// PollInterval is the reload cadence while a poll waits.
	PollInterval time.Duration
	// AllowOverwrites lets new-game replace an existing record.
	AllowOverwrites bool
}

// Service implements the game operations over a store and the rules engine.
type Service struct {
	store  storage.Store
	engine *engine.Engine
	config Config
	tracer trace.Tracer
}

// New assembles the service.
func New(store storage.Store, eng *engine.Engine, config Config) *Service {
	return &Service{
		store:  store,
		engine: eng,
		config: config,
		tracer: otel.Tracer("rspfootball/app"),
	}
}

// HandleAction runs the dispatch pipeline for one submitted action and
// returns the updated snapshot.
//
// Steps 1-5 are pure in-memory work on the loaded record; the conditional
// put is the only side effect. A version conflict restarts the pipeline from
// the load, up to the configured attempt bound.
func (s *Service) HandleAction(ctx context.Context, gameID, user string, action game.Action) (*game.Game, error) {
	ctx, span := s.tracer.Start(ctx, "game.action", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("game.action", string(action.Name())),
	))
	defer span.End()

	for attempt := 0; attempt < s.config.MaxUpdateAttempts; attempt++ {
		g, err := s.store.Get(ctx, gameID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrGameNotFound
			}
			return nil, err
		}

		player, ok := g.PlayerFor(user)
		if !ok {
			return nil, ErrPlayerNotInGame
		}

		if !g.ActionAllowed(player, action.Name()) {
			return nil, ErrActionNotAllowed
		}

		version := g.Version

		// Per-turn reset: the result log carries only this action's
		// events, and any seat the handler does not grant actions to
		// falls back to polling.
		g.Result = game.ResultList{}
		g.Actions = map[game.Player][]game.ActionName{
			game.PlayerHome: {game.ActionNamePoll},
			game.PlayerAway: {game.ActionNamePoll},
		}

		if err := s.engine.Dispatch(g, player, action); err != nil {
			return nil, err
		}

		g.Version = version + 1
		if err := s.store.Put(ctx, g, version); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			return nil, err
		}
		return g, nil
	}

	log.Printf("game %s: update attempts exhausted for %s", gameID, action.Name())
	return nil, ErrUpdateFailed
}

// Poll blocks until the stored version passes clientVersion or the poll
// budget elapses, then returns the current snapshot.
func (s *Service) Poll(ctx context.Context, gameID string, clientVersion int) (*game.Game, error) {
	deadline := time.Now().Add(s.config.MaxPollTime)

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	for time.Now().Before(deadline) && clientVersion >= g.Version {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.config.PollInterval):
		}

		g, err = s.getGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

// NewGame creates a game with the home seat filled.
func (s *Service) NewGame(ctx context.Context, gameID, user string) (*game.Game, error) {
	g := game.New(gameID, user)
	if err := s.store.Create(ctx, g, s.config.AllowOverwrites); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrGameExists
		}
		return nil, err
	}
	log.Printf("game %s: created by %s", gameID, user)
	return g, nil
}

// JoinGame seats the user in the away slot.
func (s *Service) JoinGame(ctx context.Context, gameID, user string) error {
	if err := s.store.Join(ctx, gameID, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return ErrGameNotFound
		case errors.Is(err, storage.ErrSeatUnavailable):
			return ErrGameFull
		default:
			return err
		}
	}
	log.Printf("game %s: joined by %s", gameID, user)
	return nil
}

// ListGames returns summaries of games matching the query.
func (s *Service) ListGames(ctx context.Context, query storage.ListQuery) ([]storage.GameSummary, error) {
	return s.store.List(ctx, query)
}

func (s *Service) getGame(ctx context.Context, gameID string) (*game.Game, error) {
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}
