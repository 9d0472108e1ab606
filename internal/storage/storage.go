// Package storage defines the persistence contract for game records.
//
// The store is a keyed table with conditional-write semantics: creates
// assert the key is absent, updates assert the stored version matches the
// snapshot the caller read. The action pipeline relies on those predicates
// for optimistic concurrency.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/rspfootball/internal/game"
)

// ErrNotFound indicates a requested game record is missing.
var ErrNotFound = errors.New("game not found")

// ErrVersionConflict indicates a conditional put lost a race: the stored
// version no longer matches the caller's snapshot.
var ErrVersionConflict = errors.New("stored version does not match snapshot")

// ErrAlreadyExists indicates a create collided with an existing game id.
var ErrAlreadyExists = errors.New("game with id already exists")

// ErrSeatUnavailable indicates a join found the away seat filled, or the
// joiner already holds the home seat.
var ErrSeatUnavailable = errors.New("away seat unavailable")

// GameSummary is the projection returned by listing queries.
type GameSummary struct {
	ID      string                  `json:"gameId"`
	Players map[game.Player]*string `json:"players"`
}

// ListQuery filters the game listing. Filters combine as a union: a query
// for available games involving a user returns games matching either.
type ListQuery struct {
	// Available selects games whose away seat is open.
	Available bool
	// User selects games in which the given user holds a seat.
	User string
}

// Store persists game records under optimistic concurrency.
type Store interface {
	// Get fetches a game by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Create stores a fresh game. Unless overwrite is set, an existing
	// record with the same id fails with ErrAlreadyExists.
	Create(ctx context.Context, g *game.Game, overwrite bool) error

	// Put stores the game iff the stored version equals expectedVersion,
	// otherwise ErrVersionConflict.
	Put(ctx context.Context, g *game.Game, expectedVersion int) error

	// Join seats the user in the away slot and bumps the version, so
	// pollers observe the join. Fails with ErrSeatUnavailable when the
	// seat is taken or the user already holds the home seat.
	Join(ctx context.Context, id, user string) error

	// List returns summaries of games matching the query.
	List(ctx context.Context, query ListQuery) ([]GameSummary, error)
}
