// Package sqlite provides the SQLite-backed game store.
//
// Each game is one row: the JSON document in payload plus the columns the
// listing queries and conditional predicates need (version, seat users).
// Conditional writes are expressed as guarded statements whose affected-row
// count decides between success and a conflict sentinel, which serializes
// concurrent writers the same way a conditional put on a remote key-value
// store would.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/rspfootball/internal/storage"
	"github.com/louisbranch/rspfootball/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides a SQLite-backed storage.Store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite game store at the provided path and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.GamesFS, "games"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get fetches a game record by id.
func (s *Store) Get(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("game id is required")
	}

	var payload []byte
	row := s.sqlDB.QueryRowContext(ctx, "SELECT payload FROM games WHERE game_id = ?", id)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query game: %w", err)
	}

	var g game.Game
	if err := json.Unmarshal(payload, &g); err != nil {
		return nil, fmt.Errorf("unmarshal game: %w", err)
	}
	return &g, nil
}

// Create stores a fresh game record. Without overwrite, colliding with an
// existing id fails with storage.ErrAlreadyExists, which mirrors an
// attribute-not-exists create predicate.
func (s *Store) Create(ctx context.Context, g *game.Game, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}

	stmt := "INSERT INTO games (game_id, version, home_user, away_user, payload) VALUES (?, ?, ?, ?, ?)"
	if overwrite {
		stmt = "INSERT OR REPLACE INTO games (game_id, version, home_user, away_user, payload) VALUES (?, ?, ?, ?, ?)"
	}

	_, err = s.sqlDB.ExecContext(ctx, stmt,
		g.ID, g.Version, seatValue(g, game.PlayerHome), seatValue(g, game.PlayerAway), payload)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Put stores the game under the predicate that the persisted version still
// equals expectedVersion.
func (s *Store) Put(ctx context.Context, g *game.Game, expectedVersion int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}

	result, err := s.sqlDB.ExecContext(ctx,
		"UPDATE games SET version = ?, home_user = ?, away_user = ?, payload = ? WHERE game_id = ? AND version = ?",
		g.Version, seatValue(g, game.PlayerHome), seatValue(g, game.PlayerAway), payload,
		g.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}

// Join fills the away seat and bumps the version in one transaction, so a
// concurrent action or second join cannot double-seat.
func (s *Store) Join(ctx context.Context, id, user string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin join transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var payload []byte
	var version int
	row := tx.QueryRowContext(ctx, "SELECT payload, version FROM games WHERE game_id = ?", id)
	if err := row.Scan(&payload, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("query game: %w", err)
	}

	var g game.Game
	if err := json.Unmarshal(payload, &g); err != nil {
		return fmt.Errorf("unmarshal game: %w", err)
	}

	if g.Players[game.PlayerAway] != nil {
		return storage.ErrSeatUnavailable
	}
	if seat := g.Players[game.PlayerHome]; seat != nil && *seat == user {
		return storage.ErrSeatUnavailable
	}

	g.Players[game.PlayerAway] = &user
	g.Version = version + 1

	updated, err := json.Marshal(&g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE games SET version = ?, away_user = ?, payload = ? WHERE game_id = ? AND version = ?",
		g.Version, user, updated, id, version)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrVersionConflict
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit join transaction: %w", err)
	}
	return nil
}

// List returns game summaries matching the query. Filters union together,
// matching the search semantics of the listing endpoint.
func (s *Store) List(ctx context.Context, query storage.ListQuery) ([]storage.GameSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var predicates []string
	var args []any
	if query.Available {
		predicates = append(predicates, "away_user IS NULL")
	}
	if query.User != "" {
		predicates = append(predicates, "(home_user = ? OR away_user = ?)")
		args = append(args, query.User, query.User)
	}
	if len(predicates) == 0 {
		return []storage.GameSummary{}, nil
	}

	stmt := "SELECT game_id, home_user, away_user FROM games WHERE " + strings.Join(predicates, " OR ")
	rows, err := s.sqlDB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	summaries := []storage.GameSummary{}
	for rows.Next() {
		var id string
		var home, away sql.NullString
		if err := rows.Scan(&id, &home, &away); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		summaries = append(summaries, storage.GameSummary{
			ID: id,
			Players: map[game.Player]*string{
				game.PlayerHome: nullableSeat(home),
				game.PlayerAway: nullableSeat(away),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read game rows: %w", err)
	}
	return summaries, nil
}

func seatValue(g *game.Game, player game.Player) any {
	if seat := g.Players[player]; seat != nil {
		return *seat
	}
	return nil
}

func nullableSeat(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	seat := value.String
	return &seat
}

func isUniqueViolation(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint") || strings.Contains(value, "constraint failed")
}
