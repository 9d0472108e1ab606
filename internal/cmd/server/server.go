// Package server parses server command flags and starts the game service.
package server

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/louisbranch/rspfootball/internal/app"
	"github.com/louisbranch/rspfootball/internal/game/dice"
	"github.com/louisbranch/rspfootball/internal/game/engine"
	entrypoint "github.com/louisbranch/rspfootball/internal/platform/cmd"
	httpserver "github.com/louisbranch/rspfootball/internal/server"
	"github.com/louisbranch/rspfootball/internal/storage/sqlite"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"RSPFOOTBALL_PORT" envDefault:"8080"`
	Addr   string `env:"RSPFOOTBALL_ADDR"`
	DBPath string `env:"RSPFOOTBALL_DB_PATH" envDefault:"rspfootball.db"`

	MaxUpdateAttempts int           `env:"MAX_UPDATE_ATTEMPTS" envDefault:"5"`
	MaxPollTime       time.Duration `env:"MAX_POLL_TIME" envDefault:"25s"`
	PollInterval      time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
	AllowOverwrites   bool          `env:"ALLOW_OVERWRITES" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = store.Close() }()

		seed, err := dice.NewSeed()
		if err != nil {
			return fmt.Errorf("generate dice seed: %w", err)
		}

		eng, err := engine.New(dice.New(seed))
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}

		service := app.New(store, eng, app.Config{
			MaxUpdateAttempts: cfg.MaxUpdateAttempts,
			MaxPollTime:       cfg.MaxPollTime,
			PollInterval:      cfg.PollInterval,
			AllowOverwrites:   cfg.AllowOverwrites,
		})

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}

		srv, err := httpserver.NewServer(httpserver.Config{Addr: addr}, service)
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}
		return srv.ListenAndServe(ctx)
	})
}
