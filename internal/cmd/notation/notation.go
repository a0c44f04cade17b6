// Package notation parses notation command flags and starts the gRPC server.
package notation

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	server "github.com/louisbranch/dicenotation/internal/services/notation/app"
)

// Config holds notation command configuration.
type Config struct {
	Port   int    `env:"DICENOTATION_PORT"    envDefault:"8090"`
	Addr   string `env:"DICENOTATION_ADDR"`
	DBPath string `env:"DICENOTATION_DB_PATH" envDefault:"data/notation.db"`
	Seed   int64  `env:"DICENOTATION_SEED"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The notation server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The notation server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path of the SQLite roll log")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Fixed random seed for reproducible rolls (0 uses crypto/rand)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// listenAddr resolves the address the server binds to.
func (c Config) listenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the notation gRPC service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceNotation, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:   cfg.listenAddr(),
			DBPath: cfg.DBPath,
			Seed:   cfg.Seed,
		})
	})
}
