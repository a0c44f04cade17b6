// Package roll parses roll command flags and evaluates expressions locally.
package roll

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/dicenotation/internal/core/notation"
	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	"github.com/louisbranch/dicenotation/internal/platform/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

// ErrNoExpressions is returned when no expression is given on the command line.
var ErrNoExpressions = errors.New("at least one expression is required")

// Config holds roll command configuration.
type Config struct {
	Count   int   `env:"DICENOTATION_ROLL_COUNT" envDefault:"1"`
	Seed    int64 `env:"DICENOTATION_SEED"`
	Explain bool  `env:"DICENOTATION_ROLL_EXPLAIN"`
	// Expressions are the positional arguments.
	Expressions []string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Count, "n", cfg.Count, "Number of times to roll each expression")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Fixed random seed (0 uses crypto/rand)")
	fs.BoolVar(&cfg.Explain, "explain", cfg.Explain, "Print every die result")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Count < 1 {
		return Config{}, fmt.Errorf("-n must be at least 1, got %d", cfg.Count)
	}
	for _, arg := range fs.Args() {
		if strings.TrimSpace(arg) != "" {
			cfg.Expressions = append(cfg.Expressions, arg)
		}
	}
	if len(cfg.Expressions) == 0 {
		return Config{}, ErrNoExpressions
	}
	return cfg, nil
}

// Run evaluates every expression cfg.Count times and writes one line per
// evaluation to out. Expressions are compiled before anything is rolled so
// a malformed one fails the whole run.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		return roll(ctx, cfg, out)
	})
}

func roll(ctx context.Context, cfg Config, out io.Writer) error {
	engine, err := notation.NewEngine(notation.WithSeed(cfg.Seed))
	if err != nil {
		return err
	}

	compiled := make([]*notation.Expression, 0, len(cfg.Expressions))
	for _, expr := range cfg.Expressions {
		parsed, err := engine.Parse(expr)
		if err != nil {
			return err
		}
		compiled = append(compiled, parsed)
	}

	count := max(cfg.Count, 1)
	for _, expr := range compiled {
		_, span := otel.Tracer().Start(ctx, "roll.Evaluate")
		span.SetAttributes(
			attribute.String("notation.expression", expr.Source()),
			attribute.Int("roll.count", count),
		)
		for range count {
			if err := ctx.Err(); err != nil {
				span.SetStatus(otelcodes.Error, "canceled")
				span.End()
				return err
			}
			var line string
			if cfg.Explain {
				line = formatOutcome(expr.Explain())
			} else {
				line = fmt.Sprintf("%s = %d", expr.Source(), expr.Eval())
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				span.End()
				return fmt.Errorf("write result: %w", err)
			}
		}
		span.End()
	}
	return nil
}

// formatOutcome renders "2d6+1 = 8 [2d6: 3 4]".
func formatOutcome(outcome notation.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s = %d", outcome.Expression, outcome.Total)
	if len(outcome.Rolls) == 0 {
		return b.String()
	}
	b.WriteString(" [")
	for i, roll := range outcome.Rolls {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%dd%d:", len(roll.Results), roll.Sides)
		for _, result := range roll.Results {
			fmt.Fprintf(&b, " %d", result)
		}
	}
	b.WriteString("]")
	return b.String()
}
