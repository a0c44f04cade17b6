package roll

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/louisbranch/dicenotation/internal/core/dice"
	"github.com/louisbranch/dicenotation/internal/core/notation"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"2d6+3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Count != 1 {
		t.Fatalf("expected count 1, got %d", cfg.Count)
	}
	if cfg.Seed != 0 || cfg.Explain {
		t.Fatalf("expected zero seed and no explain, got %+v", cfg)
	}
	if len(cfg.Expressions) != 1 || cfg.Expressions[0] != "2d6+3" {
		t.Fatalf("expected one expression, got %v", cfg.Expressions)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Setenv("DICENOTATION_ROLL_COUNT", "4")

	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-seed", "9", "-explain", "d20", " ", "1d4*2"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Count != 4 {
		t.Fatalf("expected env count 4, got %d", cfg.Count)
	}
	if cfg.Seed != 9 || !cfg.Explain {
		t.Fatalf("expected seed 9 with explain, got %+v", cfg)
	}
	if len(cfg.Expressions) != 2 {
		t.Fatalf("expected blank argument to be dropped, got %v", cfg.Expressions)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no expressions", args: nil},
		{name: "zero count", args: []string{"-n", "0", "1d6"}},
		{name: "unknown flag", args: []string{"-x", "1d6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("roll", flag.ContinueOnError)
			fs.SetOutput(&bytes.Buffer{})
			if _, err := ParseConfig(fs, tt.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); !errors.Is(err, ErrNoExpressions) {
		t.Fatalf("expected ErrNoExpressions, got %v", err)
	}
}

func TestRunIsReproducibleWithSeed(t *testing.T) {
	cfg := Config{Count: 5, Seed: 1234, Expressions: []string{"3d6+2", "d20"}}

	var first, second bytes.Buffer
	if err := Run(context.Background(), cfg, &first); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := Run(context.Background(), cfg, &second); err != nil {
		t.Fatalf("run: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("expected identical output for the same seed:\n%s\n%s", first.String(), second.String())
	}
	lines := strings.Split(strings.TrimSpace(first.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "3d6+2 = ") || !strings.HasPrefix(lines[5], "d20 = ") {
		t.Fatalf("unexpected output:\n%s", first.String())
	}
}

func TestRunConstantExpression(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Count: 1, Seed: 1, Explain: true, Expressions: []string{"10 - 3 + 2"}}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "10-3+2 = 9" {
		t.Fatalf("expected 10-3+2 = 9, got %q", got)
	}
}

func TestRunRejectsMalformedBeforeRolling(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Count: 1, Seed: 1, Expressions: []string{"1d6", "3x"}}
	err := Run(context.Background(), cfg, &out)
	if !errors.Is(err, notation.ErrLex) {
		t.Fatalf("expected ErrLex, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	cfg := Config{Count: 3, Seed: 1, Expressions: []string{"1d6"}}
	if err := Run(ctx, cfg, &out); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFormatOutcome(t *testing.T) {
	got := formatOutcome(notation.Outcome{
		Expression: "2d6+1d4",
		Total:      12,
		Rolls: []dice.Roll{
			{Sides: 6, Results: []int{3, 5}, Total: 8},
			{Sides: 4, Results: []int{4}, Total: 4},
		},
	})
	want := "2d6+1d4 = 12 [2d6: 3 5; 1d4: 4]"
	if got != want {
		t.Fatalf("formatOutcome = %q, want %q", got, want)
	}
}
