package notation

import (
	"errors"
	"fmt"
)

var (
	// ErrLex indicates the text contains a character or digit run the
	// tokenizer does not accept.
	ErrLex = errors.New("invalid dice notation")

	// ErrInvalidDice indicates a dice term with zero dice or zero sides.
	ErrInvalidDice = fmt.Errorf("%w: dice need at least one die with at least one side", ErrLex)

	// ErrOutOfRange indicates a number larger than the engine accepts.
	ErrOutOfRange = fmt.Errorf("%w: number out of range", ErrLex)

	// ErrStructure indicates tokens that do not form an operand/operator
	// alternation, including an empty expression.
	ErrStructure = errors.New("malformed dice expression")
)

const (
	// MaxConstant is the largest constant term.
	MaxConstant = 1_000_000_000
	// MaxDiceCount is the largest number of dice in a single term.
	MaxDiceCount = 1_000
	// MaxDiceSides is the largest number of sides on a die.
	MaxDiceSides = 1_000_000
)

// Stage names the pipeline step that rejected an expression.
type Stage string

const (
	StageTokenize Stage = "tokenize"
	StageGroup    Stage = "group"
	StageCompile  Stage = "compile"
)

// SyntaxError reports where in the normalized input a failure happened.
type SyntaxError struct {
	Stage Stage
	Input string
	// Pos is a byte offset into Input, or -1 when the failure has no
	// single position.
	Pos int
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e == nil {
		return "dice notation error"
	}
	if e.Pos < 0 {
		return fmt.Sprintf("%s %q: %v", e.Stage, e.Input, e.Err)
	}
	return fmt.Sprintf("%s %q at offset %d: %v", e.Stage, e.Input, e.Pos, e.Err)
}

// Unwrap returns the sentinel describing the failure.
func (e *SyntaxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newSyntaxError(stage Stage, input string, pos int, err error) *SyntaxError {
	return &SyntaxError{Stage: stage, Input: input, Pos: pos, Err: err}
}

var errMissingSource = errors.New("random source is required")
