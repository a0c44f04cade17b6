package notation

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/louisbranch/dicenotation/internal/core/dice"
)

// TokenKind identifies the variant held by a Token.
type TokenKind int

const (
	TokenConst TokenKind = iota + 1
	TokenRoll
	TokenOperator
)

// Operator is a binary arithmetic operator.
type Operator int

const (
	OpAdd Operator = iota + 1
	OpSub
	OpMul
)

// String returns the operator symbol.
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	default:
		return "?"
	}
}

func (o Operator) valid() bool {
	return o == OpAdd || o == OpSub || o == OpMul
}

// Token is one lexeme of dice notation. Only the fields matching Kind are
// meaningful.
type Token struct {
	Kind  TokenKind
	Value int
	Dice  dice.Spec
	Op    Operator
	// Pos is the byte offset of the token in the normalized input.
	Pos int
}

// String renders the token the way it would appear in normalized input.
func (t Token) String() string {
	switch t.Kind {
	case TokenConst:
		return strconv.Itoa(t.Value)
	case TokenRoll:
		return fmt.Sprintf("%dd%d", t.Dice.Count, t.Dice.Sides)
	case TokenOperator:
		return t.Op.String()
	default:
		return "?"
	}
}

// Tokenize splits normalized text into tokens in source order. Call
// Normalize first: upper-case letters and whitespace are rejected here.
//
// Empty text yields no tokens and no error; Group rejects it.
func Tokenize(text string) ([]Token, error) {
	tokens := make([]Token, 0, len(text)/2+1)

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == 'd':
			// d20
			sides, next, err := readNumber(text, i+1, MaxDiceSides)
			if err != nil {
				return nil, newSyntaxError(StageTokenize, text, i, err)
			}
			tok, err := rollToken(1, sides, i)
			if err != nil {
				return nil, newSyntaxError(StageTokenize, text, i, err)
			}
			tokens = append(tokens, tok)
			i = next
		case isDigit(c):
			// 4 or 3d4
			end := scanDigits(text, i)
			if end < len(text) && text[end] == 'd' {
				count, _, err := readNumber(text[:end], i, MaxDiceCount)
				if err != nil {
					return nil, newSyntaxError(StageTokenize, text, i, err)
				}
				sides, next, err := readNumber(text, end+1, MaxDiceSides)
				if err != nil {
					return nil, newSyntaxError(StageTokenize, text, end, err)
				}
				tok, err := rollToken(count, sides, i)
				if err != nil {
					return nil, newSyntaxError(StageTokenize, text, i, err)
				}
				tokens = append(tokens, tok)
				i = next
				continue
			}
			value, next, err := readNumber(text, i, MaxConstant)
			if err != nil {
				return nil, newSyntaxError(StageTokenize, text, i, err)
			}
			tokens = append(tokens, Token{Kind: TokenConst, Value: value, Pos: i})
			i = next
		case c == '+' || c == '-' || c == '*':
			tokens = append(tokens, Token{Kind: TokenOperator, Op: operatorFor(c), Pos: i})
			i++
		default:
			r, _ := utf8.DecodeRuneInString(text[i:])
			return nil, newSyntaxError(StageTokenize, text, i, fmt.Errorf("%w: unexpected %q", ErrLex, r))
		}
	}

	return tokens, nil
}

func rollToken(count, sides, pos int) (Token, error) {
	spec := dice.Spec{Sides: sides, Count: count}
	if !spec.Valid() {
		return Token{}, ErrInvalidDice
	}
	return Token{Kind: TokenRoll, Dice: spec, Pos: pos}, nil
}

func operatorFor(c byte) Operator {
	switch c {
	case '+':
		return OpAdd
	case '-':
		return OpSub
	default:
		return OpMul
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanDigits returns the index just past the digit run starting at start.
func scanDigits(text string, start int) int {
	end := start
	for end < len(text) && isDigit(text[end]) {
		end++
	}
	return end
}

// readNumber parses the digit run at start, which must be non-empty and no
// larger than limit, and returns its value and the index past it.
func readNumber(text string, start, limit int) (int, int, error) {
	end := scanDigits(text, start)
	if end == start {
		return 0, start, fmt.Errorf("%w: expected digits", ErrLex)
	}
	value := 0
	for i := start; i < end; i++ {
		d := int(text[i] - '0')
		if value > (limit-d)/10 {
			return 0, start, ErrOutOfRange
		}
		value = value*10 + d
	}
	return value, end, nil
}
