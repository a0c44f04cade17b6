package notation

import "fmt"

// element is one entry of the sequence being reduced: either an operand
// subtree or an operator.
type element struct {
	node Node
	op   Operator
	pos  int
}

func (e element) isOperator() bool {
	return e.node == nil
}

// Group builds the expression tree for a token sequence.
//
// The sequence is reduced one window at a time: the left-most
// multiplication is collapsed with its two neighbours first; once none
// remain, the left-most addition or subtraction is collapsed. Every
// reduction restarts the scan from the left, so equal-precedence operators
// associate to the left ("10-3+2" is "(10-3)+2").
func Group(tokens []Token) (Node, error) {
	input := joinTokens(tokens)
	if len(tokens) == 0 {
		return nil, newSyntaxError(StageGroup, input, -1, fmt.Errorf("%w: empty expression", ErrStructure))
	}

	seq := make([]element, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenConst:
			seq = append(seq, element{node: Const{Value: tok.Value}, pos: tok.Pos})
		case TokenRoll:
			seq = append(seq, element{node: Dice{Spec: tok.Dice}, pos: tok.Pos})
		case TokenOperator:
			seq = append(seq, element{op: tok.Op, pos: tok.Pos})
		default:
			return nil, newSyntaxError(StageGroup, input, tok.Pos, fmt.Errorf("%w: unknown token kind %d", ErrStructure, int(tok.Kind)))
		}
	}

	for len(seq) > 1 {
		i := nextReduction(seq)
		if i < 0 {
			return nil, newSyntaxError(StageGroup, input, seq[1].pos, fmt.Errorf("%w: missing operator", ErrStructure))
		}
		if i == 0 || i == len(seq)-1 {
			return nil, newSyntaxError(StageGroup, input, seq[i].pos, fmt.Errorf("%w: operator %s is missing an operand", ErrStructure, seq[i].op))
		}
		left, right := seq[i-1], seq[i+1]
		if left.isOperator() || right.isOperator() {
			return nil, newSyntaxError(StageGroup, input, seq[i].pos, fmt.Errorf("%w: operator %s is missing an operand", ErrStructure, seq[i].op))
		}

		seq[i-1] = element{
			node: Binary{Op: seq[i].op, Left: left.node, Right: right.node},
			pos:  left.pos,
		}
		seq = append(seq[:i], seq[i+2:]...)
	}

	if seq[0].isOperator() {
		return nil, newSyntaxError(StageGroup, input, seq[0].pos, fmt.Errorf("%w: operator %s has no operands", ErrStructure, seq[0].op))
	}
	return seq[0].node, nil
}

// nextReduction returns the index of the operator to collapse next, or -1
// when the sequence holds no operator.
func nextReduction(seq []element) int {
	for i, e := range seq {
		if e.isOperator() && e.op == OpMul {
			return i
		}
	}
	for i, e := range seq {
		if e.isOperator() && (e.op == OpAdd || e.op == OpSub) {
			return i
		}
	}
	return -1
}

func joinTokens(tokens []Token) string {
	out := make([]byte, 0, len(tokens)*2)
	for _, tok := range tokens {
		out = append(out, tok.String()...)
	}
	return string(out)
}
