package notation

import (
	"math"

	"github.com/louisbranch/dicenotation/internal/core/dice"
)

// Evaluator computes one result of a compiled expression. Dice are rolled
// again on every call.
type Evaluator func() int

// evalFunc is the compiled form shared by Evaluator and traced evaluation.
// A nil trace draws fresh dice; otherwise dice terms consume the trace's
// rolls in source order.
type evalFunc func(tr *trace) int

type trace struct {
	rolls []dice.Roll
	next  int
}

func (tr *trace) take() dice.Roll {
	roll := tr.rolls[tr.next]
	tr.next++
	return roll
}

// Compile builds an Evaluator for tree that draws from src.
func Compile(tree Node, src dice.Source) (Evaluator, error) {
	fn, err := compileTree(tree, src)
	if err != nil {
		return nil, err
	}
	return func() int { return fn(nil) }, nil
}

func compileTree(tree Node, src dice.Source) (evalFunc, error) {
	if err := validate(tree); err != nil {
		return nil, newSyntaxError(StageCompile, nodeString(tree), -1, err)
	}
	if src == nil {
		return nil, newSyntaxError(StageCompile, nodeString(tree), -1, errMissingSource)
	}
	return compileNode(tree, src), nil
}

// compileNode assumes tree has been validated.
func compileNode(tree Node, src dice.Source) evalFunc {
	switch n := tree.(type) {
	case Const:
		value := n.Value
		return func(*trace) int { return value }
	case Dice:
		spec := n.Spec
		return func(tr *trace) int {
			if tr == nil {
				return dice.Draw(src, spec)
			}
			return tr.take().Total
		}
	default:
		bin := tree.(Binary)
		left := compileNode(bin.Left, src)
		right := compileNode(bin.Right, src)
		switch bin.Op {
		case OpAdd:
			return func(tr *trace) int { return addSat(left(tr), right(tr)) }
		case OpSub:
			return func(tr *trace) int { return subSat(left(tr), right(tr)) }
		default:
			return func(tr *trace) int { return mulSat(left(tr), right(tr)) }
		}
	}
}

// diceSpecs lists the dice terms of tree in the order evaluation visits them.
func diceSpecs(tree Node) []dice.Spec {
	switch n := tree.(type) {
	case Dice:
		return []dice.Spec{n.Spec}
	case Binary:
		return append(diceSpecs(n.Left), diceSpecs(n.Right)...)
	}
	return nil
}

// Arithmetic saturates at the int bounds rather than wrapping.

func addSat(a, b int) int {
	c := a + b
	switch {
	case a > 0 && b > 0 && c < 0:
		return math.MaxInt
	case a < 0 && b < 0 && c >= 0:
		return math.MinInt
	}
	return c
}

func subSat(a, b int) int {
	if b == math.MinInt {
		if a >= 0 {
			return math.MaxInt
		}
		return a - b
	}
	return addSat(a, -b)
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return math.MaxInt
	}
	c := a * b
	if c/b != a {
		if negative {
			return math.MinInt
		}
		return math.MaxInt
	}
	return c
}
