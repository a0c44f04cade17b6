package notation

import (
	"fmt"
	"strconv"

	"github.com/louisbranch/dicenotation/internal/core/dice"
)

// Node is a parsed expression tree. It is one of Const, Dice or Binary.
type Node interface {
	// String renders the subtree fully parenthesized, e.g. "((10-3)+2)".
	String() string
	node()
}

// Const is a constant leaf.
type Const struct {
	Value int
}

// Dice is a leaf that rolls Spec.Count dice of Spec.Sides.
type Dice struct {
	Spec dice.Spec
}

// Binary applies Op to the results of Left and Right.
type Binary struct {
	Op    Operator
	Left  Node
	Right Node
}

func (Const) node()  {}
func (Dice) node()   {}
func (Binary) node() {}

func (n Const) String() string {
	return strconv.Itoa(n.Value)
}

func (n Dice) String() string {
	return fmt.Sprintf("%dd%d", n.Spec.Count, n.Spec.Sides)
}

func (n Binary) String() string {
	return "(" + nodeString(n.Left) + n.Op.String() + nodeString(n.Right) + ")"
}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// validate reports the first node Compile cannot evaluate.
func validate(n Node) error {
	switch n := n.(type) {
	case Const:
		return nil
	case Dice:
		if !n.Spec.Valid() {
			return ErrInvalidDice
		}
		return nil
	case Binary:
		if !n.Op.valid() {
			return fmt.Errorf("%w: unknown operator %d", ErrStructure, int(n.Op))
		}
		if err := validate(n.Left); err != nil {
			return err
		}
		return validate(n.Right)
	case nil:
		return fmt.Errorf("%w: missing operand", ErrStructure)
	default:
		return fmt.Errorf("%w: unsupported node %T", ErrStructure, n)
	}
}
