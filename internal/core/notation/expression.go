package notation

import "github.com/louisbranch/dicenotation/internal/core/dice"

// Expression is a compiled dice expression. It is immutable and safe for
// concurrent use as long as its random source is.
type Expression struct {
	source string
	tree   Node
	eval   evalFunc
	fn     Evaluator
	rng    dice.Source
	specs  []dice.Spec
}

// Outcome is one evaluation with the individual dice behind it.
type Outcome struct {
	Expression string
	Total      int
	// Rolls holds one entry per dice term, in source order.
	Rolls []dice.Roll
}

// NewExpression runs the full pipeline for raw without any caching.
func NewExpression(raw string, src dice.Source) (*Expression, error) {
	key := Normalize(raw)
	tokens, err := Tokenize(key)
	if err != nil {
		return nil, err
	}
	tree, err := Group(tokens)
	if err != nil {
		return nil, withInput(err, key)
	}
	return compileExpression(key, tree, src)
}

func compileExpression(key string, tree Node, src dice.Source) (*Expression, error) {
	fn, err := compileTree(tree, src)
	if err != nil {
		return nil, withInput(err, key)
	}
	return &Expression{
		source: key,
		tree:   tree,
		eval:   fn,
		fn:     func() int { return fn(nil) },
		rng:    src,
		specs:  diceSpecs(tree),
	}, nil
}

// Source returns the normalized text the expression was compiled from.
func (e *Expression) Source() string {
	return e.source
}

// Tree returns the grouped expression tree.
func (e *Expression) Tree() Node {
	return e.tree
}

// Evaluator returns the compiled evaluator. The same function is returned
// on every call.
func (e *Expression) Evaluator() Evaluator {
	return e.fn
}

// Eval evaluates the expression once.
func (e *Expression) Eval() int {
	return e.fn()
}

// Explain evaluates the expression once and keeps every die result.
// All dice are rolled up front, then replayed through the compiled tree.
func (e *Expression) Explain() Outcome {
	result, err := dice.RollWithSource(e.rng, e.specs)
	if err != nil {
		// Specs were validated at compile time.
		return Outcome{Expression: e.source}
	}
	tr := &trace{rolls: result.Rolls}
	total := e.eval(tr)
	return Outcome{
		Expression: e.source,
		Total:      total,
		Rolls:      result.Rolls,
	}
}

// String returns the fully parenthesized tree.
func (e *Expression) String() string {
	return nodeString(e.tree)
}
