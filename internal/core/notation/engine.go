package notation

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/louisbranch/dicenotation/internal/core/dice"
	"github.com/louisbranch/dicenotation/internal/core/random"
	"golang.org/x/sync/singleflight"
)

// Engine compiles dice expressions through a cache and evaluates them with
// a single random source.
type Engine struct {
	source dice.Source
	cache  Cache
	flight singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	compiles atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used by every compiled expression.
func WithSource(src dice.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithSeed draws from a deterministic source seeded with seed. A zero seed
// leaves the source unset so NewEngine falls back to crypto/rand.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.source = random.NewSource(seed)
		}
	}
}

// WithCache replaces the default unbounded cache.
func WithCache(cache Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// Stats reports cache and compiler activity.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
	// Compiles counts full tokenize/group/compile runs, successful or not.
	Compiles int64
}

// NewEngine builds an engine. Without WithSource it draws from a source
// seeded by crypto/rand.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.source == nil {
		src, err := random.NewSecureSource()
		if err != nil {
			return nil, err
		}
		e.source = src
	}
	if e.cache == nil {
		e.cache = NewMapCache()
	}
	return e, nil
}

// Parse returns the compiled expression for expr, compiling and caching it
// on first use. Failures are returned as *SyntaxError and never cached.
func (e *Engine) Parse(expr string) (*Expression, error) {
	key := Normalize(expr)
	if cached, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return cached, nil
	}
	e.misses.Add(1)

	v, err, _ := e.flight.Do(key, func() (any, error) {
		if cached, ok := e.cache.Get(key); ok {
			return cached, nil
		}
		compiled, err := e.compile(key)
		if err != nil {
			return nil, err
		}
		e.cache.Put(key, compiled)
		return compiled, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Expression), nil
}

func (e *Engine) compile(key string) (*Expression, error) {
	e.compiles.Add(1)
	tokens, err := Tokenize(key)
	if err != nil {
		return nil, err
	}
	tree, err := Group(tokens)
	if err != nil {
		return nil, withInput(err, key)
	}
	return compileExpression(key, tree, e.source)
}

// ParseDiceSyntax returns the evaluator for expr, or nil when expr is not
// valid dice notation.
func (e *Engine) ParseDiceSyntax(expr string) Evaluator {
	compiled, err := e.Parse(expr)
	if err != nil {
		return nil
	}
	return compiled.Evaluator()
}

// Roll parses expr and evaluates it once.
func (e *Engine) Roll(expr string) (int, error) {
	compiled, err := e.Parse(expr)
	if err != nil {
		return 0, err
	}
	return compiled.Eval(), nil
}

// Explain parses expr and evaluates it once, keeping every die result.
func (e *Engine) Explain(expr string) (Outcome, error) {
	compiled, err := e.Parse(expr)
	if err != nil {
		return Outcome{}, err
	}
	return compiled.Explain(), nil
}

// Stats returns a snapshot of cache and compiler counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Entries:  e.cache.Len(),
		Hits:     e.hits.Load(),
		Misses:   e.misses.Load(),
		Compiles: e.compiles.Load(),
	}
}

// withInput points a grouping or compile error at the normalized text.
func withInput(err error, key string) error {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		syntaxErr.Input = key
	}
	return err
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	return NewEngine()
})

// Default returns the process-wide engine used by ParseDiceSyntax and Roll.
func Default() (*Engine, error) {
	return defaultEngine()
}

// ParseDiceSyntax returns the evaluator for expr from the process-wide
// engine, or nil when expr is not valid dice notation.
func ParseDiceSyntax(expr string) Evaluator {
	engine, err := Default()
	if err != nil {
		return nil
	}
	return engine.ParseDiceSyntax(expr)
}

// Roll evaluates expr once with the process-wide engine.
func Roll(expr string) (int, error) {
	engine, err := Default()
	if err != nil {
		return 0, err
	}
	return engine.Roll(expr)
}
