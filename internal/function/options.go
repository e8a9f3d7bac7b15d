package function

import (
	"github.com/born-ml/descent/internal/backend/cpu"
	"github.com/born-ml/descent/internal/graph"
)

// Given replaces Var by Expr wherever Var appears in the compiled graph.
//
// Expr itself is evaluated without substitution, so it may refer to Var:
// Given{Var: w, Expr: w - alpha*g} evaluates the graph at a displaced w
// while reading the current w.
type Given struct {
	Var  *graph.Node
	Expr *graph.Node
}

// Update assigns the value of Expr to Shared after each call.
type Update struct {
	Shared *graph.Shared
	Expr   *graph.Node
}

type config struct {
	name             string
	backend          *cpu.CPUBackend
	givens           []Given
	updates          []Update
	noDefaultUpdates bool
	allowDowncast    bool
}

// Option configures Compile.
type Option func(*config)

// WithName names the function in error messages.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithBackend selects the backend that executes the function.
// Defaults to cpu.New().
func WithBackend(b *cpu.CPUBackend) Option {
	return func(c *config) { c.backend = b }
}

// WithGivens adds substitutions.
func WithGivens(givens ...Given) Option {
	return func(c *config) { c.givens = append(c.givens, givens...) }
}

// WithUpdates adds shared variable assignments performed by every call.
func WithUpdates(updates ...Update) Option {
	return func(c *config) { c.updates = append(c.updates, updates...) }
}

// NoDefaultUpdates keeps random nodes on their current draw instead of
// advancing them after each call.
func NoDefaultUpdates() Option {
	return func(c *config) { c.noDefaultUpdates = true }
}

// AllowInputDowncast lets float64 arguments feed float32 inputs.
func AllowInputDowncast() Option {
	return func(c *config) { c.allowDowncast = true }
}
