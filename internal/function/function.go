// Package function compiles expression graphs into reusable callables.
//
// A Function fixes its inputs, outputs, substitutions and shared variable
// updates once at Compile time; Call then only checks arguments and
// evaluates. Each call reads every shared variable as it was before the
// call, and all updates land together afterwards.
package function

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/born-ml/descent/internal/backend/cpu"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

var (
	// ErrUnboundInput is returned by Compile when the graph needs a
	// placeholder that is not among the function's inputs.
	ErrUnboundInput = errors.New("function: graph depends on a placeholder that is not an input")

	// ErrArity is returned by Call when the number of arguments is wrong.
	ErrArity = errors.New("function: wrong number of arguments")
)

// Function is a compiled callable. It is not safe for concurrent use:
// calls mutate shared variables.
type Function struct {
	name           string
	backend        *cpu.CPUBackend
	inputs         []*graph.Node
	outputs        []*graph.Node
	givens         map[*graph.Node]*graph.Node
	updates        []Update
	defaultUpdates bool
	allowDowncast  bool
}

// Compile validates the graph and returns a Function computing outputs
// from inputs.
//
// Example:
//
//	x := graph.Input("x", tensor.Float64, 0)
//	w := graph.MustShared("w", tensor.Scalar(tensor.Float64, 1), nil)
//	f, err := function.Compile([]*graph.Node{x}, []*graph.Node{graph.Mul(w.Node(), x)},
//	    function.WithUpdates(function.Update{Shared: w, Expr: graph.AddScalar(w.Node(), 1)}))
func Compile(inputs, outputs []*graph.Node, opts ...Option) (*Function, error) {
	cfg := config{name: "function"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.backend == nil {
		cfg.backend = cpu.New()
	}

	f := &Function{
		name:           cfg.name,
		backend:        cfg.backend,
		inputs:         append([]*graph.Node(nil), inputs...),
		outputs:        append([]*graph.Node(nil), outputs...),
		givens:         make(map[*graph.Node]*graph.Node, len(cfg.givens)),
		updates:        append([]Update(nil), cfg.updates...),
		defaultUpdates: !cfg.noDefaultUpdates,
		allowDowncast:  cfg.allowDowncast,
	}
	if err := f.validateInputs(); err != nil {
		return nil, err
	}
	if err := f.addGivens(cfg.givens); err != nil {
		return nil, err
	}
	if err := f.validateUpdates(); err != nil {
		return nil, err
	}
	if err := f.validateBindings(); err != nil {
		return nil, err
	}
	return f, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(inputs, outputs []*graph.Node, opts ...Option) *Function {
	f, err := Compile(inputs, outputs, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the function's name.
func (f *Function) Name() string { return f.name }

// Inputs returns the placeholders bound by Call's arguments, in order.
func (f *Function) Inputs() []*graph.Node { return f.inputs }

// Outputs returns the nodes whose values Call returns, in order.
func (f *Function) Outputs() []*graph.Node { return f.outputs }

func (f *Function) validateInputs() error {
	seen := make(map[*graph.Node]bool, len(f.inputs))
	for i, in := range f.inputs {
		if in == nil {
			return errors.Errorf("%s: input %d is nil", f.name, i)
		}
		if in.Op() != graph.OpInput {
			return errors.Errorf("%s: input %d (%s) is not a placeholder", f.name, i, in)
		}
		if seen[in] {
			return errors.Errorf("%s: input %q given twice", f.name, in.Name())
		}
		seen[in] = true
	}
	for i, out := range f.outputs {
		if out == nil {
			return errors.Errorf("%s: output %d is nil", f.name, i)
		}
	}
	return nil
}

func (f *Function) addGivens(givens []Given) error {
	for i, g := range givens {
		if g.Var == nil || g.Expr == nil {
			return errors.Errorf("%s: given %d has a nil node", f.name, i)
		}
		if _, dup := f.givens[g.Var]; dup {
			return errors.Errorf("%s: %s substituted twice", f.name, g.Var)
		}
		if g.Var.DType() != g.Expr.DType() {
			return errors.Errorf("%s: given for %s has dtype %s, want %s",
				f.name, g.Var, g.Expr.DType(), g.Var.DType())
		}
		if g.Var.NDim() != g.Expr.NDim() {
			return errors.Errorf("%s: given for %s has rank %d, want %d",
				f.name, g.Var, g.Expr.NDim(), g.Var.NDim())
		}
		f.givens[g.Var] = g.Expr
	}
	return nil
}

func (f *Function) validateUpdates() error {
	targets := make(map[*graph.Shared]bool, len(f.updates))
	for i, u := range f.updates {
		if u.Shared == nil || u.Expr == nil {
			return errors.Errorf("%s: update %d is incomplete", f.name, i)
		}
		if targets[u.Shared] {
			return errors.Errorf("%s: shared %q updated twice", f.name, u.Shared.Name())
		}
		targets[u.Shared] = true
		if u.Expr.DType() != u.Shared.DType() {
			return errors.Errorf("%s: update of %q has dtype %s, want %s",
				f.name, u.Shared.Name(), u.Expr.DType(), u.Shared.DType())
		}
		if u.Expr.NDim() != u.Shared.NDim() {
			return errors.Errorf("%s: update of %q has rank %d, want %d",
				f.name, u.Shared.Name(), u.Expr.NDim(), u.Shared.NDim())
		}
	}
	return nil
}

// validateBindings checks that every placeholder reached by an output or
// update, with givens applied, is one of the inputs.
func (f *Function) validateBindings() error {
	bound := lo.Associate(f.inputs, func(in *graph.Node) (*graph.Node, bool) { return in, true })
	roots := append(append([]*graph.Node(nil), f.outputs...),
		lo.Map(f.updates, func(u Update, _ int) *graph.Node { return u.Expr })...)

	for _, n := range f.placeholders(roots) {
		if !bound[n] {
			return errors.Wrapf(ErrUnboundInput, "%s: %s", f.name, n)
		}
	}
	return nil
}

// placeholders lists the OpInput nodes the roots depend on. A node with a
// given is not descended into; its replacement is walked as written.
func (f *Function) placeholders(roots []*graph.Node) []*graph.Node {
	var found []*graph.Node
	seen := make(map[*graph.Node]bool)
	collect := func(n *graph.Node) {
		if n.Op() == graph.OpInput && !seen[n] {
			seen[n] = true
			found = append(found, n)
		}
	}

	visited := make(map[*graph.Node]bool)
	var walk func(*graph.Node)
	walk = func(n *graph.Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		if repl, ok := f.givens[n]; ok {
			graph.Walk(repl, collect)
			return
		}
		collect(n)
		for _, in := range n.Inputs() {
			walk(in)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return found
}

// Call evaluates the function on args, positional with the inputs.
//
// Outputs and update values are computed together from the state before
// the call; the updates are then applied at once and random nodes move to
// their next draw. On error no shared variable changes.
//
// Returned tensors belong to the caller.
func (f *Function) Call(args ...*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(args) != len(f.inputs) {
		return nil, errors.Wrapf(ErrArity, "%s: got %d, want %d", f.name, len(args), len(f.inputs))
	}
	feeds := make(map[*graph.Node]*tensor.RawTensor, len(args))
	for i, arg := range args {
		v, err := f.coerce(f.inputs[i], arg)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s: argument %d", f.name, i)
		}
		feeds[f.inputs[i]] = v
	}

	ev := graph.NewEvaluator(f.backend, feeds, f.givens)

	outs := make([]*tensor.RawTensor, len(f.outputs))
	for i, out := range f.outputs {
		v, err := ev.Eval(out)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s: output %d", f.name, i)
		}
		outs[i] = v
	}

	values := make([]*tensor.RawTensor, len(f.updates))
	for i, u := range f.updates {
		v, err := ev.Eval(u.Expr)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s: update of %q", f.name, u.Shared.Name())
		}
		if err := u.Shared.Validate(v); err != nil {
			return nil, errors.WithMessage(err, f.name)
		}
		values[i] = v
	}

	// Evaluation may hand back storage owned by shared variables or
	// constants; nothing leaves the call aliased.
	for i, v := range outs {
		if ev.Borrowed(v) || aliased(outs[:i], v) {
			outs[i] = v.Clone()
		}
	}
	for i, v := range values {
		if ev.Borrowed(v) || aliased(values[:i], v) || aliased(outs, v) {
			values[i] = v.Clone()
		}
	}

	for i, u := range f.updates {
		_ = u.Shared.SetValue(values[i]) // validated above
	}
	if f.defaultUpdates {
		for _, n := range ev.Sampled() {
			graph.AdvanceRandom(n)
		}
	}
	return outs, nil
}

// MustCall is like Call but panics on error.
func (f *Function) MustCall(args ...*tensor.RawTensor) []*tensor.RawTensor {
	outs, err := f.Call(args...)
	if err != nil {
		panic(err)
	}
	return outs
}

// coerce checks arg against the placeholder's type, converting between
// float dtypes where allowed.
func (f *Function) coerce(in *graph.Node, arg *tensor.RawTensor) (*tensor.RawTensor, error) {
	if arg == nil {
		return nil, errors.Errorf("nil value for %q", in.Name())
	}
	if arg.NDim() != in.NDim() {
		return nil, errors.Errorf("%q expects rank %d, got shape %v", in.Name(), in.NDim(), arg.Shape())
	}
	if arg.DType() == in.DType() {
		return arg, nil
	}
	if in.DType() == tensor.Float32 && !f.allowDowncast {
		return nil, errors.Errorf("%q expects %s, got %s (downcast not allowed)", in.Name(), in.DType(), arg.DType())
	}
	return arg.Cast(in.DType())
}

func aliased(vs []*tensor.RawTensor, v *tensor.RawTensor) bool {
	return lo.Contains(vs, v)
}

// String describes the function's signature, e.g. "probe(alpha) -> 2 outputs, 0 updates".
func (f *Function) String() string {
	names := lo.Map(f.inputs, func(in *graph.Node, _ int) string { return in.Name() })
	return fmt.Sprintf("%s(%s) -> %d outputs, %d updates", f.name, strings.Join(names, ", "), len(f.outputs), len(f.updates))
}
