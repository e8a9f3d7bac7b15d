package descent

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/born-ml/descent/internal/autodiff"
	"github.com/born-ml/descent/internal/function"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

// DefaultEpsilon is the normalisation floor used when Config.Epsilon is zero.
const DefaultEpsilon = 1e-6

var (
	// ErrNoParams is returned by GradBase when there is nothing to train.
	ErrNoParams = errors.New("descent: no parameters")

	// ErrNilLoss is returned by GradBase when loss is nil.
	ErrNilLoss = errors.New("descent: nil loss")
)

// Config holds GradBase options.
type Config struct {
	// Outputs are extra expressions ProbeLoss reports after the loss.
	Outputs []*graph.Node

	// Epsilon is added under the square root of the global gradient norm.
	// Zero means DefaultEpsilon.
	Epsilon float64

	// Momentum blends each new gradient into the cached one as
	// m*cached + (1-m)*new. Zero or negative disables blending; values of
	// 1 or more are accepted but make the cache diverge or freeze.
	Momentum float64

	// NormGradients divides every gradient by the norm of all of them
	// taken together.
	NormGradients bool
}

// LineSearch is a gradient step split into separately callable phases.
// Its methods must be called from one goroutine at a time.
//
// Typical cycle: CacheInputs → CacheGradients → ProbeLoss/Loss (any
// number of times) → CommitStep. Nothing stops a caller from committing
// twice on the same cached gradient.
type LineSearch struct {
	cfg Config

	inputs       []*graph.Node
	params       []*graph.Shared
	cachedInputs []*graph.Shared
	gradients    []*graph.Shared

	cacheInputs    *function.Function
	cacheGradients *function.Function
	probe          *function.Function
	commit         *function.Function
}

// GradBase compiles a LineSearch minimising loss over params. inputs are
// the placeholders loss reads data from; their values are supplied through
// CacheInputs.
//
// loss must be a scalar that depends on every parameter. Params,
// cached gradients and cached inputs are matched by position throughout.
func GradBase(inputs []*graph.Node, loss *graph.Node, params []*graph.Shared, cfg Config) (*LineSearch, error) {
	if loss == nil {
		return nil, ErrNilLoss
	}
	if loss.NDim() != 0 {
		return nil, errors.Errorf("descent: loss must be a scalar, got rank %d", loss.NDim())
	}
	if len(params) == 0 {
		return nil, ErrNoParams
	}
	if i := lo.IndexOf(params, nil); i >= 0 {
		return nil, errors.Errorf("descent: param %d is nil", i)
	}
	if i := lo.IndexOf(inputs, nil); i >= 0 {
		return nil, errors.Errorf("descent: input %d is nil", i)
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = DefaultEpsilon
	}

	ls := &LineSearch{
		cfg:          cfg,
		inputs:       append([]*graph.Node(nil), inputs...),
		params:       append([]*graph.Shared(nil), params...),
		cachedInputs: lo.Map(inputs, func(in *graph.Node, _ int) *graph.Shared { return ToShared(in) }),
		gradients:    lo.Map(params, func(p *graph.Shared, _ int) *graph.Shared { return MakeCopy(p) }),
	}

	if err := ls.compileCacheInputs(); err != nil {
		return nil, err
	}
	if err := ls.compileCacheGradients(loss); err != nil {
		return nil, err
	}
	if err := ls.compileStep(loss); err != nil {
		return nil, err
	}
	return ls, nil
}

func (ls *LineSearch) compileCacheInputs() error {
	updates := lo.ZipBy2(ls.cachedInputs, ls.inputs, func(c *graph.Shared, in *graph.Node) function.Update {
		return function.Update{Shared: c, Expr: in}
	})
	f, err := function.Compile(ls.inputs, nil,
		function.WithName("cache_inputs"),
		function.WithUpdates(updates...),
		function.NoDefaultUpdates(),
	)
	if err != nil {
		return errors.WithMessage(err, "descent")
	}
	ls.cacheInputs = f
	return nil
}

// inputGivens reads every input from its cache.
func (ls *LineSearch) inputGivens() []function.Given {
	return lo.ZipBy2(ls.inputs, ls.cachedInputs, func(in *graph.Node, c *graph.Shared) function.Given {
		return function.Given{Var: in, Expr: c.Node()}
	})
}

func (ls *LineSearch) compileCacheGradients(loss *graph.Node) error {
	paramNodes := lo.Map(ls.params, func(p *graph.Shared, _ int) *graph.Node { return p.Node() })
	grads, err := autodiff.Grad(loss, paramNodes)
	if err != nil {
		return errors.WithMessage(err, "descent: differentiating loss")
	}

	if ls.cfg.NormGradients {
		squares := lo.Map(grads, func(g *graph.Node, _ int) *graph.Node {
			return graph.Sum(graph.Square(g))
		})
		total, err := Join(squares)
		if err != nil {
			return err
		}
		norm := graph.Sqrt(graph.AddScalar(total, ls.cfg.Epsilon))
		grads = lo.Map(grads, func(g *graph.Node, _ int) *graph.Node {
			return graph.Cast(graph.Div(g, norm), g.DType())
		})
	}

	m := ls.cfg.Momentum
	updates := lo.ZipBy2(ls.gradients, grads, func(cached *graph.Shared, g *graph.Node) function.Update {
		if m <= 0 {
			return function.Update{Shared: cached, Expr: g}
		}
		blended := graph.Add(graph.MulScalar(cached.Node(), m), graph.MulScalar(g, 1-m))
		return function.Update{Shared: cached, Expr: blended}
	})

	f, err := function.Compile(nil, nil,
		function.WithName("cache_grads"),
		function.WithUpdates(updates...),
		function.WithGivens(ls.inputGivens()...),
		function.NoDefaultUpdates(),
	)
	if err != nil {
		return errors.WithMessage(err, "descent")
	}
	ls.cacheGradients = f
	return nil
}

// compileStep builds the probe and commit functions, which share the
// displaced parameter expressions param - alpha*gradient.
func (ls *LineSearch) compileStep(loss *graph.Node) error {
	alpha := graph.Input("alpha", ls.alphaDType(), 0)
	stepped := lo.ZipBy2(ls.params, ls.gradients, func(p, g *graph.Shared) *graph.Node {
		return graph.Cast(graph.Sub(p.Node(), graph.Mul(alpha, g.Node())), p.DType())
	})

	probeGivens := lo.ZipBy2(ls.params, stepped, func(p *graph.Shared, s *graph.Node) function.Given {
		return function.Given{Var: p.Node(), Expr: s}
	})
	probe, err := function.Compile([]*graph.Node{alpha}, append([]*graph.Node{loss}, ls.cfg.Outputs...),
		function.WithName("get_loss"),
		function.WithGivens(append(probeGivens, ls.inputGivens()...)...),
		function.NoDefaultUpdates(),
		function.AllowInputDowncast(),
	)
	if err != nil {
		return errors.WithMessage(err, "descent")
	}

	commitUpdates := lo.ZipBy2(ls.params, stepped, func(p *graph.Shared, s *graph.Node) function.Update {
		return function.Update{Shared: p, Expr: s}
	})
	commit, err := function.Compile([]*graph.Node{alpha}, nil,
		function.WithName("set_params"),
		function.WithUpdates(commitUpdates...),
		function.AllowInputDowncast(),
	)
	if err != nil {
		return errors.WithMessage(err, "descent")
	}

	ls.probe, ls.commit = probe, commit
	return nil
}

// alphaDType is float64 when any parameter is, float32 otherwise.
func (ls *LineSearch) alphaDType() tensor.DataType {
	if lo.SomeBy(ls.params, func(p *graph.Shared) bool { return p.DType() == tensor.Float64 }) {
		return tensor.Float64
	}
	return tensor.Float32
}

// CacheInputs stores values, positional with the inputs given to
// GradBase, for the following calls to use.
func (ls *LineSearch) CacheInputs(values ...*tensor.RawTensor) error {
	_, err := ls.cacheInputs.Call(values...)
	return err
}

// CacheGradients computes the gradients on the cached inputs and stores
// them, normalised and blended as configured.
func (ls *LineSearch) CacheGradients() error {
	_, err := ls.cacheGradients.Call()
	return err
}

// ProbeLoss evaluates the loss, followed by Config.Outputs, as if every
// parameter had been moved to param - alpha*gradient. Parameters are left
// as they are.
func (ls *LineSearch) ProbeLoss(alpha float64) ([]*tensor.RawTensor, error) {
	return ls.probe.Call(tensor.Scalar(tensor.Float64, alpha))
}

// Loss is ProbeLoss reduced to the loss value.
func (ls *LineSearch) Loss(alpha float64) (float64, error) {
	outs, err := ls.ProbeLoss(alpha)
	if err != nil {
		return 0, err
	}
	return outs[0].Item(), nil
}

// CommitStep moves every parameter to param - alpha*gradient.
func (ls *LineSearch) CommitStep(alpha float64) error {
	_, err := ls.commit.Call(tensor.Scalar(tensor.Float64, alpha))
	return err
}

// Params returns the trained variables.
func (ls *LineSearch) Params() []*graph.Shared { return ls.params }

// Gradients returns the cached gradient buffers, positional with Params.
func (ls *LineSearch) Gradients() []*graph.Shared { return ls.gradients }

// CachedInputs returns the input buffers filled by CacheInputs.
func (ls *LineSearch) CachedInputs() []*graph.Shared { return ls.cachedInputs }
