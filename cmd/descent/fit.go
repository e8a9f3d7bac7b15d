package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/descent/backend/cpu"
	"github.com/born-ml/descent/descent"
	"github.com/born-ml/descent/graph"
	"github.com/born-ml/descent/optim"
	"github.com/born-ml/descent/tensor"
)

type fitOptions struct {
	steps     int
	samples   int
	features  int
	momentum  float64
	norm      bool
	epsilon   float64
	l2        float64
	noise     float64
	initScale float64
	seed      uint64
	search    string
	verbose   bool
}

func (o *fitOptions) register(fs *pflag.FlagSet) {
	fs.IntVar(&o.steps, "steps", 100, "maximum optimisation steps")
	fs.IntVar(&o.samples, "samples", 256, "number of synthetic samples")
	fs.IntVar(&o.features, "features", 3, "number of features")
	fs.Float64Var(&o.momentum, "momentum", 0, "gradient smoothing factor in [0, 1); 0 disables")
	fs.BoolVar(&o.norm, "norm", false, "normalise gradients by their global norm")
	fs.Float64Var(&o.epsilon, "epsilon", descent.DefaultEpsilon, "normalisation floor")
	fs.Float64Var(&o.l2, "l2", 0, "L2 penalty on the weights")
	fs.Float64Var(&o.noise, "noise", 0.1, "standard deviation of the target noise")
	fs.Float64Var(&o.initScale, "init-scale", 0.1, "weights start uniform in [-s, s)")
	fs.Uint64Var(&o.seed, "seed", 1, "random seed")
	fs.StringVar(&o.search, "search", "backtracking", "line search: backtracking or grid")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log every step")
}

func (o *fitOptions) validate() error {
	if o.steps <= 0 || o.samples <= 0 || o.features <= 0 {
		return errors.New("--steps, --samples and --features must be positive")
	}
	if o.noise < 0 || o.initScale < 0 {
		return errors.New("--noise and --init-scale must not be negative")
	}
	return nil
}

func (o *fitOptions) searcher() (optim.Searcher, error) {
	switch o.search {
	case "backtracking":
		return optim.NewBacktracking(optim.BacktrackingConfig{}), nil
	case "grid":
		return optim.NewGrid(optim.GridConfig{}), nil
	default:
		return nil, errors.Errorf("unknown --search %q (want backtracking or grid)", o.search)
	}
}

func newFitCmd() *cobra.Command {
	var opts fitOptions
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a synthetic linear regression y = w·x + b + noise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			logger := slog.New(slog.DiscardHandler)
			if opts.verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			_, err := runFit(cmd.OutOrStdout(), opts, logger)
			return err
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

// problem is a synthetic regression data set with known coefficients.
type problem struct {
	columns []*tensor.Tensor // one per feature, length samples
	targets *tensor.Tensor
	weights []float64
	bias    float64
}

func synthesize(opts fitOptions) (*problem, error) {
	src := rand.NewPCG(opts.seed, opts.seed^0x5eed)
	features := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	coeffs := distuv.Uniform{Min: -2, Max: 2, Src: src}

	p := &problem{
		weights: make([]float64, opts.features),
		bias:    coeffs.Rand(),
	}
	for j := range p.weights {
		p.weights[j] = coeffs.Rand()
	}

	y := make([]float64, opts.samples)
	for i := range y {
		y[i] = p.bias
	}
	for j := range opts.features {
		col := make([]float64, opts.samples)
		for i := range col {
			col[i] = features.Rand()
			y[i] += p.weights[j] * col[i]
		}
		t, err := tensor.FromSlice(col, tensor.Shape{opts.samples})
		if err != nil {
			return nil, err
		}
		p.columns = append(p.columns, t)
	}
	if opts.noise > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: opts.noise, Src: src}
		for i := range y {
			y[i] += noise.Rand()
		}
	}

	targets, err := tensor.FromSlice(y, tensor.Shape{opts.samples})
	if err != nil {
		return nil, err
	}
	p.targets = targets
	return p, nil
}

// model holds the regression graph: pred = Σ w_j x_j + b, loss = mse/2 + l2·Σ w_j².
type model struct {
	inputs  []*graph.Node // feature columns, then targets
	weights []*graph.Shared
	bias    *graph.Shared
	loss    *graph.Node
	mse     *graph.Node
}

func buildModel(opts fitOptions) (*model, error) {
	m := &model{
		bias: graph.MustShared("b", tensor.Scalar(tensor.Float64, 0), nil),
	}
	columns := make([]*graph.Node, opts.features)
	for j := range columns {
		columns[j] = graph.Input(fmt.Sprintf("x%d", j), tensor.Float64, 1)
		m.weights = append(m.weights, graph.MustShared(fmt.Sprintf("w%d", j), tensor.Scalar(tensor.Float64, 0), nil))
	}
	y := graph.Input("y", tensor.Float64, 1)
	m.inputs = append(columns, y)

	weightNodes := make([]*graph.Node, len(m.weights))
	for j, w := range m.weights {
		weightNodes[j] = w.Node()
	}
	weighted, err := descent.JoinC(columns, weightNodes)
	if err != nil {
		return nil, err
	}
	pred := graph.Add(weighted, m.bias.Node())
	m.mse = graph.MulScalar(graph.Sum(graph.Square(graph.Sub(pred, y))), 1/float64(opts.samples))

	// Half the MSE has unit curvature along standardised features, so a
	// step of 1 is close to the exact minimiser.
	m.loss = graph.MulScalar(m.mse, 0.5)
	if opts.l2 > 0 {
		penalty, err := descent.LDot(weightNodes, weightNodes)
		if err != nil {
			return nil, err
		}
		m.loss = graph.Add(m.loss, graph.MulScalar(penalty, opts.l2))
	}
	return m, nil
}

// initWeights draws starting weights from [-s, s).
func (m *model) initWeights(scale float64, srng *graph.RandomStreams) error {
	if scale == 0 {
		return nil
	}
	ev := graph.NewEvaluator(cpu.New(), nil, nil)
	for _, w := range m.weights {
		v, err := ev.Eval(descent.MakeUniform(w, -scale, scale, srng))
		if err != nil {
			return err
		}
		if err := w.SetValue(v); err != nil {
			return err
		}
	}
	return nil
}

// fitReport summarises a run.
type fitReport struct {
	Steps   int
	Loss    float64
	MSE     float64
	Weights []float64
	Bias    float64
}

func runFit(out io.Writer, opts fitOptions, logger *slog.Logger) (*fitReport, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	search, err := opts.searcher()
	if err != nil {
		return nil, err
	}
	data, err := synthesize(opts)
	if err != nil {
		return nil, errors.WithMessage(err, "generating data")
	}
	m, err := buildModel(opts)
	if err != nil {
		return nil, errors.WithMessage(err, "building model")
	}
	if err := m.initWeights(opts.initScale, graph.NewRandomStreams(opts.seed)); err != nil {
		return nil, errors.WithMessage(err, "initialising weights")
	}

	params := append(append([]*graph.Shared(nil), m.weights...), m.bias)
	ls, err := descent.GradBase(m.inputs, m.loss, params, descent.Config{
		Outputs:       []*graph.Node{m.mse},
		Epsilon:       opts.epsilon,
		Momentum:      opts.momentum,
		NormGradients: opts.norm,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "compiling line search")
	}
	if err := ls.CacheInputs(append(append([]*tensor.Tensor(nil), data.columns...), data.targets)...); err != nil {
		return nil, errors.WithMessage(err, "caching inputs")
	}

	report := &fitReport{}
	for report.Steps < opts.steps {
		res, err := optim.Step(ls, search, logger.With("step", report.Steps))
		if err != nil {
			return nil, errors.WithMessagef(err, "step %d", report.Steps)
		}
		if !res.Accepted {
			break
		}
		report.Steps++
	}

	outs, err := ls.ProbeLoss(0)
	if err != nil {
		return nil, err
	}
	report.Loss, report.MSE = outs[0].Item(), outs[1].Item()
	for _, w := range m.weights {
		report.Weights = append(report.Weights, w.Value().Item())
	}
	report.Bias = m.bias.Value().Item()

	fmt.Fprintf(out, "steps: %d\n", report.Steps)
	fmt.Fprintf(out, "loss:  %.6g (mse %.6g)\n", report.Loss, report.MSE)
	for j, w := range report.Weights {
		fmt.Fprintf(out, "w%-3d fitted %+.4f  true %+.4f\n", j, w, data.weights[j])
	}
	fmt.Fprintf(out, "b    fitted %+.4f  true %+.4f\n", report.Bias, data.bias)
	return report, nil
}
