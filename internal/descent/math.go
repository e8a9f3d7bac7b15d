package descent

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/born-ml/descent/internal/graph"
)

var (
	// ErrEmptySequence is returned when a reduction gets no terms.
	ErrEmptySequence = errors.New("descent: empty sequence")

	// ErrLengthMismatch is returned when paired sequences differ in length.
	ErrLengthMismatch = errors.New("descent: sequences differ in length")

	// ErrSoftminExpression is returned by SoftminExpr. Softmin over a
	// single expression has no agreed result yet.
	ErrSoftminExpression = errors.New("descent: softmin of a single expression is undefined")
)

// Join returns the sum of xs.
func Join(xs []*graph.Node) (*graph.Node, error) {
	if len(xs) == 0 {
		return nil, ErrEmptySequence
	}
	if i := lo.IndexOf(xs, nil); i >= 0 {
		return nil, errors.Errorf("descent: term %d is nil", i)
	}
	return lo.Reduce(xs[1:], func(acc, x *graph.Node, _ int) *graph.Node {
		return graph.Add(acc, x)
	}, xs[0]), nil
}

// JoinC returns Σ xs[i]*cs[i].
func JoinC(xs, cs []*graph.Node) (*graph.Node, error) {
	if len(xs) != len(cs) {
		return nil, errors.Wrapf(ErrLengthMismatch, "joinc: %d terms, %d coefficients", len(xs), len(cs))
	}
	if err := noNils(xs, cs); err != nil {
		return nil, err
	}
	return Join(lo.ZipBy2(xs, cs, graph.Mul))
}

// LDot returns Σ sum(xs[i]*ys[i]), a dot product over a list of tensors.
func LDot(xs, ys []*graph.Node) (*graph.Node, error) {
	if len(xs) != len(ys) {
		return nil, errors.Wrapf(ErrLengthMismatch, "ldot: %d and %d terms", len(xs), len(ys))
	}
	if err := noNils(xs, ys); err != nil {
		return nil, err
	}
	return Join(lo.ZipBy2(xs, ys, func(x, y *graph.Node) *graph.Node {
		return graph.Sum(graph.Mul(x, y))
	}))
}

// Softmin returns one weight per term, exp(-alpha*x_i) / Σ_j exp(-alpha*x_j).
//
// The exponentials are not shifted by the minimum, so a large alpha*x
// overflows to Inf and the weights become NaN.
func Softmin(xs []*graph.Node, alpha float64) ([]*graph.Node, error) {
	if len(xs) == 0 {
		return nil, ErrEmptySequence
	}
	if i := lo.IndexOf(xs, nil); i >= 0 {
		return nil, errors.Errorf("descent: term %d is nil", i)
	}
	exps := lo.Map(xs, func(x *graph.Node, _ int) *graph.Node {
		return graph.Exp(graph.MulScalar(x, -alpha))
	})
	total, err := Join(exps)
	if err != nil {
		return nil, err
	}
	return lo.Map(exps, func(e *graph.Node, _ int) *graph.Node {
		return graph.Div(e, total)
	}), nil
}

// SoftminExpr is the single-expression form of Softmin. It always fails
// with ErrSoftminExpression: whether the weights should run over the
// elements of x or over its rows is not settled.
func SoftminExpr(x *graph.Node, alpha float64) (*graph.Node, error) {
	if x == nil {
		return nil, errors.New("descent: nil expression")
	}
	return nil, errors.Wrapf(ErrSoftminExpression, "%s (alpha=%g)", x, alpha)
}

// LogBarrier returns -(log(v - lo) + log(hi - v)) for bounds = {lo, hi}.
// It grows without limit as v nears either bound and is NaN outside them.
func LogBarrier(v *graph.Node, bounds [2]*graph.Node) *graph.Node {
	lower, upper := bounds[0], bounds[1]
	return graph.Neg(graph.Add(
		graph.Log(graph.Sub(v, lower)),
		graph.Log(graph.Sub(upper, v)),
	))
}

func noNils(seqs ...[]*graph.Node) error {
	for _, seq := range seqs {
		if i := lo.IndexOf(seq, nil); i >= 0 {
			return errors.Errorf("descent: term %d is nil", i)
		}
	}
	return nil
}
