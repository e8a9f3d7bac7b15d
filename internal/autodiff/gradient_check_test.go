package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/autodiff"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

// numericalGradient estimates d cost / d x[i] by central differences.
func numericalGradient(t *testing.T, cost, x *graph.Node, at []float64, shape tensor.Shape, eps float64) []float64 {
	t.Helper()
	out := make([]float64, len(at))
	for i := range at {
		probe := func(delta float64) float64 {
			shifted := append([]float64(nil), at...)
			shifted[i] += delta
			v, err := tensor.FromSlice(shifted, shape)
			require.NoError(t, err)
			return evalNode(t, cost, map[*graph.Node]*tensor.RawTensor{x: v}).Item()
		}
		out[i] = (probe(eps) - probe(-eps)) / (2 * eps)
	}
	return out
}

func TestGradientCheck(t *testing.T) {
	tests := []struct {
		name  string
		at    []float64
		shape tensor.Shape
		cost  func(x *graph.Node) *graph.Node
	}{
		{
			name:  "sum of squares",
			at:    []float64{1, -2, 3},
			shape: tensor.Shape{3},
			cost:  func(x *graph.Node) *graph.Node { return graph.Sum(graph.Square(x)) },
		},
		{
			name:  "log sum exp",
			at:    []float64{0.1, 0.5, -0.3},
			shape: tensor.Shape{3},
			cost:  func(x *graph.Node) *graph.Node { return graph.Log(graph.Sum(graph.Exp(x))) },
		},
		{
			name:  "division and sqrt",
			at:    []float64{1.5, 2, 4, 0.7},
			shape: tensor.Shape{2, 2},
			cost: func(x *graph.Node) *graph.Node {
				return graph.Sum(graph.Div(graph.Sqrt(x), graph.AddScalar(x, 1)))
			},
		},
		{
			name:  "softmin weights",
			at:    []float64{0.2, 1.1},
			shape: tensor.Shape{2},
			cost: func(x *graph.Node) *graph.Node {
				e := graph.Exp(graph.Neg(x))
				return graph.Sum(graph.Mul(x, graph.Div(e, graph.Sum(e))))
			},
		},
		{
			name:  "subtract mean",
			at:    []float64{3, 1, 2},
			shape: tensor.Shape{3},
			cost: func(x *graph.Node) *graph.Node {
				mean := graph.MulScalar(graph.Sum(x), 1.0/3)
				return graph.Sum(graph.Square(graph.Sub(x, mean)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := graph.Input("x", tensor.Float64, len(tt.shape))
			cost := tt.cost(x)

			grads, err := autodiff.Grad(cost, []*graph.Node{x})
			require.NoError(t, err)

			xv, err := tensor.FromSlice(tt.at, tt.shape)
			require.NoError(t, err)
			analytic := evalNode(t, grads[0], map[*graph.Node]*tensor.RawTensor{x: xv}).AsFloat64()
			numeric := numericalGradient(t, cost, x, tt.at, tt.shape, 1e-6)

			require.Len(t, analytic, len(numeric))
			for i := range numeric {
				tol := 1e-5 * math.Max(1, math.Abs(numeric[i]))
				assert.InDelta(t, numeric[i], analytic[i], tol, "component %d", i)
			}
		})
	}
}
