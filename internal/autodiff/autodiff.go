// Package autodiff implements symbolic reverse-mode automatic differentiation.
//
// Grad does not compute numbers: it extends the expression graph with new
// nodes whose values are the gradients of a scalar cost. Those nodes can
// be evaluated, substituted and compiled like any other.
//
// Algorithm:
//  1. Order every node the cost depends on topologically
//  2. Seed the cost's gradient with 1
//  3. Walk the order backwards, applying each node's VJP rule
//  4. Sum contributions when a node feeds several consumers
package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/descent/internal/graph"
)

var (
	// ErrNilCost is returned when Grad is called without a cost.
	ErrNilCost = errors.New("autodiff: nil cost")

	// ErrDisconnected is returned when a requested variable does not
	// influence the cost.
	ErrDisconnected = errors.New("autodiff: cost does not depend on variable")
)

type config struct {
	disconnectedZero bool
}

// Option configures Grad.
type Option func(*config)

// WithDisconnectedZero makes Grad return zeros for variables the cost does
// not depend on, instead of failing with ErrDisconnected.
func WithDisconnectedZero() Option {
	return func(c *config) { c.disconnectedZero = true }
}

// Grad returns, for every node in wrt, an expression for the gradient of
// cost with respect to it. Results are positional with wrt, carry wrt's
// dtype, and have wrt's shape when evaluated.
//
// cost must be a scalar (rank 0).
//
// Example:
//
//	w := graph.MustShared("w", tensor.Scalar(tensor.Float64, 0), nil)
//	loss := graph.Square(graph.AddScalar(w.Node(), -3))
//	grads, err := autodiff.Grad(loss, []*graph.Node{w.Node()}) // 2(w-3)
func Grad(cost *graph.Node, wrt []*graph.Node, opts ...Option) ([]*graph.Node, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cost == nil {
		return nil, ErrNilCost
	}
	if cost.NDim() != 0 {
		return nil, errors.Errorf("autodiff: cost must be a scalar, got rank %d", cost.NDim())
	}

	var order []*graph.Node
	graph.Walk(cost, func(n *graph.Node) { order = append(order, n) })

	grads := map[*graph.Node]*graph.Node{
		cost: graph.Scalar(cost.DType(), 1),
	}
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		outGrad, ok := grads[node]
		if !ok {
			continue
		}
		accumulateGrads(node, vjp(node, outGrad), grads)
	}

	result := make([]*graph.Node, len(wrt))
	for i, w := range wrt {
		if w == nil {
			return nil, errors.Errorf("autodiff: wrt[%d] is nil", i)
		}
		g, ok := grads[w]
		switch {
		case ok:
			result[i] = graph.Cast(g, w.DType())
		case cfg.disconnectedZero:
			result[i] = graph.ZerosLike(w)
		default:
			return nil, errors.Wrapf(ErrDisconnected, "wrt[%d] (%s)", i, w)
		}
	}
	return result, nil
}

// accumulateGrads adds each input gradient into the running totals.
func accumulateGrads(node *graph.Node, inputGrads []*graph.Node, grads map[*graph.Node]*graph.Node) {
	for j, input := range node.Inputs() {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = graph.Add(existing, inputGrads[j])
		} else {
			grads[input] = inputGrads[j]
		}
	}
}
