package autodiff

import (
	"github.com/born-ml/descent/internal/graph"
)

// vjp returns the vector-Jacobian products of node's inputs given the
// gradient g flowing into node. A nil entry means no gradient flows to
// that input. Broadcast operands get their gradient summed back to their
// own shape.
func vjp(node *graph.Node, g *graph.Node) []*graph.Node {
	in := node.Inputs()
	switch node.Op() {
	case graph.OpAdd:
		return []*graph.Node{
			graph.SumToLike(g, in[0]),
			graph.SumToLike(g, in[1]),
		}
	case graph.OpSub:
		return []*graph.Node{
			graph.SumToLike(g, in[0]),
			graph.SumToLike(graph.Neg(g), in[1]),
		}
	case graph.OpMul:
		return []*graph.Node{
			graph.SumToLike(graph.Mul(g, in[1]), in[0]),
			graph.SumToLike(graph.Mul(g, in[0]), in[1]),
		}
	case graph.OpDiv:
		// d(a/b)/db = -a/b²
		return []*graph.Node{
			graph.SumToLike(graph.Div(g, in[1]), in[0]),
			graph.SumToLike(graph.Neg(graph.Div(graph.Mul(g, in[0]), graph.Square(in[1]))), in[1]),
		}
	case graph.OpNeg:
		return []*graph.Node{graph.Neg(g)}
	case graph.OpExp:
		// d(exp(x))/dx = exp(x), which is the node itself.
		return []*graph.Node{graph.Mul(g, node)}
	case graph.OpLog:
		return []*graph.Node{graph.Div(g, in[0])}
	case graph.OpSqrt:
		// d(sqrt(x))/dx = 1 / (2 sqrt(x))
		return []*graph.Node{graph.Div(g, graph.MulScalar(node, 2))}
	case graph.OpSquare:
		return []*graph.Node{graph.Mul(g, graph.MulScalar(in[0], 2))}
	case graph.OpSum:
		return []*graph.Node{graph.BroadcastLike(g, in[0])}
	case graph.OpSumToLike:
		return []*graph.Node{graph.BroadcastLike(g, in[0]), nil}
	case graph.OpBroadcastLike:
		return []*graph.Node{graph.SumToLike(g, in[0]), nil}
	case graph.OpCast:
		return []*graph.Node{graph.Cast(g, in[0].DType())}
	default:
		// Leaves: inputs, shared variables, constants and random samples.
		return nil
	}
}
