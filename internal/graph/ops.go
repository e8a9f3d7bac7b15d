package graph

import (
	"fmt"

	"github.com/born-ml/descent/internal/tensor"
)

// Input creates a placeholder: a value supplied by the caller of a
// compiled function.
//
// Example:
//
//	x := graph.Input("x", tensor.Float32, 2) // a matrix
func Input(name string, dtype tensor.DataType, ndim int) *Node {
	if ndim < 0 {
		panic(fmt.Sprintf("graph.Input(%q): negative rank %d", name, ndim))
	}
	n := newNode(OpInput, dtype, make(tensor.Broadcastable, ndim))
	n.name = name
	return n
}

// Constant wraps a concrete tensor. The tensor is copied.
func Constant(value *tensor.RawTensor) *Node {
	n := newNode(OpConstant, value.DType(), tensor.BroadcastableOf(value.Shape()))
	n.value = value.Clone()
	return n
}

// Scalar creates a 0-d constant.
func Scalar(dtype tensor.DataType, v float64) *Node {
	return Constant(tensor.Scalar(dtype, v))
}

// Add returns a + b with broadcasting.
func Add(a, b *Node) *Node { return binary(OpAdd, a, b) }

// Sub returns a - b with broadcasting.
func Sub(a, b *Node) *Node { return binary(OpSub, a, b) }

// Mul returns a * b (element-wise) with broadcasting.
func Mul(a, b *Node) *Node { return binary(OpMul, a, b) }

// Div returns a / b (element-wise) with broadcasting.
func Div(a, b *Node) *Node { return binary(OpDiv, a, b) }

// Neg returns -x.
func Neg(x *Node) *Node { return unary(OpNeg, x) }

// Exp returns exp(x).
func Exp(x *Node) *Node { return unary(OpExp, x) }

// Log returns ln(x).
func Log(x *Node) *Node { return unary(OpLog, x) }

// Sqrt returns sqrt(x).
func Sqrt(x *Node) *Node { return unary(OpSqrt, x) }

// Square returns x².
func Square(x *Node) *Node { return unary(OpSquare, x) }

// Sum reduces all elements of x to a scalar.
func Sum(x *Node) *Node {
	mustNotBeNil("Sum", x)
	return newNode(OpSum, x.dtype, tensor.Broadcastable{}, x)
}

// AddScalar returns x + v, with v taking x's dtype.
func AddScalar(x *Node, v float64) *Node {
	mustNotBeNil("AddScalar", x)
	return Add(x, Scalar(x.dtype, v))
}

// MulScalar returns x * v, with v taking x's dtype.
func MulScalar(x *Node, v float64) *Node {
	mustNotBeNil("MulScalar", x)
	return Mul(x, Scalar(x.dtype, v))
}

// SumToLike sums x over the dimensions broadcasting added relative to
// like, producing a value with like's shape. It undoes broadcasting in
// gradients.
func SumToLike(x, like *Node) *Node {
	mustNotBeNil("SumToLike", x, like)
	return newNode(OpSumToLike, x.dtype, like.broadcastable.Clone(), x, like)
}

// BroadcastLike expands x to like's shape.
func BroadcastLike(x, like *Node) *Node {
	mustNotBeNil("BroadcastLike", x, like)
	return newNode(OpBroadcastLike, x.dtype, like.broadcastable.Clone(), x, like)
}

// OnesLike returns ones with x's shape and dtype.
func OnesLike(x *Node) *Node {
	mustNotBeNil("OnesLike", x)
	return BroadcastLike(Scalar(x.dtype, 1), x)
}

// ZerosLike returns zeros with x's shape and dtype.
func ZerosLike(x *Node) *Node {
	mustNotBeNil("ZerosLike", x)
	return BroadcastLike(Scalar(x.dtype, 0), x)
}

// Cast converts x to dtype. Casting to x's own dtype returns x.
func Cast(x *Node, dtype tensor.DataType) *Node {
	mustNotBeNil("Cast", x)
	if x.dtype == dtype {
		return x
	}
	return newNode(OpCast, dtype, x.broadcastable.Clone(), x)
}

func unary(op Op, x *Node) *Node {
	mustNotBeNil(op.String(), x)
	return newNode(op, x.dtype, x.broadcastable.Clone(), x)
}

func binary(op Op, a, b *Node) *Node {
	mustNotBeNil(op.String(), a, b)
	return newNode(op, tensor.Promote(a.dtype, b.dtype), mergeBroadcastable(a.broadcastable, b.broadcastable), a, b)
}

// mergeBroadcastable aligns flags from the right; a result dimension is
// broadcastable only when every operand is broadcastable there. Missing
// leading dimensions count as broadcastable.
func mergeBroadcastable(a, b tensor.Broadcastable) tensor.Broadcastable {
	n := max(len(a), len(b))
	out := make(tensor.Broadcastable, n)
	for i := 0; i < n; i++ {
		ai, bi := len(a)-n+i, len(b)-n+i
		aFlag := ai < 0 || a[ai]
		bFlag := bi < 0 || b[bi]
		out[i] = aFlag && bFlag
	}
	return out
}

func mustNotBeNil(op string, nodes ...*Node) {
	for i, n := range nodes {
		if n == nil {
			panic(fmt.Sprintf("graph.%s: operand %d is nil", op, i))
		}
	}
}
