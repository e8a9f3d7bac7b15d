// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph builds symbolic expressions over tensors.
//
// # Overview
//
// Expressions are DAGs of Nodes. Leaves are:
//   - Input: placeholders bound when a compiled function is called
//   - Shared: named mutable variables living across calls
//   - Constant: fixed tensors
//   - RandomStreams nodes: fresh samples per draw
//
// Operations (Add, Mul, Exp, Sum, ...) broadcast NumPy-style and promote
// float32 to float64 when operands mix.
//
// # Basic Usage
//
//	x := graph.Input("x", tensor.Float64, 1)
//	w := graph.MustShared("w", tensor.Scalar(tensor.Float64, 0), nil)
//	loss := graph.Sum(graph.Square(graph.Sub(graph.Mul(w.Node(), x), y)))
package graph

import (
	"github.com/born-ml/descent/internal/backend/cpu"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

// Node is a vertex of an expression graph.
type Node = graph.Node

// Op identifies what a Node computes.
type Op = graph.Op

// Shared is a named mutable variable.
type Shared = graph.Shared

// RandomStreams creates random sampling nodes from one seed.
type RandomStreams = graph.RandomStreams

// Evaluator computes node values directly, without compiling a function.
type Evaluator = graph.Evaluator

// ErrMissingInput is returned when a placeholder has no value.
var ErrMissingInput = graph.ErrMissingInput

// Input creates a placeholder of the given dtype and rank.
func Input(name string, dtype tensor.DataType, ndim int) *Node { return graph.Input(name, dtype, ndim) }

// Constant wraps a copy of value.
func Constant(value *tensor.RawTensor) *Node { return graph.Constant(value) }

// Scalar creates a 0-d constant.
func Scalar(dtype tensor.DataType, v float64) *Node { return graph.Scalar(dtype, v) }

// NewShared creates a shared variable owning value.
func NewShared(name string, value *tensor.RawTensor, broadcastable tensor.Broadcastable) (*Shared, error) {
	return graph.NewShared(name, value, broadcastable)
}

// MustShared is like NewShared but panics on error.
func MustShared(name string, value *tensor.RawTensor, broadcastable tensor.Broadcastable) *Shared {
	return graph.MustShared(name, value, broadcastable)
}

// NewEmptyShared creates a shared variable with zero-length dimensions.
func NewEmptyShared(name string, dtype tensor.DataType, broadcastable tensor.Broadcastable) (*Shared, error) {
	return graph.NewEmptyShared(name, dtype, broadcastable)
}

// NewRandomStreams creates random streams seeded with seed.
func NewRandomStreams(seed uint64) *RandomStreams { return graph.NewRandomStreams(seed) }

// NewEvaluator creates an Evaluator; feeds and givens may be nil.
func NewEvaluator(backend *cpu.CPUBackend, feeds map[*Node]*tensor.RawTensor, givens map[*Node]*Node) *Evaluator {
	return graph.NewEvaluator(backend, feeds, givens)
}

// Walk visits every node n depends on, inputs first.
func Walk(n *Node, visit func(*Node)) { graph.Walk(n, visit) }

// Element-wise and reduction operations.

// Add returns a + b.
func Add(a, b *Node) *Node { return graph.Add(a, b) }

// Sub returns a - b.
func Sub(a, b *Node) *Node { return graph.Sub(a, b) }

// Mul returns a * b.
func Mul(a, b *Node) *Node { return graph.Mul(a, b) }

// Div returns a / b.
func Div(a, b *Node) *Node { return graph.Div(a, b) }

// Neg returns -x.
func Neg(x *Node) *Node { return graph.Neg(x) }

// Exp returns exp(x).
func Exp(x *Node) *Node { return graph.Exp(x) }

// Log returns ln(x).
func Log(x *Node) *Node { return graph.Log(x) }

// Sqrt returns sqrt(x).
func Sqrt(x *Node) *Node { return graph.Sqrt(x) }

// Square returns x².
func Square(x *Node) *Node { return graph.Square(x) }

// Sum reduces x to a scalar.
func Sum(x *Node) *Node { return graph.Sum(x) }

// AddScalar returns x + v.
func AddScalar(x *Node, v float64) *Node { return graph.AddScalar(x, v) }

// MulScalar returns x * v.
func MulScalar(x *Node, v float64) *Node { return graph.MulScalar(x, v) }

// SumToLike sums x down to like's shape.
func SumToLike(x, like *Node) *Node { return graph.SumToLike(x, like) }

// BroadcastLike expands x to like's shape.
func BroadcastLike(x, like *Node) *Node { return graph.BroadcastLike(x, like) }

// OnesLike returns ones shaped like x.
func OnesLike(x *Node) *Node { return graph.OnesLike(x) }

// ZerosLike returns zeros shaped like x.
func ZerosLike(x *Node) *Node { return graph.ZerosLike(x) }

// Cast converts x to dtype.
func Cast(x *Node, dtype tensor.DataType) *Node { return graph.Cast(x, dtype) }
