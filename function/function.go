// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package function compiles expression graphs into reusable callables.
//
// # Basic Usage
//
//	x := graph.Input("x", tensor.Float64, 0)
//	w := graph.MustShared("w", tensor.Scalar(tensor.Float64, 1), nil)
//
//	f, err := function.Compile(
//	    []*graph.Node{x},
//	    []*graph.Node{graph.Mul(w.Node(), x)},
//	    function.WithUpdates(function.Update{Shared: w, Expr: graph.AddScalar(w.Node(), 1)}),
//	)
//	outs, err := f.Call(tensor.Scalar(tensor.Float64, 3)) // 3, then w becomes 2
package function

import (
	"github.com/born-ml/descent/graph"
	"github.com/born-ml/descent/internal/backend/cpu"
	"github.com/born-ml/descent/internal/function"
)

// Function is a compiled callable.
type Function = function.Function

// Given substitutes one node for another inside a Function.
type Given = function.Given

// Update assigns a shared variable after each call.
type Update = function.Update

// Option configures Compile.
type Option = function.Option

// Errors returned by Compile and Call.
var (
	ErrUnboundInput = function.ErrUnboundInput
	ErrArity        = function.ErrArity
)

// Compile validates the graph and returns a Function.
func Compile(inputs, outputs []*graph.Node, opts ...Option) (*Function, error) {
	return function.Compile(inputs, outputs, opts...)
}

// MustCompile is like Compile but panics on error.
func MustCompile(inputs, outputs []*graph.Node, opts ...Option) *Function {
	return function.MustCompile(inputs, outputs, opts...)
}

// WithName names the function in error messages.
func WithName(name string) Option { return function.WithName(name) }

// WithBackend selects the executing backend.
func WithBackend(b *cpu.CPUBackend) Option { return function.WithBackend(b) }

// WithGivens adds substitutions.
func WithGivens(givens ...Given) Option { return function.WithGivens(givens...) }

// WithUpdates adds shared variable assignments.
func WithUpdates(updates ...Update) Option { return function.WithUpdates(updates...) }

// NoDefaultUpdates keeps random nodes on their current draw.
func NoDefaultUpdates() Option { return function.NoDefaultUpdates() }

// AllowInputDowncast lets float64 arguments feed float32 inputs.
func AllowInputDowncast() Option { return function.AllowInputDowncast() }
