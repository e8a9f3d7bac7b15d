// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package descent builds probe-based line-search gradient steps.
//
// # Overview
//
// GradBase compiles four phases sharing cached state:
//   - CacheInputs: copy a batch aside
//   - CacheGradients: differentiate the loss on it, optionally normalised and smoothed
//   - ProbeLoss / Loss: evaluate the loss at param - alpha*gradient without moving params
//   - CommitStep: move params to param - alpha*gradient
//
// Helpers for writing losses (Join, JoinC, LDot, Softmin, LogBarrier) and
// for creating shadow buffers and random nodes come with it.
//
// # Basic Usage
//
//	ls, err := descent.GradBase(
//	    []*graph.Node{x, y}, loss, []*graph.Shared{w, b},
//	    descent.Config{Momentum: 0.9, NormGradients: true},
//	)
//	_ = ls.CacheInputs(xs, ys)
//	_ = ls.CacheGradients()
//	l, _ := ls.Loss(0.1)
//	_ = ls.CommitStep(0.1)
package descent

import (
	"github.com/born-ml/descent/graph"
	"github.com/born-ml/descent/internal/descent"
)

// LineSearch is a gradient step split into cache, probe and commit phases.
type LineSearch = descent.LineSearch

// Config holds GradBase options.
type Config = descent.Config

// DefaultEpsilon is the normalisation floor used when Config.Epsilon is zero.
const DefaultEpsilon = descent.DefaultEpsilon

// Errors returned by this package.
var (
	ErrNoParams          = descent.ErrNoParams
	ErrNilLoss           = descent.ErrNilLoss
	ErrEmptySequence     = descent.ErrEmptySequence
	ErrLengthMismatch    = descent.ErrLengthMismatch
	ErrSoftminExpression = descent.ErrSoftminExpression
)

// GradBase compiles a LineSearch minimising loss over params.
func GradBase(inputs []*graph.Node, loss *graph.Node, params []*graph.Shared, cfg Config) (*LineSearch, error) {
	return descent.GradBase(inputs, loss, params, cfg)
}

// Join returns the sum of xs.
func Join(xs []*graph.Node) (*graph.Node, error) { return descent.Join(xs) }

// JoinC returns Σ xs[i]*cs[i].
func JoinC(xs, cs []*graph.Node) (*graph.Node, error) { return descent.JoinC(xs, cs) }

// LDot returns Σ sum(xs[i]*ys[i]).
func LDot(xs, ys []*graph.Node) (*graph.Node, error) { return descent.LDot(xs, ys) }

// Softmin returns the weights exp(-alpha*x_i) / Σ_j exp(-alpha*x_j).
func Softmin(xs []*graph.Node, alpha float64) ([]*graph.Node, error) {
	return descent.Softmin(xs, alpha)
}

// SoftminExpr is the single-expression form of Softmin; it always returns
// ErrSoftminExpression.
func SoftminExpr(x *graph.Node, alpha float64) (*graph.Node, error) {
	return descent.SoftminExpr(x, alpha)
}

// LogBarrier returns -(log(v - lo) + log(hi - v)).
func LogBarrier(v *graph.Node, bounds [2]*graph.Node) *graph.Node {
	return descent.LogBarrier(v, bounds)
}

// MakeCopy returns a zero-filled shared variable shaped like s.
func MakeCopy(s *graph.Shared) *graph.Shared { return descent.MakeCopy(s) }

// ToShared returns an empty shared variable able to hold values of x.
func ToShared(x *graph.Node) *graph.Shared { return descent.ToShared(x) }

// GetSRNG returns srng, or new randomly seeded streams when it is nil.
func GetSRNG(srng *graph.RandomStreams) *graph.RandomStreams { return descent.GetSRNG(srng) }

// MakeUniform returns uniform [a, b) samples shaped like s.
func MakeUniform(s *graph.Shared, a, b float64, srng *graph.RandomStreams) *graph.Node {
	return descent.MakeUniform(s, a, b, srng)
}

// MakeNormal returns standard normal samples shaped like s.
func MakeNormal(s *graph.Shared, srng *graph.RandomStreams) *graph.Node {
	return descent.MakeNormal(s, srng)
}
