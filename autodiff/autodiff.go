// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff differentiates expression graphs symbolically.
//
// Grad returns new graph nodes rather than numbers, so gradients can be
// transformed further (normalised, blended, substituted) before they are
// compiled.
//
// Example:
//
//	grads, err := autodiff.Grad(loss, []*graph.Node{w.Node(), b.Node()})
package autodiff

import (
	"github.com/born-ml/descent/graph"
	"github.com/born-ml/descent/internal/autodiff"
)

// Option configures Grad.
type Option = autodiff.Option

// Errors returned by Grad.
var (
	ErrNilCost      = autodiff.ErrNilCost
	ErrDisconnected = autodiff.ErrDisconnected
)

// Grad returns the gradient of the scalar cost with respect to each node in wrt.
func Grad(cost *graph.Node, wrt []*graph.Node, opts ...Option) ([]*graph.Node, error) {
	return autodiff.Grad(cost, wrt, opts...)
}

// WithDisconnectedZero returns zero gradients for variables cost does not use.
func WithDisconnectedZero() Option {
	return autodiff.WithDisconnectedZero()
}
