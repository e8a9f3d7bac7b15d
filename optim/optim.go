// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim drives line searches over descent.LineSearch values.
//
// # Overview
//
// This package contains:
//   - Backtracking: shrink a step until the loss decreases
//   - Grid: probe a fixed list of steps and keep the best
//   - Step: refresh gradients, search, commit
//
// # Basic Usage
//
//	search := optim.NewBacktracking(optim.BacktrackingConfig{InitialAlpha: 0.5})
//	for range steps {
//	    _ = ls.CacheInputs(batch...)
//	    res, err := optim.Step(ls, search, slog.Default())
//	    if err != nil {
//	        return err
//	    }
//	    if !res.Accepted {
//	        break // converged
//	    }
//	}
package optim

import (
	"log/slog"

	"github.com/born-ml/descent/internal/optim"
)

// Prober is the probe/commit surface a search needs.
type Prober = optim.Prober

// Searcher picks a step size.
type Searcher = optim.Searcher

// Result describes one line search.
type Result = optim.Result

// Backtracking shrinks a step geometrically until the loss decreases.
type Backtracking = optim.Backtracking

// BacktrackingConfig contains configuration for Backtracking.
type BacktrackingConfig = optim.BacktrackingConfig

// Grid probes a fixed list of step sizes.
type Grid = optim.Grid

// GridConfig contains configuration for Grid.
type GridConfig = optim.GridConfig

// DefaultGridAlphas are the step sizes Grid tries by default.
var DefaultGridAlphas = optim.DefaultGridAlphas

// NewBacktracking creates a Backtracking search.
//
// Example:
//
//	search := optim.NewBacktracking(optim.BacktrackingConfig{
//	    InitialAlpha: 1.0,
//	    Shrink:       0.5,
//	})
func NewBacktracking(config BacktrackingConfig) *Backtracking {
	return optim.NewBacktracking(config)
}

// NewGrid creates a Grid search.
func NewGrid(config GridConfig) *Grid {
	return optim.NewGrid(config)
}

// Step refreshes gradients, searches, and commits an improving step.
func Step(p Prober, s Searcher, logger *slog.Logger) (Result, error) {
	return optim.Step(p, s, logger)
}
