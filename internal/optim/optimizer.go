// Package optim drives line searches over a descent.LineSearch.
//
// This package provides:
//   - Prober: the probe/commit surface a search needs
//   - Searcher: strategies picking a step size (Backtracking, Grid)
//   - Step: one full gradient step (cache gradients, search, commit)
//
// Example usage:
//
//	ls, _ := descent.GradBase(inputs, loss, params, descent.Config{})
//	search := optim.NewBacktracking(optim.BacktrackingConfig{})
//
//	for step := range steps {
//	    _ = ls.CacheInputs(batch(step)...)
//	    res, err := optim.Step(ls, search, logger)
//	    ...
//	}
package optim

import (
	"log/slog"
	"math"

	"github.com/pkg/errors"
)

// Prober evaluates and commits candidate steps along cached gradients.
// *descent.LineSearch implements it.
type Prober interface {
	// CacheGradients recomputes the search direction.
	CacheGradients() error

	// Loss returns the loss after a hypothetical step of size alpha.
	Loss(alpha float64) (float64, error)

	// CommitStep applies a step of size alpha.
	CommitStep(alpha float64) error
}

// Searcher picks a step size along the cached gradients.
type Searcher interface {
	Search(p Prober) (Result, error)
}

// Result describes one line search.
type Result struct {
	Alpha    float64 // chosen step size, 0 when none was accepted
	Loss     float64 // loss at Alpha
	Baseline float64 // loss before the step
	Probes   int     // number of Loss calls, the baseline included
	Accepted bool    // whether Alpha improves on Baseline
}

// Step performs one optimisation step: it refreshes the gradients,
// searches for a step size, and commits it if the search found an
// improvement. A nil logger discards the per-step debug record.
func Step(p Prober, s Searcher, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := p.CacheGradients(); err != nil {
		return Result{}, errors.WithMessage(err, "optim: caching gradients")
	}
	res, err := s.Search(p)
	if err != nil {
		return res, errors.WithMessage(err, "optim: line search")
	}
	if res.Accepted {
		if err := p.CommitStep(res.Alpha); err != nil {
			return res, errors.WithMessage(err, "optim: committing step")
		}
	}
	logger.Debug("line search step",
		"alpha", res.Alpha,
		"loss", res.Loss,
		"baseline", res.Baseline,
		"probes", res.Probes,
		"accepted", res.Accepted)
	return res, nil
}

// improves reports whether loss is a finite decrease from baseline.
func improves(loss, baseline float64) bool {
	return !math.IsNaN(loss) && !math.IsInf(loss, 0) && loss < baseline
}

// baseline probes the loss at alpha = 0.
func baseline(p Prober) (Result, error) {
	l, err := p.Loss(0)
	if err != nil {
		return Result{}, err
	}
	return Result{Loss: l, Baseline: l, Probes: 1}, nil
}
