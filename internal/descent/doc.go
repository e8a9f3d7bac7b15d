// Package descent builds probe-based line-search gradient steps over
// expression graphs.
//
// The centrepiece is GradBase, which compiles four functions sharing
// cached state: copy a batch of inputs aside, compute (and optionally
// normalise and smooth) the gradients on that batch, probe the loss at a
// candidate step size, and commit a step. A driver can probe many step
// sizes per gradient evaluation before committing once:
//
//	ls, _ := descent.GradBase(inputs, loss, params, descent.Config{Momentum: 0.9})
//	_ = ls.CacheInputs(batch...)
//	_ = ls.CacheGradients()
//	for _, alpha := range []float64{1, 0.1, 0.01} {
//	    l, _ := ls.Loss(alpha)
//	    ...
//	}
//	_ = ls.CommitStep(best)
//
// The package also carries the small expression helpers such losses are
// written with (Join, JoinC, LDot, Softmin, LogBarrier) and constructors
// for the shared buffers and random nodes that accompany them.
package descent
