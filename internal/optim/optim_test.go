package optim_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/descent"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/optim"
	"github.com/born-ml/descent/internal/tensor"
)

// fakeProber models loss(alpha) = (alpha - best)² + floor along a fixed direction.
type fakeProber struct {
	best, floor float64
	probed      []float64
	committed   []float64
	cached      int
	failAt      float64
}

func (f *fakeProber) CacheGradients() error {
	f.cached++
	return nil
}

func (f *fakeProber) Loss(alpha float64) (float64, error) {
	f.probed = append(f.probed, alpha)
	if f.failAt != 0 && alpha == f.failAt {
		return 0, errors.New("probe failed")
	}
	d := alpha - f.best
	return d*d + f.floor, nil
}

func (f *fakeProber) CommitStep(alpha float64) error {
	f.committed = append(f.committed, alpha)
	return nil
}

func TestBacktracking_ShrinksUntilDecrease(t *testing.T) {
	// loss(0) = 0.01; loss(1) and loss(0.5) are larger, loss(0.25) ≈ 0.0225 too,
	// loss(0.125) = 0.000625 is the first decrease.
	p := &fakeProber{best: 0.1}
	res, err := optim.NewBacktracking(optim.BacktrackingConfig{}).Search(p)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, 0.125, res.Alpha)
	assert.InDelta(t, 0.000625, res.Loss, 1e-15)
	assert.InDelta(t, 0.01, res.Baseline, 1e-15)
	assert.Equal(t, 5, res.Probes)
	assert.Equal(t, []float64{0, 1, 0.5, 0.25, 0.125}, p.probed)
}

func TestBacktracking_GivesUp(t *testing.T) {
	// Minimum at alpha < 0: no positive step helps.
	p := &fakeProber{best: -1}
	res, err := optim.NewBacktracking(optim.BacktrackingConfig{MaxProbes: 4}).Search(p)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, 0.0, res.Alpha)
	assert.Equal(t, 5, res.Probes)

	p = &fakeProber{best: -1}
	res, err = optim.NewBacktracking(optim.BacktrackingConfig{MinAlpha: 0.3}).Search(p)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, []float64{0, 1, 0.5}, p.probed)
}

func TestBacktracking_Defaults(t *testing.T) {
	p := &fakeProber{best: 3}
	res, err := optim.NewBacktracking(optim.BacktrackingConfig{Shrink: 7, InitialAlpha: -1}).Search(p)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Alpha, "invalid fields fall back to defaults")
}

func TestBacktracking_ProbeError(t *testing.T) {
	p := &fakeProber{best: -1, failAt: 0.5}
	_, err := optim.NewBacktracking(optim.BacktrackingConfig{}).Search(p)
	require.Error(t, err)
}

func TestGrid_PicksBest(t *testing.T) {
	p := &fakeProber{best: 0.12}
	res, err := optim.NewGrid(optim.GridConfig{}).Search(p)
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, 0.1, res.Alpha)
	assert.Equal(t, 1+len(optim.DefaultGridAlphas), res.Probes)
	assert.Equal(t, append([]float64{0}, optim.DefaultGridAlphas...), p.probed)
}

func TestGrid_NoImprovement(t *testing.T) {
	p := &fakeProber{best: 0}
	g := optim.NewGrid(optim.GridConfig{Alphas: []float64{0.5, 2}})
	assert.Equal(t, []float64{0.5, 2}, g.Alphas())

	res, err := g.Search(p)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, 0.0, res.Loss)
}

func TestStep_CommitsOnlyImprovements(t *testing.T) {
	p := &fakeProber{best: 0.3}
	res, err := optim.Step(p, optim.NewGrid(optim.GridConfig{}), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p.cached)
	assert.Equal(t, []float64{0.3}, p.committed)
	assert.Equal(t, 0.3, res.Alpha)

	p = &fakeProber{best: -1}
	_, err = optim.Step(p, optim.NewGrid(optim.GridConfig{}), nil)
	require.NoError(t, err)
	assert.Empty(t, p.committed)
}

func TestStep_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := optim.Step(&fakeProber{best: 1}, optim.NewBacktracking(optim.BacktrackingConfig{}), logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "line search step")
	assert.Contains(t, buf.String(), "accepted=true")
}

func TestStep_ConvergesOnRegression(t *testing.T) {
	// y = 2x - 1 fitted by w, b.
	x := graph.Input("x", tensor.Float64, 1)
	y := graph.Input("y", tensor.Float64, 1)
	w := graph.MustShared("w", tensor.Scalar(tensor.Float64, 0), nil)
	b := graph.MustShared("b", tensor.Scalar(tensor.Float64, 0), nil)
	pred := graph.Add(graph.Mul(w.Node(), x), b.Node())
	loss := graph.MulScalar(graph.Sum(graph.Square(graph.Sub(pred, y))), 0.25)

	ls, err := descent.GradBase([]*graph.Node{x, y}, loss, []*graph.Shared{w, b}, descent.Config{})
	require.NoError(t, err)
	require.NoError(t, ls.CacheInputs(
		tensor.MustFromSlice([]float64{-1, 0, 1, 2}, tensor.Shape{4}),
		tensor.MustFromSlice([]float64{-3, -1, 1, 3}, tensor.Shape{4}),
	))

	search := optim.NewBacktracking(optim.BacktrackingConfig{})
	var last optim.Result
	for range 200 {
		last, err = optim.Step(ls, search, nil)
		require.NoError(t, err)
		if !last.Accepted {
			break
		}
	}
	assert.InDelta(t, 2.0, w.Value().Item(), 1e-3)
	assert.InDelta(t, -1.0, b.Value().Item(), 1e-3)
	assert.Less(t, last.Loss, 1e-5)
	assert.False(t, math.IsNaN(last.Loss))
}
