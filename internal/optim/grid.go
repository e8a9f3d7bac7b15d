package optim

import "slices"

// DefaultGridAlphas are the step sizes Grid tries when none are configured.
var DefaultGridAlphas = []float64{1, 0.3, 0.1, 0.03, 0.01}

// Grid probes a fixed list of step sizes and keeps the one with the lowest
// loss. Ties go to the earlier entry.
type Grid struct {
	alphas []float64
}

// GridConfig holds configuration for Grid.
type GridConfig struct {
	Alphas []float64 // Step sizes to probe (default: DefaultGridAlphas)
}

// NewGrid creates a Grid search.
func NewGrid(config GridConfig) *Grid {
	alphas := config.Alphas
	if len(alphas) == 0 {
		alphas = DefaultGridAlphas
	}
	return &Grid{alphas: slices.Clone(alphas)}
}

// Alphas returns the probed step sizes.
func (g *Grid) Alphas() []float64 { return slices.Clone(g.alphas) }

// Search implements Searcher.
func (g *Grid) Search(p Prober) (Result, error) {
	res, err := baseline(p)
	if err != nil {
		return res, err
	}

	for _, alpha := range g.alphas {
		l, err := p.Loss(alpha)
		res.Probes++
		if err != nil {
			return res, err
		}
		if improves(l, res.Loss) {
			res.Alpha, res.Loss, res.Accepted = alpha, l, true
		}
	}
	return res, nil
}
