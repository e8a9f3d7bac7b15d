package optim

// Backtracking tries a large step first and shrinks it geometrically
// until the loss decreases.
//
// Search rule:
//
//	alpha = InitialAlpha
//	while loss(alpha) >= loss(0):
//	    alpha = Shrink * alpha
//
// Non-finite losses count as no decrease, so steps that overflow are
// shrunk as well.
//
// Example:
//
//	search := optim.NewBacktracking(optim.BacktrackingConfig{
//	    InitialAlpha: 0.5,
//	    Shrink:       0.3,
//	})
type Backtracking struct {
	initialAlpha float64
	shrink       float64
	maxProbes    int
	minAlpha     float64
}

// BacktrackingConfig holds configuration for Backtracking.
type BacktrackingConfig struct {
	InitialAlpha float64 // First step tried (default: 1.0)
	Shrink       float64 // Factor applied after a failed probe (default: 0.5, range: (0, 1))
	MaxProbes    int     // Probes per search, baseline excluded (default: 20)
	MinAlpha     float64 // Smallest step tried (default: 1e-10)
}

// NewBacktracking creates a Backtracking search, filling in defaults for
// zero or out-of-range fields.
func NewBacktracking(config BacktrackingConfig) *Backtracking {
	if config.InitialAlpha <= 0 {
		config.InitialAlpha = 1.0
	}
	if config.Shrink <= 0 || config.Shrink >= 1 {
		config.Shrink = 0.5
	}
	if config.MaxProbes <= 0 {
		config.MaxProbes = 20
	}
	if config.MinAlpha <= 0 {
		config.MinAlpha = 1e-10
	}

	return &Backtracking{
		initialAlpha: config.InitialAlpha,
		shrink:       config.Shrink,
		maxProbes:    config.MaxProbes,
		minAlpha:     config.MinAlpha,
	}
}

// Search implements Searcher.
func (b *Backtracking) Search(p Prober) (Result, error) {
	res, err := baseline(p)
	if err != nil {
		return res, err
	}

	alpha := b.initialAlpha
	for i := 0; i < b.maxProbes && alpha >= b.minAlpha; i++ {
		l, err := p.Loss(alpha)
		res.Probes++
		if err != nil {
			return res, err
		}
		if improves(l, res.Baseline) {
			res.Alpha, res.Loss, res.Accepted = alpha, l, true
			return res, nil
		}
		alpha *= b.shrink
	}
	return res, nil
}
