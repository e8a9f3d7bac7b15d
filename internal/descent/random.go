package descent

import (
	"math/rand/v2"

	"github.com/born-ml/descent/internal/graph"
)

// seedRange bounds the seeds GetSRNG draws for new streams.
const seedRange = 1 << 30

// GetSRNG returns srng, or when it is nil, new streams seeded from the
// process-wide random source.
//
// Pass explicit streams wherever results must be reproducible.
func GetSRNG(srng *graph.RandomStreams) *graph.RandomStreams {
	if srng != nil {
		return srng
	}
	return graph.NewRandomStreams(uint64(rand.Int64N(seedRange)))
}

// MakeUniform returns a node sampling [a, b) uniformly, shaped like s's
// current value and of its dtype.
func MakeUniform(s *graph.Shared, a, b float64, srng *graph.RandomStreams) *graph.Node {
	return GetSRNG(srng).Uniform(s.Value().Shape(), s.DType(), a, b)
}

// MakeNormal returns a node sampling the standard normal distribution,
// shaped like s's current value and of its dtype. Scale and shift the
// result for other parameters.
func MakeNormal(s *graph.Shared, srng *graph.RandomStreams) *graph.Node {
	return GetSRNG(srng).Normal(s.Value().Shape(), s.DType(), 0, 1)
}
