package graph

import (
	"math/rand/v2"

	"github.com/born-ml/descent/internal/tensor"
)

// RandomStreams hands out random nodes derived from one seed.
//
// Each node it creates owns an independent stream. Evaluating a node
// draws from the stream's current position; compiled functions advance
// the position after each call (the node's default update) unless built
// with NoDefaultUpdates, in which case every call repeats the same draw.
type RandomStreams struct {
	seed    uint64
	streams uint64
}

// NewRandomStreams creates a stream factory seeded with seed.
func NewRandomStreams(seed uint64) *RandomStreams {
	return &RandomStreams{seed: seed}
}

// Seed returns the seed the streams derive from.
func (rs *RandomStreams) Seed() uint64 { return rs.seed }

// Uniform returns a node sampling shape values uniformly from [low, high).
func (rs *RandomStreams) Uniform(shape tensor.Shape, dtype tensor.DataType, low, high float64) *Node {
	return rs.newRandom(distUniform, shape, dtype, low, high)
}

// Normal returns a node sampling shape values from N(mean, std²).
func (rs *RandomStreams) Normal(shape tensor.Shape, dtype tensor.DataType, mean, std float64) *Node {
	return rs.newRandom(distNormal, shape, dtype, mean, std)
}

func (rs *RandomStreams) newRandom(dist distribution, shape tensor.Shape, dtype tensor.DataType, a, b float64) *Node {
	rs.streams++
	n := newNode(OpRandom, dtype, tensor.BroadcastableOf(shape))
	n.random = &randomState{
		dist:   dist,
		shape:  shape.Clone(),
		a:      a,
		b:      b,
		seed:   rs.seed,
		stream: rs.streams,
	}
	return n
}

type distribution int

const (
	distUniform distribution = iota
	distNormal
)

// randomState is the mutable part of an OpRandom node.
type randomState struct {
	dist   distribution
	shape  tensor.Shape
	a, b   float64 // [low, high) or (mean, std)
	seed   uint64
	stream uint64
	draws  uint64
}

func (rs *randomState) source() rand.Source {
	return rand.NewPCG(rs.seed^(rs.stream*0x9e3779b97f4a7c15), rs.draws)
}

// AdvanceRandom moves a random node to its next draw. It is a no-op for
// other nodes.
func AdvanceRandom(n *Node) {
	if n.random != nil {
		n.random.draws++
	}
}
