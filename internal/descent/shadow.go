package descent

import (
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

// MakeCopy returns a new shared variable of s's shape, dtype and
// broadcastable pattern, filled with zeros. It does not share storage
// with s.
func MakeCopy(s *graph.Shared) *graph.Shared {
	return graph.MustShared(s.Name()+"_copy", tensor.ZerosLike(s.Value()), s.Broadcastable())
}

// ToShared returns an empty shared variable able to hold values of x:
// x's dtype, rank and broadcastable pattern, every dimension zero-length
// until the first assignment.
func ToShared(x *graph.Node) *graph.Shared {
	name := x.Name()
	if name == "" {
		name = x.Op().String()
	}
	s, err := graph.NewEmptyShared(name+"_cached", x.DType(), x.Broadcastable())
	if err != nil {
		// Only an invalid dtype fails, and nodes always carry a valid one.
		panic(err)
	}
	return s
}
