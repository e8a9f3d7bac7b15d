package descent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/descent"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

func TestGetSRNG(t *testing.T) {
	srng := graph.NewRandomStreams(7)
	assert.Same(t, srng, descent.GetSRNG(srng))

	fresh := descent.GetSRNG(nil)
	require.NotNil(t, fresh)
	assert.Less(t, fresh.Seed(), uint64(1<<30))
}

func TestMakeUniform(t *testing.T) {
	w := graph.MustShared("w", tensor.MustFromSlice(make([]float32, 6), tensor.Shape{2, 3}), nil)
	u := descent.MakeUniform(w, -2, 5, graph.NewRandomStreams(1))

	assert.Equal(t, tensor.Float32, u.DType())
	assert.Equal(t, 2, u.NDim())

	v := evalNode(t, u)
	assert.Equal(t, tensor.Shape{2, 3}, v.Shape())
	for _, x := range v.AsFloat32() {
		assert.GreaterOrEqual(t, x, float32(-2))
		assert.Less(t, x, float32(5))
	}
}

func TestMakeNormal_Reproducible(t *testing.T) {
	w := graph.MustShared("w", tensor.MustFromSlice(make([]float64, 500), tensor.Shape{500}), nil)

	a := evalNode(t, descent.MakeNormal(w, graph.NewRandomStreams(3))).AsFloat64()
	b := evalNode(t, descent.MakeNormal(w, graph.NewRandomStreams(3))).AsFloat64()
	assert.Equal(t, a, b, "same seed, same draws")

	var mean float64
	for _, x := range a {
		mean += x
	}
	mean /= float64(len(a))
	assert.InDelta(t, 0, mean, 0.2)
}

func TestMakeNormal_NilStreams(t *testing.T) {
	w := graph.MustShared("w", tensor.Scalar(tensor.Float64, 0), nil)
	n := descent.MakeNormal(w, nil)
	assert.Equal(t, 0, n.NDim())
	assert.Equal(t, tensor.Shape{}, evalNode(t, n).Shape())
}
