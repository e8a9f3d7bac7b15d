package descent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/descent"
	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

func TestMakeCopy(t *testing.T) {
	src := graph.MustShared("w",
		tensor.MustFromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}),
		tensor.Broadcastable{true, false})

	cp := descent.MakeCopy(src)
	require.NotSame(t, src, cp)
	assert.Equal(t, tensor.Shape{1, 3}, cp.Value().Shape())
	assert.Equal(t, tensor.Float32, cp.DType())
	assert.Equal(t, src.Broadcastable(), cp.Broadcastable())
	assert.Equal(t, []float32{0, 0, 0}, cp.Value().AsFloat32())

	cp.Value().AsFloat32()[0] = 9
	assert.Equal(t, []float32{1, 2, 3}, src.Value().AsFloat32())
	src.Value().AsFloat32()[1] = 7
	assert.Equal(t, []float32{9, 0, 0}, cp.Value().AsFloat32())
}

func TestToShared(t *testing.T) {
	x := graph.Input("x", tensor.Float64, 3)
	s := descent.ToShared(x)

	assert.Equal(t, tensor.Float64, s.DType())
	assert.Equal(t, 3, s.NDim())
	assert.Equal(t, tensor.Shape{0, 0, 0}, s.Value().Shape())
	assert.Equal(t, x.Broadcastable(), s.Broadcastable())

	// Filled later by assignment of any shape of the right rank.
	v, err := tensor.Zeros(tensor.Shape{2, 1, 4}, tensor.Float64)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(v))

	scalar := descent.ToShared(graph.Sum(x))
	assert.Equal(t, 0, scalar.NDim())
}
