package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/tensor"
)

func TestPublicAPI(t *testing.T) {
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, 3.0, x.At(1, 0))

	z := tensor.ZerosLike(x)
	assert.Equal(t, []float32{0, 0, 0, 0}, z.AsFloat32())

	s := tensor.Scalar(tensor.Float64, 2.5)
	assert.Equal(t, 2.5, s.Item())

	out, _, err := tensor.BroadcastShapes(tensor.Shape{2, 1}, tensor.Shape{3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out)
}
