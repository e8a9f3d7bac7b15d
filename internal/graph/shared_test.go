package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/graph"
	"github.com/born-ml/descent/internal/tensor"
)

func TestNewShared(t *testing.T) {
	s, err := graph.NewShared("w", tensor.MustFromSlice([]float32{1, 2}, tensor.Shape{1, 2}), nil)
	require.NoError(t, err)

	assert.Equal(t, "w", s.Name())
	assert.Equal(t, tensor.Float32, s.DType())
	assert.Equal(t, 2, s.NDim())
	assert.Equal(t, tensor.Broadcastable{false, false}, s.Broadcastable())
	assert.Same(t, s.Node(), s.Node(), "node identity is stable")
	assert.Same(t, s, s.Node().Shared())

	_, err = graph.NewShared("nil", nil, nil)
	assert.Error(t, err)

	_, err = graph.NewShared("bad", tensor.MustFromSlice([]float32{1, 2}, tensor.Shape{2}), tensor.Broadcastable{true})
	assert.Error(t, err, "pinned dim of size 2")
}

func TestShared_SetValue(t *testing.T) {
	s := graph.MustShared("b", tensor.MustFromSlice([]float64{0}, tensor.Shape{1, 1}), tensor.Broadcastable{true, false})

	require.NoError(t, s.SetValue(tensor.MustFromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3})))
	assert.True(t, s.Value().Shape().Equal(tensor.Shape{1, 3}))

	assert.Error(t, s.SetValue(tensor.MustFromSlice([]float64{1, 2}, tensor.Shape{2, 1})), "broadcastable dim")
	assert.Error(t, s.SetValue(tensor.MustFromSlice([]float64{1, 2}, tensor.Shape{2})), "rank")
	assert.Error(t, s.SetValue(tensor.MustFromSlice([]float32{1}, tensor.Shape{1, 1})), "dtype")
	assert.Error(t, s.SetValue(nil))
}

func TestNewEmptyShared(t *testing.T) {
	s, err := graph.NewEmptyShared("cache", tensor.Float32, tensor.Broadcastable{false, true})
	require.NoError(t, err)

	assert.True(t, s.Value().Shape().Equal(tensor.Shape{0, 0}))
	assert.Equal(t, 0, s.Value().NumElements())
	require.NoError(t, s.SetValue(tensor.MustFromSlice([]float32{1, 2}, tensor.Shape{2, 1})))
	assert.Error(t, s.SetValue(tensor.MustFromSlice([]float32{1, 2}, tensor.Shape{1, 2})))
}
