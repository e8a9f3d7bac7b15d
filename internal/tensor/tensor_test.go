package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dtype.Size(), "%s.Size()", tt.dtype)
	}
}

func TestDataTypeString(t *testing.T) {
	assert.Equal(t, "float32", Float32.String())
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "unknown", DataType(42).String())
}

func TestPromote(t *testing.T) {
	assert.Equal(t, Float32, Promote(Float32, Float32))
	assert.Equal(t, Float64, Promote(Float32, Float64))
	assert.Equal(t, Float64, Promote(Float64, Float32))
	assert.Equal(t, Float64, Promote(Float64, Float64))
}

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{3, 4}, 12},
		{Shape{2, 3, 4}, 24},
		{Shape{0}, 0},
		{Shape{0, 0}, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.shape.NumElements(), "Shape%v.NumElements()", tt.shape)
	}
}

func TestShapeValidation(t *testing.T) {
	for _, s := range []Shape{{}, {1}, {3, 4}, {0}, {0, 0, 0}} {
		assert.NoError(t, s.Validate(), "Shape%v.Validate()", s)
	}
	for _, s := range []Shape{{-1}, {3, -4}} {
		assert.Error(t, s.Validate(), "Shape%v.Validate() should fail", s)
	}
}

func TestShapeEqual(t *testing.T) {
	tests := []struct {
		a, b  Shape
		equal bool
	}{
		{Shape{3, 4}, Shape{3, 4}, true},
		{Shape{3, 4}, Shape{4, 3}, false},
		{Shape{3}, Shape{3, 1}, false},
		{Shape{}, Shape{}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.equal, tt.a.Equal(tt.b), "Shape%v.Equal(%v)", tt.a, tt.b)
	}
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, "(2, 3)", Shape{2, 3}.String())
}

func TestComputeStrides(t *testing.T) {
	assert.Equal(t, []int{}, Shape{}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{4}.ComputeStrides())
	assert.Equal(t, []int{4, 1}, Shape{3, 4}.ComputeStrides())
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		expected  Shape
		shouldErr bool
	}{
		// Compatible shapes
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, false},
		{Shape{3, 4}, Shape{3, 4}, Shape{3, 4}, false},
		{Shape{}, Shape{3, 4}, Shape{3, 4}, false},
		{Shape{3, 4}, Shape{1}, Shape{3, 4}, false},

		// Incompatible shapes
		{Shape{3, 4}, Shape{3, 5}, nil, true},
		{Shape{2, 3}, Shape{3, 3}, nil, true},
	}

	for _, tt := range tests {
		got, _, err := BroadcastShapes(tt.a, tt.b)
		if tt.shouldErr {
			assert.Error(t, err, "BroadcastShapes(%v, %v)", tt.a, tt.b)
			continue
		}
		require.NoError(t, err, "BroadcastShapes(%v, %v)", tt.a, tt.b)
		assert.True(t, got.Equal(tt.expected), "BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
	}
}

func TestBroadcastShapes_NeedsFlag(t *testing.T) {
	_, needs, err := BroadcastShapes(Shape{3, 4}, Shape{3, 4})
	require.NoError(t, err)
	assert.False(t, needs)

	_, needs, err = BroadcastShapes(Shape{}, Shape{4})
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestBroadcastable(t *testing.T) {
	b := BroadcastableOf(Shape{1, 3, 1})
	assert.Equal(t, Broadcastable{true, false, true}, b)

	assert.True(t, b.Admits(Shape{1, 7, 1}))
	assert.False(t, b.Admits(Shape{2, 3, 1}), "pinned dim must stay 1")
	assert.False(t, b.Admits(Shape{1, 3}), "rank must match")

	c := b.Clone()
	c[0] = false
	assert.True(t, b[0], "Clone must not alias")
	assert.False(t, b.Equal(c))
}

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{3, 4}, Float32)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(Shape{3, 4}))
	assert.Equal(t, Float32, raw.DType())
	assert.Equal(t, 12, raw.NumElements())
	assert.Equal(t, 48, raw.ByteSize())
	assert.Equal(t, 2, raw.NDim())
	for _, v := range raw.AsFloat32() {
		assert.Zero(t, v)
	}

	_, err = NewRaw(Shape{-1}, Float32)
	assert.Error(t, err)

	_, err = NewRaw(Shape{2}, DataType(9))
	assert.Error(t, err)
}

func TestNewRaw_Empty(t *testing.T) {
	raw, err := NewRaw(Shape{0, 0}, Float64)
	require.NoError(t, err)
	assert.Equal(t, 0, raw.NumElements())
	assert.Empty(t, raw.AsFloat64())
	assert.Empty(t, raw.Clone().Float64s())
}

func TestRawTensor_WrongDTypeView(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32)
	require.NoError(t, err)
	assert.Panics(t, func() { raw.AsFloat64() })
}

func TestRawTensorClone(t *testing.T) {
	original := MustFromSlice([]float32{1, 2, 3, 4}, Shape{2, 2})
	clone := original.Clone()

	clone.AsFloat32()[0] = 99
	assert.Equal(t, float32(1), original.AsFloat32()[0], "Clone must own independent storage")
	assert.True(t, clone.Shape().Equal(original.Shape()))
	assert.Equal(t, original.DType(), clone.DType())
}

func TestRawTensorCast(t *testing.T) {
	src := MustFromSlice([]float64{0.1, 2.5}, Shape{2})

	f32, err := src.Cast(Float32)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 2.5}, f32.AsFloat32())

	same, err := src.Cast(Float64)
	require.NoError(t, err)
	same.AsFloat64()[0] = 7
	assert.InDelta(t, 0.1, src.AsFloat64()[0], 1e-15, "Cast to same dtype still copies")
}

func TestRawTensorReshape(t *testing.T) {
	src := MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	out, err := src.Reshape(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.At(1, 1))
	assert.Equal(t, []int{2, 1}, out.Strides())

	_, err = src.Reshape(Shape{4})
	assert.Error(t, err)
}

func TestRawTensorAtAndItem(t *testing.T) {
	raw := MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	assert.Equal(t, 6.0, raw.At(1, 2))
	assert.Panics(t, func() { raw.At(2, 0) })
	assert.Panics(t, func() { raw.At(0) })
	assert.Panics(t, func() { raw.Item() })

	assert.Equal(t, 3.5, Scalar(Float64, 3.5).Item())
}

func TestFloat64sRoundTrip(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32)
	require.NoError(t, err)

	require.NoError(t, raw.SetFloat64s([]float64{1.5, -2, math.Pi}))
	got := raw.Float64s()
	assert.InDelta(t, math.Pi, got[2], 1e-6)
	assert.Equal(t, float32(math.Pi), raw.AsFloat32()[2])

	assert.Error(t, raw.SetFloat64s([]float64{1}))
}

func TestCreation(t *testing.T) {
	z, err := Zeros(Shape{2, 2}, Float64)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, z.AsFloat64())

	f, err := Full(Shape{3}, Float32, 2.5)
	require.NoError(t, err)
	assert.Equal(t, []float32{2.5, 2.5, 2.5}, f.AsFloat32())

	like := ZerosLike(f)
	assert.True(t, like.Shape().Equal(f.Shape()))
	assert.Equal(t, Float32, like.DType())

	s := Scalar(Float32, 4)
	assert.Equal(t, 0, s.NDim())
	assert.Equal(t, 4.0, s.Item())
}

func TestFromSlice(t *testing.T) {
	raw, err := FromSlice([]float64{1, 2, 3}, Shape{3})
	require.NoError(t, err)
	assert.Equal(t, Float64, raw.DType())

	_, err = FromSlice([]float32{1, 2, 3}, Shape{2, 2})
	assert.Error(t, err)

	assert.Panics(t, func() { MustFromSlice([]float32{1}, Shape{2}) })
}
