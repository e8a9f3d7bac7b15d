package tensor

import "github.com/pkg/errors"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t, err := tensor.Zeros(tensor.Shape{3, 4}, tensor.Float32)
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype)
}

// ZerosLike creates a zero tensor with t's shape and dtype.
func ZerosLike(t *RawTensor) *RawTensor {
	out, err := NewRaw(t.Shape(), t.DType())
	if err != nil {
		panic(err) // t already holds a valid shape and dtype
	}
	return out
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t, err := tensor.Full(tensor.Shape{3, 3}, tensor.Float64, 3.14)
func Full(shape Shape, dtype DataType, value float64) (*RawTensor, error) {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if dtype == Float32 {
		for i := range t.f32 {
			t.f32[i] = float32(value)
		}
		return t, nil
	}
	for i := range t.f64 {
		t.f64[i] = value
	}
	return t, nil
}

// Scalar creates a 0-d tensor holding value.
func Scalar(dtype DataType, value float64) *RawTensor {
	t, err := Full(Shape{}, dtype, value)
	if err != nil {
		panic(err) // only reachable with an invalid dtype
	}
	return t
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
//
// Example:
//
//	t, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T Float](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, errors.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	t, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}

	switch src := any(data).(type) {
	case []float32:
		copy(t.f32, src)
	case []float64:
		copy(t.f64, src)
	}
	return t, nil
}

// MustFromSlice is like FromSlice but panics on error.
// Intended for literals in tests and examples.
func MustFromSlice[T Float](data []T, shape Shape) *RawTensor {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}
