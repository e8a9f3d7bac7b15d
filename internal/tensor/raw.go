package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// RawTensor is the low-level tensor representation: dense row-major
// storage plus shape and dtype metadata.
//
// Exactly one of f32 / f64 is allocated, according to dtype. A RawTensor
// owns its storage; Clone always copies, so two tensors never alias.
type RawTensor struct {
	shape  Shape    // Tensor dimensions
	stride []int    // Memory strides (row-major)
	dtype  DataType // Runtime type information
	f32    []float32
	f64    []float64
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	if !dtype.Valid() {
		return nil, errors.Errorf("unsupported dtype %d", dtype)
	}

	r := &RawTensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}
	n := shape.NumElements()
	if dtype == Float32 {
		r.f32 = make([]float32, n)
	} else {
		r.f64 = make([]float64, n)
	}
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// NDim returns the tensor's rank.
func (r *RawTensor) NDim() int {
	return len(r.shape)
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// AsFloat32 returns the storage as []float32.
// Panics if the tensor's dtype is not Float32.
//
// WARNING: the slice aliases the tensor's memory.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return r.f32
}

// AsFloat64 returns the storage as []float64.
// Panics if the tensor's dtype is not Float64.
//
// WARNING: the slice aliases the tensor's memory.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return r.f64
}

// Float64s returns a float64 copy of the data regardless of dtype.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	if r.dtype == Float64 {
		copy(out, r.f64)
		return out
	}
	for i, v := range r.f32 {
		out[i] = float64(v)
	}
	return out
}

// SetFloat64s overwrites the data from a float64 slice of the same length,
// rounding to float32 when needed.
func (r *RawTensor) SetFloat64s(data []float64) error {
	if len(data) != r.NumElements() {
		return errors.Errorf("shape %v requires %d elements, but got %d", r.shape, r.NumElements(), len(data))
	}
	if r.dtype == Float64 {
		copy(r.f64, data)
		return nil
	}
	for i, v := range data {
		r.f32[i] = float32(v)
	}
	return nil
}

// Item returns the value of a single-element tensor as float64.
// Panics if the tensor holds more than one element.
func (r *RawTensor) Item() float64 {
	if r.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", r.shape))
	}
	if r.dtype == Float32 {
		return float64(r.f32[0])
	}
	return r.f64[0]
}

// At returns the element at the given indices as float64.
// Panics if indices are out of bounds.
func (r *RawTensor) At(indices ...int) float64 {
	if len(indices) != len(r.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(r.shape), len(indices)))
	}

	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= r.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, r.shape[i]))
		}
		offset += idx * r.stride[i]
	}

	if r.dtype == Float32 {
		return float64(r.f32[offset])
	}
	return r.f64[offset]
}

// Clone creates a deep copy of the tensor with independent storage.
func (r *RawTensor) Clone() *RawTensor {
	c := &RawTensor{
		shape:  r.shape.Clone(),
		stride: r.shape.ComputeStrides(),
		dtype:  r.dtype,
	}
	if r.dtype == Float32 {
		c.f32 = make([]float32, len(r.f32))
		copy(c.f32, r.f32)
	} else {
		c.f64 = make([]float64, len(r.f64))
		copy(c.f64, r.f64)
	}
	return c
}

// Cast returns a copy of the tensor converted to dtype.
// Casting to the same dtype still copies.
func (r *RawTensor) Cast(dtype DataType) (*RawTensor, error) {
	if dtype == r.dtype {
		return r.Clone(), nil
	}
	out, err := NewRaw(r.shape, dtype)
	if err != nil {
		return nil, err
	}
	if err := out.SetFloat64s(r.Float64s()); err != nil {
		return nil, err
	}
	return out, nil
}

// Reshape returns a copy of the tensor with a new shape holding the same
// number of elements.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	if shape.NumElements() != r.NumElements() {
		return nil, errors.Errorf("cannot reshape %v (%d elements) to %v", r.shape, r.NumElements(), shape)
	}
	out := r.Clone()
	out.shape = shape.Clone()
	out.stride = shape.ComputeStrides()
	return out, nil
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("Tensor[%s]%v", r.dtype, r.shape)
}
