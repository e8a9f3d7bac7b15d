package cpu

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/descent/internal/tensor"
)

// Sum reduces every element of x to a 0-d tensor of the same dtype.
// The sum of an empty tensor is zero.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	var total float64
	if x.DType() == tensor.Float64 {
		total = floats.Sum(x.AsFloat64())
	} else {
		total = floats.Sum(x.Float64s())
	}
	return tensor.Scalar(x.DType(), total), nil
}

// SumTo reduces x to shape by summing over the dimensions that
// broadcasting expanded. shape must broadcast to x's shape.
//
// Example:
//
//	x: (3, 4), shape: (1, 4) → column sums, shape (1, 4)
//	x: (3, 4), shape: ()     → total sum, shape ()
func (cpu *CPUBackend) SumTo(x *tensor.RawTensor, shape tensor.Shape) (*tensor.RawTensor, error) {
	if shape.Equal(x.Shape()) {
		return x.Clone(), nil
	}
	target, _, err := tensor.BroadcastShapes(shape, x.Shape())
	if err != nil || !target.Equal(x.Shape()) {
		return nil, errors.Errorf("sumto: cannot reduce %v to %v", x.Shape(), shape)
	}

	src := x.Float64s()
	dst := make([]float64, shape.NumElements())
	idx := newBroadcastIndex(shape, x.Shape())
	for i, v := range src {
		dst[idx.at(i)] += v
	}

	result, err := tensor.NewRaw(shape, x.DType())
	if err != nil {
		return nil, errors.WithMessage(err, "sumto")
	}
	_ = result.SetFloat64s(dst)
	return result, nil
}

// BroadcastTo expands x to shape following NumPy broadcasting rules.
func (cpu *CPUBackend) BroadcastTo(x *tensor.RawTensor, shape tensor.Shape) (*tensor.RawTensor, error) {
	if shape.Equal(x.Shape()) {
		return x.Clone(), nil
	}
	target, _, err := tensor.BroadcastShapes(x.Shape(), shape)
	if err != nil || !target.Equal(shape) {
		return nil, errors.Errorf("broadcastto: cannot broadcast %v to %v", x.Shape(), shape)
	}

	src := x.Float64s()
	dst := make([]float64, shape.NumElements())
	idx := newBroadcastIndex(x.Shape(), shape)
	cpu.chunks(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = src[idx.at(i)]
		}
	})

	result, err := tensor.NewRaw(shape, x.DType())
	if err != nil {
		return nil, errors.WithMessage(err, "broadcastto")
	}
	_ = result.SetFloat64s(dst)
	return result, nil
}
