package cpu

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/descent/internal/tensor"
)

// binaryKernel describes one element-wise binary operation.
type binaryKernel struct {
	name string
	elem func(a, b float64) float64
	// vec is the gonum fast path for float64 operands of identical shape.
	vec func(dst, s, t []float64) []float64
}

var (
	addKernel = binaryKernel{"add", func(a, b float64) float64 { return a + b }, floats.AddTo}
	subKernel = binaryKernel{"sub", func(a, b float64) float64 { return a - b }, floats.SubTo}
	mulKernel = binaryKernel{"mul", func(a, b float64) float64 { return a * b }, floats.MulTo}
	divKernel = binaryKernel{"div", func(a, b float64) float64 { return a / b }, floats.DivTo}
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(addKernel, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(subKernel, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(mulKernel, a, b)
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE 754 (±Inf or NaN).
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(divKernel, a, b)
}

func (cpu *CPUBackend) binary(k binaryKernel, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, errors.WithMessage(err, k.name)
	}

	dtype := tensor.Promote(a.DType(), b.DType())
	result, err := tensor.NewRaw(outShape, dtype)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s: failed to create result tensor", k.name)
	}

	switch {
	case needsBroadcast:
		cpu.binaryBroadcast(k, result, a, b)
	case a.DType() == tensor.Float64 && b.DType() == tensor.Float64:
		dst, s, t := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		cpu.chunks(len(dst), func(lo, hi int) {
			k.vec(dst[lo:hi], s[lo:hi], t[lo:hi])
		})
	case a.DType() == tensor.Float32 && b.DType() == tensor.Float32:
		dst, s, t := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		cpu.chunks(len(dst), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = float32(k.elem(float64(s[i]), float64(t[i])))
			}
		})
	default:
		// Mixed dtypes: promote through float64 views.
		dst, s, t := result.AsFloat64(), a.Float64s(), b.Float64s()
		cpu.chunks(len(dst), func(lo, hi int) {
			k.vec(dst[lo:hi], s[lo:hi], t[lo:hi])
		})
	}

	return result, nil
}

func (cpu *CPUBackend) binaryBroadcast(k binaryKernel, result, a, b *tensor.RawTensor) {
	outShape := result.Shape()
	aIdx := newBroadcastIndex(a.Shape(), outShape)
	bIdx := newBroadcastIndex(b.Shape(), outShape)

	s, t := a.Float64s(), b.Float64s()
	dst := make([]float64, outShape.NumElements())
	cpu.chunks(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = k.elem(s[aIdx.at(i)], t[bIdx.at(i)])
		}
	})
	_ = result.SetFloat64s(dst) // lengths match by construction
}
