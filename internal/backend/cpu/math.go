package cpu

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/descent/internal/tensor"
)

// Neg computes element-wise negation: -x.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if x.DType() == tensor.Float64 {
		result := tensor.ZerosLike(x)
		dst, src := result.AsFloat64(), x.AsFloat64()
		cpu.chunks(len(dst), func(lo, hi int) {
			floats.ScaleTo(dst[lo:hi], -1, src[lo:hi])
		})
		return result, nil
	}
	return cpu.unary(x, func(v float64) float64 { return -v }), nil
}

// Exp computes element-wise exponential: exp(x).
// Large inputs overflow to +Inf.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary(x, math.Exp), nil
}

// Log computes element-wise natural logarithm: ln(x).
// Zero maps to -Inf and negative values to NaN.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary(x, math.Log), nil
}

// Sqrt computes element-wise square root: sqrt(x).
// Negative values map to NaN.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary(x, math.Sqrt), nil
}

// Square computes element-wise x².
func (cpu *CPUBackend) Square(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary(x, func(v float64) float64 { return v * v }), nil
}

// unary applies f element-wise, computing in float64 and rounding back for
// float32 tensors.
func (cpu *CPUBackend) unary(x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := tensor.ZerosLike(x)

	switch x.DType() {
	case tensor.Float32:
		src := x.AsFloat32()
		dst := result.AsFloat32()
		cpu.chunks(len(dst), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = float32(f(float64(src[i])))
			}
		})
	default:
		src := x.AsFloat64()
		dst := result.AsFloat64()
		cpu.chunks(len(dst), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = f(src[i])
			}
		})
	}

	return result
}
