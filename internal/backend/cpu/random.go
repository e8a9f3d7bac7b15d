package cpu

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/descent/internal/tensor"
)

// Uniform returns a tensor of the given shape and dtype with samples drawn
// uniformly from [low, high) using src.
func (cpu *CPUBackend) Uniform(shape tensor.Shape, dtype tensor.DataType, low, high float64, src rand.Source) (*tensor.RawTensor, error) {
	dist := distuv.Uniform{Min: low, Max: high, Src: src}
	return sample(shape, dtype, dist.Rand)
}

// Normal returns a tensor of the given shape and dtype with samples drawn
// from N(mean, std²) using src.
func (cpu *CPUBackend) Normal(shape tensor.Shape, dtype tensor.DataType, mean, std float64, src rand.Source) (*tensor.RawTensor, error) {
	dist := distuv.Normal{Mu: mean, Sigma: std, Src: src}
	return sample(shape, dtype, dist.Rand)
}

// sample fills a new tensor sequentially; sources are not safe for
// concurrent use, so random kernels never go through chunks.
func sample(shape tensor.Shape, dtype tensor.DataType, draw func() float64) (*tensor.RawTensor, error) {
	result, err := tensor.NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	values := make([]float64, result.NumElements())
	for i := range values {
		values[i] = draw()
	}
	_ = result.SetFloat64s(values)
	return result, nil
}
