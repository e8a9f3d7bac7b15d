package cpu

import (
	"github.com/born-ml/descent/internal/tensor"
)

// broadcastIndex maps flat indices of a broadcast output back to flat
// indices of one of its operands.
type broadcastIndex struct {
	outStrides []int
	inStrides  []int
}

func newBroadcastIndex(inShape, outShape tensor.Shape) broadcastIndex {
	return broadcastIndex{
		outStrides: outShape.ComputeStrides(),
		inStrides:  computeBroadcastStridesForShape(inShape, outShape),
	}
}

// at returns the operand index feeding output index outIdx.
func (bi broadcastIndex) at(outIdx int) int {
	flatIdx := 0
	for i, stride := range bi.outStrides {
		coord := outIdx / stride
		outIdx %= stride
		flatIdx += coord * bi.inStrides[i]
	}
	return flatIdx
}

// computeBroadcastStridesForShape computes strides for broadcasting a shape to outShape.
// Returns strides where dimensions of size 1 have stride 0 (for broadcasting).
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Pad input shape with 1s on the left
	inDim := len(inShape)
	offset := outDim - inDim
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}
