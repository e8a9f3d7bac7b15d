// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/descent/internal/tensor"
)

// Tensor is a dense numeric array.
//
// Example:
//
//	t, _ := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32)
//	data := t.AsFloat32() // direct access, len 6
//	clone := t.Clone()    // independent copy
type Tensor = tensor.RawTensor

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Broadcastable marks the dimensions pinned to size 1.
type Broadcastable = tensor.Broadcastable

// Float is the set of element types a tensor can hold.
type Float = tensor.Float

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// New creates a zero-filled tensor.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.Zeros(shape, dtype)
}

// ZerosLike creates zeros with t's shape and dtype.
func ZerosLike(t *Tensor) *Tensor {
	return tensor.ZerosLike(t)
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, dtype DataType, value float64) (*Tensor, error) {
	return tensor.Full(shape, dtype, value)
}

// Scalar creates a 0-d tensor.
func Scalar(dtype DataType, value float64) *Tensor {
	return tensor.Scalar(dtype, value)
}

// FromSlice creates a tensor from a copy of data.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3})
func FromSlice[T Float](data []T, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice[T Float](data []T, shape Shape) *Tensor {
	return tensor.MustFromSlice(data, shape)
}

// BroadcastShapes returns the shape two operands broadcast to.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// BroadcastableOf returns the flags implied by a concrete shape.
func BroadcastableOf(s Shape) Broadcastable {
	return tensor.BroadcastableOf(s)
}
