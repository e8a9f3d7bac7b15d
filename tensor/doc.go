// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the numeric buffers expression graphs compute on.
//
// # Overview
//
// A Tensor is a dense, row-major array of float32 or float64 values with
// an explicit shape:
//   - Shape: dimensions, scalars have an empty shape
//   - DataType: Float32 or Float64
//   - Broadcastable: per-dimension flags pinning a size of 1
//
// # Basic Usage
//
//	t, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(t)             // Tensor[float32](2, 2)
//	fmt.Println(t.At(1, 0))    // 3
//	f64, _ := t.Cast(tensor.Float64)
package tensor
