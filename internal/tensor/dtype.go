// Package tensor provides the dense numeric buffers the graph evaluates on.
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Valid reports whether dt is one of the supported data types.
func (dt DataType) Valid() bool {
	return dt == Float32 || dt == Float64
}

// Promote returns the data type of a binary operation between a and b.
// Mixing float32 and float64 always yields float64.
func Promote(a, b DataType) DataType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Float32
}

// Float is the constraint for Go element types a tensor can be built from.
type Float interface {
	float32 | float64
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Float](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	default:
		return Float64
	}
}
