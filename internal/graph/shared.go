package graph

import (
	"github.com/pkg/errors"

	"github.com/born-ml/descent/internal/tensor"
)

// Shared is a named mutable buffer living outside any single evaluation:
// trainable parameters and the caches optimizers keep between calls.
//
// Its dtype and rank are fixed at creation; its shape may change on
// assignment, except that broadcastable dimensions must stay of size 1.
// Shared is not safe for concurrent use.
type Shared struct {
	name          string
	dtype         tensor.DataType
	broadcastable tensor.Broadcastable
	value         *tensor.RawTensor
	node          *Node
}

// NewShared creates a shared variable holding value. The Shared takes
// ownership of value.
//
// A nil broadcastable marks no dimension as broadcastable.
//
// Example:
//
//	w, err := graph.NewShared("w", tensor.MustFromSlice([]float32{0}, tensor.Shape{1}), nil)
//	loss := graph.Sum(graph.Square(graph.AddScalar(w.Node(), -3)))
func NewShared(name string, value *tensor.RawTensor, broadcastable tensor.Broadcastable) (*Shared, error) {
	if value == nil {
		return nil, errors.Errorf("shared %q: nil value", name)
	}
	if broadcastable == nil {
		broadcastable = make(tensor.Broadcastable, value.NDim())
	}
	if !broadcastable.Admits(value.Shape()) {
		return nil, errors.Errorf("shared %q: shape %v does not satisfy broadcastable pattern %v",
			name, value.Shape(), broadcastable)
	}
	return newShared(name, value, broadcastable), nil
}

// MustShared is like NewShared but panics on error.
func MustShared(name string, value *tensor.RawTensor, broadcastable tensor.Broadcastable) *Shared {
	s, err := NewShared(name, value, broadcastable)
	if err != nil {
		panic(err)
	}
	return s
}

// NewEmptyShared creates a shared variable of rank len(broadcastable)
// whose every dimension has length zero. It is meant to be filled by a
// later assignment; the broadcastable pattern is enforced from then on.
func NewEmptyShared(name string, dtype tensor.DataType, broadcastable tensor.Broadcastable) (*Shared, error) {
	value, err := tensor.NewRaw(make(tensor.Shape, len(broadcastable)), dtype)
	if err != nil {
		return nil, errors.WithMessagef(err, "shared %q", name)
	}
	return newShared(name, value, broadcastable.Clone()), nil
}

func newShared(name string, value *tensor.RawTensor, broadcastable tensor.Broadcastable) *Shared {
	s := &Shared{
		name:          name,
		dtype:         value.DType(),
		broadcastable: broadcastable,
		value:         value,
	}
	s.node = newNode(OpShared, s.dtype, broadcastable.Clone())
	s.node.name = name
	s.node.shared = s
	return s
}

// Name returns the variable's name.
func (s *Shared) Name() string { return s.name }

// DType returns the variable's dtype.
func (s *Shared) DType() tensor.DataType { return s.dtype }

// NDim returns the variable's rank.
func (s *Shared) NDim() int { return len(s.broadcastable) }

// Broadcastable returns the variable's broadcastable flags.
func (s *Shared) Broadcastable() tensor.Broadcastable { return s.broadcastable.Clone() }

// Node returns the expression reading the variable. The same node is
// returned on every call, so it can be used as a key for gradients and
// substitutions.
func (s *Shared) Node() *Node { return s.node }

// Value returns the current value without copying.
//
// WARNING: mutating the returned tensor mutates the variable.
func (s *Shared) Value() *tensor.RawTensor { return s.value }

// SetValue replaces the current value. The Shared takes ownership of v.
//
// v must have the variable's dtype and rank, and size 1 on every
// broadcastable dimension.
func (s *Shared) SetValue(v *tensor.RawTensor) error {
	if err := s.Validate(v); err != nil {
		return err
	}
	s.value = v
	return nil
}

// Validate reports whether v could be assigned with SetValue.
func (s *Shared) Validate(v *tensor.RawTensor) error {
	if v == nil {
		return errors.Errorf("shared %q: nil value", s.name)
	}
	if v.DType() != s.dtype {
		return errors.Errorf("shared %q: dtype %s does not match %s", s.name, v.DType(), s.dtype)
	}
	if v.NDim() != s.NDim() {
		return errors.Errorf("shared %q: rank %d does not match %d", s.name, v.NDim(), s.NDim())
	}
	if !s.broadcastable.Admits(v.Shape()) {
		return errors.Errorf("shared %q: shape %v does not satisfy broadcastable pattern %v",
			s.name, v.Shape(), s.broadcastable)
	}
	return nil
}
