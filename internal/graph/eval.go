package graph

import (
	"github.com/pkg/errors"

	"github.com/born-ml/descent/internal/backend/cpu"
	"github.com/born-ml/descent/internal/tensor"
)

// ErrMissingInput is returned when a placeholder is evaluated without a value.
var ErrMissingInput = errors.New("missing value for input")

// Evaluator computes node values for one evaluation: placeholders take
// their values from feeds, and nodes listed in givens are replaced by
// their substitutes.
//
// Substitutes are evaluated against the unsubstituted graph, so a given
// may refer to the very node it replaces (w -> w - alpha*g). Every node is
// computed at most once per context.
type Evaluator struct {
	backend *cpu.CPUBackend
	feeds   map[*Node]*tensor.RawTensor
	givens  map[*Node]*Node

	substituted map[*Node]*tensor.RawTensor
	plain       map[*Node]*tensor.RawTensor
	sampled     []*Node
	borrowed    map[*tensor.RawTensor]bool
}

// NewEvaluator creates an Evaluator. feeds and givens may be nil.
func NewEvaluator(backend *cpu.CPUBackend, feeds map[*Node]*tensor.RawTensor, givens map[*Node]*Node) *Evaluator {
	return &Evaluator{
		backend:     backend,
		feeds:       feeds,
		givens:      givens,
		substituted: make(map[*Node]*tensor.RawTensor),
		plain:       make(map[*Node]*tensor.RawTensor),
		borrowed:    make(map[*tensor.RawTensor]bool),
	}
}

// Eval returns the value of n with givens applied.
func (e *Evaluator) Eval(n *Node) (*tensor.RawTensor, error) {
	return e.eval(n, true)
}

// Sampled returns the random nodes drawn from so far, in first-use order.
func (e *Evaluator) Sampled() []*Node {
	return e.sampled
}

// Borrowed reports whether t is storage owned by a shared variable,
// constant or feed rather than freshly computed. Borrowed values must be
// copied before they are handed out or stored elsewhere.
func (e *Evaluator) Borrowed(t *tensor.RawTensor) bool {
	return e.borrowed[t]
}

func (e *Evaluator) eval(n *Node, substitute bool) (*tensor.RawTensor, error) {
	memo := e.plain
	if substitute {
		memo = e.substituted
		if repl, ok := e.givens[n]; ok {
			v, err := e.eval(repl, false)
			if err != nil {
				return nil, err
			}
			memo[n] = v
			return v, nil
		}
	}
	if v, ok := memo[n]; ok {
		return v, nil
	}

	args := make([]*tensor.RawTensor, len(n.inputs))
	for i, in := range n.inputs {
		v, err := e.eval(in, substitute)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	v, err := e.compute(n, args)
	if err != nil {
		return nil, errors.WithMessagef(err, "evaluating %s", n.op)
	}
	memo[n] = v
	return v, nil
}

func (e *Evaluator) compute(n *Node, args []*tensor.RawTensor) (*tensor.RawTensor, error) {
	b := e.backend
	switch n.op {
	case OpInput:
		v, ok := e.feeds[n]
		if !ok {
			return nil, errors.Wrapf(ErrMissingInput, "%q", n.name)
		}
		e.borrowed[v] = true
		return v, nil
	case OpShared:
		v := n.shared.value
		e.borrowed[v] = true
		return v, nil
	case OpConstant:
		e.borrowed[n.value] = true
		return n.value, nil
	case OpRandom:
		return e.sample(n)
	case OpAdd:
		return b.Add(args[0], args[1])
	case OpSub:
		return b.Sub(args[0], args[1])
	case OpMul:
		return b.Mul(args[0], args[1])
	case OpDiv:
		return b.Div(args[0], args[1])
	case OpNeg:
		return b.Neg(args[0])
	case OpExp:
		return b.Exp(args[0])
	case OpLog:
		return b.Log(args[0])
	case OpSqrt:
		return b.Sqrt(args[0])
	case OpSquare:
		return b.Square(args[0])
	case OpSum:
		return b.Sum(args[0])
	case OpSumToLike:
		return b.SumTo(args[0], args[1].Shape())
	case OpBroadcastLike:
		return b.BroadcastTo(args[0], args[1].Shape())
	case OpCast:
		return args[0].Cast(n.dtype)
	default:
		return nil, errors.Errorf("unsupported op %s", n.op)
	}
}

func (e *Evaluator) sample(n *Node) (*tensor.RawTensor, error) {
	rs := n.random
	if _, seen := e.plain[n]; !seen {
		if _, seen := e.substituted[n]; !seen {
			e.sampled = append(e.sampled, n)
		}
	}
	switch rs.dist {
	case distUniform:
		return e.backend.Uniform(rs.shape, n.dtype, rs.a, rs.b, rs.source())
	default:
		return e.backend.Normal(rs.shape, n.dtype, rs.a, rs.b, rs.source())
	}
}
