// Package graph builds symbolic expressions over tensors.
//
// A Node is an immutable description of a computation: placeholders
// (Input), shared variables (Shared), constants, random samples and
// element-wise/reduction ops over them. Nothing is computed when a node is
// built; values appear only when an Evaluator runs the graph, usually on
// behalf of a compiled function.
//
// Static metadata is tracked the way symbolic frameworks do: every node
// knows its dtype, its rank and which dimensions are broadcastable. Concrete
// shapes are only known at evaluation time.
package graph

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/born-ml/descent/internal/tensor"
)

// Op identifies the operation a Node performs.
type Op int

// Supported operations.
const (
	OpInput Op = iota
	OpShared
	OpConstant
	OpRandom
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpExp
	OpLog
	OpSqrt
	OpSquare
	OpSum
	OpSumToLike
	OpBroadcastLike
	OpCast
)

var opNames = [...]string{
	OpInput:         "Input",
	OpShared:        "Shared",
	OpConstant:      "Constant",
	OpRandom:        "Random",
	OpAdd:           "Add",
	OpSub:           "Sub",
	OpMul:           "Mul",
	OpDiv:           "Div",
	OpNeg:           "Neg",
	OpExp:           "Exp",
	OpLog:           "Log",
	OpSqrt:          "Sqrt",
	OpSquare:        "Square",
	OpSum:           "Sum",
	OpSumToLike:     "SumToLike",
	OpBroadcastLike: "BroadcastLike",
	OpCast:          "Cast",
}

// String returns the operation name.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

var nextNodeID atomic.Int64

// Node is a vertex of an expression graph.
type Node struct {
	id            int64
	op            Op
	inputs        []*Node
	name          string
	dtype         tensor.DataType
	broadcastable tensor.Broadcastable

	value  *tensor.RawTensor // OpConstant
	shared *Shared           // OpShared
	random *randomState      // OpRandom
}

func newNode(op Op, dtype tensor.DataType, broadcastable tensor.Broadcastable, inputs ...*Node) *Node {
	return &Node{
		id:            nextNodeID.Add(1),
		op:            op,
		inputs:        inputs,
		dtype:         dtype,
		broadcastable: broadcastable,
	}
}

// ID returns a process-unique identifier, increasing in creation order.
func (n *Node) ID() int64 { return n.id }

// Op returns the operation the node performs.
func (n *Node) Op() Op { return n.op }

// Inputs returns the operands of the node.
func (n *Node) Inputs() []*Node { return n.inputs }

// Name returns the node's name; only placeholders and shared reads carry one.
func (n *Node) Name() string { return n.name }

// DType returns the static dtype of the node's value.
func (n *Node) DType() tensor.DataType { return n.dtype }

// NDim returns the static rank of the node's value.
func (n *Node) NDim() int { return len(n.broadcastable) }

// Broadcastable returns the static broadcastable flags of the node's value.
func (n *Node) Broadcastable() tensor.Broadcastable { return n.broadcastable.Clone() }

// Shared returns the shared variable read by an OpShared node, nil otherwise.
func (n *Node) Shared() *Shared { return n.shared }

// String renders the expression, e.g. "Sub(Shared(w), Mul(alpha, g))".
func (n *Node) String() string {
	switch n.op {
	case OpInput, OpShared:
		if n.name != "" {
			return n.name
		}
		return fmt.Sprintf("%s#%d", n.op, n.id)
	case OpConstant:
		if n.value.NumElements() == 1 {
			return fmt.Sprintf("%g", n.value.Item())
		}
		return n.value.String()
	}

	args := make([]string, len(n.inputs))
	for i, in := range n.inputs {
		args[i] = in.String()
	}
	return fmt.Sprintf("%s(%s)", n.op, strings.Join(args, ", "))
}

// Walk visits n and every node it depends on exactly once, inputs before
// the nodes that consume them.
func Walk(n *Node, visit func(*Node)) {
	seen := make(map[*Node]bool)
	var dfs func(*Node)
	dfs = func(cur *Node) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		for _, in := range cur.inputs {
			dfs(in)
		}
		visit(cur)
	}
	dfs(n)
}
