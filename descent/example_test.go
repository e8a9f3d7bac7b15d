package descent_test

import (
	"fmt"

	"github.com/born-ml/descent/descent"
	"github.com/born-ml/descent/graph"
	"github.com/born-ml/descent/tensor"
)

func ExampleGradBase() {
	p := graph.MustShared("p", tensor.Scalar(tensor.Float64, 0), nil)
	loss := graph.Square(graph.AddScalar(p.Node(), -3))

	ls, err := descent.GradBase(nil, loss, []*graph.Shared{p}, descent.Config{})
	if err != nil {
		panic(err)
	}
	_ = ls.CacheInputs()
	_ = ls.CacheGradients()

	l, _ := ls.Loss(0.1)
	fmt.Printf("loss at 0.1: %.2f\n", l)

	_ = ls.CommitStep(0.1)
	fmt.Printf("p: %.1f\n", p.Value().Item())
	// Output:
	// loss at 0.1: 5.76
	// p: 0.6
}
