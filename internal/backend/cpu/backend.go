// Package cpu implements the numeric kernels graph evaluation runs on.
//
// Every kernel allocates its result and leaves its inputs untouched, so
// evaluated values can be shared freely between graph nodes.
package cpu

import (
	"github.com/born-ml/descent/internal/parallel"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	parallel parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return &CPUBackend{
		parallel: parallel.DefaultConfig(),
	}
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{parallel: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// chunks runs f over [0, n) through the parallel configuration.
func (cpu *CPUBackend) chunks(n int, f func(lo, hi int)) {
	parallel.Range(n, f, cpu.parallel)
}
