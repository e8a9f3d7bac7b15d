package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 10}

	n := 257
	hits := make([]int32, n)
	var calls int32
	Range(n, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
	assert.Greater(t, calls, int32(1), "large input should be chunked")
}

func TestRange_Sequential(t *testing.T) {
	var calls int
	Range(100, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 100, end)
	}, Config{Enabled: false})
	assert.Equal(t, 1, calls)
}

func TestRange_SmallInputStaysInline(t *testing.T) {
	var calls int
	Range(10, func(_, _ int) { calls++ }, DefaultConfig())
	assert.Equal(t, 1, calls)
}

func TestRange_Empty(t *testing.T) {
	Range(0, func(_, _ int) { t.Fatal("must not be called") }, DefaultConfig())
}
