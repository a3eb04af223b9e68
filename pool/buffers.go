// Package pool provides a pool of byte buffers of varying sizes that trades
// off the cost of allocation versus retention. A plain sync.Pool keeps
// buffers of every size alive through repeat usages that don't need them
// (see [issue 23199]).
//
// [issue 23199]: https://github.com/golang/go/issues/23199
package pool

import (
	"math"
	"sync"
	"sync/atomic"
)

// Buffers is a pool of byte slices whose sizes follow the files being
// copied.
//
// It keeps a moving average of requested sizes (utility) and drops returned
// buffers whose capacity (cost) is far above it.
type Buffers struct {
	// MinSize is the smallest buffer handed out, and the utility below which
	// allocating is more expensive than keeping a buffer around.
	MinSize int
	// MaxSize caps the size of buffers handed out. Zero means no cap.
	MaxSize int

	pool       sync.Pool
	avgUtility uint64 // Actually a float64, but that type does not have atomic ops.
}

// Get returns a buffer of length size, clamped to [MinSize, MaxSize].
func (p *Buffers) Get(size int) []byte {
	if size < p.MinSize {
		size = p.MinSize
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	buf, _ := p.pool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	return buf[:size]
}

// Put returns a buffer to the pool. It reports whether the buffer was kept.
// Put uses atomic load/store, so values can get lost if it is called
// concurrently. That's fine, it is an approximate (weighted) moving average.
func (p *Buffers) Put(buf []byte) bool {
	avgUtility := math.Float64frombits(atomic.LoadUint64(&p.avgUtility))
	avgUtility = decay(avgUtility, float64(len(buf)), float64(p.MinSize))
	atomic.StoreUint64(&p.avgUtility, math.Float64bits(avgUtility))

	if float64(cap(buf)) > 10*avgUtility {
		return false
	}
	p.pool.Put(buf[:0]) //nolint:staticcheck // Slices are small headers.
	return true
}

// decay returns `val` if `val > prev`, otherwise it returns an exponentially
// moving average of `prev` and `val` (with factor 0.5). This provides a slower
// downramp if `val` drops ever lower. The minimum value is `min`.
func decay(prev, val, min float64) float64 {
	if val < min {
		val = min
	}
	if prev == 0 || val > prev {
		return val
	}
	const factor = 0.5
	return (prev * factor) + (val * (1 - factor))
}
