// Package pagebuf recycles fixed-size page buffers.
//
// Every buffer handed out by a Pool has exactly the configured size, so
// callers can index into pages without re-checking bounds. Returned
// buffers are reused as-is; it is the caller's job to reinitialize a
// page header before use.
package pagebuf

import (
	"sync"
	"sync/atomic"

	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

// Pool hands out byte slices of a single fixed size.
type Pool struct {
	size  int
	inner sync.Pool
	gets  uint64
	news  uint64
	puts  uint64
}

// Stats reports pool traffic. Hits can be derived as Gets - News.
type Stats struct {
	Size int
	Gets uint64
	News uint64
	Puts uint64
}

// New creates a pool of size-byte buffers. Size must be a power of two
// so pages line up with allocator size classes.
func New(size int) *Pool {
	if !utils.IsPowerOfTwo(size) {
		panic("pagebuf: size must be a power of two")
	}
	p := &Pool{size: size}
	p.inner.New = func() any {
		atomic.AddUint64(&p.news, 1)
		return make([]byte, size)
	}
	return p
}

// Get returns a buffer of exactly the pool's size.
func (p *Pool) Get() []byte {
	atomic.AddUint64(&p.gets, 1)
	return p.inner.Get().([]byte)
}

// Put returns a buffer to the pool. Buffers of the wrong size are
// dropped rather than poisoning the pool.
func (p *Pool) Put(b []byte) {
	if len(b) != p.size {
		return
	}
	atomic.AddUint64(&p.puts, 1)
	p.inner.Put(b)
}

// Size returns the buffer size this pool serves.
func (p *Pool) Size() int {
	return p.size
}

// GetStats returns a snapshot of pool traffic.
func (p *Pool) GetStats() Stats {
	return Stats{
		Size: p.size,
		Gets: atomic.LoadUint64(&p.gets),
		News: atomic.LoadUint64(&p.news),
		Puts: atomic.LoadUint64(&p.puts),
	}
}
