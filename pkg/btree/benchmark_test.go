package btree

import (
	"sync"
	"testing"

	"github.com/tdhoang91/go-btreemap/pkg/common/locks"
	rt "github.com/tdhoang91/go-btreemap/pkg/runtime"
)

func benchmarkSeed(b *testing.B, n int) *Uint32Map {
	b.Helper()
	m := NewUint32Map()
	rng := rt.NewXorShift128(1)
	count := 0
	for count < n {
		if err := m.Insert(rng.Next(), 0); err == nil {
			count++
		}
	}
	b.ResetTimer()
	return m
}

func BenchmarkInsertAscending(b *testing.B) {
	m := NewUint32Map()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Insert(uint32(i), uint32(i))
	}
}

func BenchmarkInsertRandom(b *testing.B) {
	m := NewUint32Map()
	rng := rt.NewXorShift128(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Insert(rng.Next(), 0)
	}
}

func BenchmarkGet(b *testing.B) {
	m := benchmarkSeed(b, 100000)
	rng := rt.NewXorShift128(2)
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(rng.Next())
	}
}

func BenchmarkLowerBoundErase(b *testing.B) {
	m := benchmarkSeed(b, 100000)
	rng := rt.NewXorShift128(3)
	for i := 0; i < b.N; i++ {
		it := m.LowerBound(rng.Next())
		if it.IsEnd() {
			continue
		}
		it.Erase()
		_ = m.Insert(rng.Next(), 0)
	}
}

func benchmarkContended(b *testing.B, mu sync.Locker, readPct uint32) {
	m := benchmarkSeed(b, 10000)
	b.RunParallel(func(pb *testing.PB) {
		rng := rt.NewXorShift128(rt.Uint32())
		for pb.Next() {
			mu.Lock()
			deleted := false
			if !m.Empty() {
				it := m.LowerBound(rng.Next())
				if !it.IsEnd() && readPct <= rng.Nextn(10000) {
					it.Erase()
					deleted = true
				}
			}
			if deleted {
				_ = m.Insert(rng.Next(), 0)
			}
			mu.Unlock()
		}
	})
}

func BenchmarkSpinlockReadMostly(b *testing.B) {
	benchmarkContended(b, locks.NewSpinLock(), 9900)
}

func BenchmarkSpinlockWriteHeavy(b *testing.B) {
	benchmarkContended(b, locks.NewSpinLock(), 0)
}

func BenchmarkMutexReadMostly(b *testing.B) {
	benchmarkContended(b, &sync.Mutex{}, 9900)
}
