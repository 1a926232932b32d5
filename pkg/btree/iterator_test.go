package btree

import (
	"testing"

	rt "github.com/tdhoang91/go-btreemap/pkg/runtime"
	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

func newShuffledMap(t *testing.T, n int, seed uint32) *Uint32Map {
	t.Helper()
	keys := make([]uint32, n)
	for i := range keys {
		keys[i] = uint32(i)
	}
	rng := rt.NewXorShift128(seed)
	for i := n - 1; i > 0; i-- {
		j := int(rng.Nextn(uint32(i + 1)))
		keys[i], keys[j] = keys[j], keys[i]
	}
	m := NewUint32Map()
	for _, k := range keys {
		if err := m.Insert(k, k^0xdead); err != nil {
			t.Fatalf("Insert(%d) = %v", k, err)
		}
	}
	return m
}

// =============================================================================
// ItemIterator Tests
// =============================================================================

func TestItemIterator_AscendingRoundTrip(t *testing.T) {
	const n = 2500
	m := newShuffledMap(t, n, 3)
	i := uint32(0)
	for it := m.Begin(); !it.IsEnd(); it.Next() {
		if got := utils.BytesToUint32(it.Key()); got != i {
			t.Fatalf("iteration[%d] = %d", i, got)
		}
		if got := utils.BytesToUint32(it.Value()); got != i^0xdead {
			t.Fatalf("value[%d] = %d", i, got)
		}
		i++
	}
	if i != n {
		t.Fatalf("visited %d records, want %d", i, n)
	}
}

func TestItemIterator_Backward(t *testing.T) {
	const n = 1200
	m := newShuffledMap(t, n, 4)
	it := m.Tree().EndItem()
	for i := n - 1; i >= 0; i-- {
		it.Prev()
		if it.IsEnd() {
			t.Fatalf("hit end with %d records left", i+1)
		}
		if got := utils.BytesToUint32(it.Key()); got != uint32(i) {
			t.Fatalf("backward iteration got %d, want %d", got, i)
		}
	}
	it.Prev()
	if !it.IsEnd() {
		t.Error("stepping before the first record should reach the end position")
	}
}

func TestItemIterator_CyclicWrap(t *testing.T) {
	m := newShuffledMap(t, 100, 5)

	it := m.Tree().EndItem()
	it.Next()
	if it.IsEnd() || utils.BytesToUint32(it.Key()) != 0 {
		t.Error("increment from end should wrap to the first record")
	}

	it = m.Tree().EndItem()
	it.Prev()
	if it.IsEnd() || utils.BytesToUint32(it.Key()) != 99 {
		t.Error("decrement from end should wrap to the last record")
	}
}

func TestItemIterator_EmptyTree(t *testing.T) {
	m := NewUint32Map()
	if !m.Begin().IsEnd() {
		t.Error("Begin() on an empty tree should be the end iterator")
	}
}

// =============================================================================
// PageIterator Tests
// =============================================================================

func TestPageIterator_CoversAllRecordsInOrder(t *testing.T) {
	const n = 3000
	m := newShuffledMap(t, n, 6)

	total := 0
	last := -1
	pages := 0
	for it := m.Tree().BeginPage(); !it.IsEnd(); it.Next() {
		p := it.Page()
		if !p.IsLeaf() {
			t.Fatal("page iterator visited a branch page")
		}
		if p.Empty() {
			t.Fatal("page iterator visited an empty leaf")
		}
		if int(utils.BytesToUint32(p.MinKey())) <= last {
			t.Fatal("leaves out of order")
		}
		last = int(utils.BytesToUint32(p.MaxKey()))
		total += p.NumRecords()
		pages++
	}
	if total != n {
		t.Fatalf("leaves hold %d records, want %d", total, n)
	}
	if pages < 2 {
		t.Fatalf("expected a multi-leaf tree, got %d leaves", pages)
	}
}

func TestPageIterator_BackwardMatchesForward(t *testing.T) {
	m := newShuffledMap(t, 2000, 8)

	var forward []uint64
	for it := m.Tree().BeginPage(); !it.IsEnd(); it.Next() {
		forward = append(forward, it.Page().Pid())
	}
	var backward []uint64
	it := m.Tree().EndPage()
	for it.Prev(); !it.IsEnd(); it.Prev() {
		backward = append(backward, it.Page().Pid())
	}
	if len(forward) != len(backward) {
		t.Fatalf("forward %d pages, backward %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			t.Fatal("backward traversal is not the reverse of forward")
		}
	}
}

// =============================================================================
// LowerBound Boundary Tests
// =============================================================================

func TestTreeLowerBound_PageBoundaries(t *testing.T) {
	m := NewUint32Map()
	const n = 2000
	for i := uint32(0); i < n; i++ {
		if err := m.Insert(i*2, i); err != nil {
			t.Fatal(err)
		}
	}
	// Odd probes must land on the next even key, wherever the page
	// boundaries ended up.
	for i := uint32(0); i < n-1; i++ {
		it := m.LowerBound(i*2 + 1)
		if it.IsEnd() {
			t.Fatalf("LowerBound(%d) = end", i*2+1)
		}
		if got := utils.BytesToUint32(it.Key()); got != (i+1)*2 {
			t.Fatalf("LowerBound(%d) = %d, want %d", i*2+1, got, (i+1)*2)
		}
	}
	if !m.LowerBound((n-1)*2 + 1).IsEnd() {
		t.Error("probe above the maximum should be the end iterator")
	}
}
