package btree

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	rt "github.com/tdhoang91/go-btreemap/pkg/runtime"
	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

// oracleLowerBound returns the smallest key >= k in the oracle map.
func oracleLowerBound(oracle map[uint32]uint32, k uint32) (uint32, bool) {
	best := uint32(math.MaxUint32)
	found := false
	for key := range oracle {
		if key >= k && (!found || key < best) {
			best = key
			found = true
		}
	}
	return best, found
}

// TestTreeRandomMixedOracle replays a deterministic mixed workload and
// cross-checks every step against a plain map.
func TestTreeRandomMixedOracle(t *testing.T) {
	rng := rt.NewXorShift128(1)
	m := NewUint32Map()
	oracle := make(map[uint32]uint32)

	const ops = 10000
	for i := 0; i < ops; i++ {
		switch rng.Nextn(3) {
		case 0, 1: // insert
			k, v := rng.Next(), rng.Next()
			err := m.Insert(k, v)
			if _, dup := oracle[k]; dup {
				require.ErrorIs(t, err, ErrKeyExists, "op %d: duplicate insert of %d", i, k)
			} else {
				require.NoError(t, err, "op %d: insert %d", i, k)
				oracle[k] = v
			}
		default: // lower-bound probe, then erase the hit
			k := rng.Next()
			it := m.LowerBound(k)
			want, ok := oracleLowerBound(oracle, k)
			if !ok {
				require.True(t, it.IsEnd(), "op %d: lower bound of %d should be end", i, k)
				continue
			}
			require.False(t, it.IsEnd(), "op %d: lower bound of %d missing", i, k)
			got := utils.BytesToUint32(it.Key())
			require.Equal(t, want, got, "op %d: lower bound of %d", i, k)
			require.Equal(t, oracle[want], utils.BytesToUint32(it.Value()), "op %d: value of %d", i, want)
			require.True(t, m.Erase(got), "op %d: erase %d", i, got)
			delete(oracle, want)
		}
		if i%97 == 0 {
			require.True(t, m.IsValid(), "op %d: tree invalid", i)
			require.Equal(t, len(oracle), m.Size(), "op %d: size mismatch", i)
		}
	}

	require.True(t, m.IsValid())
	require.Equal(t, len(oracle), m.Size())

	wantKeys := make([]uint32, 0, len(oracle))
	for k := range oracle {
		wantKeys = append(wantKeys, k)
	}
	sort.Slice(wantKeys, func(i, j int) bool { return wantKeys[i] < wantKeys[j] })
	require.Equal(t, wantKeys, collectKeys(m), "final iteration differs from oracle")
}

// TestTreeRandomEraseViaIterator drives the iterator erase protocol the
// way the contended workloads do: probe, erase the hit, reinsert.
func TestTreeRandomEraseViaIterator(t *testing.T) {
	rng := rt.NewXorShift128(7)
	m := NewUint32Map()

	count := 0
	for count < 3000 {
		if err := m.Insert(rng.Next(), 0); err == nil {
			count++
		}
	}
	for i := 0; i < 5000; i++ {
		it := m.LowerBound(rng.Next())
		if it.IsEnd() {
			continue
		}
		it.Erase()
		count--
		for {
			if err := m.Insert(rng.Next(), 0); err == nil {
				count++
				break
			}
		}
	}
	require.True(t, m.IsValid())
	require.Equal(t, count, m.Size())
}
