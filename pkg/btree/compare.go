package btree

import (
	"bytes"

	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

// Compare orders two keys. It must implement a strict total order:
// negative if k0 < k1, zero if equal, positive if k0 > k1. A tree
// carries exactly one Compare for its whole lifetime.
type Compare func(k0, k1 []byte) int

// CompareBytes orders keys lexicographically.
func CompareBytes(k0, k1 []byte) int {
	return bytes.Compare(k0, k1)
}

// CompareUint32 orders 4-byte little-endian uint32 keys numerically.
func CompareUint32(k0, k1 []byte) int {
	a, b := utils.BytesToUint32(k0), utils.BytesToUint32(k1)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
