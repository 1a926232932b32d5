package hash

import (
	"github.com/cespare/xxhash/v2"
)

// Sum64 returns a stable 64-bit hash of b.
func Sum64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Sum64String returns a stable 64-bit hash of s.
func Sum64String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Digest accumulates a fingerprint over a sequence of byte chunks.
// Each chunk is preceded by its length so that ("ab","c") and ("a","bc")
// hash differently.
type Digest struct {
	d xxhash.Digest
}

// NewDigest returns a ready-to-use Digest.
func NewDigest() *Digest {
	var fp Digest
	fp.d.Reset()
	return &fp
}

// Write mixes one chunk into the fingerprint.
func (fp *Digest) Write(chunk []byte) {
	var lenBuf [4]byte
	lenBuf[0] = byte(len(chunk))
	lenBuf[1] = byte(len(chunk) >> 8)
	lenBuf[2] = byte(len(chunk) >> 16)
	lenBuf[3] = byte(len(chunk) >> 24)
	_, _ = fp.d.Write(lenBuf[:])
	_, _ = fp.d.Write(chunk)
}

// Sum64 returns the fingerprint of everything written so far.
func (fp *Digest) Sum64() uint64 {
	return fp.d.Sum64()
}
