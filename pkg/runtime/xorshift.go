package runtime

import "math/bits"

// XorShift128 is a deterministic xorshift generator with a 128-bit state.
// Unlike Uint32 it is reproducible: the same seed always yields the same
// sequence, which makes it suitable for replayable workloads and tests.
type XorShift128 struct {
	x, y, z, w uint32
}

// NewXorShift128 seeds the generator. The seed is mixed into all four
// state words so that nearby seeds produce unrelated sequences.
func NewXorShift128(seed uint32) *XorShift128 {
	return &XorShift128{
		x: 123456789 ^ seed,
		y: 362436069 ^ bits.RotateLeft32(seed, 8),
		z: 521288629 ^ bits.RotateLeft32(seed, 16),
		w: 88675123 ^ bits.RotateLeft32(seed, 24),
	}
}

// Next returns the next value in the sequence.
func (r *XorShift128) Next() uint32 {
	t := r.x ^ (r.x << 11)
	r.x, r.y, r.z = r.y, r.z, r.w
	r.w = (r.w ^ (r.w >> 19)) ^ (t ^ (t >> 8))
	return r.w
}

// Nextn returns the next value reduced to [0, n).
func (r *XorShift128) Nextn(n uint32) uint32 {
	return r.Next() % n
}
