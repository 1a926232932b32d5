package hash

import "testing"

func TestSum64Stable(t *testing.T) {
	b := []byte("slotted page")
	if Sum64(b) != Sum64(b) {
		t.Error("Sum64 not stable")
	}
	if Sum64(b) != Sum64String("slotted page") {
		t.Error("Sum64 and Sum64String disagree")
	}
}

func TestDigestChunkBoundaries(t *testing.T) {
	a := NewDigest()
	a.Write([]byte("ab"))
	a.Write([]byte("c"))

	b := NewDigest()
	b.Write([]byte("a"))
	b.Write([]byte("bc"))

	if a.Sum64() == b.Sum64() {
		t.Error("chunk boundaries should change the fingerprint")
	}

	c := NewDigest()
	c.Write([]byte("ab"))
	c.Write([]byte("c"))
	if a.Sum64() != c.Sum64() {
		t.Error("equal chunk sequences should fingerprint equally")
	}
}

func TestDigestEmptyChunks(t *testing.T) {
	a := NewDigest()
	a.Write(nil)
	b := NewDigest()
	if a.Sum64() == b.Sum64() {
		t.Error("an empty chunk still contributes its length prefix")
	}
}
