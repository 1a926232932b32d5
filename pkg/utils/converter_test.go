package utils

import "testing"

func TestUintRoundTrips(t *testing.T) {
	if got := BytesToUint16(Uint16ToBytes(0xBEEF)); got != 0xBEEF {
		t.Errorf("uint16 round trip = %#x", got)
	}
	if got := BytesToUint32(Uint32ToBytes(0xDEADBEEF)); got != 0xDEADBEEF {
		t.Errorf("uint32 round trip = %#x", got)
	}
	if got := BytesToUint64(Uint64ToBytes(0x0123456789ABCDEF)); got != 0x0123456789ABCDEF {
		t.Errorf("uint64 round trip = %#x", got)
	}
}

func TestPutVariantsMatchAlloc(t *testing.T) {
	b := make([]byte, 8)
	PutUint16(b, 0x1234)
	if BytesToUint16(b) != 0x1234 {
		t.Error("PutUint16 mismatch")
	}
	PutUint32(b, 0x89ABCDEF)
	if BytesToUint32(b) != 0x89ABCDEF {
		t.Error("PutUint32 mismatch")
	}
	PutUint64(b, 42)
	if BytesToUint64(b) != 42 {
		t.Error("PutUint64 mismatch")
	}
}

func TestLittleEndianLayout(t *testing.T) {
	b := Uint16ToBytes(0x0102)
	if b[0] != 0x02 || b[1] != 0x01 {
		t.Errorf("layout = %v, want little-endian", b)
	}
}

func TestStringBytesRoundTrip(t *testing.T) {
	s := "btree"
	if BytesToString(StringToBytes(s)) != s {
		t.Error("string round trip failed")
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 32768} {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false", n)
		}
	}
	for _, n := range []int{0, -2, 3, 1000, 1023} {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true", n)
		}
	}
}
