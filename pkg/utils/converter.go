package utils

import (
	"encoding/binary"
	"unsafe"
)

// StringToBytes converts string to a byte slice without any memory allocation.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString converts byte slice to a string without any memory allocation.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Uint64ToBytes converts uint64 to a little-endian byte slice.
func Uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

// BytesToUint64 converts a little-endian byte slice to uint64.
func BytesToUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// PutUint64 writes n into b in little-endian order without allocating.
func PutUint64(b []byte, n uint64) {
	binary.LittleEndian.PutUint64(b, n)
}

// Uint32ToBytes converts uint32 to a little-endian byte slice.
func Uint32ToBytes(n uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	return b
}

// BytesToUint32 converts a little-endian byte slice to uint32.
func BytesToUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// PutUint32 writes n into b in little-endian order without allocating.
func PutUint32(b []byte, n uint32) {
	binary.LittleEndian.PutUint32(b, n)
}

// Uint16ToBytes converts uint16 to a little-endian byte slice.
func Uint16ToBytes(n uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, n)
	return b
}

// BytesToUint16 converts a little-endian byte slice to uint16.
func BytesToUint16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// PutUint16 writes n into b in little-endian order without allocating.
func PutUint16(b []byte, n uint16) {
	binary.LittleEndian.PutUint16(b, n)
}
