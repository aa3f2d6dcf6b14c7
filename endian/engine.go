// Package endian selects the byte order used by trie images and bit vector payloads.
//
// Images record their byte order in the header flag. Readers pick the
// matching EndianEngine and, when it equals the host's native order, bit
// vectors are viewed in place without decoding (see bitvec.New).
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, keyCount)
//
// All functions are safe for concurrent use; the returned engines are stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host's byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// CompareNativeEndian reports whether engine matches the host's byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FromFlag returns the big-endian engine when bigEndian is set and the
// little-endian engine otherwise.
func FromFlag(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Name returns "little" or "big" for display purposes.
func Name(engine EndianEngine) string {
	if engine == binary.BigEndian {
		return "big"
	}

	return "little"
}

// GetNativeEngine returns the engine matching the host's byte order.
func GetNativeEngine() EndianEngine {
	if IsNativeLittleEndian() {
		return binary.LittleEndian
	}

	return binary.BigEndian
}
