// Package record defines the fixed-layout configuration records shared
// between the compiler and the embedded Hazelnet parsers, together with
// their binary codec and C source literal rendering.
//
// Every record has a fixed on-wire size. Multi-byte integers use one
// caller-selected byte order applied uniformly within a record; reserved
// layout bytes are filled with a caller-selected padding value so they
// stay inspectable in hex dumps.
package record

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoded record sizes in bytes.
const (
	ClientConfigSize           = 22
	ClientGroupConfigSize      = 12
	ServerSideClientConfigSize = 17
	ServerGroupConfigSize      = 24
	ServerConfigSize           = 3
)

// LTKSize is the length of a long-term key in raw bytes.
const LTKSize = 16

// DefaultPadding is the fill value written into reserved layout bytes
// unless the caller picks another one.
const DefaultPadding = 0xAA

// ByteOrder selects the byte order applied to multi-byte integer fields.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
	NativeEndian
)

func (o ByteOrder) binary() binary.ByteOrder {
	switch o {
	case BigEndian:
		return binary.BigEndian
	case NativeEndian:
		return binary.NativeEndian
	default:
		return binary.LittleEndian
	}
}

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big"
	case NativeEndian:
		return "native"
	default:
		return "little"
	}
}

// ParseByteOrder maps a byte order name ("little", "big", "native") to
// its ByteOrder value.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch s {
	case "little":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	case "native":
		return NativeEndian, nil
	}
	return LittleEndian, fmt.Errorf("unknown byte order %q (want little, big or native)", s)
}

// SerializationError reports a value that does not fit its wire field
// width, or a buffer too short to hold the record being decoded.
type SerializationError struct {
	Record string
	Msg    string
}

func (e *SerializationError) Error() string {
	return "record " + e.Record + ": " + e.Msg
}

func overflowErr(record, field string, value uint64, bits int) error {
	return &SerializationError{
		Record: record,
		Msg:    fmt.Sprintf("%s value %d does not fit in %d bits", field, value, bits),
	}
}

func truncatedErr(record string, got, want int) error {
	return &SerializationError{
		Record: record,
		Msg:    fmt.Sprintf("truncated buffer: got %d bytes, want at least %d", got, want),
	}
}

func fitUint8(record, field string, v uint32) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, overflowErr(record, field, uint64(v), 8)
	}
	return uint8(v), nil
}

func fitUint16(record, field string, v uint32) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, overflowErr(record, field, uint64(v), 16)
	}
	return uint16(v), nil
}
