// Package proto implements the Minecraft Java Edition wire codec for
// protocol version 757 (game 1.18.x): scalar reader/writer primitives,
// VarInt/VarLong, length-prefixed strings, UUIDs, the packed position
// word, and the length-prefixed frame codec sitting on top of all of it.
//
// Following the teacher's (ErikPelli/MinecraftLightServer) approach, each
// outgoing scalar is a named type implementing io.WriterTo so packet
// builders can compose a payload as a flat list of fields. Incoming
// scalars are read with plain functions, since several fields (strings,
// in particular) need a caller-supplied max_len that a bare ReadFrom
// method has no room for.
package proto

import (
	"io"
	"math"
)

// Bool is a single 0x00/0x01 byte.
type Bool bool

func (b Bool) WriteTo(w io.Writer) (int64, error) {
	v := byte(0)
	if b {
		v = 1
	}
	n, err := w.Write([]byte{v})
	return int64(n), wrapIO(err)
}

func ReadBool(r io.Reader) (bool, error) {
	v, err := ReadUint8(r)
	return v != 0, err
}

// Int8 is a signed 8-bit integer.
type Int8 int8

func (v Int8) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{byte(v)})
	return int64(n), wrapIO(err)
}

func ReadInt8(r io.Reader) (int8, error) {
	v, err := ReadUint8(r)
	return int8(v), err
}

// Uint8 is an unsigned 8-bit integer.
type Uint8 uint8

func (v Uint8) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{byte(v)})
	return int64(n), wrapIO(err)
}

func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapIO(err)
	}
	return buf[0], nil
}

// Int16 is a big-endian signed 16-bit integer.
type Int16 int16

func (v Int16) WriteTo(w io.Writer) (int64, error) {
	return Uint16(v).WriteTo(w)
}

func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

// Uint16 is a big-endian unsigned 16-bit integer.
type Uint16 uint16

func (v Uint16) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{byte(v >> 8), byte(v)})
	return int64(n), wrapIO(err)
}

func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapIO(err)
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// Int32 is a big-endian signed 32-bit integer.
type Int32 int32

func (v Int32) WriteTo(w io.Writer) (int64, error) {
	return Uint32(uint32(v)).WriteTo(w)
}

func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

// Uint32 is a big-endian unsigned 32-bit integer. Not part of the
// protocol's named field types but shared plumbing for Int32/Float32.
type Uint32 uint32

func (v Uint32) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	return int64(n), wrapIO(err)
}

func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapIO(err)
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

// Int64 is a big-endian signed 64-bit integer.
type Int64 int64

func (v Int64) WriteTo(w io.Writer) (int64, error) {
	return Uint64(uint64(v)).WriteTo(w)
}

func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

// Uint64 is a big-endian unsigned 64-bit integer.
type Uint64 uint64

func (v Uint64) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	})
	return int64(n), wrapIO(err)
}

func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapIO(err)
	}
	v := uint64(0)
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// Float32 is a big-endian IEEE-754 single-precision float.
type Float32 float32

func (v Float32) WriteTo(w io.Writer) (int64, error) {
	return Uint32(math.Float32bits(float32(v))).WriteTo(w)
}

func ReadFloat32(r io.Reader) (float32, error) {
	bits, err := ReadUint32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// Float64 is a big-endian IEEE-754 double-precision float.
type Float64 float64

func (v Float64) WriteTo(w io.Writer) (int64, error) {
	return Uint64(math.Float64bits(float64(v))).WriteTo(w)
}

func ReadFloat64(r io.Reader) (float64, error) {
	bits, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// String is a VarInt-length-prefixed UTF-8 string, capped at 32767 bytes
// when written with WriteTo. Use WriteString/ReadString directly for a
// field-specific max_len.
type String string

func (s String) WriteTo(w io.Writer) (int64, error) {
	return WriteString(w, string(s), 32767)
}

// WriteString writes a length-prefixed string, erroring with
// StringTooLong if its encoded byte length exceeds maxLen.
func WriteString(w io.Writer, s string, maxLen int) (int64, error) {
	b := []byte(s)
	if len(b) > maxLen {
		return 0, StringTooLong(len(b), maxLen)
	}
	n, err := VarInt(len(b)).WriteTo(w)
	if err != nil {
		return n, err
	}
	n2, err := w.Write(b)
	return n + int64(n2), wrapIO(err)
}

// ReadString reads a length-prefixed string, erroring with
// StringTooLong if the declared length exceeds maxLen. The length is
// validated before any allocation for the payload happens.
func ReadString(r io.Reader, maxLen int) (string, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if int(length) > maxLen {
		return "", StringTooLong(int(length), maxLen)
	}
	if length < 0 {
		return "", StringTooLong(int(length), maxLen)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapIO(err)
	}
	return string(buf), nil
}
