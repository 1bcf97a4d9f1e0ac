package dcerpc

import "github.com/specterops/dcerpc/internal/wire"

// TransferSyntax selects which NDR transfer syntax a Context negotiated
// with the server (§3's tctx_id). NDR32 aligns up to 4 bytes; NDR64 up
// to 8. The zero value is NDR32, matching the spec's "initialized to 0".
type TransferSyntax uint8

const (
	NDR32 TransferSyntax = 0
	NDR64 TransferSyntax = 1
)

func align(offset, n int) int {
	return (offset + n - 1) &^ (n - 1)
}

// Cursor bundles the buffer and negotiated transfer syntax that every
// coder primitive needs, so individual Encode*/Decode* calls don't have
// to repeat (ctx, pdu, buf) on every line the way the C source does.
// It carries no mutable cursor position itself — offsets are threaded
// explicitly by the caller, matching the sticky-negative-offset idiom
// coders must preserve (§4.B, §8).
type Cursor struct {
	Buf  wire.Buf
	TSyn TransferSyntax
	PDU  *PDU
	// Conv overrides the UCS2Converter used by EncodeUCS2Z/DecodeUCS2Z.
	// Nil means DefaultUCS2Converter.
	Conv UCS2Converter
}

// EncodeUint8 writes an unaligned byte.
func (c *Cursor) EncodeUint8(offset int, v uint8) int {
	if offset < 0 {
		return offset
	}
	if !c.Buf.Fits(offset, 1) {
		return -1
	}
	c.Buf.SetUint8(offset, v)
	return offset + 1
}

func (c *Cursor) DecodeUint8(offset int) (int, uint8) {
	if offset < 0 {
		return offset, 0
	}
	if !c.Buf.Fits(offset, 1) {
		return -1, 0
	}
	return offset + 1, c.Buf.GetUint8(offset)
}

// EncodeUint16 writes a 2-byte-aligned uint16. A negative input offset
// is passed through unchanged (the sticky-error convention, §4.B).
func (c *Cursor) EncodeUint16(offset int, v uint16) int {
	if offset < 0 {
		return offset
	}
	offset = align(offset, 2)
	if !c.Buf.Fits(offset, 2) {
		return -1
	}
	c.Buf.SetUint16(offset, v)
	return offset + 2
}

func (c *Cursor) DecodeUint16(offset int) (int, uint16) {
	if offset < 0 {
		return offset, 0
	}
	offset = align(offset, 2)
	if !c.Buf.Fits(offset, 2) {
		return -1, 0
	}
	return offset + 2, c.Buf.GetUint16(offset)
}

// EncodeUint32 writes a 4-byte-aligned uint32.
func (c *Cursor) EncodeUint32(offset int, v uint32) int {
	if offset < 0 {
		return offset
	}
	offset = align(offset, 4)
	if !c.Buf.Fits(offset, 4) {
		return -1
	}
	c.Buf.SetUint32(offset, v)
	return offset + 4
}

func (c *Cursor) DecodeUint32(offset int) (int, uint32) {
	if offset < 0 {
		return offset, 0
	}
	offset = align(offset, 4)
	if !c.Buf.Fits(offset, 4) {
		return -1, 0
	}
	return offset + 4, c.Buf.GetUint32(offset)
}

// EncodeUint64 writes an 8-byte-aligned uint64.
func (c *Cursor) EncodeUint64(offset int, v uint64) int {
	if offset < 0 {
		return offset
	}
	offset = align(offset, 8)
	if !c.Buf.Fits(offset, 8) {
		return -1
	}
	c.Buf.SetUint64(offset, v)
	return offset + 8
}

func (c *Cursor) DecodeUint64(offset int) (int, uint64) {
	if offset < 0 {
		return offset, 0
	}
	offset = align(offset, 8)
	if !c.Buf.Fits(offset, 8) {
		return -1, 0
	}
	return offset + 8, c.Buf.GetUint64(offset)
}

// Encode3264 encodes a word whose wire size depends on the negotiated
// transfer syntax: 32 bits under NDR32, 64 under NDR64 (§4.B). Decoded
// NDR32 values are always widened to 64 bits for the caller.
func (c *Cursor) Encode3264(offset int, v uint64) int {
	if offset < 0 {
		return offset
	}
	if c.TSyn == NDR64 {
		return c.EncodeUint64(offset, v)
	}
	return c.EncodeUint32(offset, uint32(v))
}

func (c *Cursor) Decode3264(offset int) (int, uint64) {
	if offset < 0 {
		return offset, 0
	}
	if c.TSyn == NDR64 {
		return c.DecodeUint64(offset)
	}
	newOffset, v := c.DecodeUint32(offset)
	return newOffset, uint64(v)
}

// alignPtr aligns to the pointer-sized boundary for the negotiated
// syntax: 4 bytes under NDR32, 8 under NDR64 (used by the pointer
// engine in pointer.go ahead of every referent ID / embedded referent).
func (c *Cursor) alignPtr(offset int) int {
	if offset < 0 {
		return offset
	}
	if c.TSyn == NDR64 {
		return align(offset, 8)
	}
	return align(offset, 4)
}
