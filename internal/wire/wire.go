// Package wire provides little-endian fixed-width integer access into a
// bounded byte buffer. It is the lowest layer of the DCE/RPC core: every
// NDR coder primitive in pkg/dcerpc bottoms out here.
//
// Bounds checking is the caller's responsibility (§4.A of the spec): the
// NDR layer validates offsets before calling in, so these accessors panic
// on out-of-range access rather than silently truncating.
package wire

import "encoding/binary"

// Buf is a bounded little-endian byte buffer.
type Buf struct {
	B []byte
}

func New(b []byte) Buf { return Buf{B: b} }

func (w Buf) Len() int { return len(w.B) }

func (w Buf) GetUint8(off int) uint8 {
	return w.B[off]
}

func (w Buf) SetUint8(off int, v uint8) {
	w.B[off] = v
}

func (w Buf) GetUint16(off int) uint16 {
	return binary.LittleEndian.Uint16(w.B[off : off+2])
}

func (w Buf) SetUint16(off int, v uint16) {
	binary.LittleEndian.PutUint16(w.B[off:off+2], v)
}

func (w Buf) GetUint32(off int) uint32 {
	return binary.LittleEndian.Uint32(w.B[off : off+4])
}

func (w Buf) SetUint32(off int, v uint32) {
	binary.LittleEndian.PutUint32(w.B[off:off+4], v)
}

func (w Buf) GetUint64(off int) uint64 {
	return binary.LittleEndian.Uint64(w.B[off : off+8])
}

func (w Buf) SetUint64(off int, v uint64) {
	binary.LittleEndian.PutUint64(w.B[off:off+8], v)
}

// Fits reports whether a region of n bytes starting at off lies within
// the buffer. Coders call this before touching the buffer so that an
// out-of-range access becomes a sticky negative offset instead of a panic.
func (w Buf) Fits(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= len(w.B)
}
