package dcerpc

import "github.com/google/uuid"

// UUID is the four-field layout DCE/RPC uses on the wire (§3). v1/v2/v3
// are transmitted in the packet's own endianness (little, here); v4 is
// always emitted as eight big-endian bytes of the 64-bit integer. This
// asymmetry is intentional — see SPEC_FULL.md §13 on the open question
// in spec §9 — and must never be "corrected".
type UUID struct {
	V1 uint32
	V2 uint16
	V3 uint16
	V4 uint64
}

// SyntaxID is an immutable {UUID, major, minor} interface descriptor —
// used for both the abstract syntax (the interface being bound) and the
// transfer syntax (NDR32 or NDR64) in a BIND presentation context.
type SyntaxID struct {
	UUID       UUID
	VersMajor  uint16
	VersMinor  uint16
}

// NDR32Syntax and NDR64Syntax are the two well-known transfer syntax
// descriptors proposed in every BIND (§3). Byte-for-byte identical to
// the constants in the original dcerpc.c.
var (
	NDR32Syntax = SyntaxID{
		UUID:      UUID{V1: 0x8a885d04, V2: 0x1ceb, V3: 0x11c9, V4: 0x9fe808002b104860},
		VersMajor: 2,
	}
	NDR64Syntax = SyntaxID{
		UUID:      UUID{V1: 0x71710533, V2: 0xbeba, V3: 0x4937, V4: 0x8319b5dbef9ccc36},
		VersMajor: 1,
	}
)

// EncodeUUID writes the 16-byte mixed-endian UUID layout: v1 (LE u32),
// v2 (LE u16), v3 (LE u16), v4 (eight bytes, most-significant first).
func (c *Cursor) EncodeUUID(offset int, u UUID) int {
	offset = c.EncodeUint32(offset, u.V1)
	offset = c.EncodeUint16(offset, u.V2)
	offset = c.EncodeUint16(offset, u.V3)
	if offset < 0 {
		return offset
	}
	if !c.Buf.Fits(offset, 8) {
		return -1
	}
	for i := 0; i < 8; i++ {
		shift := uint(56 - 8*i)
		c.Buf.SetUint8(offset+i, byte(u.V4>>shift))
	}
	return offset + 8
}

// DecodeUUID reverses EncodeUUID, reconstructing v4 by shifting in each
// byte most-significant-first — the same asymmetric layout as encode.
func (c *Cursor) DecodeUUID(offset int) (int, UUID) {
	var u UUID
	offset, u.V1 = c.DecodeUint32(offset)
	offset, u.V2 = c.DecodeUint16(offset)
	offset, u.V3 = c.DecodeUint16(offset)
	if offset < 0 {
		return offset, UUID{}
	}
	if !c.Buf.Fits(offset, 8) {
		return -1, UUID{}
	}
	var v4 uint64
	for i := 0; i < 8; i++ {
		v4 = (v4 << 8) | uint64(c.Buf.GetUint8(offset+i))
	}
	u.V4 = v4
	return offset + 8, u
}

// ParseSyntaxUUID parses a canonical UUID string (the external
// "UUID string parsing" collaborator named in spec §1/§6) into the
// mixed-endian wire layout above, by way of google/uuid's validated
// parser and byte array.
func ParseSyntaxUUID(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	b := [16]byte(id)
	return UUID{
		V1: uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		V2: uint16(b[4])<<8 | uint16(b[5]),
		V3: uint16(b[6])<<8 | uint16(b[7]),
		V4: uint64(b[8])<<56 | uint64(b[9])<<48 | uint64(b[10])<<40 | uint64(b[11])<<32 |
			uint64(b[12])<<24 | uint64(b[13])<<16 | uint64(b[14])<<8 | uint64(b[15]),
	}, nil
}
