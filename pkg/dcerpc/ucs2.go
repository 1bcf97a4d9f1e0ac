package dcerpc

import "unicode/utf16"

// UCS2Converter is the external "UCS-2 ↔ UTF-8 conversion" collaborator
// named in spec §1/§6. The NDR layer owns the wire framing (counts,
// alignment, NUL termination); conversion of the raw code units is
// delegated here so a caller on a constrained platform can swap in a
// different converter. DefaultUCS2Converter below mirrors the teacher's
// own choice of stdlib unicode/utf16 (see DESIGN.md).
type UCS2Converter interface {
	Encode(s string) []uint16
	Decode(units []uint16) string
}

type stdUCS2Converter struct{}

func (stdUCS2Converter) Encode(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func (stdUCS2Converter) Decode(units []uint16) string {
	return string(utf16.Decode(units))
}

// DefaultUCS2Converter is used when a Cursor is built without an
// explicit converter.
var DefaultUCS2Converter UCS2Converter = stdUCS2Converter{}

func (c *Cursor) converter() UCS2Converter {
	if c.Conv != nil {
		return c.Conv
	}
	return DefaultUCS2Converter
}

// EncodeUCS2Z encodes s as a NUL-terminated conformant-varying UCS-2
// array: {max_count, offset=0, actual_count, data[actual_count], NUL},
// where max_count == actual_count == len(units)+1 including the
// terminator (§4.B).
func (c *Cursor) EncodeUCS2Z(offset int, s string) int {
	if offset < 0 {
		return offset
	}
	units := c.converter().Encode(s)
	count := uint64(len(units)) + 1

	offset = c.Encode3264(offset, count) // max_count
	offset = c.Encode3264(offset, 0)     // offset
	offset = c.Encode3264(offset, count) // actual_count
	for _, u := range units {
		offset = c.EncodeUint16(offset, u)
	}
	offset = c.EncodeUint16(offset, 0) // NUL terminator
	return offset
}

// DecodeUCS2Z reverses EncodeUCS2Z and converts the code units to a Go
// (UTF-8) string via the configured UCS2Converter.
func (c *Cursor) DecodeUCS2Z(offset int) (int, string) {
	var maxCount, off, actual uint64
	offset, maxCount = c.Decode3264(offset)
	offset, off = c.Decode3264(offset)
	offset, actual = c.Decode3264(offset)
	_ = maxCount
	_ = off
	if offset < 0 {
		return offset, ""
	}
	if actual == 0 {
		return offset, ""
	}

	units := make([]uint16, actual)
	for i := range units {
		var u uint16
		offset, u = c.DecodeUint16(offset)
		if offset < 0 {
			return offset, ""
		}
		units[i] = u
	}
	// Drop the trailing NUL the conformant array carries, if present.
	if n := len(units); n > 0 && units[n-1] == 0 {
		units = units[:n-1]
	}
	return offset, c.converter().Decode(units)
}
