package dcerpc

import "github.com/specterops/dcerpc/internal/wire"

// MaxAllocHint is the upper bound spec §4.F imposes on a RESPONSE's
// alloc_hint field; exceeding it is a protocol violation.
const MaxAllocHint = 16 * 1024 * 1024

// requestHeaderSize is the fixed REQUEST body before the user stub:
// {u32 alloc_hint, u16 context_id, u16 opnum} (§4.F).
const requestHeaderSize = 8

// responseHeaderSize is the fixed RESPONSE body before the stub:
// {u32 alloc_hint, u16 context_id, u8 cancel_count, u8 reserved} (§4.F).
const responseHeaderSize = 8

// encodeRequestBody writes the REQUEST body's fixed fields and returns
// the offset where the user-encoded stub begins.
func encodeRequestBody(buf wire.Buf, contextID, opnum uint16) int {
	c := &Cursor{Buf: buf}
	offset := headerSize
	offset = c.EncodeUint32(offset, 0) // alloc_hint, backfilled later
	offset = c.EncodeUint16(offset, contextID)
	offset = c.EncodeUint16(offset, opnum)
	return offset
}

// backfillRequest rewrites frag_length (header offset 8) and alloc_hint
// (offset 16) once the full PDU — header, request header, user stub —
// has been assembled. alloc_hint is the stub length: total minus the
// fixed 24-byte prefix (16-byte header + 8-byte request header), per §4.F.
func backfillRequest(buf wire.Buf, total int) {
	buf.SetUint16(8, uint16(total))
	buf.SetUint32(16, uint32(total-headerSize-requestHeaderSize))
}

// ResponseHeader holds the fixed RESPONSE fields (§4.F).
type ResponseHeader struct {
	AllocHint  uint32
	ContextID  uint16
	CancelCount uint8
}

// decodeResponseBody parses the fixed RESPONSE header and validates
// alloc_hint's range (§4.F, §7). It returns the offset of the stub
// area (the start of the user payload) on success, or -1 if alloc_hint
// is out of range.
func decodeResponseBody(buf wire.Buf, offset int) (int, *ResponseHeader) {
	c := &Cursor{Buf: buf}
	rsp := &ResponseHeader{}

	offset, rsp.AllocHint = c.DecodeUint32(offset)
	if offset < 0 {
		return offset, nil
	}
	if rsp.AllocHint > MaxAllocHint {
		return -1, nil
	}

	offset, rsp.ContextID = c.DecodeUint16(offset)
	offset, rsp.CancelCount = c.DecodeUint8(offset)
	offset, _ = c.DecodeUint8(offset) // reserved
	return offset, rsp
}
