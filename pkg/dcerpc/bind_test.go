package dcerpc

import (
	"testing"

	"github.com/specterops/dcerpc/internal/wire"
)

func TestEncodeBindBodyFragLengthBackfilled(t *testing.T) {
	buf := wire.New(make([]byte, 256))
	hdr := newHeader(PtypeBind, 1)
	EncodeHeader(buf, &hdr)

	n := encodeBindBody(buf, NDR32Syntax, 4280, 4280)
	if n < 0 {
		t.Fatalf("encode failed")
	}
	if got := buf.GetUint16(8); got != uint16(n) {
		t.Errorf("frag_length = %d, want %d", got, n)
	}
}

func buildBindAck(results []BindAckResult) []byte {
	buf := make([]byte, 512)
	w := wire.New(buf)
	hdr := newHeader(PtypeBindAck, 1)
	EncodeHeader(w, &hdr)

	c := &Cursor{Buf: w}
	off := headerSize
	off = c.EncodeUint16(off, 4280)
	off = c.EncodeUint16(off, 4280)
	off = c.EncodeUint32(off, 0)
	off = c.EncodeUint16(off, 0) // sec_addr_len
	off = align4(off)
	w.SetUint8(off, uint8(len(results)))
	off += 4
	for _, r := range results {
		off = c.EncodeUint16(off, r.AckResult)
		off = c.EncodeUint16(off, r.AckReason)
		off = c.EncodeUUID(off, r.TransferUUID)
		off = c.EncodeUint32(off, r.SyntaxVersion)
	}
	return buf[:off]
}

func TestSelectTransferSyntaxAcceptsFirstMatch(t *testing.T) {
	ack := &BindAck{Results: []BindAckResult{
		{AckResult: AckResultAcceptance},
		{AckResult: AckResultAcceptance},
	}}
	tsyn, ok := selectTransferSyntax(ack)
	if !ok || tsyn != NDR32 {
		t.Errorf("got (%v, %v), want (NDR32, true)", tsyn, ok)
	}
}

func TestSelectTransferSyntaxSkipsRejected(t *testing.T) {
	ack := &BindAck{Results: []BindAckResult{
		{AckResult: AckResultProviderRejection},
		{AckResult: AckResultAcceptance},
	}}
	tsyn, ok := selectTransferSyntax(ack)
	if !ok || tsyn != NDR64 {
		t.Errorf("got (%v, %v), want (NDR64, true)", tsyn, ok)
	}
}

func TestSelectTransferSyntaxNoneAccepted(t *testing.T) {
	ack := &BindAck{Results: []BindAckResult{
		{AckResult: AckResultUserRejection},
		{AckResult: AckResultProviderRejection},
	}}
	if _, ok := selectTransferSyntax(ack); ok {
		t.Errorf("expected no accepted context")
	}
}

func TestDecodeBindAckBodyRoundTrip(t *testing.T) {
	want := []BindAckResult{
		{AckResult: AckResultAcceptance, TransferUUID: NDR32Syntax.UUID, SyntaxVersion: 2},
		{AckResult: AckResultAcceptance, TransferUUID: NDR64Syntax.UUID, SyntaxVersion: 1},
	}
	raw := buildBindAck(want)

	offset, ack := decodeBindAckBody(wire.New(raw), headerSize)
	if offset < 0 || ack == nil {
		t.Fatalf("decode failed")
	}
	if len(ack.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(ack.Results), len(want))
	}
	for i, r := range ack.Results {
		if r.AckResult != want[i].AckResult || r.SyntaxVersion != want[i].SyntaxVersion {
			t.Errorf("result %d mismatch: got %+v, want %+v", i, r, want[i])
		}
	}
}

func TestDecodeBindAckBodyRejectsTooManyResults(t *testing.T) {
	results := make([]BindAckResult, maxAckResults+1)
	raw := buildBindAck(results)

	if offset, ack := decodeBindAckBody(wire.New(raw), headerSize); offset >= 0 || ack != nil {
		t.Errorf("expected rejection of %d results (max %d)", len(results), maxAckResults)
	}
}
