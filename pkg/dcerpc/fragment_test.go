package dcerpc

import (
	"bytes"
	"testing"

	"github.com/specterops/dcerpc/internal/wire"
)

func buildFragment(t *testing.T, callID uint32, last bool, stub []byte) []byte {
	t.Helper()
	buf := make([]byte, headerSize+responseHeaderSize+len(stub))
	w := wire.New(buf)

	flags := PfcFirstFrag
	if last {
		flags |= PfcLastFrag
	}
	hdr := Header{
		RPCVers:      5,
		RPCVersMinor: 0,
		PTYPE:        PtypeResponse,
		PFCFlags:     flags,
		Drep:         [4]uint8{DrepLittleEndianASCII, 0, 0, 0},
		FragLength:   uint16(len(buf)),
		CallID:       callID,
	}
	EncodeHeader(w, &hdr)

	c := &Cursor{Buf: w}
	off := headerSize
	off = c.EncodeUint32(off, uint32(len(stub)))
	off = c.EncodeUint16(off, 0)
	off = c.EncodeUint8(off, 0)
	off = c.EncodeUint8(off, 0)
	copy(buf[off:], stub)
	return buf
}

func TestReassembleSingleFragmentIsNoop(t *testing.T) {
	stub := []byte("hello")
	frag := buildFragment(t, 7, true, stub)

	total, err := Reassemble(frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != len(frag) {
		t.Errorf("total = %d, want %d", total, len(frag))
	}
}

func TestReassembleCoalescesMultipleFragments(t *testing.T) {
	stub1 := bytes.Repeat([]byte{0xaa}, 16)
	stub2 := bytes.Repeat([]byte{0xbb}, 8)
	stub3 := bytes.Repeat([]byte{0xcc}, 4)

	f1 := buildFragment(t, 9, false, stub1)
	f2 := buildFragment(t, 9, false, stub2)
	f3 := buildFragment(t, 9, true, stub3)

	combined := append(append(append([]byte{}, f1...), f2...), f3...)

	total, err := Reassemble(combined)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLen := headerSize + responseHeaderSize + len(stub1) + len(stub2) + len(stub3)
	if total != wantLen {
		t.Fatalf("total = %d, want %d", total, wantLen)
	}

	stub := combined[headerSize+responseHeaderSize : total]
	want := append(append(append([]byte{}, stub1...), stub2...), stub3...)
	if !bytes.Equal(stub, want) {
		t.Errorf("coalesced stub mismatch")
	}

	var hdr Header
	DecodeHeader(wire.New(combined), &hdr)
	if hdr.PFCFlags&PfcLastFrag == 0 {
		t.Errorf("coalesced header should have LAST_FRAG set")
	}
}

func TestReassembleRejectsWrongPType(t *testing.T) {
	frag := buildFragment(t, 1, true, nil)
	frag[2] = PtypeRequest

	if _, err := Reassemble(frag); err == nil {
		t.Errorf("expected error for non-RESPONSE PDU")
	}
}
