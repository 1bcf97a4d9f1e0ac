package dcerpc

import (
	"testing"

	"github.com/specterops/dcerpc/internal/wire"
)

func TestAlignment(t *testing.T) {
	cases := []struct {
		offset, n, want int
	}{
		{0, 4, 0},
		{1, 4, 4},
		{3, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{0, 8, 0},
		{1, 8, 8},
		{9, 8, 16},
	}
	for _, c := range cases {
		if got := align(c.offset, c.n); got != c.want {
			t.Errorf("align(%d, %d) = %d, want %d", c.offset, c.n, got, c.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	buf := wire.New(make([]byte, 64))
	c := &Cursor{Buf: buf}

	off := c.EncodeUint8(0, 0x7f)
	off = c.EncodeUint16(off, 0xbeef)
	off = c.EncodeUint32(off, 0xdeadbeef)
	off = c.EncodeUint64(off, 0x0102030405060708)
	if off < 0 {
		t.Fatalf("encode chain failed at offset %d", off)
	}

	off = 0
	var u8 uint8
	var u16 uint16
	var u32 uint32
	var u64 uint64
	off, u8 = c.DecodeUint8(off)
	off, u16 = c.DecodeUint16(off)
	off, u32 = c.DecodeUint32(off)
	off, u64 = c.DecodeUint64(off)

	if off < 0 {
		t.Fatalf("decode chain failed")
	}
	if u8 != 0x7f || u16 != 0xbeef || u32 != 0xdeadbeef || u64 != 0x0102030405060708 {
		t.Errorf("round trip mismatch: %x %x %x %x", u8, u16, u32, u64)
	}
}

func TestStickyNegativeOffset(t *testing.T) {
	buf := wire.New(make([]byte, 16))
	c := &Cursor{Buf: buf}

	if got := c.EncodeUint32(-1, 42); got != -1 {
		t.Errorf("EncodeUint32 on negative offset = %d, want -1", got)
	}
	off, v := c.DecodeUint16(-1)
	if off != -1 || v != 0 {
		t.Errorf("DecodeUint16 on negative offset = (%d, %d), want (-1, 0)", off, v)
	}
}

func TestOverrunReturnsNegativeOne(t *testing.T) {
	buf := wire.New(make([]byte, 2))
	c := &Cursor{Buf: buf}

	if got := c.EncodeUint32(0, 1); got != -1 {
		t.Errorf("EncodeUint32 past end = %d, want -1", got)
	}
}

func TestEncode3264DispatchesOnTransferSyntax(t *testing.T) {
	buf := wire.New(make([]byte, 16))

	c32 := &Cursor{Buf: buf, TSyn: NDR32}
	if off := c32.Encode3264(0, 0x1122); off != 4 {
		t.Errorf("NDR32 Encode3264 consumed %d bytes, want 4", off)
	}

	c64 := &Cursor{Buf: buf, TSyn: NDR64}
	if off := c64.Encode3264(0, 0x1122); off != 8 {
		t.Errorf("NDR64 Encode3264 consumed %d bytes, want 8", off)
	}
}
