package wire

import "testing"

func TestRoundTrip(t *testing.T) {
	b := New(make([]byte, 32))

	b.SetUint8(0, 0xAB)
	if got := b.GetUint8(0); got != 0xAB {
		t.Fatalf("uint8 round-trip: got %#x", got)
	}

	b.SetUint16(2, 0x1234)
	if got := b.GetUint16(2); got != 0x1234 {
		t.Fatalf("uint16 round-trip: got %#x", got)
	}

	b.SetUint32(4, 0xdeadbeef)
	if got := b.GetUint32(4); got != 0xdeadbeef {
		t.Fatalf("uint32 round-trip: got %#x", got)
	}

	b.SetUint64(8, 0x0102030405060708)
	if got := b.GetUint64(8); got != 0x0102030405060708 {
		t.Fatalf("uint64 round-trip: got %#x", got)
	}
}

func TestFits(t *testing.T) {
	b := New(make([]byte, 8))
	if !b.Fits(0, 8) {
		t.Fatal("expected exact fit to succeed")
	}
	if b.Fits(0, 9) {
		t.Fatal("expected overrun to fail")
	}
	if b.Fits(-1, 1) {
		t.Fatal("expected negative offset to fail")
	}
}
