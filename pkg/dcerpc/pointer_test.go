package dcerpc

import (
	"testing"

	"github.com/specterops/dcerpc/internal/wire"
)

func TestEncodePtrTopLevelRefIsInline(t *testing.T) {
	buf := wire.New(make([]byte, 32))
	pdu := NewPDU(5)
	c := &Cursor{Buf: buf, PDU: pdu}

	called := false
	off := c.EncodePtr(0, true, PtrRef, true, func(o int, topLevel bool) int {
		called = true
		return c.EncodeUint32(o, 0x42)
	})
	if off < 0 {
		t.Fatalf("encode failed")
	}
	if !called {
		t.Fatalf("top-level PTR_REF coder must run inline, not deferred")
	}
	if len(pdu.queue) != 0 {
		t.Fatalf("top-level PTR_REF must not enqueue a deferred coder")
	}
	if v := buf.GetUint32(0); v != 0x42 {
		t.Errorf("expected referent data written in place, got %x", v)
	}
}

func TestEncodePtrEmbeddedUniqueNullWritesZeroReferent(t *testing.T) {
	buf := wire.New(make([]byte, 32))
	pdu := NewPDU(1)
	c := &Cursor{Buf: buf, PDU: pdu}

	off := c.EncodePtr(0, false, PtrUnique, false, func(o int, topLevel bool) int {
		t.Fatalf("coder must not run for an absent unique pointer")
		return o
	})
	if off != 4 {
		t.Fatalf("null unique pointer should consume one 3264 word, offset=%d", off)
	}
	if v := buf.GetUint32(0); v != 0 {
		t.Errorf("null unique pointer referent = %x, want 0", v)
	}
}

func TestEncodePtrReferentIDsMonotonic(t *testing.T) {
	buf := wire.New(make([]byte, 64))
	pdu := NewPDU(1)
	c := &Cursor{Buf: buf, PDU: pdu, TSyn: NDR32}

	off := c.EncodePtr(0, false, PtrUnique, true, func(o int, topLevel bool) int {
		return c.EncodeUint32(o, 0xaaaa)
	})
	off = c.EncodePtr(off, false, PtrUnique, true, func(o int, topLevel bool) int {
		return c.EncodeUint32(o, 0xbbbb)
	})
	if off < 0 {
		t.Fatalf("encode failed")
	}

	first := buf.GetUint32(0)
	second := buf.GetUint32(4)
	if first == 0 || second == 0 || first == second {
		t.Errorf("expected distinct nonzero referent IDs, got %x %x", first, second)
	}
	if second != first+1 {
		t.Errorf("referent IDs should increase monotonically: %x then %x", first, second)
	}
}

func TestDeferredQueueDrainsFIFOAndHonorsNestedEnqueue(t *testing.T) {
	buf := wire.New(make([]byte, 128))
	pdu := NewPDU(1)
	c := &Cursor{Buf: buf, PDU: pdu, TSyn: NDR32}

	var order []int

	off := c.EncodePtr(0, false, PtrUnique, true, func(o int, topLevel bool) int {
		order = append(order, 1)
		// This pointer's own coder enqueues a further nested pointer,
		// which must still drain within the same ProcessDeferredPointers call.
		return c.EncodePtr(o, false, PtrUnique, true, func(o2 int, topLevel2 bool) int {
			order = append(order, 2)
			return c.EncodeUint32(o2, 0)
		})
	})
	off = c.EncodePtr(off, false, PtrUnique, true, func(o int, topLevel bool) int {
		order = append(order, 3)
		return c.EncodeUint32(o, 0)
	})

	off = c.ProcessDeferredPointers(off)
	if off < 0 {
		t.Fatalf("drain failed")
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 coder invocations, got %d: %v", len(order), order)
	}
	if order[0] != 1 || order[1] != 3 || order[2] != 2 {
		t.Errorf("FIFO order violated: %v (want outer pointers before nested)", order)
	}
}

func TestMaxDeferredPtrBound(t *testing.T) {
	buf := wire.New(make([]byte, 8))
	pdu := NewPDU(1)
	c := &Cursor{Buf: buf, PDU: pdu, TSyn: NDR32}

	for i := 0; i < MaxDeferredPtr; i++ {
		if !pdu.enqueueDeferred(func(o int) int { return o }) {
			t.Fatalf("enqueue %d should have succeeded", i)
		}
	}
	if pdu.enqueueDeferred(func(o int) int { return o }) {
		t.Fatalf("enqueue past MaxDeferredPtr should fail")
	}
	_ = c
}
