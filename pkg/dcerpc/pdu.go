package dcerpc

// MaxDeferredPtr bounds the deferred-pointer queue per PDU (§3, §5).
// It is a sanity cap carried over from the original fixed-size array;
// in this port the queue is a growable slice, but encoding/decoding
// that would need more than this many deferred referents is treated
// as a fatal protocol error on the call, exactly as specified.
const MaxDeferredPtr = 1024

// PDU is the per-call bookkeeping that exists only for the duration of
// one request/response exchange (§3). Unlike the C original, top_level
// is not stored here — it is threaded explicitly through Encode/Decode
// calls (see DESIGN.md's note on spec §9) — but the deferred-pointer
// queue and its cursor are PDU-scoped exactly as specified.
type PDU struct {
	Header Header

	ptrID  uint64
	queue  []deferredCoder
	curPtr int
}

type deferredCoder func(offset int) int

// newPDU allocates a PDU with the given call ID, the sole correlation
// token a caller needs when multiplexing calls on one Context (§5).
func newPDU(callID uint32) *PDU {
	return &PDU{Header: Header{CallID: callID}}
}

// NewPDU is the exported form of newPDU, for interface packages (e.g.
// pkg/dcerpc/srvsvc) and tests that need to drive the pointer engine
// directly without going through Ctx.
func NewPDU(callID uint32) *PDU {
	return newPDU(callID)
}

// enqueueDeferred appends a deferred (coder, referent) pair, honoring
// the MaxDeferredPtr bound. It reports false if the bound is exceeded,
// which callers turn into a sticky -1 offset.
func (p *PDU) enqueueDeferred(coder deferredCoder) bool {
	if len(p.queue) >= MaxDeferredPtr {
		return false
	}
	p.queue = append(p.queue, coder)
	return true
}

// processDeferred drains the FIFO queue from curPtr to the (possibly
// growing) end, in enqueue order. A deferred coder that itself enqueues
// further referents is honored within the same drain, because the loop
// re-reads len(p.queue) on every iteration (§4.C).
func processDeferred(p *PDU, offset int) int {
	for p.curPtr < len(p.queue) {
		if offset < 0 {
			return offset
		}
		idx := p.curPtr
		p.curPtr++
		offset = p.queue[idx](offset)
	}
	return offset
}
