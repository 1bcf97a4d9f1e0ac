package dcerpc

// PtrKind distinguishes the two pointer flavors NDR supports (§4.C).
type PtrKind int

const (
	// PtrRef pointers are never null; at top level their referent is
	// emitted in place, embedded they always carry a (non-optional)
	// referent ID.
	PtrRef PtrKind = iota
	// PtrUnique pointers may be null; a zero referent ID means NULL.
	PtrUnique
)

// EncodePtr implements the NDR top-level/embedded pointer encoding
// algorithm (§4.C). coder is invoked either immediately (top-level) or,
// for an embedded pointer, enqueued on the PDU's deferred queue to run
// after the enclosing structure finishes. present is ignored for
// PtrRef (never null) and tells PtrUnique whether the referent exists.
func (c *Cursor) EncodePtr(offset int, topLevel bool, kind PtrKind, present bool, coder func(offset int, topLevel bool) int) int {
	if offset < 0 {
		return offset
	}
	offset = c.alignPtr(offset)

	switch kind {
	case PtrRef:
		if topLevel {
			return coder(offset, false)
		}
		c.PDU.ptrID++
		offset = c.Encode3264(offset, c.PDU.ptrID)
		if !c.PDU.enqueueDeferred(func(o int) int { return coder(o, false) }) {
			return -1
		}
		return offset
	case PtrUnique:
		if !present {
			return c.Encode3264(offset, 0)
		}
		c.PDU.ptrID++
		offset = c.Encode3264(offset, c.PDU.ptrID)
		if topLevel {
			return coder(offset, false)
		}
		if !c.PDU.enqueueDeferred(func(o int) int { return coder(o, false) }) {
			return -1
		}
		return offset
	}
	return -1
}

// DecodePtr mirrors EncodePtr. For PtrUnique it reports via present
// whether a referent was there at all (referent ID nonzero); coder is
// neither invoked nor enqueued when present is false.
func (c *Cursor) DecodePtr(offset int, topLevel bool, kind PtrKind, coder func(offset int, topLevel bool) int) (newOffset int, present bool) {
	if offset < 0 {
		return offset, false
	}
	offset = c.alignPtr(offset)

	switch kind {
	case PtrRef:
		if topLevel {
			return coder(offset, false), true
		}
		var refID uint64
		offset, refID = c.Decode3264(offset)
		_ = refID
		if !c.PDU.enqueueDeferred(func(o int) int { return coder(o, false) }) {
			return -1, false
		}
		return offset, true
	case PtrUnique:
		var refID uint64
		offset, refID = c.Decode3264(offset)
		if offset < 0 {
			return offset, false
		}
		if refID == 0 {
			return offset, false
		}
		if topLevel {
			return coder(offset, false), true
		}
		if !c.PDU.enqueueDeferred(func(o int) int { return coder(o, false) }) {
			return -1, false
		}
		return offset, true
	}
	return -1, false
}

// ProcessDeferredPointers drains the PDU's FIFO deferred-pointer queue
// in enqueue order, re-reading the queue length every iteration so that
// a deferred coder enqueuing further referents is honored within the
// same drain (§4.C). Call this once after an outer structure's primary
// content has been (un)marshalled.
func (c *Cursor) ProcessDeferredPointers(offset int) int {
	return processDeferred(c.PDU, offset)
}
