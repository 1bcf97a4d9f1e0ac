package dcerpc

import "github.com/specterops/dcerpc/internal/wire"

// Reassemble coalesces a buffer containing one or more RESPONSE PDUs,
// concatenated exactly as delivered by the pipe, into a single fragment
// (§4.G). The first PDU must be version 5.0 RESPONSE; if its LAST_FRAG
// flag is already set the buffer is returned unchanged.
//
// The returned int is the coalesced length and is authoritative. The
// rewritten header's frag_length is the sum of every fragment's
// frag_length (each fragment's 24-byte headers included), accumulated
// as an int and, per the spec's open question on frag_length overflow
// (§9), written to the 16-bit field as a truncating cast — so callers
// that re-parse the rewritten header see a value that differs from the
// returned length, and may also observe that wraparound.
func Reassemble(buf []byte) (total int, err error) {
	b := wire.New(buf)

	var hdr Header
	if DecodeHeader(b, &hdr) < 0 {
		return 0, ErrProtocolViolation
	}
	if hdr.RPCVers != 5 || hdr.RPCVersMinor != 0 || hdr.PTYPE != PtypeResponse {
		return 0, ErrProtocolViolation
	}
	if hdr.PFCFlags&PfcLastFrag != 0 {
		return len(buf), nil
	}

	unfragmentLen := int(hdr.FragLength)
	readOffset := int(hdr.FragLength)
	fragTotal := int(hdr.FragLength)
	lastSeen := false

	for {
		if len(buf)-readOffset < headerSize+responseHeaderSize {
			return 0, ErrProtocolViolation
		}

		var next Header
		nextBuf := wire.New(buf[readOffset:])
		if DecodeHeader(nextBuf, &next) < 0 {
			return 0, ErrProtocolViolation
		}

		stubLen := int(next.FragLength) - headerSize - responseHeaderSize
		if stubLen < 0 || readOffset+int(next.FragLength) > len(buf) {
			return 0, ErrProtocolViolation
		}

		copy(buf[unfragmentLen:], buf[readOffset+headerSize+responseHeaderSize:readOffset+int(next.FragLength)])
		unfragmentLen += stubLen
		readOffset += int(next.FragLength)
		fragTotal += int(next.FragLength)

		lastSeen = next.PFCFlags&PfcLastFrag != 0
		if lastSeen {
			break
		}
	}

	hdr.FragLength = uint16(fragTotal)
	hdr.PFCFlags |= PfcLastFrag
	EncodeHeader(b, &hdr)

	return unfragmentLen, nil
}
