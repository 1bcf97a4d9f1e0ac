package dcerpc

import "github.com/specterops/dcerpc/internal/wire"

// BIND_ACK per-context result codes (§4.E).
const (
	AckResultAcceptance        uint16 = 0
	AckResultUserRejection     uint16 = 1
	AckResultProviderRejection uint16 = 2
)

// BIND_ACK rejection reasons.
const (
	AckReasonNotSpecified               uint16 = 0
	AckReasonAbstractSyntaxNotSupported uint16 = 1
	AckReasonTransferSyntaxesNotSupported uint16 = 2
	AckReasonProtocolVersionNotSupported uint16 = 4
)

const maxAckResults = 4

// BindAckResult is one presentation-context result entry from a
// BIND_ACK (§4.E).
type BindAckResult struct {
	AckResult     uint16
	AckReason     uint16
	TransferUUID  UUID
	SyntaxVersion uint32
}

// BindAck holds the decoded fields of a BIND_ACK PDU (§4.E).
type BindAck struct {
	MaxXmitFrag  uint16
	MaxRecvFrag  uint16
	AssocGroupID uint32
	Results      []BindAckResult
}

// encodeBindBody writes the BIND body: the fixed fields followed by
// two presentation-context items — item 0 proposing NDR32 (ctx_id=0),
// item 1 proposing NDR64 (ctx_id=1) — both against the same abstract
// syntax (§4.E).
func encodeBindBody(buf wire.Buf, abstract SyntaxID, maxXmitFrag, maxRecvFrag uint16) int {
	c := &Cursor{Buf: buf} // transfer syntax is irrelevant before BIND_ACK; BIND body is always NDR32-shaped
	offset := headerSize

	offset = c.EncodeUint16(offset, maxXmitFrag)
	offset = c.EncodeUint16(offset, maxRecvFrag)
	offset = c.EncodeUint32(offset, 0) // assoc_group_id
	offset = align4(offset)
	if offset < 0 {
		return offset
	}
	if !buf.Fits(offset, 4) {
		return -1
	}
	buf.SetUint8(offset, 2) // num_ctx_items
	offset += 4             // + 3 bytes padding

	offset = encodePresentationContext(c, offset, 0, abstract, NDR32Syntax)
	offset = encodePresentationContext(c, offset, 1, abstract, NDR64Syntax)

	if offset < 0 {
		return offset
	}
	// Backfill frag_length now that the body is fully emitted.
	buf.SetUint16(8, uint16(offset))
	return offset
}

func align4(offset int) int {
	if offset < 0 {
		return offset
	}
	return align(offset, 4)
}

func encodePresentationContext(c *Cursor, offset int, ctxID uint16, abstract, transfer SyntaxID) int {
	offset = c.EncodeUint16(offset, ctxID)
	offset = c.EncodeUint8(offset, 1) // num_trans_items
	offset = c.EncodeUint8(offset, 0) // padding
	offset = c.EncodeUUID(offset, abstract.UUID)
	offset = c.EncodeUint16(offset, abstract.VersMajor)
	offset = c.EncodeUint16(offset, abstract.VersMinor)
	offset = c.EncodeUUID(offset, transfer.UUID)
	offset = c.EncodeUint16(offset, transfer.VersMajor)
	offset = c.EncodeUint16(offset, 0) // 2 bytes padding
	return offset
}

// decodeBindAckBody parses the BIND_ACK body that follows the common
// header (§4.E).
func decodeBindAckBody(buf wire.Buf, offset int) (int, *BindAck) {
	c := &Cursor{Buf: buf}
	ack := &BindAck{}

	offset, ack.MaxXmitFrag = c.DecodeUint16(offset)
	offset, ack.MaxRecvFrag = c.DecodeUint16(offset)
	offset, ack.AssocGroupID = c.DecodeUint32(offset)

	var secAddrLen uint16
	offset, secAddrLen = c.DecodeUint16(offset)
	if offset < 0 {
		return offset, nil
	}
	offset += int(secAddrLen)
	offset = align4(offset)
	if offset < 0 || !buf.Fits(offset, 4) {
		return -1, nil
	}

	numResults := int(buf.GetUint8(offset))
	offset += 4 // 1 byte count + 3 bytes padding

	if numResults > maxAckResults {
		return -1, nil
	}

	for i := 0; i < numResults; i++ {
		var r BindAckResult
		offset, r.AckResult = c.DecodeUint16(offset)
		offset, r.AckReason = c.DecodeUint16(offset)
		offset, r.TransferUUID = c.DecodeUUID(offset)
		offset, r.SyntaxVersion = c.DecodeUint32(offset)
		if offset < 0 {
			return offset, nil
		}
		ack.Results = append(ack.Results, r)
	}

	return offset, ack
}

// selectTransferSyntax implements the BIND_ACK selection rule (§4.E):
// the lowest-indexed result with AckResultAcceptance wins; if none
// accept, the bind fails.
func selectTransferSyntax(ack *BindAck) (TransferSyntax, bool) {
	for i, r := range ack.Results {
		if r.AckResult == AckResultAcceptance {
			return TransferSyntax(i), true
		}
	}
	return 0, false
}
