package dcerpc

import "github.com/specterops/dcerpc/internal/wire"

// PDU types (§4.D). Only the subset this core emits/consumes has a
// codec; the rest are named for completeness when inspecting a header.
const (
	PtypeRequest           uint8 = 0
	PtypePing              uint8 = 1
	PtypeResponse          uint8 = 2
	PtypeFault             uint8 = 3
	PtypeWorking           uint8 = 4
	PtypeNocall            uint8 = 5
	PtypeReject            uint8 = 6
	PtypeAck               uint8 = 7
	PtypeClCancel          uint8 = 8
	PtypeFack              uint8 = 9
	PtypeCancelAck         uint8 = 10
	PtypeBind              uint8 = 11
	PtypeBindAck           uint8 = 12
	PtypeBindNak           uint8 = 13
	PtypeAlterContext      uint8 = 14
	PtypeAlterContextResp  uint8 = 15
	PtypeShutdown          uint8 = 17
	PtypeCoCancel          uint8 = 18
	PtypeOrphaned          uint8 = 19
)

// pfc_flags bits.
const (
	PfcFirstFrag      uint8 = 0x01
	PfcLastFrag       uint8 = 0x02
	PfcPendingCancel  uint8 = 0x04
	PfcConcMpx        uint8 = 0x10
	PfcDidNotExecute  uint8 = 0x20
	PfcMaybe          uint8 = 0x40
	PfcObjectUUID     uint8 = 0x80
)

// drep[0]: little-endian integers, ASCII characters — the only
// representation this core ever emits (§1 Non-goals, §4.D).
const DrepLittleEndianASCII uint8 = 0x10

const headerSize = 16

// Header is the fixed 16-byte common PDU header (§4.D).
type Header struct {
	RPCVers      uint8
	RPCVersMinor uint8
	PTYPE        uint8
	PFCFlags     uint8
	Drep         [4]uint8
	FragLength   uint16
	AuthLength   uint16
	CallID       uint32
}

// EncodeHeader writes the 16-byte header and returns the new offset
// (always headerSize from 0, but composed the same way as every other
// coder so callers can chain it).
func EncodeHeader(buf wire.Buf, h *Header) int {
	if !buf.Fits(0, headerSize) {
		return -1
	}
	buf.SetUint8(0, h.RPCVers)
	buf.SetUint8(1, h.RPCVersMinor)
	buf.SetUint8(2, h.PTYPE)
	buf.SetUint8(3, h.PFCFlags)
	buf.SetUint8(4, h.Drep[0])
	buf.SetUint8(5, h.Drep[1])
	buf.SetUint8(6, h.Drep[2])
	buf.SetUint8(7, h.Drep[3])
	buf.SetUint16(8, h.FragLength)
	buf.SetUint16(10, h.AuthLength)
	buf.SetUint32(12, h.CallID)
	return headerSize
}

// DecodeHeader reads the 16-byte common header.
func DecodeHeader(buf wire.Buf, h *Header) int {
	if !buf.Fits(0, headerSize) {
		return -1
	}
	h.RPCVers = buf.GetUint8(0)
	h.RPCVersMinor = buf.GetUint8(1)
	h.PTYPE = buf.GetUint8(2)
	h.PFCFlags = buf.GetUint8(3)
	h.Drep[0] = buf.GetUint8(4)
	h.Drep[1] = buf.GetUint8(5)
	h.Drep[2] = buf.GetUint8(6)
	h.Drep[3] = buf.GetUint8(7)
	h.FragLength = buf.GetUint16(8)
	h.AuthLength = buf.GetUint16(10)
	h.CallID = buf.GetUint32(12)
	return headerSize
}

// newHeader builds a header for ptype with the first+last frag flags
// set (this core never emits multi-fragment requests, §5) and the only
// packed_drep this core ever produces.
func newHeader(ptype uint8, callID uint32) Header {
	return Header{
		RPCVers:      5,
		RPCVersMinor: 0,
		PTYPE:        ptype,
		PFCFlags:     PfcFirstFrag | PfcLastFrag,
		Drep:         [4]uint8{DrepLittleEndianASCII, 0, 0, 0},
		CallID:       callID,
	}
}
