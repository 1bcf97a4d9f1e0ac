package dcerpc

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/specterops/dcerpc/internal/config"
	"github.com/specterops/dcerpc/internal/logger"
	"github.com/specterops/dcerpc/internal/wire"
)

// AbstractSyntax is the placeholder interface descriptor a Context
// binds against (§3, §11.6). Interface-specific packages (pkg/dcerpc/srvsvc)
// construct one of these from their own UUID/version constants.
type AbstractSyntax struct {
	Syntax SyntaxID
}

// Ctx is one (pipe path, abstract syntax) binding (§3). It is not safe
// for concurrent use: the sole mutable field touched mid-lifecycle is
// callID, updated at PDU allocation time.
//
// Named Ctx rather than Context to avoid colliding with the ubiquitous
// context.Context parameter every method also takes.
type Ctx struct {
	transport Transport
	log       logger.Interface
	cfg       *config.Config

	path     string
	abstract AbstractSyntax
	handle   Handle

	tsyn   TransferSyntax
	callID uint32 // accessed via atomic so CallMany (§11.3) can multiplex safely
}

// NewCtx is the factory call from §3: it does not open the pipe or
// bind, only records the (path, abstract syntax) pair and wires the
// collaborators.
func NewCtx(transport Transport, cfg *config.Config, log logger.Interface, path string, abstract AbstractSyntax) *Ctx {
	return &Ctx{
		transport: transport,
		log:       log,
		cfg:       cfg,
		path:      path,
		abstract:  abstract,
		tsyn:      NDR32,
		callID:    2,
	}
}

// nextCallID draws the next call_id from the monotonic counter (§3,
// §5: "the sole mutable field touched mid-lifecycle").
func (c *Ctx) nextCallID() uint32 {
	return atomic.AddUint32(&c.callID, 1) - 1
}

// TransferSyntax reports the syntax negotiated by the last successful
// Bind (§3: "never mutated after BIND_ACK completes successfully").
func (c *Ctx) TransferSyntax() TransferSyntax { return c.tsyn }

// Open acquires the pipe handle (§4.H step 1).
func (c *Ctx) Open(ctx context.Context) error {
	c.log.Debug(fmt.Sprintf("opening pipe %s", c.path))
	c.log.IncrementIndent()
	defer c.log.DecrementIndent()

	h, err := c.transport.Open(ctx, c.path)
	if err != nil {
		c.log.Error(fmt.Sprintf("open %s failed: %v", c.path, err))
		return newTransportError(err, nil)
	}
	c.handle = h
	return nil
}

// Close releases the pipe handle (§3: "destroyed explicitly, releasing
// the path").
func (c *Ctx) Close(ctx context.Context) error {
	if c.handle == nil {
		return nil
	}
	err := c.transport.Close(ctx, c.handle)
	c.handle = nil
	if err != nil {
		return newTransportError(err, nil)
	}
	return nil
}

// Bind performs the BIND/BIND_ACK exchange (§4.H step 2): allocates a
// PDU, encodes a BIND proposing both NDR32 and NDR64, round-trips it
// over the transport, decodes the BIND_ACK, and records the negotiated
// tctx_id on success.
func (c *Ctx) Bind(ctx context.Context) error {
	c.log.IncrementIndent()
	defer c.log.DecrementIndent()

	pdu := newPDU(c.nextCallID())
	scratch := make([]byte, c.cfg.ScratchBytes())
	buf := wire.New(scratch)

	hdr := newHeader(PtypeBind, pdu.Header.CallID)
	if EncodeHeader(buf, &hdr) < 0 {
		return ErrProtocolViolation
	}

	n := encodeBindBody(buf, c.abstract.Syntax, c.cfg.MaxXmitFrag(), c.cfg.MaxRecvFrag())
	if n < 0 {
		return ErrProtocolViolation
	}

	c.log.Debug("sending BIND")
	reply, err := c.transport.Transceive(ctx, c.handle, scratch[:n])
	if err != nil {
		c.log.Error(fmt.Sprintf("BIND transceive failed: %v", err))
		return newTransportError(err, nil)
	}

	replyBuf := wire.New(reply)
	var replyHdr Header
	if DecodeHeader(replyBuf, &replyHdr) < 0 {
		return ErrProtocolViolation
	}
	if replyHdr.PTYPE != PtypeBindAck {
		c.log.Warning(fmt.Sprintf("expected BIND_ACK, got PTYPE %d", replyHdr.PTYPE))
		return ErrProtocolViolation
	}

	offset, ack := decodeBindAckBody(replyBuf, headerSize)
	if offset < 0 || ack == nil {
		return ErrProtocolViolation
	}

	tsyn, ok := selectTransferSyntax(ack)
	if !ok {
		c.log.Warning("no BIND_ACK result accepted")
		return ErrProtocolViolation
	}

	c.tsyn = tsyn
	c.log.Debug(fmt.Sprintf("BIND complete, transfer syntax %d", c.tsyn))
	return nil
}

// CallResult is the decoded payload of a successful RESPONSE, handed
// to the caller with ownership fully transferred (§3, §7).
type CallResult struct {
	CallID uint32
	Stub   []byte
}

// CallAsync issues one REQUEST and waits for its RESPONSE (§4.H step
// 3). encodeStub encodes the user's opnum-specific body starting at
// the offset it is given (immediately after the fixed REQUEST header)
// and returns the new offset using the same sticky-negative convention
// as every other coder.
func (c *Ctx) CallAsync(ctx context.Context, opnum uint16, encodeStub func(buf wire.Buf, offset int) int) (*CallResult, error) {
	c.log.IncrementIndent()
	defer c.log.DecrementIndent()

	pdu := newPDU(c.nextCallID())
	scratch := make([]byte, c.cfg.ScratchBytes())
	buf := wire.New(scratch)

	hdr := newHeader(PtypeRequest, pdu.Header.CallID)
	if EncodeHeader(buf, &hdr) < 0 {
		return nil, ErrProtocolViolation
	}

	offset := encodeRequestBody(buf, uint16(c.tsyn), opnum)
	offset = encodeStub(buf, offset)
	if offset < 0 {
		return nil, ErrProtocolViolation
	}
	backfillRequest(buf, offset)

	c.log.Debug(fmt.Sprintf("sending REQUEST call_id=%d opnum=%d", pdu.Header.CallID, opnum))
	reply, err := c.transport.Transceive(ctx, c.handle, scratch[:offset])
	if err != nil {
		c.log.Error(fmt.Sprintf("REQUEST transceive failed: %v", err))
		return nil, newTransportError(err, nil)
	}

	total, rerr := Reassemble(reply)
	if rerr != nil {
		return nil, rerr
	}
	reply = reply[:total]

	replyBuf := wire.New(reply)
	var replyHdr Header
	if DecodeHeader(replyBuf, &replyHdr) < 0 {
		return nil, ErrProtocolViolation
	}
	if replyHdr.PTYPE == PtypeFault {
		c.log.Warning(fmt.Sprintf("call_id=%d faulted", replyHdr.CallID))
		return nil, ErrProtocolViolation
	}
	if replyHdr.PTYPE != PtypeResponse {
		c.log.Warning(fmt.Sprintf("expected RESPONSE, got PTYPE %d", replyHdr.PTYPE))
		return nil, ErrProtocolViolation
	}
	if replyHdr.CallID != pdu.Header.CallID {
		c.log.Warning(fmt.Sprintf("call_id mismatch: sent %d, got %d", pdu.Header.CallID, replyHdr.CallID))
		return nil, ErrProtocolViolation
	}

	stubOffset, rsp := decodeResponseBody(replyBuf, headerSize)
	if stubOffset < 0 || rsp == nil {
		return nil, ErrProtocolViolation
	}

	c.log.Debug(fmt.Sprintf("call_id=%d complete, %d byte stub", replyHdr.CallID, len(reply)-stubOffset))
	return &CallResult{
		CallID: replyHdr.CallID,
		Stub:   reply[stubOffset:],
	}, nil
}
