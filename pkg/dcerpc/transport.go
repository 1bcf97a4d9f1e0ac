package dcerpc

import "context"

// Transport is the pluggable collaborator a Context drives to actually
// move bytes over a named pipe (§6). internal/smbtransport implements
// this against github.com/medianexapp/go-smb2; tests implement it
// in-memory.
//
// Every method is synchronous from the caller's point of view — the
// spec's single-threaded cooperative scheduling (driven by transport
// completion callbacks in the original C) is modeled here by callers
// running Transport methods on a goroutine and synchronizing through
// Go's own concurrency primitives instead of a hand-rolled event loop
// (§9's own note on this mapping).
type Transport interface {
	// Open establishes the named pipe at path and returns an opaque
	// handle the Transport can later use to route Transceive calls.
	Open(ctx context.Context, path string) (Handle, error)

	// Transceive sends req over the pipe identified by handle via
	// FSCTL_PIPE_TRANSCEIVE semantics and returns the server's reply.
	Transceive(ctx context.Context, h Handle, req []byte) ([]byte, error)

	// Close releases the pipe handle.
	Close(ctx context.Context, h Handle) error
}

// Handle identifies an open pipe to a Transport. Its concrete meaning
// (an *smb2.File, a test fixture's index, ...) is owned by the
// Transport implementation.
type Handle interface{}
