package smbtransport

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/medianexapp/go-smb2"
	"github.com/specterops/dcerpc/pkg/dcerpc"
)

// Credentials mirrors sharehound-go/internal/credentials.Credentials'
// fields relevant to NTLM auth, kept minimal since this module does
// not own credential parsing (§1's non-goals exclude auth verifiers
// beyond what dialing itself requires).
type Credentials struct {
	Username string
	Password string
	Domain   string
	NTHash   []byte
}

// Options configures Dial.
type Options struct {
	Host       string
	Port       int
	Nameserver string
	DCIP       string
	Timeout    time.Duration
	Creds      Credentials
}

// Transport implements dcerpc.Transport over a single SMB2 session and
// IPC$ share (session.go's SMBSession.Connect + SetShare("IPC$")), with
// one open pipe per dcerpc.Handle.
type Transport struct {
	conn    net.Conn
	session *smb2.Session
	share   *smb2.Share
}

// Dial resolves opts.Host (via Resolve), establishes the TCP
// connection, and authenticates an SMB2 session against it, mounting
// IPC$ — the share every named pipe this core talks to lives under.
func Dial(ctx context.Context, opts Options) (*Transport, error) {
	addr, err := Resolve(opts.Host, opts.Nameserver, opts.DCIP, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", opts.Host, err)
	}

	dialAddr := net.JoinHostPort(addr, fmt.Sprintf("%d", opts.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", dialAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", dialAddr, err)
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     opts.Creds.Username,
			Password: opts.Creds.Password,
			Domain:   opts.Creds.Domain,
			Hash:     opts.Creds.NTHash,
		},
	}

	session, err := dialer.DialConn(ctx, conn, dialAddr)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smb2 session setup: %w", err)
	}

	share, err := session.Mount("IPC$")
	if err != nil {
		session.Logoff()
		conn.Close()
		return nil, fmt.Errorf("mount IPC$: %w", err)
	}

	return &Transport{conn: conn, session: session, share: share}, nil
}

// pipeHandle is the concrete dcerpc.Handle this transport hands back
// from Open.
type pipeHandle struct {
	file *smb2.File
}

// desired access used by sharehound-go/internal/smb/srvsvc.go to open
// \PIPE\srvsvc: GENERIC_READ | GENERIC_WRITE | FILE_READ_ATTRIBUTES
// folded into the single mask the server expects for pipe I/O.
const pipeDesiredAccess = 0x12019f

// Open opens the named pipe at path (e.g. `\PIPE\srvsvc`) on the
// mounted IPC$ share.
func (t *Transport) Open(ctx context.Context, path string) (dcerpc.Handle, error) {
	name := strings.TrimPrefix(path, `\PIPE\`)
	name = strings.TrimPrefix(name, `\pipe\`)

	f, err := t.share.OpenFile(name, pipeDesiredAccess, 0)
	if err != nil {
		return nil, fmt.Errorf("open pipe %q: %w", path, err)
	}
	return &pipeHandle{file: f}, nil
}

// Transceive implements one FSCTL_PIPE_TRANSCEIVE round-trip as a
// synchronous Write followed by Read, run on its own goroutine (§11.1).
// Transceive itself blocks until the reply arrives or ctx is done; the
// goroutine lets it return ctx.Err() on cancellation without waiting
// for the blocking go-smb2 calls to finish.
func (t *Transport) Transceive(ctx context.Context, h dcerpc.Handle, req []byte) ([]byte, error) {
	ph, ok := h.(*pipeHandle)
	if !ok || ph.file == nil {
		return nil, fmt.Errorf("smbtransport: invalid handle")
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	go func() {
		if _, err := ph.file.Write(req); err != nil {
			done <- result{nil, fmt.Errorf("pipe write: %w", err)}
			return
		}
		buf := make([]byte, 65536)
		n, err := ph.file.Read(buf)
		if err != nil {
			done <- result{nil, fmt.Errorf("pipe read: %w", err)}
			return
		}
		done <- result{buf[:n], nil}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.data, r.err
	}
}

// Close closes the pipe handle.
func (t *Transport) Close(ctx context.Context, h dcerpc.Handle) error {
	ph, ok := h.(*pipeHandle)
	if !ok || ph.file == nil {
		return nil
	}
	return ph.file.Close()
}

// Disconnect tears down the IPC$ share, the SMB2 session, and the
// underlying TCP connection, mirroring SMBSession.Close's order.
func (t *Transport) Disconnect() error {
	if t.share != nil {
		t.share.Umount()
		t.share = nil
	}
	if t.session != nil {
		t.session.Logoff()
		t.session = nil
	}
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	return nil
}

var _ dcerpc.Transport = (*Transport)(nil)
