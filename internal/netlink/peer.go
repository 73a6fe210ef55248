// Package netlink links two devices directly over QUIC. One side hosts,
// the other joins; a single stream carries length-prefixed packet frames.
package netlink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quic-go/quic-go"

	"github.com/vovakirdan/tilt-platformer/internal/game"
	"github.com/vovakirdan/tilt-platformer/internal/protocol"
)

// ErrClosed is returned when sending on a peer that was disconnected.
var ErrClosed = errors.New("netlink: peer closed")

const closeCode quic.ApplicationErrorCode = 0

var _ game.Transport = (*Peer)(nil)

// Options tune a peer link.
type Options struct {
	Logger    *log.Logger // optional
	KeepAlive time.Duration
	Idle      time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.KeepAlive <= 0 {
		o.KeepAlive = 5 * time.Second
	}
	if o.Idle <= 0 {
		o.Idle = 30 * time.Second
	}
	return o
}

func (o Options) quicConfig() *quic.Config {
	return &quic.Config{
		KeepAlivePeriod: o.KeepAlive,
		MaxIdleTimeout:  o.Idle,
	}
}

// Listener waits for one joining peer.
type Listener struct {
	ln   *quic.Listener
	opts Options
}

// Listen opens a QUIC listener on addr.
func Listen(addr string, opts Options) (*Listener, error) {
	opts = opts.withDefaults()
	tlsConf, err := serverTLS()
	if err != nil {
		return nil, err
	}
	ln, err := quic.ListenAddr(addr, tlsConf, opts.quicConfig())
	if err != nil {
		return nil, fmt.Errorf("netlink: listen %s: %w", addr, err)
	}
	return &Listener{ln: ln, opts: opts}, nil
}

// Addr returns the local address, useful when listening on port 0.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Accept waits for the joiner and its stream. The listener is owned by the
// returned peer and closes with it.
func (l *Listener) Accept(ctx context.Context) (*Peer, error) {
	conn, err := l.ln.Accept(ctx)
	if err != nil {
		return nil, fmt.Errorf("netlink: accept: %w", err)
	}
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(closeCode, "no stream")
		return nil, fmt.Errorf("netlink: accept stream: %w", err)
	}
	l.opts.Logger.Info("peer joined", "remote", conn.RemoteAddr())
	return newPeer(conn, stream, l, l.opts), nil
}

// Close stops listening.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Host listens on addr and blocks until one peer joins.
func Host(ctx context.Context, addr string, opts Options) (*Peer, error) {
	l, err := Listen(addr, opts)
	if err != nil {
		return nil, err
	}
	p, err := l.Accept(ctx)
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	return p, nil
}

// Join dials a hosting peer.
func Join(ctx context.Context, addr string, opts Options) (*Peer, error) {
	opts = opts.withDefaults()
	conn, err := quic.DialAddr(ctx, addr, clientTLS(), opts.quicConfig())
	if err != nil {
		return nil, fmt.Errorf("netlink: dial %s: %w", addr, err)
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(closeCode, "no stream")
		return nil, fmt.Errorf("netlink: open stream: %w", err)
	}
	// The host only sees the stream once bytes arrive on it.
	if err := WriteFrame(stream, nil); err != nil {
		_ = conn.CloseWithError(closeCode, "hello failed")
		return nil, fmt.Errorf("netlink: hello: %w", err)
	}
	opts.Logger.Info("joined peer", "remote", conn.RemoteAddr())
	return newPeer(conn, stream, nil, opts), nil
}

// Peer is one end of a direct link. Received packets arrive on Packets;
// when the link drops without a local Disconnect a Disconnect packet is
// delivered before the channel closes.
type Peer struct {
	conn   quic.Connection
	stream quic.Stream
	ln     *Listener
	log    *log.Logger

	writeMu sync.Mutex
	closed  atomic.Bool
	once    sync.Once

	packets chan []byte
	done    chan struct{}
}

func newPeer(conn quic.Connection, stream quic.Stream, ln *Listener, opts Options) *Peer {
	p := &Peer{
		conn:    conn,
		stream:  stream,
		ln:      ln,
		log:     opts.Logger,
		packets: make(chan []byte, 64),
		done:    make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// Packets returns received packet bytes. It closes when the link ends.
func (p *Peer) Packets() <-chan []byte {
	return p.packets
}

// Done closes once the link is torn down.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// RemoteAddr returns the partner's address.
func (p *Peer) RemoteAddr() string {
	return p.conn.RemoteAddr().String()
}

func (p *Peer) Send(b []byte) error {
	if p.closed.Load() {
		return ErrClosed
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := WriteFrame(p.stream, b); err != nil {
		return fmt.Errorf("netlink: send: %w", err)
	}
	return nil
}

// Disconnect closes the link. The partner's read loop sees the stream end.
func (p *Peer) Disconnect() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.writeMu.Lock()
	_ = p.stream.Close()
	p.writeMu.Unlock()
	p.teardown("disconnect")
	return nil
}

func (p *Peer) teardown(reason string) {
	p.once.Do(func() {
		_ = p.conn.CloseWithError(closeCode, reason)
		if p.ln != nil {
			_ = p.ln.Close()
		}
		close(p.done)
	})
}

func (p *Peer) readLoop() {
	defer close(p.packets)

	for {
		frame, err := ReadFrame(p.stream)
		if err != nil {
			if p.closed.Load() {
				return
			}
			p.log.Info("peer link lost", "err", err)
			p.deliver(protocol.Encode(protocol.Disconnect{}))
			p.closed.Store(true)
			p.teardown("link lost")
			return
		}
		if len(frame) == 0 {
			continue
		}
		p.deliver(frame)
	}
}

func (p *Peer) deliver(b []byte) {
	select {
	case p.packets <- b:
	case <-p.done:
	}
}
