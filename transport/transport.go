/*
 * MIT License
 *
 * Copyright (c) 2026 The Corosync Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package transport implements the duplex endpoint to the quorum
// device server: plaintext initially, with an in-place upgrade to TLS
// on the same underlying connection once the outbound buffer has
// fully drained.
//
// A dedicated reader goroutine performs ordinary blocking reads and
// publishes each chunk (or the terminal error/EOF) on a channel. The
// event loop remains the only goroutine that ever mutates connection
// state.
package transport

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"time"

	"github.com/dyusupov/corosync/internal/errs"
)

const (
	CodeDial  = errs.MinPkgTransport + 1
	CodeWrite = errs.MinPkgTransport + 2
	CodeTLS   = errs.MinPkgTransport + 3
)

func init() {
	errs.Register(CodeDial, "unable to connect to quorum device server", errs.DispositionFatalProcess)
	errs.Register(CodeWrite, "transport write failed", errs.DispositionFatalConnection)
	errs.Register(CodeTLS, "TLS handshake failed", errs.DispositionFatalConnection)
}

// Event is published on the channel returned by Reads() for every
// read-side occurrence: a chunk of bytes, EOF, or a transport error.
type Event struct {
	Data []byte
	EOF  bool
	Err  error
}

// Transport is the nonblocking duplex endpoint consumed by the
// protocol state machine and the event loop.
type Transport struct {
	conn    net.Conn
	events  chan Event
	stop    chan struct{}
	stopped chan struct{} // closed by readLoop when it actually returns
}

// Dial connects to addr (host:port) and starts the reader goroutine.
func Dial(addr string, timeout time.Duration) (*Transport, *errs.Err) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errs.New(CodeDial, err)
	}
	return wrap(conn), nil
}

// FromConn adapts an already-established net.Conn (used by tests
// against net.Pipe, and by callers embedding this client with their
// own dialer).
func FromConn(conn net.Conn) *Transport {
	return wrap(conn)
}

func wrap(conn net.Conn) *Transport {
	t := &Transport{
		conn:    conn,
		events:  make(chan Event, 16),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go t.readLoop()
	return t
}

func (t *Transport) readLoop() {
	defer close(t.stopped)
	buf := make([]byte, 64*1024)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case t.events <- Event{Data: chunk}:
			case <-t.stop:
				return
			}
		}
		if err != nil {
			select {
			case <-t.stop:
				// Torn down deliberately (Close, or the forced
				// deadline in UpgradeToTLS): the error is ours, not
				// the peer's, so it must never reach the event loop.
				return
			default:
			}
			ev := Event{Err: err}
			if errors.Is(err, io.EOF) {
				ev = Event{EOF: true}
			}
			select {
			case t.events <- ev:
			case <-t.stop:
			}
			return
		}
	}
}

// Reads returns the channel the event loop selects on for inbound data.
func (t *Transport) Reads() <-chan Event { return t.events }

// Write performs a deadline-bounded, synchronous write. A partial
// write is a normal outcome: the caller advances its buffer's
// progress counter by the returned n even on error.
func (t *Transport) Write(p []byte, deadline time.Time) (int, *errs.Err) {
	if !deadline.IsZero() {
		_ = t.conn.SetWriteDeadline(deadline)
	}
	n, err := t.conn.Write(p)
	if err != nil {
		return n, errs.New(CodeWrite, err)
	}
	return n, nil
}

// UpgradeToTLS performs the handshake in place. Callers must not
// invoke it until the plaintext send buffer is fully drained; no
// plaintext byte may follow STARTTLS. The reader goroutine is
// stopped and restarted against the new tls.Conn so every subsequent
// read flows through TLS.
//
// Stopping the old reader goroutine is not just a matter of closing
// t.stop: that channel is only observed between reads, so a goroutine
// parked in conn.Read would otherwise keep racing the handshake for
// bytes off the same net.Conn. Forcing an immediate read deadline
// unblocks it deterministically before the handshake claims the
// connection.
func (t *Transport) UpgradeToTLS(cfg *tls.Config) *errs.Err {
	close(t.stop)
	_ = t.conn.SetReadDeadline(time.Now())
	<-t.stopped
	_ = t.conn.SetReadDeadline(time.Time{})

	tlsConn := tls.Client(t.conn, cfg)
	if err := tlsConn.Handshake(); err != nil {
		return errs.New(CodeTLS, err)
	}

	t.conn = tlsConn
	t.stop = make(chan struct{})
	t.stopped = make(chan struct{})
	go t.readLoop()
	return nil
}

// Close tears down the transport and stops the reader goroutine.
func (t *Transport) Close() error {
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
	return t.conn.Close()
}
