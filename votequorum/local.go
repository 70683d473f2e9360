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

package votequorum

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

type notification struct {
	quorate bool
	ringID  uint64
	nodes   []uint32
}

// Local is a reference, in-process Subsystem/Handle pair for tests and
// for standalone operation outside a real cluster manager. Pending
// notifications are queued behind a one-byte-per-event os.Pipe, which
// stands in for the real library's dispatch descriptor: the event loop
// (or a test) polls Local.FD() for readability exactly as it would the
// genuine votequorum fd, then calls Dispatch to drain the queue.
type Local struct {
	mu    sync.Mutex
	queue []notification
	cb    NotifyFunc

	r, w         *os.File
	tracking     bool
	unregistered bool
	finalized    bool
	deviceName   string
}

// NewLocal constructs an un-initialized Local. Use it as the Subsystem
// passed to Initialize, and reuse it as the Handle Initialize returns.
func NewLocal() *Local {
	return &Local{}
}

// Initialize implements Subsystem. It opens the dispatch pipe and
// records the notification callback.
func (l *Local) Initialize(cb NotifyFunc) (Handle, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.r, l.w = r, w
	l.cb = cb
	l.mu.Unlock()
	return l, nil
}

// Register implements Subsystem. The reference implementation has
// nothing external to contact; it only records the device name.
func (l *Local) Register(h Handle, deviceName string) error {
	local, ok := h.(*Local)
	if !ok || local != l {
		return fmt.Errorf("votequorum: handle not owned by this Local instance")
	}
	l.mu.Lock()
	l.deviceName = deviceName
	l.mu.Unlock()
	return nil
}

// TrackStart implements Handle. Notifications pushed before tracking
// begins are dropped, matching the underlying library's semantics.
func (l *Local) TrackStart(flags TrackFlags) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.finalized {
		return fmt.Errorf("votequorum: handle already finalized")
	}
	l.tracking = flags&TrackChanges != 0
	return nil
}

// FD implements Handle.
func (l *Local) FD() uintptr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.r == nil {
		return 0
	}
	return l.r.Fd()
}

// Push enqueues a membership change and signals the dispatch pipe.
// Intended for tests driving a mock quorum-device server end to end.
func (l *Local) Push(quorate bool, ringID uint64, nodes []uint32) {
	l.mu.Lock()
	if !l.tracking {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, notification{quorate: quorate, ringID: ringID, nodes: nodes})
	w := l.w
	l.mu.Unlock()
	if w != nil {
		_, _ = w.Write([]byte{1})
	}
}

// Dispatch implements Handle: drain the pipe's signal bytes and
// deliver every queued notification to the registered callback. The
// pipe read is bounded by ctx's deadline only; cancelling a ctx that
// has no deadline does not interrupt a read on an empty pipe.
func (l *Local) Dispatch(ctx context.Context) error {
	l.mu.Lock()
	r := l.r
	pending := l.queue
	l.queue = nil
	cb := l.cb
	l.mu.Unlock()

	if r != nil {
		buf := make([]byte, len(pending)+1)
		_ = r.SetReadDeadline(deadlineOrZero(ctx))
		_, _ = r.Read(buf)
	}

	for _, n := range pending {
		if cb != nil {
			cb(n.quorate, n.ringID, n.nodes)
		}
	}
	return nil
}

// Unregister implements Handle.
func (l *Local) Unregister() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unregistered = true
	l.deviceName = ""
	return nil
}

// Finalize implements Handle, closing the dispatch pipe.
func (l *Local) Finalize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.finalized {
		return nil
	}
	l.finalized = true
	l.tracking = false
	if l.w != nil {
		_ = l.w.Close()
	}
	if l.r != nil {
		_ = l.r.Close()
	}
	return nil
}

// deadlineOrZero returns ctx's deadline, or the zero time (meaning "no
// deadline") when ctx carries none.
func deadlineOrZero(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	return time.Time{}
}
