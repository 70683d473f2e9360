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

// Package buffer implements the bounded, growable byte buffers the
// connection uses for its receive, main-send and echo-send streams.
// Each Buffer tracks how many of its bytes have already been sent or
// consumed by the framing layer, so "in flight" can be defined as
// Pending() > 0.
package buffer

import (
	"github.com/dyusupov/corosync/internal/errs"
)

const (
	// CodeTooLarge is returned by Append when growing past Max would
	// be required; it maps to the "message too large" disposition.
	CodeTooLarge = errs.MinPkgBuffer + 1
)

func init() {
	errs.Register(CodeTooLarge, "message exceeds the negotiated buffer maximum", errs.DispositionFatalConnection)
}

// Buffer is a growable byte buffer with a hard ceiling and a progress
// counter for the frame currently in flight.
type Buffer struct {
	data     []byte
	max      int
	progress int
}

// New allocates a Buffer with the given initial capacity and hard
// maximum. The receive buffer starts with a max near 16 MiB and the
// send buffers with a 32 KiB floor, both raised once on a successful
// init-reply via SetMax.
func New(initialCap, max int) *Buffer {
	return &Buffer{
		data: make([]byte, 0, initialCap),
		max:  max,
	}
}

// Len returns the number of bytes currently buffered.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the current underlying capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Max returns the hard maximum this buffer may grow to.
func (b *Buffer) Max() int { return b.max }

// SetMax raises (or lowers) the hard maximum. Called exactly once per
// connection, after a successful INIT_REPLY.
func (b *Buffer) SetMax(max int) { b.max = max }

// Bytes returns the buffered bytes. The slice is only valid until the
// next mutating call.
func (b *Buffer) Bytes() []byte { return b.data }

// Append adds p to the buffer, growing automatically up to Max. It
// fails with CodeTooLarge if the result would exceed Max.
func (b *Buffer) Append(p []byte) *errs.Err {
	if len(b.data)+len(p) > b.max {
		return errs.New(CodeTooLarge)
	}
	b.data = append(b.data, p...)
	return nil
}

// Reset clears the buffer and its progress counter. Called after a
// complete frame is delivered or skipped.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.progress = 0
}

// Progress returns how many bytes of the current frame have already
// been sent or consumed.
func (b *Buffer) Progress() int { return b.progress }

// AdvanceProgress records n additional bytes sent/consumed.
func (b *Buffer) AdvanceProgress(n int) { b.progress += n }

// ResetProgress zeroes the progress counter without discarding data,
// used when a partial read/write completes a frame boundary that
// isn't the whole buffer.
func (b *Buffer) ResetProgress() { b.progress = 0 }

// Pending reports whether there are bytes not yet sent/consumed,
// the definition of "in flight" on both send channels.
func (b *Buffer) Pending() bool { return b.progress < len(b.data) }

// Remaining returns the unsent/unconsumed tail of the buffer.
func (b *Buffer) Remaining() []byte {
	if b.progress >= len(b.data) {
		return nil
	}
	return b.data[b.progress:]
}
