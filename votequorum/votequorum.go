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

// Package votequorum defines the local voting-subsystem collaborator
// consumed by the client, plus a reference
// in-process implementation for tests and standalone operation: the
// component is initialized once, registered, dispatched to, and
// unregistered on teardown.
package votequorum

import "context"

// NotifyFunc receives a quorum membership change: whether the local
// partition is quorate, the ring id of the generation that produced
// the change, and the member node ids in that ring.
type NotifyFunc func(quorate bool, ringID uint64, nodes []uint32)

// TrackFlags selects which membership events Handle.TrackStart
// subscribes to.
type TrackFlags uint8

const (
	// TrackChanges delivers a notification on every membership change.
	TrackChanges TrackFlags = 1 << iota
)

// Handle is the live registration returned by Subsystem.Initialize.
type Handle interface {
	// TrackStart subscribes to membership notifications. Until it is
	// called, Dispatch delivers nothing.
	TrackStart(flags TrackFlags) error
	// FD returns the descriptor the event loop polls for readability.
	FD() uintptr
	// Dispatch processes one batch of pending events, invoking the
	// NotifyFunc given to Initialize for each membership change. It
	// must not block past ctx's deadline/cancellation.
	Dispatch(ctx context.Context) error
	// Unregister withdraws the quorum device registration. Safe to
	// call more than once.
	Unregister() error
	// Finalize releases the handle and its dispatch descriptor. Safe
	// to call more than once; the handle is unusable afterwards.
	Finalize() error
}

// Subsystem is the consumed voting-subsystem interface: initialize,
// then register this device by name so it starts contributing votes.
type Subsystem interface {
	Initialize(cb NotifyFunc) (Handle, error)
	Register(h Handle, deviceName string) error
}
