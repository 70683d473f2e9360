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

// Package timer implements a monotonic-deadline timer wheel: a
// min-ordered sequence of (deadline, callback) entries, driven
// synchronously by the event loop between poll iterations.
package timer

import (
	"container/heap"
	"time"
)

// Result is returned by a Callback to tell the wheel whether to
// reinsert the entry at interval-from-prior-deadline, or drop it.
type Result uint8

const (
	// Done removes the entry once its callback returns.
	Done Result = iota
	// Reschedule reinserts the entry at its previous interval,
	// measured from the deadline that just fired rather than from now,
	// unless that next deadline has already passed (see ExpireDue).
	Reschedule
)

// Callback is invoked synchronously inside ExpireDue. It may freely
// mutate whatever the caller closed over; the wheel itself is never
// touched concurrently.
type Callback func(now time.Time) Result

// Handle identifies a scheduled entry for Cancel.
type Handle uint64

type entry struct {
	handle   Handle
	deadline time.Time
	interval time.Duration
	cb       Callback
	index    int
}

type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Wheel is a min-heap of timer entries ordered by deadline. It is not
// safe for concurrent use — it is owned by the single event-loop task.
type Wheel struct {
	h     entryHeap
	next  Handle
	byID  map[Handle]*entry
	nowFn func() time.Time
}

// New creates an empty Wheel. nowFn defaults to time.Now but can be
// overridden in tests to make deadlines deterministic.
func New() *Wheel {
	return &Wheel{
		byID:  make(map[Handle]*entry),
		nowFn: time.Now,
	}
}

// SetClock overrides the monotonic clock source used by the wheel.
// Intended for tests only.
func (w *Wheel) SetClock(fn func() time.Time) {
	if fn != nil {
		w.nowFn = fn
	}
}

// Add schedules cb to run after interval, returning a Handle usable
// with Cancel.
func (w *Wheel) Add(interval time.Duration, cb Callback) Handle {
	w.next++
	e := &entry{
		handle:   w.next,
		deadline: w.nowFn().Add(interval),
		interval: interval,
		cb:       cb,
	}
	heap.Push(&w.h, e)
	w.byID[e.handle] = e
	return e.handle
}

// Cancel removes a scheduled entry. It is a no-op if the handle is
// unknown (already fired and not rescheduled, or never existed).
func (w *Wheel) Cancel(h Handle) {
	e, ok := w.byID[h]
	if !ok {
		return
	}
	heap.Remove(&w.h, e.index)
	delete(w.byID, h)
}

// NextDeadline returns the time the earliest entry is due, and false
// if the wheel is empty. The event loop uses this to bound its poll
// (or, in this Go rendition, to arm the select's timer).
func (w *Wheel) NextDeadline() (time.Time, bool) {
	if len(w.h) == 0 {
		return time.Time{}, false
	}
	return w.h[0].deadline, true
}

// ExpireDue invokes every callback whose deadline has passed. A
// callback returning Reschedule is reinserted at deadline+interval,
// or at now+interval when deadline+interval has already passed, so a
// run of late iterations doesn't fire faster than the configured
// interval once the loop catches up.
func (w *Wheel) ExpireDue(now time.Time) {
	for len(w.h) > 0 && !w.h[0].deadline.After(now) {
		e := heap.Pop(&w.h).(*entry)
		delete(w.byID, e.handle)

		if e.cb(now) == Reschedule {
			e.deadline = e.deadline.Add(e.interval)
			if e.deadline.Before(now) {
				e.deadline = now.Add(e.interval)
			}
			heap.Push(&w.h, e)
			w.byID[e.handle] = e
		}
	}
}

// Len reports how many entries remain scheduled.
func (w *Wheel) Len() int { return len(w.h) }
