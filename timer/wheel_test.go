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

package timer_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/timer"
)

var _ = Describe("Wheel", func() {
	var (
		now time.Time
		w   *timer.Wheel
	)

	BeforeEach(func() {
		now = time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
		w = timer.New()
		w.SetClock(func() time.Time { return now })
	})

	It("reports no deadline when empty", func() {
		_, ok := w.NextDeadline()
		Expect(ok).To(BeFalse())
	})

	It("orders NextDeadline by the earliest scheduled entry", func() {
		w.Add(10*time.Second, func(time.Time) timer.Result { return timer.Done })
		w.Add(2*time.Second, func(time.Time) timer.Result { return timer.Done })
		w.Add(5*time.Second, func(time.Time) timer.Result { return timer.Done })

		d, ok := w.NextDeadline()
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(now.Add(2 * time.Second)))
	})

	It("does not invoke callbacks before their deadline", func() {
		fired := false
		w.Add(10*time.Second, func(time.Time) timer.Result {
			fired = true
			return timer.Done
		})
		w.ExpireDue(now.Add(5 * time.Second))
		Expect(fired).To(BeFalse())
		Expect(w.Len()).To(Equal(1))
	})

	It("fires and removes a Done entry once its deadline has passed", func() {
		fired := 0
		w.Add(1*time.Second, func(time.Time) timer.Result {
			fired++
			return timer.Done
		})
		w.ExpireDue(now.Add(2 * time.Second))
		Expect(fired).To(Equal(1))
		Expect(w.Len()).To(Equal(0))
	})

	It("reschedules a Reschedule entry relative to its prior deadline, not now", func() {
		var deadlines []time.Time
		w.Add(1*time.Second, func(fireTime time.Time) timer.Result {
			deadlines = append(deadlines, fireTime)
			return timer.Reschedule
		})

		w.ExpireDue(now.Add(1 * time.Second))
		d, ok := w.NextDeadline()
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(now.Add(2 * time.Second)))

		w.ExpireDue(now.Add(2 * time.Second))
		d, ok = w.NextDeadline()
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(now.Add(3 * time.Second)))
		Expect(deadlines).To(HaveLen(2))
	})

	It("never fires a rescheduled deadline in the past even after a late iteration", func() {
		w.Add(1*time.Second, func(time.Time) timer.Result { return timer.Reschedule })
		// simulate a very late poll iteration, far past the original deadline
		w.ExpireDue(now.Add(time.Hour))
		d, ok := w.NextDeadline()
		Expect(ok).To(BeTrue())
		Expect(d.After(now.Add(time.Hour))).To(BeTrue())
	})

	It("removes an entry on Cancel and ignores unknown handles", func() {
		h := w.Add(1*time.Second, func(time.Time) timer.Result { return timer.Done })
		w.Cancel(h)
		Expect(w.Len()).To(Equal(0))
		w.Cancel(h) // no-op, must not panic
		w.Cancel(timer.Handle(9999))
	})

	It("computes each deadline from the clock at Add time, not a shared wall clock", func() {
		h := w.Add(1*time.Second, func(time.Time) timer.Result { return timer.Done })
		wantDeadline := now.Add(1 * time.Second)
		d, ok := w.NextDeadline()
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(wantDeadline))
		w.Cancel(h)
	})
})
