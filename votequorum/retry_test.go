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

package votequorum_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/votequorum"
)

var _ = Describe("Retry", func() {
	It("returns immediately on success without retrying", func() {
		calls := 0
		err := votequorum.Retry(func() error {
			calls++
			return nil
		})
		Expect(err).To(BeNil())
		Expect(calls).To(Equal(1))
	})

	It("stops retrying on the first non-ErrTryAgain error", func() {
		boom := errors.New("boom")
		calls := 0
		err := votequorum.Retry(func() error {
			calls++
			return boom
		})
		Expect(err).To(Equal(boom))
		Expect(calls).To(Equal(1))
	})

	It("retries up to 10 times on ErrTryAgain before giving up", func() {
		calls := 0
		err := votequorum.Retry(func() error {
			calls++
			return votequorum.ErrTryAgain
		})
		Expect(err).To(Equal(votequorum.ErrTryAgain))
		Expect(calls).To(Equal(10))
	})

	It("succeeds once a later attempt stops returning ErrTryAgain", func() {
		calls := 0
		err := votequorum.Retry(func() error {
			calls++
			if calls < 3 {
				return votequorum.ErrTryAgain
			}
			return nil
		})
		Expect(err).To(BeNil())
		Expect(calls).To(Equal(3))
	})
})

var _ = Describe("Local", func() {
	It("delivers queued notifications to the callback on Dispatch", func() {
		l := votequorum.NewLocal()
		var got []uint64

		h, err := l.Initialize(func(quorate bool, ringID uint64, nodes []uint32) {
			got = append(got, ringID)
		})
		Expect(err).To(BeNil())
		Expect(h.TrackStart(votequorum.TrackChanges)).To(Succeed())
		Expect(l.Register(h, "QdeviceNet")).To(Succeed())

		l.Push(true, 1, []uint32{1, 2, 3})
		l.Push(true, 2, []uint32{1, 2, 3})

		Expect(h.Dispatch(context.Background())).To(Succeed())
		Expect(got).To(Equal([]uint64{1, 2}))
	})

	It("drops notifications pushed before TrackStart", func() {
		l := votequorum.NewLocal()
		delivered := 0
		h, err := l.Initialize(func(bool, uint64, []uint32) { delivered++ })
		Expect(err).To(BeNil())

		l.Push(true, 1, nil)
		Expect(h.TrackStart(votequorum.TrackChanges)).To(Succeed())
		l.Push(true, 2, nil)

		Expect(h.Dispatch(context.Background())).To(Succeed())
		Expect(delivered).To(Equal(1))
	})

	It("is safe to Finalize more than once, and rejects TrackStart afterwards", func() {
		l := votequorum.NewLocal()
		h, err := l.Initialize(func(bool, uint64, []uint32) {})
		Expect(err).To(BeNil())
		Expect(h.Finalize()).To(Succeed())
		Expect(h.Finalize()).To(Succeed())
		Expect(h.TrackStart(votequorum.TrackChanges)).NotTo(Succeed())
	})

	It("is safe to Unregister more than once", func() {
		l := votequorum.NewLocal()
		h, err := l.Initialize(func(bool, uint64, []uint32) {})
		Expect(err).To(BeNil())
		Expect(h.Unregister()).To(Succeed())
		Expect(h.Unregister()).To(Succeed())
	})

	It("rejects Register with a handle not owned by this instance", func() {
		a := votequorum.NewLocal()
		b := votequorum.NewLocal()
		ha, err := a.Initialize(func(bool, uint64, []uint32) {})
		Expect(err).To(BeNil())
		Expect(b.Register(ha, "QdeviceNet")).NotTo(Succeed())
	})

	It("FD returns 0 before Initialize has been called", func() {
		l := votequorum.NewLocal()
		Expect(l.FD()).To(Equal(uintptr(0)))
	})

	It("Dispatch does not block past a context with a past deadline", func() {
		l := votequorum.NewLocal()
		h, err := l.Initialize(func(bool, uint64, []uint32) {})
		Expect(err).To(BeNil())

		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		time.Sleep(2 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			_ = h.Dispatch(ctx)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			Fail("Dispatch blocked past its deadline")
		}
	})
})
