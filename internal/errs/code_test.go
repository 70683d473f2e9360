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

package errs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/internal/errs"
)

const testCode errs.Code = errs.MinPkgVoteQ + 50

var _ = Describe("Code", func() {
	BeforeEach(func() {
		errs.Register(testCode, "test code registered for a unit test", errs.DispositionNonFatal)
	})

	It("returns the registered message and disposition", func() {
		Expect(testCode.Message()).To(Equal("test code registered for a unit test"))
		Expect(testCode.Disposition()).To(Equal(errs.DispositionNonFatal))
	})

	It("falls back to a generic message for an unregistered code", func() {
		var unregistered errs.Code = 65000
		Expect(unregistered.Message()).To(ContainSubstring("65000"))
		Expect(unregistered.Disposition()).To(Equal(errs.DispositionNone))
	})

	It("exposes its numeric value via Uint16", func() {
		Expect(testCode.Uint16()).To(Equal(uint16(testCode)))
	})

	It("keeps per-package ranges distinct", func() {
		Expect(errs.MinPkgBuffer).To(Equal(errs.Code(100)))
		Expect(errs.MinPkgTimer).To(Equal(errs.Code(200)))
		Expect(errs.MinPkgWire).To(Equal(errs.Code(300)))
		Expect(errs.MinPkgTransport).To(Equal(errs.Code(400)))
		Expect(errs.MinPkgProtocol).To(Equal(errs.Code(500)))
		Expect(errs.MinPkgClient).To(Equal(errs.Code(600)))
		Expect(errs.MinPkgConfig).To(Equal(errs.Code(700)))
		Expect(errs.MinPkgTLS).To(Equal(errs.Code(800)))
		Expect(errs.MinPkgVoteQ).To(Equal(errs.Code(900)))
	})
})
