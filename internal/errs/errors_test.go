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
	"errors"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/internal/errs"
)

const (
	codeOuter errs.Code = errs.MinPkgVoteQ + 60
	codeInner errs.Code = errs.MinPkgVoteQ + 61
)

func init() {
	errs.Register(codeOuter, "outer failure", errs.DispositionFatalConnection)
	errs.Register(codeInner, "inner failure", errs.DispositionFatalProcess)
}

var _ = Describe("Err", func() {
	It("carries the registered message for its code", func() {
		e := errs.New(codeOuter)
		Expect(e.Error()).To(Equal("outer failure"))
		Expect(e.IsCode(codeOuter)).To(BeTrue())
		Expect(e.IsCode(codeInner)).To(BeFalse())
	})

	It("chains a parent error's text onto its own", func() {
		parent := errors.New("socket reset")
		e := errs.New(codeOuter, parent)
		Expect(e.Error()).To(Equal("outer failure: socket reset"))
	})

	It("chains a parent *Err and reports HasCode across the whole chain", func() {
		parent := errs.New(codeInner)
		e := errs.New(codeOuter, parent)

		Expect(e.IsCode(codeInner)).To(BeFalse())
		Expect(e.HasCode(codeOuter)).To(BeTrue())
		Expect(e.HasCode(codeInner)).To(BeTrue())
	})

	It("ignores nil parents", func() {
		e := errs.New(codeOuter, nil, nil)
		Expect(e.Error()).To(Equal("outer failure"))
	})

	It("unwraps to its first parent for errors.Is/As", func() {
		parent := errors.New("underlying cause")
		e := errs.New(codeOuter, parent)
		Expect(errors.Unwrap(e)).To(Equal(parent))
		Expect(errors.Is(e, parent)).To(BeTrue())
	})

	It("returns nil Unwrap with no parent", func() {
		e := errs.New(codeOuter)
		Expect(e.Unwrap()).To(BeNil())
	})

	It("reports the disposition registered for its code", func() {
		e := errs.New(codeOuter)
		Expect(e.Disposition()).To(Equal(errs.DispositionFatalConnection))

		e2 := errs.New(codeInner)
		Expect(e2.Disposition()).To(Equal(errs.DispositionFatalProcess))
	})

	It("captures a non-empty file:line frame at the call site", func() {
		e := errs.New(codeOuter)
		Expect(e.Frame()).To(ContainSubstring("errors_test.go"))
		Expect(e.Frame()).To(ContainSubstring(":"))
	})

	It("appends a formatted detail to the registered message via Newf", func() {
		e := errs.Newf(codeOuter, "node %d unreachable", 7)
		Expect(e.Error()).To(Equal("outer failure: node 7 unreachable"))
	})

	It("behaves safely as a nil *Err", func() {
		var e *errs.Err
		Expect(e.Error()).To(Equal(""))
		Expect(e.Code()).To(Equal(errs.Code(0)))
		Expect(e.IsCode(codeOuter)).To(BeFalse())
		Expect(e.HasCode(codeOuter)).To(BeFalse())
		Expect(e.Disposition()).To(Equal(errs.DispositionNone))
		Expect(e.Frame()).To(Equal(""))
		Expect(e.Unwrap()).To(BeNil())
	})

	It("satisfies the error interface so it can cross an error-returning API", func() {
		var wrapped error = errs.New(codeOuter)
		Expect(wrapped).To(MatchError(ContainSubstring("outer failure")))
	})

	It("joins multiple parents in order when Error is built", func() {
		p1 := errors.New("first")
		p2 := errors.New("second")
		e := errs.New(codeOuter, p1, p2)
		Expect(e.Error()).To(Equal(fmt.Sprintf("outer failure: %s: %s", p1, p2)))
		Expect(strings.Count(e.Error(), ":")).To(Equal(2))
	})
})
