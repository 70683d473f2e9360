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

package loglevel_test

import (
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/internal/loglevel"
)

var _ = Describe("Level.Logrus", func() {
	DescribeTable("converts to the matching logrus level",
		func(l loglevel.Level, want logrus.Level) {
			Expect(l.Logrus()).To(Equal(want))
		},
		Entry("panic", loglevel.PanicLevel, logrus.PanicLevel),
		Entry("fatal", loglevel.FatalLevel, logrus.FatalLevel),
		Entry("error", loglevel.ErrorLevel, logrus.ErrorLevel),
		Entry("warn", loglevel.WarnLevel, logrus.WarnLevel),
		Entry("info", loglevel.InfoLevel, logrus.InfoLevel),
		Entry("debug", loglevel.DebugLevel, logrus.DebugLevel),
	)

	It("maps NilLevel to a level logrus never logs at", func() {
		Expect(loglevel.NilLevel.Logrus()).To(BeNumerically(">", logrus.DebugLevel))
	})
})

var _ = Describe("Level.String", func() {
	DescribeTable("renders a human label",
		func(l loglevel.Level, want string) {
			Expect(l.String()).To(Equal(want))
		},
		Entry("panic", loglevel.PanicLevel, "Critical"),
		Entry("fatal", loglevel.FatalLevel, "Fatal"),
		Entry("error", loglevel.ErrorLevel, "Error"),
		Entry("warn", loglevel.WarnLevel, "Warning"),
		Entry("info", loglevel.InfoLevel, "Info"),
		Entry("debug", loglevel.DebugLevel, "Debug"),
		Entry("nil", loglevel.NilLevel, ""),
	)

	It("falls back to unknown for an out-of-range value", func() {
		Expect(loglevel.Level(255).String()).To(Equal("unknown"))
	})
})

var _ = Describe("Parse", func() {
	DescribeTable("recognizes case-insensitive names",
		func(s string, want loglevel.Level) {
			Expect(loglevel.Parse(s)).To(Equal(want))
		},
		Entry("panic", "PANIC", loglevel.PanicLevel),
		Entry("critical alias", "critical", loglevel.PanicLevel),
		Entry("crit alias", "crit", loglevel.PanicLevel),
		Entry("fatal", "Fatal", loglevel.FatalLevel),
		Entry("error", "Error", loglevel.ErrorLevel),
		Entry("err alias", "err", loglevel.ErrorLevel),
		Entry("warn", "Warn", loglevel.WarnLevel),
		Entry("warning alias", "warning", loglevel.WarnLevel),
		Entry("debug", "Debug", loglevel.DebugLevel),
		Entry("nil", "nil", loglevel.NilLevel),
		Entry("none alias", "none", loglevel.NilLevel),
		Entry("off alias", "off", loglevel.NilLevel),
		Entry("padded with whitespace", "  warn  ", loglevel.WarnLevel),
	)

	It("defaults to InfoLevel for anything unrecognized", func() {
		Expect(loglevel.Parse("bogus")).To(Equal(loglevel.InfoLevel))
		Expect(loglevel.Parse("")).To(Equal(loglevel.InfoLevel))
	})
})
