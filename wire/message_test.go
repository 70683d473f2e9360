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

package wire_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/wire"
)

var _ = Describe("Encode/Decode round trip", func() {
	It("round-trips a message with a mixed option set", func() {
		frame, err := wire.Encode(wire.InitReply, 7, map[wire.OptionTag]interface{}{
			wire.OptServerMaxRequestSize:        uint32(65536),
			wire.OptServerMaxReplySize:          uint32(65536),
			wire.OptSupportedDecisionAlgorithms: []string{"test", "lms"},
			wire.OptTLSSupported:                uint32(wire.TLSSupported),
		})
		Expect(err).NotTo(HaveOccurred())

		msg, decErr := wire.Decode(frame)
		Expect(decErr).To(Equal(wire.ErrNone))
		Expect(msg.Type).To(Equal(wire.InitReply))
		Expect(msg.Seq).To(Equal(uint32(7)))

		reqMax, ok := msg.GetUint32(wire.OptServerMaxRequestSize)
		Expect(ok).To(BeTrue())
		Expect(reqMax).To(Equal(uint32(65536)))

		algos, ok := msg.GetStringSlice(wire.OptSupportedDecisionAlgorithms)
		Expect(ok).To(BeTrue())
		Expect(algos).To(Equal([]string{"test", "lms"}))
	})

	It("round-trips a message with an empty option set", func() {
		frame, err := wire.Encode(wire.StartTLS, 2, map[wire.OptionTag]interface{}{})
		Expect(err).NotTo(HaveOccurred())

		msg, decErr := wire.Decode(frame)
		Expect(decErr).To(Equal(wire.ErrNone))
		Expect(msg.Type).To(Equal(wire.StartTLS))
		Expect(msg.Seq).To(Equal(uint32(2)))
	})

	It("encodes the declared length to include the header", func() {
		frame, err := wire.Encode(wire.PreInit, 1, map[wire.OptionTag]interface{}{
			wire.OptClusterName: "mycluster",
		})
		Expect(err).NotTo(HaveOccurred())
		length, ok := wire.PeekLength(frame)
		Expect(ok).To(BeTrue())
		Expect(length).To(Equal(len(frame)))
	})
})

var _ = Describe("Decode error taxonomy", func() {
	It("reports ErrBadOptionLength for a frame shorter than the fixed header", func() {
		_, decErr := wire.Decode([]byte{0, 0, 0, 1})
		Expect(decErr).To(Equal(wire.ErrBadOptionLength))
	})

	It("reports ErrTLVExceedsFrame when the declared length disagrees with the actual frame", func() {
		frame, err := wire.Encode(wire.PreInit, 1, map[wire.OptionTag]interface{}{
			wire.OptClusterName: "mycluster",
		})
		Expect(err).NotTo(HaveOccurred())
		truncated := frame[:len(frame)-1]
		// PeekLength still reports the original (now wrong) declared length.
		_, decErr := wire.Decode(truncated)
		Expect(decErr).To(Equal(wire.ErrTLVExceedsFrame))
	})
})

var _ = Describe("PeekLength", func() {
	It("reports false with fewer than 4 bytes available", func() {
		_, ok := wire.PeekLength([]byte{0, 0, 1})
		Expect(ok).To(BeFalse())
	})

	It("reports the big-endian declared length", func() {
		length, ok := wire.PeekLength([]byte{0, 0, 0, 42, 0xff})
		Expect(ok).To(BeTrue())
		Expect(length).To(Equal(42))
	})
})

var _ = Describe("MsgType.String", func() {
	It("names defined message types and falls back to UNKNOWN", func() {
		Expect(wire.PreInit.String()).To(Equal("PREINIT"))
		Expect(wire.EchoReply.String()).To(Equal("ECHO_REPLY"))
		Expect(wire.MsgType(999).String()).To(Equal("UNKNOWN"))
	})
})
