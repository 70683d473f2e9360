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

package protocol

import (
	"github.com/dyusupov/corosync/internal/errs"
	"github.com/dyusupov/corosync/wire"
)

// echoChannel tracks the independent liveness sub-protocol: its own
// monotonically increasing sequence and the single-outstanding-request
// rule.
type echoChannel struct {
	requestExpected uint32
	replyReceived   uint32
}

// outstanding reports whether the previous echo-request has not yet
// been acknowledged.
func (e *echoChannel) outstanding() bool {
	return e.replyReceived != e.requestExpected
}

// Schedule is invoked by the heartbeat timer callback: fatal if an
// echo is still outstanding, otherwise advance the counter and encode
// the next ECHO_REQUEST.
func (e *echoChannel) Schedule() ([]byte, *errs.Err) {
	if e.outstanding() {
		return nil, errs.New(CodeEchoInFlight)
	}
	e.requestExpected++
	frame, err := wire.BuildEchoRequest(e.requestExpected, e.requestExpected)
	if err != nil {
		return nil, errs.New(CodeEchoInFlight, err)
	}
	return frame, nil
}

// HandleReply validates an inbound ECHO_REPLY's sequence against the
// outstanding request and advances replyReceived on success.
func (e *echoChannel) HandleReply(msg *wire.Message) *errs.Err {
	seq, ok := msg.GetUint32(wire.OptEchoSeq)
	if !ok {
		seq = msg.Seq
	}
	if seq != e.requestExpected {
		return errs.New(CodeEchoSeqMismatch)
	}
	e.replyReceived = seq
	return nil
}
