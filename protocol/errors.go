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

import "github.com/dyusupov/corosync/internal/errs"

const (
	CodeUnexpectedType  = errs.MinPkgProtocol + 1
	CodeBadSequence     = errs.MinPkgProtocol + 2
	CodeMissingOption   = errs.MinPkgProtocol + 3
	CodeIncompatibleTLS = errs.MinPkgProtocol + 4
	CodeBufferLimits    = errs.MinPkgProtocol + 5
	CodeAlgoMismatch    = errs.MinPkgProtocol + 6
	CodeServerError     = errs.MinPkgProtocol + 7
	CodeEchoInFlight    = errs.MinPkgProtocol + 8
	CodeEchoSeqMismatch = errs.MinPkgProtocol + 9
	CodeWrongState      = errs.MinPkgProtocol + 10
)

func init() {
	errs.Register(CodeUnexpectedType, "message type not valid in current state", errs.DispositionFatalConnection)
	errs.Register(CodeBadSequence, "inbound sequence number does not match next-expected", errs.DispositionFatalConnection)
	errs.Register(CodeMissingOption, "required option missing from reply", errs.DispositionFatalConnection)
	errs.Register(CodeIncompatibleTLS, "server and client TLS support are incompatible", errs.DispositionFatalConnection)
	errs.Register(CodeBufferLimits, "server-advertised buffer limits are unacceptable", errs.DispositionFatalConnection)
	errs.Register(CodeAlgoMismatch, "server does not support the requested decision algorithm", errs.DispositionFatalConnection)
	errs.Register(CodeServerError, "server reported a protocol error", errs.DispositionFatalConnection)
	errs.Register(CodeEchoInFlight, "echo reply not received before next heartbeat", errs.DispositionFatalConnection)
	errs.Register(CodeEchoSeqMismatch, "echo reply sequence does not match the outstanding request", errs.DispositionFatalConnection)
	errs.Register(CodeWrongState, "internal state machine misuse", errs.DispositionFatalProcess)
}
