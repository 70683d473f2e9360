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

// Package protocol implements the client side of the quorum-device
// handshake and its echo sub-protocol: a four-state handshake
// (PREINIT, optional STARTTLS, INIT, SET_OPTION) followed by a steady
// state in which only the echo channel is active.
package protocol

// State is the closed set of handshake states plus the terminal
// steady state.
type State uint8

const (
	WaitPreInitReply State = iota
	WaitStartTLSSent
	WaitInitReply
	WaitSetOptionReply
	Steady
)

func (s State) String() string {
	switch s {
	case WaitPreInitReply:
		return "WAIT_PREINIT_REPLY"
	case WaitStartTLSSent:
		return "WAIT_STARTTLS_SENT"
	case WaitInitReply:
		return "WAIT_INIT_REPLY"
	case WaitSetOptionReply:
		return "WAIT_SET_OPTION_REPLY"
	case Steady:
		return "STEADY"
	default:
		return "UNKNOWN"
	}
}
