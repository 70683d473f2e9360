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

// Package errs provides a numeric-coded error type used across the
// quorum-device client so that every fatal-connection and
// fatal-process failure can be classified by a caller embedding this
// client in a larger cluster-manager process.
package errs

import (
	"strconv"
)

// Code is a numeric error classification, grouped into per-package
// ranges the same way an HTTP status code groups by class.
type Code uint16

// Disposition tells a caller what the connection must do once an
// error of this code is observed.
type Disposition uint8

const (
	// DispositionNone is used for the zero Code and carries no policy.
	DispositionNone Disposition = iota
	// DispositionFatalConnection means: tear the connection down,
	// unregister from the voting subsystem, but the process may retry.
	DispositionFatalConnection
	// DispositionFatalProcess means: abort the process immediately.
	DispositionFatalProcess
	// DispositionNonFatal means: log and continue.
	DispositionNonFatal
)

func (d Disposition) String() string {
	switch d {
	case DispositionFatalConnection:
		return "fatal-connection"
	case DispositionFatalProcess:
		return "fatal-process"
	case DispositionNonFatal:
		return "non-fatal"
	default:
		return "none"
	}
}

// Per-package code ranges so codes never collide across packages of
// this module.
const (
	MinPkgBuffer    Code = 100
	MinPkgTimer     Code = 200
	MinPkgWire      Code = 300
	MinPkgTransport Code = 400
	MinPkgProtocol  Code = 500
	MinPkgClient    Code = 600
	MinPkgConfig    Code = 700
	MinPkgTLS       Code = 800
	MinPkgVoteQ     Code = 900
)

var dispositions = make(map[Code]Disposition)
var messages = make(map[Code]string)

// Register associates a message and a disposition with a code. Called
// once per code at package-init time by each leaf package.
func Register(code Code, message string, d Disposition) Code {
	messages[code] = message
	dispositions[code] = d
	return code
}

// Message returns the registered human-readable text for a code, or
// a generic fallback if the code was never registered.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unregistered error code " + strconv.Itoa(int(c))
}

// Disposition returns the registered failure policy for a code.
func (c Code) Disposition() Disposition {
	if d, ok := dispositions[c]; ok {
		return d
	}
	return DispositionNone
}

// Uint16 returns the code as its underlying numeric type.
func (c Code) Uint16() uint16 {
	return uint16(c)
}
