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

import "github.com/dyusupov/corosync/wire"

// tlsOutcome is the result of combining server and client
// tls_supported values.
type tlsOutcome uint8

const (
	tlsIncompatible tlsOutcome = iota
	tlsNone
	tlsNegotiated
)

// tlsCompat implements the 3x3 table exactly: the only incompatible
// cells are (UNSUPPORTED, REQUIRED) and (REQUIRED, UNSUPPORTED).
func tlsCompat(server, client wire.TLSSupport) tlsOutcome {
	switch server {
	case wire.TLSUnsupported:
		if client == wire.TLSRequired {
			return tlsIncompatible
		}
		return tlsNone
	case wire.TLSSupported:
		if client == wire.TLSUnsupported {
			return tlsNone
		}
		return tlsNegotiated
	case wire.TLSRequired:
		if client == wire.TLSUnsupported {
			return tlsIncompatible
		}
		return tlsNegotiated
	default:
		return tlsIncompatible
	}
}
