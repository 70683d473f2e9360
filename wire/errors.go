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

package wire

import (
	"errors"

	"github.com/fxamacker/cbor/v2"
)

// DecodeError classifies a failed frame decode, each value mapping to
// a distinct log level at the call site.
type DecodeError uint8

const (
	ErrNone DecodeError = iota
	// ErrBadOptionLength: the frame is shorter than the fixed header,
	// or otherwise structurally truncated.
	ErrBadOptionLength
	// ErrOutOfMemory: the option payload could not be decoded because
	// doing so would require an unreasonable allocation.
	ErrOutOfMemory
	// ErrTLVExceedsFrame: the declared length does not match the
	// frame actually delivered.
	ErrTLVExceedsFrame
	// ErrBadOptionValue: an option decoded to a CBOR type the caller
	// did not expect (e.g. a string where a uint was required).
	ErrBadOptionValue
	// ErrUnknown: any other decode failure.
	ErrUnknown
)

func (e DecodeError) String() string {
	switch e {
	case ErrNone:
		return "ok"
	case ErrBadOptionLength:
		return "bad option length"
	case ErrOutOfMemory:
		return "out of memory"
	case ErrTLVExceedsFrame:
		return "tlv exceeds frame"
	case ErrBadOptionValue:
		return "bad option value"
	default:
		return "unknown decode error"
	}
}

var errOutOfMemory = errors.New("wire: option payload too large to decode")

func classifyCBORError(err error) DecodeError {
	if errors.Is(err, errOutOfMemory) {
		return ErrOutOfMemory
	}

	var invType *cbor.UnmarshalTypeError
	if errors.As(err, &invType) {
		return ErrBadOptionValue
	}

	var extra *cbor.ExtraneousDataError
	if errors.As(err, &extra) {
		return ErrTLVExceedsFrame
	}

	var syn *cbor.SyntaxError
	if errors.As(err, &syn) {
		return ErrBadOptionLength
	}

	return ErrUnknown
}
