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

package errs

import (
	"fmt"
	"runtime"
	"strings"
)

// Err is the error type returned across package boundaries in this
// module. It carries a Code, an optional parent chain, and the
// call-site frame it was created at.
type Err struct {
	code   Code
	msg    string
	parent []error
	frame  runtime.Frame
}

// New creates an Err for the given code, capturing the caller's frame
// and chaining any non-nil parent errors underneath it.
func New(code Code, parent ...error) *Err {
	e := &Err{
		code: code,
		msg:  code.Message(),
	}

	if pc, file, line, ok := runtime.Caller(1); ok {
		e.frame = runtime.Frame{File: file, Line: line, PC: pc}
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.frame.Function = fn.Name()
		}
	}

	for _, p := range parent {
		if p != nil {
			e.parent = append(e.parent, p)
		}
	}

	return e
}

// Newf is like New but appends a formatted detail to the registered
// message for the code.
func Newf(code Code, format string, args ...interface{}) *Err {
	e := New(code)
	e.msg = fmt.Sprintf(code.Message()+": "+format, args...)
	if pc, file, line, ok := runtime.Caller(1); ok {
		e.frame = runtime.Frame{File: file, Line: line, PC: pc}
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.frame.Function = fn.Name()
		}
	}
	return e
}

func (e *Err) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.msg)

	for _, p := range e.parent {
		b.WriteString(": ")
		b.WriteString(p.Error())
	}

	return b.String()
}

// Unwrap exposes the first parent, compatible with errors.Is/As.
func (e *Err) Unwrap() error {
	if e == nil || len(e.parent) == 0 {
		return nil
	}
	return e.parent[0]
}

// Code returns the numeric code of the error.
func (e *Err) Code() Code {
	if e == nil {
		return 0
	}
	return e.code
}

// IsCode reports whether this error (not a parent) has the given code.
func (e *Err) IsCode(code Code) bool {
	return e != nil && e.code == code
}

// HasCode reports whether this error or any ancestor has the given code.
func (e *Err) HasCode(code Code) bool {
	if e == nil {
		return false
	}
	if e.code == code {
		return true
	}
	for _, p := range e.parent {
		if pe, ok := p.(*Err); ok && pe.HasCode(code) {
			return true
		}
	}
	return false
}

// Disposition returns the failure policy registered for this error's code.
func (e *Err) Disposition() Disposition {
	if e == nil {
		return DispositionNone
	}
	return e.code.Disposition()
}

// Frame returns the file:line the error was created at, for logging.
func (e *Err) Frame() string {
	if e == nil || e.frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.frame.File, e.frame.Line)
}
