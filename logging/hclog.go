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

package logging

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
)

// hclogAdapter lets this client's Logger stand in for an hclog.Logger,
// useful when the quorum-device client is embedded in a larger cluster
// manager that already standardized on hclog (as consumers built on
// memberlist or dragonboat typically do).
type hclogAdapter struct {
	l Logger
}

// NewHCLog wraps a Logger as an hclog.Logger.
func NewHCLog(l Logger) hclog.Logger {
	return &hclogAdapter{l: l}
}

func (h *hclogAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace, hclog.Debug:
		h.l.Debug(append([]interface{}{msg}, args...)...)
	case hclog.Info:
		h.l.Info(append([]interface{}{msg}, args...)...)
	case hclog.Warn:
		h.l.Warn(append([]interface{}{msg}, args...)...)
	case hclog.Error:
		h.l.Error(append([]interface{}{msg}, args...)...)
	default:
		h.l.Info(append([]interface{}{msg}, args...)...)
	}
}

func (h *hclogAdapter) Trace(msg string, args ...interface{}) { h.Log(hclog.Trace, msg, args...) }
func (h *hclogAdapter) Debug(msg string, args ...interface{}) { h.Log(hclog.Debug, msg, args...) }
func (h *hclogAdapter) Info(msg string, args ...interface{})  { h.Log(hclog.Info, msg, args...) }
func (h *hclogAdapter) Warn(msg string, args ...interface{})  { h.Log(hclog.Warn, msg, args...) }
func (h *hclogAdapter) Error(msg string, args ...interface{}) { h.Log(hclog.Error, msg, args...) }

func (h *hclogAdapter) IsTrace() bool { return true }
func (h *hclogAdapter) IsDebug() bool { return true }
func (h *hclogAdapter) IsInfo() bool  { return true }
func (h *hclogAdapter) IsWarn() bool  { return true }
func (h *hclogAdapter) IsError() bool { return true }

func (h *hclogAdapter) ImpliedArgs() []interface{} { return nil }
func (h *hclogAdapter) With(args ...interface{}) hclog.Logger {
	cur := h.l
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			cur = cur.WithField(k, args[i+1])
		}
	}
	return &hclogAdapter{l: cur}
}

func (h *hclogAdapter) Name() string                        { return "corosync-qdevice-net" }
func (h *hclogAdapter) Named(name string) hclog.Logger      { return h.With("name", name) }
func (h *hclogAdapter) ResetNamed(name string) hclog.Logger { return h.With("name", name) }
func (h *hclogAdapter) SetLevel(level hclog.Level)          {}
func (h *hclogAdapter) GetLevel() hclog.Level               { return hclog.Info }
func (h *hclogAdapter) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(h.StandardWriter(opts), "", 0)
}
func (h *hclogAdapter) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return os.Stderr
}
