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

// Package logging provides the structured logger used throughout the
// quorum-device client. It wraps logrus with pluggable output hooks
// (stderr, file, syslog) instead of hard-wiring a single sink.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dyusupov/corosync/internal/loglevel"
)

// Logger is the structured logger interface consumed by every other
// package in this module. It is intentionally small: callers reach
// for WithField/WithError to build context, then call a severity
// method to emit.
type Logger interface {
	SetLevel(lvl loglevel.Level)
	WithField(key string, val interface{}) Logger
	WithError(err error) Logger

	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}

type lgr struct {
	mu  sync.RWMutex
	std *logrus.Logger
	ent *logrus.Entry
	lvl loglevel.Level
}

// New builds a Logger writing to stderr by default at InfoLevel; a
// file or syslog sink can be layered on via AddFileHook / AddSyslogHook
// below.
func New() Logger {
	std := logrus.New()
	std.SetOutput(os.Stderr)
	std.SetFormatter(defaultFormatter())
	std.SetLevel(loglevel.InfoLevel.Logrus())

	return &lgr{
		std: std,
		ent: logrus.NewEntry(std),
		lvl: loglevel.InfoLevel,
	}
}

func defaultFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		ForceQuote:      true,
	}
}

// SetLevel sets the severity threshold. NilLevel is handled specially:
// logrus has no level value that disables every entry, since SetLevel
// only ever raises the verbosity ceiling, so NilLevel is gated
// explicitly at each emission method below instead of being pushed
// into logrus itself.
func (l *lgr) SetLevel(lvl loglevel.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lvl = lvl
	if lvl != loglevel.NilLevel {
		l.std.SetLevel(lvl.Logrus())
	}
}

func (l *lgr) WithField(key string, val interface{}) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &lgr{std: l.std, ent: l.ent.WithField(key, val), lvl: l.lvl}
}

func (l *lgr) WithError(err error) Logger {
	if err == nil {
		return l
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &lgr{std: l.std, ent: l.ent.WithError(err), lvl: l.lvl}
}

func (l *lgr) silenced() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lvl == loglevel.NilLevel
}

func (l *lgr) Debug(args ...interface{}) {
	if l.silenced() {
		return
	}
	l.ent.Debug(args...)
}

func (l *lgr) Info(args ...interface{}) {
	if l.silenced() {
		return
	}
	l.ent.Info(args...)
}

func (l *lgr) Warn(args ...interface{}) {
	if l.silenced() {
		return
	}
	l.ent.Warn(args...)
}

func (l *lgr) Error(args ...interface{}) {
	if l.silenced() {
		return
	}
	l.ent.Error(args...)
}

func (l *lgr) Fatal(args ...interface{}) {
	if l.silenced() {
		return
	}
	l.ent.Error(args...)
}

// AddFileHook adds a secondary sink writing every entry to w: a plain
// io.Writer hook, filtered by its own configured level set.
func AddFileHook(l Logger, w io.Writer, lvl loglevel.Level) {
	impl, ok := l.(*lgr)
	if !ok {
		return
	}
	impl.std.AddHook(&writerHook{w: w, levels: levelsAtOrAbove(lvl)})
}

type writerHook struct {
	w      io.Writer
	levels []logrus.Level
}

func (h *writerHook) Levels() []logrus.Level { return h.levels }

func (h *writerHook) Fire(e *logrus.Entry) error {
	b, err := e.Bytes()
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}

func levelsAtOrAbove(lvl loglevel.Level) []logrus.Level {
	max := lvl.Logrus()
	var out []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= max {
			out = append(out, l)
		}
	}
	return out
}
