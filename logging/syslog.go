//go:build linux || darwin

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
	"log/syslog"

	"github.com/sirupsen/logrus"

	"github.com/dyusupov/corosync/internal/loglevel"
)

// AddSyslogHook adds a best-effort secondary sink, never fatal to
// construct since a quorum-device client must keep running even
// without a local syslog daemon.
func AddSyslogHook(l Logger, tag string, lvl loglevel.Level) error {
	w, err := syslog.New(syslog.LOG_DAEMON, tag)
	if err != nil {
		return err
	}

	impl, ok := l.(*lgr)
	if !ok {
		return nil
	}

	impl.std.AddHook(&syslogHook{w: w, levels: levelsAtOrAbove(lvl)})
	return nil
}

type syslogHook struct {
	w      *syslog.Writer
	levels []logrus.Level
}

func (h *syslogHook) Levels() []logrus.Level { return h.levels }

func (h *syslogHook) Fire(e *logrus.Entry) error {
	line, err := e.String()
	if err != nil {
		return err
	}

	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return h.w.Crit(line)
	case logrus.ErrorLevel:
		return h.w.Err(line)
	case logrus.WarnLevel:
		return h.w.Warning(line)
	case logrus.DebugLevel:
		return h.w.Debug(line)
	default:
		return h.w.Info(line)
	}
}
