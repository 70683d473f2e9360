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

package client

import (
	"time"

	"github.com/dyusupov/corosync/buffer"
	"github.com/dyusupov/corosync/internal/errs"
	"github.com/dyusupov/corosync/timer"
	"github.com/dyusupov/corosync/transport"
	"github.com/dyusupov/corosync/votequorum"
	"github.com/dyusupov/corosync/wire"
)

const writeTimeout = 10 * time.Second

// Run performs the voting-subsystem bootstrap (with bounded 10x1s
// retry loops), sends the opening PREINIT, and then drives the event
// loop until a fatal error or context cancellation.
// The returned *errs.Err is nil only on a clean context-cancel
// shutdown.
func (c *Connection) Run() *errs.Err {
	if c.voteq != nil {
		if err := c.bootstrapVoteQuorum(); err != nil {
			return err
		}
	}

	frame, err := c.machine.Start()
	if err != nil {
		return err
	}
	_ = c.mainBuf.Append(frame)

	return c.loop()
}

func (c *Connection) bootstrapVoteQuorum() *errs.Err {
	var handle votequorum.Handle
	initErr := votequorum.Retry(func() error {
		h, err := c.voteq.Initialize(c.onVoteQuorumNotify)
		if err != nil {
			return err
		}
		handle = h
		return nil
	})
	if initErr != nil {
		return errs.New(CodeVoteQuorum, initErr)
	}
	c.voteqHandle = handle

	if err := handle.TrackStart(votequorum.TrackChanges); err != nil {
		return errs.New(CodeVoteQuorum, err)
	}

	regErr := votequorum.Retry(func() error {
		return c.voteq.Register(handle, c.deviceName)
	})
	if regErr != nil {
		return errs.New(CodeVoteQuorum, regErr)
	}
	return nil
}

func (c *Connection) onVoteQuorumNotify(quorate bool, ringID uint64, nodes []uint32) {
	c.ringID = ringID
	c.log.WithField("quorate", quorate).WithField("ring_id", ringID).WithField("nodes", nodes).Info("membership change")
}

// loop is the single event-loop task: a select over the transport's
// read-event channel, the voting-subsystem watcher channel, and a
// timer armed to the wheel's next deadline, in place of a raw poll(2)
// call.
func (c *Connection) loop() *errs.Err {
	var voteqEvents <-chan struct{}
	if c.voteqHandle != nil {
		voteqEvents = watchFD(c.ctx, c.voteqHandle.FD())
	}

	for !c.disconnectPending {
		for {
			progressed := c.writeStep()
			if c.disconnectPending {
				break
			}
			if !progressed {
				break
			}
		}
		if c.disconnectPending {
			break
		}

		deadline, hasDeadline := c.wheel.NextDeadline()
		var t *time.Timer
		var timerC <-chan time.Time
		if hasDeadline {
			d := time.Until(deadline)
			if d < 0 {
				d = 0
			}
			t = time.NewTimer(d)
			timerC = t.C
		}

		select {
		case <-c.ctx.Done():
			if t != nil {
				t.Stop()
			}
			return nil

		case ev, ok := <-c.tr.Reads():
			if t != nil {
				t.Stop()
			}
			if !ok {
				c.fatal(errs.New(CodeTransport))
				break
			}
			c.handleTransportEvent(ev)

		case _, ok := <-voteqEvents:
			if t != nil {
				t.Stop()
			}
			if !ok {
				// watcher goroutine exited (context cancelled);
				// a nil channel blocks forever, leaving shutdown
				// to the ctx.Done case.
				voteqEvents = nil
				break
			}
			if err := c.voteqHandle.Dispatch(c.ctx); err != nil {
				c.fatal(errs.New(CodeVoteQuorum, err))
			}

		case now := <-timerC:
			c.wheel.ExpireDue(now)
		}
	}

	return c.lastFatal
}

func (c *Connection) handleTransportEvent(ev transport.Event) {
	switch {
	case ev.EOF:
		c.fatal(errs.New(CodeTransport))
	case ev.Err != nil:
		c.fatal(errs.New(CodeTransport, ev.Err))
	default:
		c.onBytesReceived(ev.Data)
	}
}

// onBytesReceived implements the read half of the framing layer:
// accumulate into recvBuf, then peel off as many complete frames as
// are available. The declared length is peeked as soon as the fixed
// wire.HeaderLen-byte header is in hand, and compared against recvBuf.Max() before any
// more of the frame's body is appended, so an oversized frame enters
// skip mode instead of tripping recvBuf's own ceiling guard. Skip
// mode discards the rest of the oversized frame so the log line can
// name the offending type before teardown.
func (c *Connection) onBytesReceived(data []byte) {
	for len(data) > 0 {
		if c.skipRemaining > 0 {
			n := len(data)
			if n > c.skipRemaining {
				n = c.skipRemaining
			}
			c.skipRemaining -= n
			data = data[n:]
			if c.skipRemaining > 0 {
				return
			}
			c.log.WithField("type", c.skippedType.String()).Error("oversized frame discarded")
			c.fatal(errs.New(CodeOversized))
			return
		}

		if c.recvBuf.Len() < wire.HeaderLen {
			n := wire.HeaderLen - c.recvBuf.Len()
			if n > len(data) {
				n = len(data)
			}
			if err := c.recvBuf.Append(data[:n]); err != nil {
				c.fatal(err)
				return
			}
			data = data[n:]
			if c.recvBuf.Len() < wire.HeaderLen {
				return // still waiting on more header bytes
			}
		}

		length, ok := wire.PeekLength(c.recvBuf.Bytes())
		if !ok {
			return
		}
		if length > c.recvBuf.Max() {
			c.enterSkipMode(data, length)
			return
		}
		if len(data) == 0 {
			return
		}

		have := c.recvBuf.Len()
		if have < length {
			n := length - have
			if n > len(data) {
				n = len(data)
			}
			if err := c.recvBuf.Append(data[:n]); err != nil {
				c.fatal(err)
				return
			}
			data = data[n:]
			if c.recvBuf.Len() < length {
				return // partial frame, wait for more bytes
			}
		}

		buf := c.recvBuf.Bytes()
		frame := make([]byte, length)
		copy(frame, buf[:length])
		c.recvBuf.Reset()
		if len(buf) > length {
			_ = c.recvBuf.Append(buf[length:])
		}

		c.processFrame(frame)
		if c.disconnectPending {
			return
		}
	}
}

// enterSkipMode is reached once the header has revealed a declared
// length beyond recvBuf.Max(): recvBuf already holds exactly the
// header bytes (never the oversized body, which is never appended),
// and the remaining unconsumed bytes of the current read are folded
// straight into the skip counter instead of being buffered.
func (c *Connection) enterSkipMode(rest []byte, declared int) {
	buf := c.recvBuf.Bytes()
	c.skippedType = wire.MsgType(0)
	if len(buf) >= 6 {
		c.skippedType = wire.MsgType(uint16(buf[4])<<8 | uint16(buf[5]))
	}
	consumed := len(buf)
	c.recvBuf.Reset()
	c.skipRemaining = declared - consumed

	n := len(rest)
	if n > c.skipRemaining {
		n = c.skipRemaining
	}
	c.skipRemaining -= n

	if c.skipRemaining > 0 {
		return
	}
	c.log.WithField("type", c.skippedType.String()).Error("oversized frame discarded")
	c.fatal(errs.New(CodeOversized))
}

func (c *Connection) processFrame(frame []byte) {
	msg, decErr := wire.Decode(frame)
	if decErr != wire.ErrNone {
		c.log.WithField("decode_error", decErr.String()).Error("frame decode failed")
		c.fatal(errs.New(CodeDecode))
		return
	}

	outcome, err := c.machine.HandleFrame(msg)
	if err != nil {
		if outcome.ServerErrorCode != nil {
			c.log.WithField("server_error_code", *outcome.ServerErrorCode).Error("server reported error")
		}
		c.logErr("protocol", err)
		c.fatal(err)
		return
	}

	if outcome.RaiseBufferMaxima {
		// Buffer maxima are raised exactly once, on a successful
		// INIT_REPLY, to the server-advertised values.
		c.mainBuf.SetMax(int(outcome.RequestMax))
		c.echoBuf.SetMax(int(outcome.RequestMax))
		c.recvBuf.SetMax(int(outcome.ReplyMax))
	}
	if outcome.Send != nil {
		_ = c.mainBuf.Append(outcome.Send)
	}
	if outcome.BeginTLSUpgrade {
		c.tlsUpgradePending = true
	}
	if outcome.EnteredSteady && outcome.ArmHeartbeat {
		c.armHeartbeat(c.machine.HeartbeatIntervalMS())
	}
}

func (c *Connection) armHeartbeat(intervalMS uint32) {
	interval := time.Duration(intervalMS) * time.Millisecond
	c.heartbeatHandle = c.wheel.Add(interval, func(time.Time) timer.Result {
		frame, err := c.machine.ScheduleEcho()
		if err != nil {
			c.fatal(err)
			return timer.Done
		}
		_ = c.echoBuf.Append(frame)
		return timer.Reschedule
	})
	c.heartbeatArmed = true
}

// writeStep performs at most one write, choosing between the main and
// echo buffers by the writer-priority rule
// send_echo = not (main_sending and echo_progress == 0):
// prefer main, unless an echo frame is already mid-flight.
//
// It reports whether it did anything, so loop's drain call can keep
// re-running it without waiting on an unrelated select event: a
// completed write may itself enqueue more data (performTLSUpgrade
// appending INIT once STARTTLS has drained), which would otherwise sit
// in mainBuf until some other event happened to wake the loop.
func (c *Connection) writeStep() bool {
	mainSending := c.mainBuf.Pending()
	echoProgress := c.echoBuf.Progress()
	sendEcho := !(mainSending && echoProgress == 0)

	var buf *buffer.Buffer
	var isMain bool
	switch {
	case sendEcho && c.echoBuf.Pending():
		buf, isMain = c.echoBuf, false
	case c.mainBuf.Pending():
		buf, isMain = c.mainBuf, true
	case c.echoBuf.Pending():
		buf, isMain = c.echoBuf, false
	default:
		return false // never write while both buffers are empty
	}

	n, err := c.tr.Write(buf.Remaining(), time.Now().Add(writeTimeout))
	if n > 0 {
		buf.AdvanceProgress(n)
	}
	if err != nil {
		c.fatal(err)
		return false
	}
	if buf.Pending() {
		return true
	}

	buf.Reset()
	if isMain && c.tlsUpgradePending {
		c.tlsUpgradePending = false
		c.performTLSUpgrade()
	}
	return true
}
