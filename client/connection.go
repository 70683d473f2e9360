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

// Package client assembles the buffers, transport, protocol machine,
// timer wheel and voting-subsystem handle into a single Connection
// instance, and drives it from the event loop in loop.go.
package client

import (
	"context"
	"time"

	"github.com/dyusupov/corosync/buffer"
	"github.com/dyusupov/corosync/confstore"
	"github.com/dyusupov/corosync/internal/errs"
	"github.com/dyusupov/corosync/logging"
	"github.com/dyusupov/corosync/protocol"
	"github.com/dyusupov/corosync/timer"
	"github.com/dyusupov/corosync/tlsconf"
	"github.com/dyusupov/corosync/transport"
	"github.com/dyusupov/corosync/votequorum"
	"github.com/dyusupov/corosync/wire"
	"github.com/hashicorp/go-multierror"
)

const (
	CodeDisconnected = errs.MinPkgClient + 1
	CodeOversized    = errs.MinPkgClient + 2
	CodeTransport    = errs.MinPkgClient + 3
	CodeVoteQuorum   = errs.MinPkgClient + 4
	CodeDecode       = errs.MinPkgClient + 5
)

func init() {
	errs.Register(CodeDisconnected, "connection torn down", errs.DispositionFatalConnection)
	errs.Register(CodeOversized, "inbound frame exceeds the receive buffer maximum", errs.DispositionFatalConnection)
	errs.Register(CodeTransport, "transport I/O error", errs.DispositionFatalConnection)
	errs.Register(CodeVoteQuorum, "voting subsystem dispatch failed", errs.DispositionFatalProcess)
	errs.Register(CodeDecode, "frame failed to decode", errs.DispositionFatalConnection)
}

const (
	recvCeilingDefault = 16 * 1024 * 1024
	sendFloorDefault   = 32 * 1024

	serverCN           = "Qnetd Server"
	clientCertNickname = "Cluster Cert"

	decisionAlgorithm = "test"
)

// Connection is the long-lived client record: socket, the three
// buffers, the state machine, the timer wheel, and the two external
// collaborators.
type Connection struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    logging.Logger

	tr      *transport.Transport
	machine *protocol.Machine

	recvBuf *buffer.Buffer
	mainBuf *buffer.Buffer
	echoBuf *buffer.Buffer

	wheel           *timer.Wheel
	heartbeatHandle timer.Handle
	heartbeatArmed  bool

	tlsUpgradePending bool

	voteq       votequorum.Subsystem
	voteqHandle votequorum.Handle
	deviceName  string

	tlsCfg *tlsconf.Config

	skipRemaining int
	skippedType   wire.MsgType

	disconnectPending bool
	lastFatal         *errs.Err

	ringID uint64
}

// New assembles a Connection from resolved configuration parameters
// and the external collaborators. tlsCfg may be nil when TLS support
// is UNSUPPORTED.
func New(ctx context.Context, params *confstore.Params, tr *transport.Transport, tlsCfg *tlsconf.Config, voteq votequorum.Subsystem, log logging.Logger) *Connection {
	cctx, cancel := context.WithCancel(ctx)

	m := protocol.New(protocol.Config{
		ClusterName:  params.ClusterName,
		NodeID:       params.NodeID,
		ClientTLS:    params.TLSSupported,
		DecisionAlgo: decisionAlgorithm,
		HeartbeatMS:  uint32(params.HeartbeatInterval / time.Millisecond),
		SendFloor:    sendFloorDefault,
		RecvCeiling:  recvCeilingDefault,
	})

	return &Connection{
		ctx:        cctx,
		cancel:     cancel,
		log:        log,
		tr:         tr,
		machine:    m,
		recvBuf:    buffer.New(4096, recvCeilingDefault),
		mainBuf:    buffer.New(4096, sendFloorDefault),
		echoBuf:    buffer.New(256, sendFloorDefault),
		wheel:      timer.New(),
		voteq:      voteq,
		deviceName: "QdeviceNet",
		tlsCfg:     tlsCfg,
	}
}

// Close tears down the transport, unregisters from the voting
// subsystem, and cancels the connection's context. Safe to call more
// than once. Both teardown steps are attempted even if one fails, and
// their errors are aggregated rather than the first one discarding the
// second.
func (c *Connection) Close() error {
	c.cancel()

	if c.heartbeatArmed {
		c.wheel.Cancel(c.heartbeatHandle)
		c.heartbeatArmed = false
	}

	var result *multierror.Error
	if c.tr != nil {
		if err := c.tr.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if c.voteqHandle != nil {
		if err := c.voteqHandle.Unregister(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := c.voteqHandle.Finalize(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (c *Connection) fatal(err *errs.Err) {
	if c.lastFatal == nil {
		c.lastFatal = err
	}
	c.disconnectPending = true
}

func (c *Connection) logErr(where string, err *errs.Err) {
	c.log.WithError(err).WithField("where", where).Error("fatal error")
}
