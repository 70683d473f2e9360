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

import (
	"github.com/dyusupov/corosync/internal/errs"
	"github.com/dyusupov/corosync/wire"
)

// Config carries everything the machine needs to negotiate, fixed for
// the lifetime of one connection attempt.
type Config struct {
	ClusterName  string
	NodeID       uint32
	ClientTLS    wire.TLSSupport
	DecisionAlgo string
	HeartbeatMS  uint32
	SendFloor    uint32 // our minimum acceptable server-advertised request max
	RecvCeiling  uint32 // our maximum acceptable server-advertised reply max
}

// Outcome is what the event loop must do after HandleFrame or one of
// the explicit transition calls returns.
type Outcome struct {
	// Send, if non-nil, is a frame to enqueue on the main send buffer.
	Send []byte
	// EnteredSteady is true exactly once, when SET_OPTION_REPLY
	// completes the handshake.
	EnteredSteady bool
	// ArmHeartbeat is true alongside EnteredSteady if the negotiated
	// heartbeat interval is nonzero and the periodic echo timer should
	// be armed.
	ArmHeartbeat bool
	// BeginTLSUpgrade is true when the caller must drain the send
	// buffer, perform the TLS handshake, and then call AfterTLSUpgrade.
	BeginTLSUpgrade bool
	// ServerErrorCode, if non-nil, is the error_code option carried by
	// an inbound SERVER_ERROR, for logging before teardown.
	ServerErrorCode *uint32
	// RaiseBufferMaxima is true exactly once, on a successful
	// INIT_REPLY: the caller must raise its send-buffer maxima to
	// RequestMax and its receive-buffer maximum to ReplyMax.
	RaiseBufferMaxima bool
	RequestMax        uint32
	ReplyMax          uint32
}

// Machine is the handshake-plus-steady-state state machine, and owns
// the echo sub-channel.
type Machine struct {
	cfg   Config
	state State

	seq         uint32 // last main-channel sequence number used
	expectedSeq uint32 // sequence the next inbound reply must carry

	serverTLS wire.TLSSupport
	usingTLS  bool

	negotiatedHeartbeatMS uint32

	echo echoChannel
}

// New constructs a Machine ready to have Start called.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg, state: WaitPreInitReply}
}

// State returns the machine's current state, for logging and tests.
func (m *Machine) State() State { return m.state }

// UsingTLS reports whether TLS was negotiated for this connection.
func (m *Machine) UsingTLS() bool { return m.usingTLS }

func (m *Machine) nextSeq() uint32 {
	m.seq++
	return m.seq
}

// Start encodes the opening PREINIT message and transitions to
// WAIT_PREINIT_REPLY. Called once, right after the connection is
// established.
func (m *Machine) Start() ([]byte, *errs.Err) {
	seq := m.nextSeq()
	m.expectedSeq = seq
	frame, err := wire.BuildPreInit(seq, m.cfg.ClusterName)
	if err != nil {
		return nil, errs.New(CodeWrongState, err)
	}
	m.state = WaitPreInitReply
	return frame, nil
}

// HandleFrame dispatches one decoded inbound message against the
// current state. Any message not valid in the current state is fatal.
func (m *Machine) HandleFrame(msg *wire.Message) (Outcome, *errs.Err) {
	if msg.Type == wire.ServerError {
		var out Outcome
		if code, ok := msg.GetUint32(wire.OptErrorCode); ok {
			out.ServerErrorCode = &code
		}
		return out, errs.New(CodeServerError)
	}

	if msg.Type == wire.EchoReply {
		if m.state != Steady {
			return Outcome{}, errs.New(CodeUnexpectedType)
		}
		if err := m.echo.HandleReply(msg); err != nil {
			return Outcome{}, err
		}
		return Outcome{}, nil
	}

	switch m.state {
	case WaitPreInitReply:
		return m.handlePreInitReply(msg)
	case WaitInitReply:
		return m.handleInitReply(msg)
	case WaitSetOptionReply:
		return m.handleSetOptionReply(msg)
	default:
		// WAIT_STARTTLS_SENT expects no inbound message (the event loop
		// drives the TLS upgrade itself on write-complete), and Steady
		// only expects ECHO_REPLY, handled above.
		return Outcome{}, errs.New(CodeUnexpectedType)
	}
}

func (m *Machine) handlePreInitReply(msg *wire.Message) (Outcome, *errs.Err) {
	if msg.Type != wire.PreInitReply {
		return Outcome{}, errs.New(CodeUnexpectedType)
	}
	if msg.Seq != m.expectedSeq {
		return Outcome{}, errs.New(CodeBadSequence)
	}

	tlsRaw, ok1 := msg.GetUint32(wire.OptTLSSupported)
	_, ok2 := msg.Get(wire.OptTLSClientCertRequired) // presence only; the client-cert decision is made when building the tls.Config, not here
	if !ok1 || !ok2 {
		return Outcome{}, errs.New(CodeMissingOption)
	}
	m.serverTLS = wire.TLSSupport(tlsRaw)

	switch tlsCompat(m.serverTLS, m.cfg.ClientTLS) {
	case tlsIncompatible:
		return Outcome{}, errs.New(CodeIncompatibleTLS)
	case tlsNegotiated:
		seq := m.nextSeq()
		m.expectedSeq = seq
		frame, err := wire.BuildStartTLS(seq)
		if err != nil {
			return Outcome{}, errs.New(CodeWrongState, err)
		}
		m.state = WaitStartTLSSent
		return Outcome{Send: frame, BeginTLSUpgrade: true}, nil
	default: // tlsNone
		frame, err := m.sendInit()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Send: frame}, nil
	}
}

func (m *Machine) sendInit() ([]byte, *errs.Err) {
	seq := m.nextSeq()
	m.expectedSeq = seq
	frame, err := wire.BuildInit(seq, m.cfg.NodeID)
	if err != nil {
		return nil, errs.New(CodeWrongState, err)
	}
	m.state = WaitInitReply
	return frame, nil
}

// AfterTLSUpgrade is called by the event loop once it has performed
// the TLS handshake triggered by BeginTLSUpgrade in the PREINIT_REPLY
// outcome. It marks the connection as TLS and encodes the INIT that
// follows the upgrade.
func (m *Machine) AfterTLSUpgrade() ([]byte, *errs.Err) {
	if m.state != WaitStartTLSSent {
		return nil, errs.New(CodeWrongState)
	}
	m.usingTLS = true
	return m.sendInit()
}

func (m *Machine) handleInitReply(msg *wire.Message) (Outcome, *errs.Err) {
	if msg.Type != wire.InitReply {
		return Outcome{}, errs.New(CodeUnexpectedType)
	}
	if msg.Seq != m.expectedSeq {
		return Outcome{}, errs.New(CodeBadSequence)
	}

	reqMax, ok1 := msg.GetUint32(wire.OptServerMaxRequestSize)
	replyMax, ok2 := msg.GetUint32(wire.OptServerMaxReplySize)
	_, ok3 := msg.GetStringSlice(wire.OptSupportedMessages)
	_, ok4 := msg.GetStringSlice(wire.OptSupportedOptions)
	algos, ok5 := msg.GetStringSlice(wire.OptSupportedDecisionAlgorithms)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Outcome{}, errs.New(CodeMissingOption)
	}

	if reqMax < m.cfg.SendFloor || replyMax > m.cfg.RecvCeiling {
		return Outcome{}, errs.New(CodeBufferLimits)
	}

	supported := false
	for _, a := range algos {
		if a == m.cfg.DecisionAlgo {
			supported = true
			break
		}
	}
	if !supported {
		return Outcome{}, errs.New(CodeAlgoMismatch)
	}

	seq := m.nextSeq()
	m.expectedSeq = seq
	frame, err := wire.BuildSetOption(seq, m.cfg.DecisionAlgo, m.cfg.HeartbeatMS)
	if err != nil {
		return Outcome{}, errs.New(CodeWrongState, err)
	}
	m.state = WaitSetOptionReply
	return Outcome{
		Send:              frame,
		RaiseBufferMaxima: true,
		RequestMax:        reqMax,
		ReplyMax:          replyMax,
	}, nil
}

func (m *Machine) handleSetOptionReply(msg *wire.Message) (Outcome, *errs.Err) {
	if msg.Type != wire.SetOptionReply {
		return Outcome{}, errs.New(CodeUnexpectedType)
	}
	if msg.Seq != m.expectedSeq {
		return Outcome{}, errs.New(CodeBadSequence)
	}

	algo, ok1 := msg.GetString(wire.OptDecisionAlgorithm)
	hb, ok2 := msg.GetUint32(wire.OptHeartbeatInterval)
	if !ok1 || !ok2 {
		// Fatal rather than comparing possibly-unset values.
		return Outcome{}, errs.New(CodeMissingOption)
	}
	if algo != m.cfg.DecisionAlgo || hb != m.cfg.HeartbeatMS {
		return Outcome{}, errs.New(CodeMissingOption)
	}

	m.negotiatedHeartbeatMS = hb
	m.state = Steady
	return Outcome{EnteredSteady: true, ArmHeartbeat: hb > 0}, nil
}

// ScheduleEcho is invoked by the heartbeat timer callback.
func (m *Machine) ScheduleEcho() ([]byte, *errs.Err) {
	return m.echo.Schedule()
}

// HeartbeatIntervalMS returns the negotiated heartbeat interval, valid
// once EnteredSteady has been observed.
func (m *Machine) HeartbeatIntervalMS() uint32 { return m.negotiatedHeartbeatMS }
