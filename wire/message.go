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

// Package wire implements the framed tag-length-value message codec
// consumed by the protocol state machine. The frame envelope (4-byte
// length, 2-byte type, 4-byte sequence) is plain big-endian; the
// option group carried inside it is encoded
// with github.com/fxamacker/cbor/v2, giving the variable-length,
// strongly-typed option values a real structured codec instead of a
// hand-rolled nested TLV reader.
package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"
)

// MsgType is the closed enum of message types on the wire.
type MsgType uint16

const (
	PreInit MsgType = iota + 1
	PreInitReply
	StartTLS
	Init
	InitReply
	SetOption
	SetOptionReply
	ServerError
	EchoRequest
	EchoReply
)

func (t MsgType) String() string {
	switch t {
	case PreInit:
		return "PREINIT"
	case PreInitReply:
		return "PREINIT_REPLY"
	case StartTLS:
		return "STARTTLS"
	case Init:
		return "INIT"
	case InitReply:
		return "INIT_REPLY"
	case SetOption:
		return "SET_OPTION"
	case SetOptionReply:
		return "SET_OPTION_REPLY"
	case ServerError:
		return "SERVER_ERROR"
	case EchoRequest:
		return "ECHO_REQUEST"
	case EchoReply:
		return "ECHO_REPLY"
	default:
		return "UNKNOWN"
	}
}

// OptionTag is the closed enum of option keys carried in the CBOR
// option map.
type OptionTag string

const (
	OptClusterName                 OptionTag = "cluster_name"
	OptNodeID                      OptionTag = "node_id"
	OptTLSSupported                OptionTag = "tls_supported"
	OptTLSClientCertRequired       OptionTag = "tls_client_cert_required"
	OptServerMaxRequestSize        OptionTag = "server_max_request_size"
	OptServerMaxReplySize          OptionTag = "server_max_reply_size"
	OptSupportedMessages           OptionTag = "supported_messages"
	OptSupportedOptions            OptionTag = "supported_options"
	OptSupportedDecisionAlgorithms OptionTag = "supported_decision_algorithms"
	OptDecisionAlgorithm           OptionTag = "decision_algorithm"
	OptHeartbeatInterval           OptionTag = "heartbeat_interval"
	OptEchoSeq                     OptionTag = "echo_seq"
	OptErrorCode                   OptionTag = "error_code"
)

// TLSSupport is the three-valued tls_supported field both sides
// exchange during PREINIT to decide whether the connection upgrades.
type TLSSupport uint8

const (
	TLSUnsupported TLSSupport = iota
	TLSSupported
	TLSRequired
)

// HeaderLen is the size, in bytes, of the fixed frame header: a
// 4-byte total-length prefix (including itself), a 2-byte type, and a
// 4-byte sequence number.
const HeaderLen = 10

// Message is the decoded form of one frame.
type Message struct {
	Type    MsgType
	Seq     uint32
	Options map[OptionTag]interface{}
}

// Get returns an option's raw decoded value and whether it was present.
func (m *Message) Get(tag OptionTag) (interface{}, bool) {
	if m == nil || m.Options == nil {
		return nil, false
	}
	v, ok := m.Options[tag]
	return v, ok
}

// GetUint32 returns an option as a uint32, handling CBOR's tendency to
// decode unsigned integers into uint64 or int64 depending on value.
func (m *Message) GetUint32(tag OptionTag) (uint32, bool) {
	v, ok := m.Get(tag)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint64:
		return uint32(n), true
	case int64:
		return uint32(n), true
	case uint32:
		return n, true
	case int:
		return uint32(n), true
	default:
		return 0, false
	}
}

// GetString returns an option as a string.
func (m *Message) GetString(tag OptionTag) (string, bool) {
	v, ok := m.Get(tag)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetBool returns an option as a bool.
func (m *Message) GetBool(tag OptionTag) (bool, bool) {
	v, ok := m.Get(tag)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetStringSlice returns an option as a []string.
func (m *Message) GetStringSlice(tag OptionTag) ([]string, bool) {
	v, ok := m.Get(tag)
	if !ok {
		return nil, false
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// PeekLength reads the 4-byte length prefix if enough bytes are
// available. The returned length includes the header itself, matching
// the on-wire convention so a transport-layer reader can tell exactly
// how many more bytes to accumulate before calling Decode.
func PeekLength(data []byte) (length int, ok bool) {
	if len(data) < 4 {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(data[:4])), true
}

// Encode serializes a message into a single frame: length prefix,
// type, sequence, and the CBOR-encoded option map.
func Encode(typ MsgType, seq uint32, opts map[OptionTag]interface{}) ([]byte, error) {
	raw := make(map[string]interface{}, len(opts))
	for k, v := range opts {
		raw[string(k)] = v
	}

	body, err := cbor.Marshal(raw)
	if err != nil {
		return nil, err
	}

	total := HeaderLen + len(body)
	buf := make([]byte, total)
	binary.BigEndian.PutUint32(buf[0:4], uint32(total))
	binary.BigEndian.PutUint16(buf[4:6], uint16(typ))
	binary.BigEndian.PutUint32(buf[6:10], seq)
	copy(buf[HeaderLen:], body)

	return buf, nil
}

// Decode parses one complete frame (exactly as many bytes as its own
// length prefix declares) into a Message. frame must already be
// length-delimited by the transport layer; Decode never looks past
// frame[:declaredLen].
func Decode(frame []byte) (*Message, DecodeError) {
	if len(frame) < HeaderLen {
		return nil, ErrBadOptionLength
	}

	declared := int(binary.BigEndian.Uint32(frame[0:4]))
	if declared != len(frame) {
		return nil, ErrTLVExceedsFrame
	}

	typ := MsgType(binary.BigEndian.Uint16(frame[4:6]))
	seq := binary.BigEndian.Uint32(frame[6:10])
	body := frame[HeaderLen:]

	if len(body) == 0 {
		return &Message{Type: typ, Seq: seq, Options: map[OptionTag]interface{}{}}, ErrNone
	}

	var raw map[string]interface{}
	if err := safeUnmarshal(body, &raw); err != nil {
		return nil, classifyCBORError(err)
	}

	opts := make(map[OptionTag]interface{}, len(raw))
	for k, v := range raw {
		opts[OptionTag(k)] = v
	}

	return &Message{Type: typ, Seq: seq, Options: opts}, ErrNone
}

func safeUnmarshal(body []byte, out *map[string]interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errOutOfMemory
		}
	}()
	dec := cbor.NewDecoder(bytes.NewReader(body))
	return dec.Decode(out)
}
