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

// Package confstore is the configuration-store collaborator for the
// quorum-device client, backed by github.com/spf13/viper the way the
// teacher's config package wraps a "libvpr" viper instance
// (config/interface.go's RegisterFuncViper idiom) rather than hand
// rolling a flag/env parser.
package confstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dyusupov/corosync/internal/errs"
	"github.com/dyusupov/corosync/wire"
)

const (
	CodeWrongModel = errs.MinPkgConfig + 1
	CodeMissingKey = errs.MinPkgConfig + 2
	CodeBadPort    = errs.MinPkgConfig + 3
	CodeBadBoolean = errs.MinPkgConfig + 4
)

func init() {
	errs.Register(CodeWrongModel, `quorum.device.model must equal "net"`, errs.DispositionFatalProcess)
	errs.Register(CodeMissingKey, "required configuration key is missing", errs.DispositionFatalProcess)
	errs.Register(CodeBadPort, "quorum.device.net.port is out of range", errs.DispositionFatalProcess)
	errs.Register(CodeBadBoolean, "quorum.device.net.tls is not a recognized boolean string", errs.DispositionFatalProcess)
}

// defaultPort is corosync-qnetd's well-known listening port, used when
// quorum.device.net.port is absent.
const defaultPort = 5403

// defaultTimeoutMS / defaultSyncTimeoutMS mirror corosync's own
// built-in votequorum defaults, used when the respective key is
// absent.
const (
	defaultTimeoutMS     = 10000
	defaultSyncTimeoutMS = 15000
)

// Params is everything the client needs out of configuration, already
// validated and with the 0.8x heartbeat multiplier applied.
type Params struct {
	ClusterName           string
	NodeID                uint32
	TLSSupported          wire.TLSSupport
	Host                  string
	Port                  uint16
	Timeout               time.Duration
	SyncTimeout           time.Duration
	HeartbeatInterval     time.Duration
	SyncHeartbeatInterval time.Duration
}

// Store wraps a *viper.Viper the way config/interface.go wraps libvpr:
// the caller may supply an already-populated instance (for embedding
// in a larger process) or let New create a fresh one.
type Store struct {
	v *viper.Viper
}

// New returns a Store backed by a fresh viper.Viper with no sources
// configured; callers typically follow with SetConfigFile/AutomaticEnv
// on the returned *viper.Viper via Raw().
func New() *Store {
	return &Store{v: viper.New()}
}

// FromViper adapts an already-populated viper.Viper, grounded on
// config/interface.go's RegisterFuncViper pattern for embedding this
// client inside a larger cluster-manager process.
func FromViper(v *viper.Viper) *Store {
	return &Store{v: v}
}

// Raw exposes the underlying viper.Viper for callers that need to wire
// additional sources (files, env, flags) before Load.
func (s *Store) Raw() *viper.Viper { return s.v }

// Load reads and validates every configuration key the client
// consumes.
func (s *Store) Load() (*Params, *errs.Err) {
	v := s.v

	model := v.GetString("quorum.device.model")
	if model != "net" {
		return nil, errs.New(CodeWrongModel)
	}

	if !v.IsSet("runtime.votequorum.this_node_id") {
		return nil, errs.Newf(CodeMissingKey, "runtime.votequorum.this_node_id")
	}
	nodeID := v.GetUint32("runtime.votequorum.this_node_id")

	if !v.IsSet("totem.cluster_name") {
		return nil, errs.Newf(CodeMissingKey, "totem.cluster_name")
	}
	clusterName := v.GetString("totem.cluster_name")

	if !v.IsSet("quorum.device.net.host") {
		return nil, errs.Newf(CodeMissingKey, "quorum.device.net.host")
	}
	host := v.GetString("quorum.device.net.host")

	port := uint16(defaultPort)
	if v.IsSet("quorum.device.net.port") {
		raw := v.GetString("quorum.device.net.port")
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 || n > 65535 {
			return nil, errs.New(CodeBadPort)
		}
		port = uint16(n)
	}

	// tls_supported defaults to UNSUPPORTED when the key is absent.
	tlsSupported := wire.TLSUnsupported
	if v.IsSet("quorum.device.net.tls") {
		b, err := parseBoolString(v.GetString("quorum.device.net.tls"))
		if err != nil {
			return nil, errs.New(CodeBadBoolean, err)
		}
		if b {
			tlsSupported = wire.TLSSupported
		}
	}

	timeoutMS := uint32(defaultTimeoutMS)
	if v.IsSet("quorum.device.timeout") {
		timeoutMS = v.GetUint32("quorum.device.timeout")
	}
	syncTimeoutMS := uint32(defaultSyncTimeoutMS)
	if v.IsSet("quorum.device.sync_timeout") {
		syncTimeoutMS = v.GetUint32("quorum.device.sync_timeout")
	}

	return &Params{
		ClusterName:           clusterName,
		NodeID:                nodeID,
		TLSSupported:          tlsSupported,
		Host:                  host,
		Port:                  port,
		Timeout:               time.Duration(timeoutMS) * time.Millisecond,
		SyncTimeout:           time.Duration(syncTimeoutMS) * time.Millisecond,
		HeartbeatInterval:     time.Duration(float64(timeoutMS)*0.8) * time.Millisecond,
		SyncHeartbeatInterval: time.Duration(float64(syncTimeoutMS)*0.8) * time.Millisecond,
	}, nil
}

func parseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on", "1", "true":
		return true, nil
	case "no", "off", "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized boolean string %q", s)
	}
}
