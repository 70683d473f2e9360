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

// Command qdevicenet is the process bootstrap for the quorum-device
// client. It takes no command-line arguments; all configuration comes
// from the config-store collaborator. Exit code 0 on clean shutdown,
// 1 on any fatal error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dyusupov/corosync/client"
	"github.com/dyusupov/corosync/confstore"
	"github.com/dyusupov/corosync/logging"
	"github.com/dyusupov/corosync/tlsconf"
	"github.com/dyusupov/corosync/transport"
	"github.com/dyusupov/corosync/votequorum"
	"github.com/dyusupov/corosync/wire"
)

const dialTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	log := logging.New()

	store := confstore.New()
	store.Raw().SetEnvPrefix("qdevicenet")
	store.Raw().AutomaticEnv()
	if cfgFile := os.Getenv("QDEVICENET_CONFIG"); cfgFile != "" {
		store.Raw().SetConfigFile(cfgFile)
		if err := store.Raw().ReadInConfig(); err != nil {
			log.WithError(err).Error("unable to read configuration file")
			return 1
		}
	}

	params, err := store.Load()
	if err != nil {
		log.WithError(err).Error("configuration invalid")
		return 1
	}

	var tlsCfg *tlsconf.Config
	if params.TLSSupported != wire.TLSUnsupported {
		tlsCfg = tlsconf.New()
		if ca := store.Raw().GetString("quorum.device.net.tls_ca_file"); ca != "" {
			if e := tlsCfg.AddRootCAFile(ca); e != nil {
				log.WithError(e).Error("unable to load root CA")
				return 1
			}
		}
		certFile := store.Raw().GetString("quorum.device.net.tls_cert_file")
		keyFile := store.Raw().GetString("quorum.device.net.tls_key_file")
		if certFile != "" && keyFile != "" {
			if e := tlsCfg.AddCertificatePairFile("Cluster Cert", certFile, keyFile); e != nil {
				log.WithError(e).Error("unable to load client certificate")
				return 1
			}
		}
	}

	addr := fmt.Sprintf("%s:%d", params.Host, params.Port)
	tr, dialErr := transport.Dial(addr, dialTimeout)
	if dialErr != nil {
		log.WithError(dialErr).Error("unable to connect to quorum device server")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	voteq := votequorum.NewLocal()
	conn := client.New(ctx, params, tr, tlsCfg, voteq, log)
	defer conn.Close()

	runErr := conn.Run()
	if runErr == nil {
		return 0
	}

	log.WithError(runErr).WithField("disposition", runErr.Disposition()).Error("connection terminated")
	return 1
}
