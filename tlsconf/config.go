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

// Package tlsconf builds the *tls.Config used for the in-place
// plaintext-to-TLS upgrade: root CA pools, a nickname-keyed client
// certificate selected via GetClientCertificate, and a
// VerifyPeerCertificate hook that downgrades the expired-certificate
// family to a warning.
package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/dyusupov/corosync/internal/errs"
)

const (
	CodeFileRead     = errs.MinPkgTLS + 1
	CodeFileEmpty    = errs.MinPkgTLS + 2
	CodeCertAppend   = errs.MinPkgTLS + 3
	CodeKeyPairParse = errs.MinPkgTLS + 4
	CodeBadCert      = errs.MinPkgTLS + 5
)

func init() {
	errs.Register(CodeFileRead, "unable to read certificate file", errs.DispositionFatalProcess)
	errs.Register(CodeFileEmpty, "certificate file is empty", errs.DispositionFatalProcess)
	errs.Register(CodeCertAppend, "unable to append certificate to pool", errs.DispositionFatalProcess)
	errs.Register(CodeKeyPairParse, "unable to parse certificate/key pair", errs.DispositionFatalProcess)
	errs.Register(CodeBadCert, "peer certificate rejected", errs.DispositionFatalConnection)
}

// Config accumulates root CAs, a nickname-keyed client certificate,
// and the TLS version bounds needed to negotiate mutual TLS with the
// quorum-device server.
type Config struct {
	rootCAs        *x509.CertPool
	certByNickname map[string]tls.Certificate
	minVersion     uint16
	maxVersion     uint16
	clientAuth     tls.ClientAuthType
}

// New returns a Config with TLS 1.2 as the floor and TLS 1.3 as the
// ceiling, matching certificates.New()'s defaults.
func New() *Config {
	return &Config{
		certByNickname: make(map[string]tls.Certificate),
		minVersion:     tls.VersionTLS12,
		maxVersion:     tls.VersionTLS13,
		clientAuth:     tls.NoClientCert,
	}
}

// AddRootCAFile loads a PEM file into the root CA pool used to verify
// the quorum-device server's certificate.
func (c *Config) AddRootCAFile(pemFile string) *errs.Err {
	b, err := os.ReadFile(pemFile)
	if err != nil {
		return errs.New(CodeFileRead, err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return errs.New(CodeFileEmpty)
	}
	if c.rootCAs == nil {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		c.rootCAs = pool
	}
	if !c.rootCAs.AppendCertsFromPEM(b) {
		return errs.New(CodeCertAppend)
	}
	return nil
}

// AddCertificatePairFile loads a client certificate/key pair under a
// nickname (conventionally "Cluster Cert") so GetClientCertificate
// can select it during the handshake.
func (c *Config) AddCertificatePairFile(nickname, certFile, keyFile string) *errs.Err {
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return errs.New(CodeKeyPairParse, err)
	}
	c.certByNickname[nickname] = pair
	return nil
}

// SetClientAuth records a server-side client-auth requirement on the
// Config. Build produces client-side configs only and does not read
// this value.
func (c *Config) SetClientAuth(a tls.ClientAuthType) { c.clientAuth = a }

// BadCertClassifier reports whether an x509 verification error belongs
// to the non-fatal "expired" family (expired certificate, issuer, CRL
// or KRL, or a TLS expired alert): warn and continue. Any other error
// is fatal.
func BadCertClassifier(err error) (nonFatal bool) {
	if err == nil {
		return true
	}
	if ce, ok := err.(x509.CertificateInvalidError); ok {
		return ce.Reason == x509.Expired
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "expired")
}

// Build returns a *tls.Config for a client connection to serverCN,
// with mutual-TLS via the nickname-keyed client certificate and the
// bad-cert classifier wired in place of Go's default verification: the
// library's normal chain/name verification runs first inside
// VerifyPeerCertificate (since InsecureSkipVerify is set precisely so
// this hook, not the stdlib default, decides fatality), and
// BadCertClassifier's expired-* family is downgraded to a logged
// warning via onNonFatal instead of failing the handshake.
func (c *Config) Build(serverCN, clientCertNickname string, onNonFatal func(error)) *tls.Config {
	cfg := &tls.Config{
		ServerName:         serverCN,
		RootCAs:            c.rootCAs,
		MinVersion:         c.minVersion,
		MaxVersion:         c.maxVersion,
		InsecureSkipVerify: true, // verification is performed explicitly below
	}

	if pair, ok := c.certByNickname[clientCertNickname]; ok {
		p := pair
		cfg.GetClientCertificate = func(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
			return &p, nil
		}
	}

	cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		certs := make([]*x509.Certificate, 0, len(rawCerts))
		for _, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return errs.New(CodeBadCert, err)
			}
			certs = append(certs, cert)
		}
		if len(certs) == 0 {
			return errs.New(CodeBadCert)
		}

		opts := x509.VerifyOptions{
			Roots:         cfg.RootCAs,
			DNSName:       cfg.ServerName,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range certs[1:] {
			opts.Intermediates.AddCert(cert)
		}

		if _, err := certs[0].Verify(opts); err != nil {
			if BadCertClassifier(err) {
				if onNonFatal != nil {
					onNonFatal(err)
				}
				return nil
			}
			return errs.New(CodeBadCert, err)
		}

		return nil
	}

	return cfg
}
