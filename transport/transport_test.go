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

package transport_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dyusupov/corosync/transport"
)

func selfSignedPair() tls.Certificate {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{"Qnetd Test"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	pair, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes}),
	)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return pair
}

var _ = Describe("Transport", func() {
	var clientConn, serverConn net.Conn

	BeforeEach(func() {
		clientConn, serverConn = net.Pipe()
	})

	It("delivers written bytes as a read event on the peer", func() {
		tr := transport.FromConn(clientConn)
		defer tr.Close()

		go func() {
			buf := make([]byte, 5)
			_, _ = serverConn.Read(buf)
			_, _ = serverConn.Write(buf)
		}()

		n, err := tr.Write([]byte("hello"), time.Now().Add(time.Second))
		Expect(err).To(BeNil())
		Expect(n).To(Equal(5))

		select {
		case ev := <-tr.Reads():
			Expect(ev.Err).To(BeNil())
			Expect(ev.EOF).To(BeFalse())
			Expect(string(ev.Data)).To(Equal("hello"))
		case <-time.After(time.Second):
			Fail("timed out waiting for read event")
		}
	})

	It("publishes an EOF event when the peer closes cleanly", func() {
		tr := transport.FromConn(clientConn)
		defer tr.Close()

		Expect(serverConn.Close()).To(Succeed())

		select {
		case ev := <-tr.Reads():
			Expect(ev.EOF).To(BeTrue())
			Expect(ev.Err).To(BeNil())
		case <-time.After(time.Second):
			Fail("timed out waiting for EOF event")
		}
	})

	It("fails Dial against an address nothing listens on", func() {
		_, err := transport.Dial("127.0.0.1:1", 200*time.Millisecond)
		Expect(err).NotTo(BeNil())
		Expect(err.IsCode(transport.CodeDial)).To(BeTrue())
	})

	AfterEach(func() {
		_ = clientConn.Close()
		_ = serverConn.Close()
	})
})

var _ = Describe("Transport.UpgradeToTLS", func() {
	It("hands the connection to the handshake without racing the old reader goroutine", func() {
		clientConn, serverConn := net.Pipe()
		defer clientConn.Close()
		defer serverConn.Close()

		tr := transport.FromConn(clientConn)
		defer tr.Close()

		pair := selfSignedPair()
		serverDone := make(chan error, 1)
		go func() {
			srv := tls.Server(serverConn, &tls.Config{Certificates: []tls.Certificate{pair}})
			serverDone <- srv.Handshake()
		}()

		upErr := tr.UpgradeToTLS(&tls.Config{InsecureSkipVerify: true})
		Expect(upErr).To(BeNil())

		select {
		case err := <-serverDone:
			Expect(err).NotTo(HaveOccurred())
		case <-time.After(2 * time.Second):
			Fail("server-side TLS handshake never completed")
		}

		select {
		case ev := <-tr.Reads():
			Fail(fmt.Sprintf("unexpected event on the upgraded transport: %+v", ev))
		case <-time.After(50 * time.Millisecond):
			// No spurious read-side event leaked from the old
			// plaintext reader goroutine across the upgrade.
		}
	})
})
