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

import "github.com/dyusupov/corosync/internal/errs"

// performTLSUpgrade is the only moment the transport changes
// mid-connection: invoked once the STARTTLS frame has fully drained
// from mainBuf and the machine is sitting in WAIT_STARTTLS_SENT.
func (c *Connection) performTLSUpgrade() {
	if c.tlsCfg == nil {
		c.fatal(errs.New(CodeTransport))
		return
	}

	cfg := c.tlsCfg.Build(serverCN, clientCertNickname, func(nonFatal error) {
		c.log.WithError(nonFatal).Warn("non-fatal certificate condition, continuing")
	})

	if err := c.tr.UpgradeToTLS(cfg); err != nil {
		c.fatal(err)
		return
	}

	frame, err := c.machine.AfterTLSUpgrade()
	if err != nil {
		c.fatal(err)
		return
	}
	_ = c.mainBuf.Append(frame)
}
