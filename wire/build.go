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

package wire

// BuildPreInit encodes the client's opening PREINIT message.
func BuildPreInit(seq uint32, clusterName string) ([]byte, error) {
	return Encode(PreInit, seq, map[OptionTag]interface{}{
		OptClusterName: clusterName,
	})
}

// BuildStartTLS encodes the STARTTLS transition message.
func BuildStartTLS(seq uint32) ([]byte, error) {
	return Encode(StartTLS, seq, map[OptionTag]interface{}{})
}

// BuildInit encodes the INIT message carrying the local node id.
func BuildInit(seq uint32, nodeID uint32) ([]byte, error) {
	return Encode(Init, seq, map[OptionTag]interface{}{
		OptNodeID: nodeID,
	})
}

// BuildSetOption encodes the SET_OPTION message carrying the chosen
// decision algorithm and heartbeat interval, in milliseconds.
func BuildSetOption(seq uint32, algorithm string, heartbeatMS uint32) ([]byte, error) {
	return Encode(SetOption, seq, map[OptionTag]interface{}{
		OptDecisionAlgorithm: algorithm,
		OptHeartbeatInterval: heartbeatMS,
	})
}

// BuildEchoRequest encodes an ECHO_REQUEST carrying its own echo
// sequence number (independent of the main-channel Seq field).
func BuildEchoRequest(mainSeq uint32, echoSeq uint32) ([]byte, error) {
	return Encode(EchoRequest, mainSeq, map[OptionTag]interface{}{
		OptEchoSeq: echoSeq,
	})
}
