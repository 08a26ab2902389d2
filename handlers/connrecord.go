/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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
 *
 */

package handlers

import (
	"encoding/binary"
	"net"

	"github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/wire"
)

// connRecordSize is the fixed per-connection record width: id(16) +
// ip_version(1) + ip(16, padded) + port(2) + the seven network/memory
// accumulators (connected_at plus connection.Metrics.Network, per the
// reference response's field order, see connection/metrics.go) + one
// accumulator per monitored opcode (spec.md §4.3).
const connRecordSize = 16 + 1 + 16 + 2 + 8*(1+connection.NumNetworkMetrics) + 8*wire.NumOpcodes

// buildConnRecord serializes c as one connRecordSize-byte directory record.
func buildConnRecord(c *connection.Connection) []byte {
	rec := make([]byte, connRecordSize)
	off := 0

	copy(rec[off:off+16], c.ID[:])
	off += 16

	ipVersion, ip, port := addrFields(c.RemoteAddr)
	rec[off] = ipVersion
	off++
	copy(rec[off:off+16], ip)
	off += 16
	binary.LittleEndian.PutUint16(rec[off:off+2], port)
	off += 2

	binary.LittleEndian.PutUint64(rec[off:off+8], uint64(c.ConnectedAt.UnixNano()))
	off += 8
	for i := 0; i < connection.NumNetworkMetrics; i++ {
		binary.LittleEndian.PutUint64(rec[off:off+8], c.Metrics.Network[i].Load())
		off += 8
	}

	for i := 0; i < wire.NumOpcodes; i++ {
		binary.LittleEndian.PutUint64(rec[off:off+8], c.Metrics.Opcodes[i].Load())
		off += 8
	}

	return rec
}

// addrFields extracts an ip_version (4, 6, or 0 for a non-IP transport like
// a Unix domain socket), a 16-byte padded address, and a port from addr.
func addrFields(addr net.Addr) (version uint8, ip [16]byte, port uint16) {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return 0, ip, 0
	}

	if v4 := tcp.IP.To4(); v4 != nil {
		copy(ip[:], v4)
		return 4, ip, uint16(tcp.Port)
	}

	copy(ip[:], tcp.IP.To16())
	return 6, ip, uint16(tcp.Port)
}
