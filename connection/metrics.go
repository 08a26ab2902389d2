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

package connection

import (
	"sync/atomic"

	"github.com/throttr/throttr-go/wire"
)

// Network accumulator slots. The connection(id) response walks connected_at
// followed by these six lifetime counters -- together the "seven
// network/memory accumulators (7 × u64 LE)" spec.md §4.3 describes, since
// connected_at occupies the first of the seven positions in the reference
// response rather than being an eighth field ahead of them.
const (
	NetReadBytes int = iota
	NetWriteBytes
	NetPublishedBytes
	NetReceivedBytes
	NetAllocatedBytes
	NetConsumedBytes
	numNetworkMetrics
)

// NumNetworkMetrics is the width of Metrics.Network.
const NumNetworkMetrics = numNetworkMetrics

// NetReadOps and NetWriteOps are internal-only counters (not part of the
// wire response) used by Connection's read/write loop to track syscall
// counts; they live in a separate array so NumNetworkMetrics stays aligned
// with the wire format's six lifetime byte counters.
const (
	NetReadOps int = iota
	NetWriteOps
	numInternalCounters
)

// Metrics accumulates the lifetime counters spec.md §4.3's connection(id)
// and info responses read back out: six network/memory byte counters plus
// one slot per monitored opcode. Grounded on the reference's per-connection
// metric struct (four network counters, two memory counters, one slot per
// monitored command), adapted to Go's sync/atomic rather than a hand-rolled
// relaxed-atomics wrapper.
type Metrics struct {
	Network  [NumNetworkMetrics]atomic.Uint64
	Internal [numInternalCounters]atomic.Uint64
	Opcodes  [wire.NumOpcodes]atomic.Uint64
}
