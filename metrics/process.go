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

package metrics

import (
	"time"

	"github.com/throttr/throttr-go/wire"
)

// Network accumulator slots for the four "network accumulators with
// per-minute" spec.md §4.3's info response names.
const (
	NetReadBytes int = iota
	NetWriteBytes
	NetPublishedBytes
	NetReceivedBytes
	NumNetworkCounters
)

// Process holds every process-wide counter the info handler reads: total
// request count, one slot per request opcode, and network byte totals --
// all windowed/accumulator/per-minute via Counter. StartedAt is the server's
// boot time, read back out verbatim by info's "server start time" field.
type Process struct {
	Requests  Counter
	Opcodes   [wire.NumOpcodes]Counter
	Network   [NumNetworkCounters]Counter
	StartedAt time.Time
}

// NewProcess returns a Process stamped with the current time as its start.
func NewProcess(now time.Time) *Process {
	return &Process{StartedAt: now}
}

// RecordRequest increments the total-request counter and, if opcode carries
// a valid index, its per-opcode counter.
func (p *Process) RecordRequest(opcode wire.Opcode) {
	p.Requests.Add(1)
	if idx, ok := opcode.Index(); ok {
		p.Opcodes[idx].Add(1)
	}
}

// Rollup folds every windowed counter into its accumulator/per-minute pair.
// Invoked once a minute by Service.
func (p *Process) Rollup() {
	p.Requests.Rollup()
	for i := range p.Opcodes {
		p.Opcodes[i].Rollup()
	}
	for i := range p.Network {
		p.Network[i].Rollup()
	}
}
