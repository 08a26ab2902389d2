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

import "github.com/throttr/throttr-go/wire"

// Version is this build's 16-byte null-padded version string, the trailing
// field of the info snapshot. Truncated if longer than 15 bytes (one byte
// is always left for the implicit terminator a 16-byte field gives a
// shorter string for free).
const Version = "throttr-go-0.1"

// Info implements opcode 0x08 (spec.md §4.3): emits status then a
// fixed-size process snapshot -- wall clock, request totals, per-opcode
// totals, network totals, storage totals, pub/sub totals, start time,
// connection count, and the version string.
func Info(d *Deps, _ []byte, batch *wire.Batch) error {
	now := d.now()

	batch.OK().U64(uint64(now.UnixNano()))

	batch.U64(d.Process.Requests.Total()).U64(d.Process.Requests.PerMinute())
	for i := 0; i < wire.NumOpcodes; i++ {
		batch.U64(d.Process.Opcodes[i].Total()).U64(d.Process.Opcodes[i].PerMinute())
	}
	for i := 0; i < len(d.Process.Network); i++ {
		batch.U64(d.Process.Network[i].Total()).U64(d.Process.Network[i].PerMinute())
	}

	totals := d.Storage.Stats(now.UnixNano())
	batch.U64(totals.TotalEntries).
		U64(totals.CounterEntries).
		U64(totals.RawEntries).
		U64(totals.BytesUsed).
		U64(totals.ExpiredEntries)

	batch.U64(uint64(d.Subs.ChannelCount())).U64(uint64(d.Subs.TotalSubscribers()))

	batch.U64(uint64(d.Process.StartedAt.UnixNano()))
	batch.U64(uint64(d.Conns.Len()))

	versionField := make([]byte, 16)
	copy(versionField[:15], Version)
	batch.Stable(versionField)

	return nil
}
