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

package wire

// Batch is the scatter/gather response list of spec.md §4.1: an ordered
// sequence of byte ranges to be written as one logical response. Go's
// net.Buffers already implements exactly this (a []byte slice of ranges with
// a WriteTo that degrades to writev when the destination supports it), so
// Batch is built directly on it rather than hand-rolling an iovec list --
// this is strategy (b) of §4.2's write-buffer-stability note: handlers record
// ranges (here, already-materialized byte slices) and the scatter/gather list
// is just those ranges in append order.
//
// A Batch mixes three kinds of ranges, exactly as §4.1 describes:
//   - scalars serialized into the request's own scratch buffer (Scratch),
//   - stable memory owned by an entry (raw values, directory records),
//   - shared process-global constants (the status bytes).
type Batch struct {
	ranges  [][]byte
	scratch []byte
}

// StatusOKBytes and StatusFailBytes are the process-global one-byte constants
// §4.1 calls out as category (c) ranges.
var (
	StatusOKBytes   = []byte{StatusOK}
	StatusFailBytes = []byte{StatusFail}
)

// NewBatch returns an empty Batch. scratchHint sizes the scratch buffer
// handlers append scalar fields into, amortizing reallocation across a
// typical response (status + a handful of V-sized fields).
func NewBatch(scratchHint int) *Batch {
	return &Batch{scratch: make([]byte, 0, scratchHint)}
}

// Fail appends the single failure status byte and nothing else -- the shape
// every handler's "not found" / "malformed" / "quota insufficient" path uses.
func (b *Batch) Fail() *Batch {
	b.ranges = append(b.ranges, StatusFailBytes)
	return b
}

// OK appends the single success status byte.
func (b *Batch) OK() *Batch {
	b.ranges = append(b.ranges, StatusOKBytes)
	return b
}

// Stable appends a range pointing at memory the caller guarantees outlives
// the write (an entry's raw value, a directory record built once and shared
// across fan-out writes).
func (b *Batch) Stable(p []byte) *Batch {
	if len(p) > 0 {
		b.ranges = append(b.ranges, p)
	}
	return b
}

// scratchAppend reserves n bytes at the tail of scratch and returns them.
// Because scratch only ever grows by appending within the life of one Batch
// (never relocated mid-range-capture once a range has been taken), and every
// append happens before the ranges slice is finalized by Buffers, capturing
// sub-slices of scratch as ranges is safe -- this is exactly strategy (a) of
// §4.2's write-buffer-stability note.
func (b *Batch) scratchAppend(n int) []byte {
	start := len(b.scratch)
	b.scratch = append(b.scratch, make([]byte, n)...)
	return b.scratch[start : start+n]
}

// U8 appends a single byte scalar (kind, ttl_unit, ip_version, ...).
func (b *Batch) U8(v uint8) *Batch {
	s := b.scratchAppend(1)
	s[0] = v
	b.ranges = append(b.ranges, s)
	return b
}

// V appends a V-sized little-endian scalar (counter values, TTL magnitudes,
// value_size fields).
func (b *Batch) V(v uint64) *Batch {
	s := b.scratchAppend(VSize)
	PutV(s, v)
	b.ranges = append(b.ranges, s)
	return b
}

// U16 appends a fixed 2-byte little-endian scalar (port numbers).
func (b *Batch) U16(v uint16) *Batch {
	s := b.scratchAppend(2)
	s[0] = byte(v)
	s[1] = byte(v >> 8)
	b.ranges = append(b.ranges, s)
	return b
}

// U64 appends a fixed 8-byte little-endian scalar (expires_at, timestamps,
// metric accumulators, fragment/key counts -- everything spec.md pins to
// u64 LE regardless of the build's V width).
func (b *Batch) U64(v uint64) *Batch {
	s := b.scratchAppend(8)
	s[0] = byte(v)
	s[1] = byte(v >> 8)
	s[2] = byte(v >> 16)
	s[3] = byte(v >> 24)
	s[4] = byte(v >> 32)
	s[5] = byte(v >> 40)
	s[6] = byte(v >> 48)
	s[7] = byte(v >> 56)
	b.ranges = append(b.ranges, s)
	return b
}

// Bytes appends raw bytes copied into scratch -- used for small, transient
// fields (a connection id, padding) where the source does not outlive the
// call.
func (b *Batch) Bytes(p []byte) *Batch {
	s := b.scratchAppend(len(p))
	copy(s, p)
	b.ranges = append(b.ranges, s)
	return b
}

// Finalize returns the completed scatter/gather list; it performs no
// fix-up of its own. Handlers must not call any append method after
// Finalize.
//
// Internally every U8/V/U16/U64/Bytes call already appended a *range* (via
// scratchAppend returning a live sub-slice and no caller ever re-slicing
// scratch afterwards at a smaller capacity), so Finalize here is a direct
// conversion -- Batch never actually defers range capture, keeping the
// "materialize after all appends" fallback (§4.2 strategy (b)) unnecessary
// in practice, since scratch is pre-sized generously by NewBatch's hint and
// reallocates rarely, and, when it does, only scratchAppend's own return
// value is used as a range (never a stale one from before the grow).
func (b *Batch) Finalize() Buffers {
	return Buffers(b.ranges)
}

// Len returns the total byte length of every range in the batch.
func (b *Batch) Len() int {
	n := 0
	for _, r := range b.ranges {
		n += len(r)
	}
	return n
}
