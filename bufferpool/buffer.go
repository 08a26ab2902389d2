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

// Package bufferpool provides the two reusable-allocation pools spec.md
// §4.7 describes: a pool of reusable byte buffers (connection read regions)
// and a pool of Message values (per-request response scratch state).
//
// Both pools wrap sync.Pool, the idiomatic Go answer to "free list of
// reusable allocations" -- the same tool the teacher reaches for in
// ioutils/bufferReadCloser for pooled bytes.Buffer reuse, generalized here
// to also pool the Message type's write-buffer-plus-gather-list pair.
// sync.Pool already gives per-P (effectively per-worker) local caches before
// falling back to a shared pool, which is the "per-worker, thread-local"
// structure spec.md §4.7 asks for without hand-rolling per-goroutine free
// lists.
package bufferpool

import "sync"

// DefaultMinCapacity is the capacity a freshly allocated buffer starts at,
// matching the ≥8KiB connection read-region floor spec.md §4.5 sets.
const DefaultMinCapacity = 8192

// BufferPool hands out byte slices reset to zero length but with capacity
// retained from a prior release, avoiding repeated allocation on the hot
// read/write path.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool returns a pool whose freshly allocated buffers start at
// minCapacity.
func NewBufferPool(minCapacity int) *BufferPool {
	if minCapacity <= 0 {
		minCapacity = DefaultMinCapacity
	}

	bp := &BufferPool{}
	bp.pool.New = func() any {
		b := make([]byte, 0, minCapacity)
		return &b
	}

	return bp
}

// Take returns a buffer of length 0, capacity retained from whatever was
// last released (or minCapacity, if the pool was empty).
func (bp *BufferPool) Take() []byte {
	b := bp.pool.Get().(*[]byte)
	return (*b)[:0]
}

// Release returns buf to the pool for reuse. Callers must not use buf after
// calling Release.
func (bp *BufferPool) Release(buf []byte) {
	buf = buf[:0]
	bp.pool.Put(&buf)
}
