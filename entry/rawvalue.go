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

package entry

import "sync/atomic"

// RawValue is the "owned, resizable byte buffer (shared through a
// reference-counted handle that can be rebound atomically)" of spec.md §3.
// Store rebinds the buffer by swapping the pointer atomically; readers that already loaded the old buffer keep
// reading valid (if stale) bytes, since Go's GC keeps it alive until the
// last reference drops -- there is no explicit pool-return-on-refcount-zero
// step the way the original's custom allocator needs, because Go buffers do
// not need an allocator hook to be reclaimed.
type RawValue struct {
	buf atomic.Pointer[[]byte]
}

// NewRawValue wraps buf for atomic, shared access.
func NewRawValue(buf []byte) *RawValue {
	r := &RawValue{}
	r.buf.Store(&buf)
	return r
}

// Load returns the current bytes. The returned slice must not be mutated by
// the caller -- raw entries are rebound by replacement, never by in-place
// mutation, so every reader's slice stays a consistent snapshot.
func (r *RawValue) Load() []byte {
	p := r.buf.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Store atomically rebinds the buffer to buf.
func (r *RawValue) Store(buf []byte) {
	r.buf.Store(&buf)
}

// Len returns the length of the current buffer.
func (r *RawValue) Len() int {
	return len(r.Load())
}
