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

// Wrapper is the unit the storage package indexes: the key bytes alongside
// the entry they name. Grounded on the kept database/kvtypes KVItem shape
// (a key paired with a mutable payload, addressed by both a primary and a
// secondary index) -- cited rather than imported verbatim, since kvitem's
// generic Load/Store/Remove/Clean/HasChange lifecycle is built around a
// caller-supplied loader/saver callback pair this in-memory-only entry has
// no use for.
type Wrapper struct {
	Key   []byte
	Entry *Entry
}

// NewWrapper copies key (storage must own its own copy independent of the
// connection's read buffer the key bytes were parsed out of) and pairs it
// with e.
func NewWrapper(key []byte, e *Entry) *Wrapper {
	k := make([]byte, len(key))
	copy(k, key)
	return &Wrapper{Key: k, Entry: e}
}

// ExpiresAtNs forwards to the wrapped entry, for the benefit of the
// by-expiration secondary index comparator.
func (w *Wrapper) ExpiresAtNs() int64 {
	return w.Entry.ExpiresAtNs()
}
