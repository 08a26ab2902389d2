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

// MaxFragmentBytes is the fragment ceiling spec.md §4.3 fixes for list,
// stats, channels and connections: "fragments of at most 2048 bytes each".
const MaxFragmentBytes = 2048

// fragmentRecord is one directory entry: Meta is the fixed-width metadata
// record, Tail the variable-width bytes (a key or a channel name) that
// follow every Meta in the fragment it lands in, per spec.md §4.3's
// "metadata records, then the concatenated raw key bytes" layout.
type fragmentRecord struct {
	Meta []byte
	Tail []byte
}

// groupRecords packs records into fragments whose combined Meta+Tail size
// does not exceed maxBytes, except that a single oversized record still
// gets its own fragment rather than being split (records are indivisible).
func groupRecords(records []fragmentRecord, maxBytes int) [][]fragmentRecord {
	var fragments [][]fragmentRecord
	var current []fragmentRecord
	currentBytes := 0

	for _, r := range records {
		size := len(r.Meta) + len(r.Tail)
		if len(current) > 0 && currentBytes+size > maxBytes {
			fragments = append(fragments, current)
			current = nil
			currentBytes = 0
		}
		current = append(current, r)
		currentBytes += size
	}
	if len(current) > 0 {
		fragments = append(fragments, current)
	}

	return fragments
}

// writeFragmentedDirectory serializes records as spec.md §4.3's fragmented
// directory frame: fragment_count, then per fragment fragment_index
// (1-based), key_count, every record's Meta in order, then every record's
// Tail in order.
func writeFragmentedDirectory(batch *wire.Batch, records []fragmentRecord) {
	fragments := groupRecords(records, MaxFragmentBytes)

	batch.U64(uint64(len(fragments)))
	for i, frag := range fragments {
		batch.U64(uint64(i + 1))
		batch.U64(uint64(len(frag)))
		for _, r := range frag {
			batch.Stable(r.Meta)
		}
		for _, r := range frag {
			batch.Stable(r.Tail)
		}
	}
}
