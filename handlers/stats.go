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

	"github.com/throttr/throttr-go/entry"
	"github.com/throttr/throttr-go/wire"
)

// statsMetaSize is key_size(u8) followed by the four metrics quadruple
// u64 fields -- the same directory shape List uses, with the per-entry
// metadata record replaced by the metrics quadruple (spec.md §4.3).
const statsMetaSize = 1 + 8*4

// Stats implements opcode 0x0A: emits status, then the fragmented metrics
// quadruple for every non-expired entry, keyed the same way List keys its
// directory records.
func Stats(d *Deps, _ []byte, batch *wire.Batch) error {
	now := d.now().UnixNano()

	var records []fragmentRecord
	d.Storage.Walk(func(w *entry.Wrapper) bool {
		if !w.Entry.IsLiveAt(now) {
			return true
		}

		snap := w.Entry.Metrics.Snapshot()
		meta := make([]byte, statsMetaSize)
		meta[0] = uint8(len(w.Key))
		binary.LittleEndian.PutUint64(meta[1:9], snap.ReadsPerMinute)
		binary.LittleEndian.PutUint64(meta[9:17], snap.WritesPerMinute)
		binary.LittleEndian.PutUint64(meta[17:25], snap.ReadsTotal)
		binary.LittleEndian.PutUint64(meta[25:33], snap.WritesTotal)

		key := make([]byte, len(w.Key))
		copy(key, w.Key)

		records = append(records, fragmentRecord{Meta: meta, Tail: key})
		return true
	})

	batch.OK()
	writeFragmentedDirectory(batch, records)
	return nil
}
