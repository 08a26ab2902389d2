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

// listMetaSize is the fixed per-entry metadata record size for List:
// key_size(u8) + kind(u8) + ttl_unit(u8) + expires_at(u64) + bytes_used(V).
const listMetaSize = 1 + 1 + 1 + 8 + wire.VSize

// List implements opcode 0x07 (spec.md §4.3): emits status, then a
// fragmented directory of every non-expired entry. Each entry's per-entry
// read metric is incremented once, as if it had been queried.
func List(d *Deps, _ []byte, batch *wire.Batch) error {
	now := d.now().UnixNano()

	var records []fragmentRecord
	d.Storage.Walk(func(w *entry.Wrapper) bool {
		if !w.Entry.IsLiveAt(now) {
			return true
		}

		var bytesUsed uint64
		if w.Entry.Kind == entry.KindRaw {
			bytesUsed = uint64(len(w.Entry.Value.Load()))
		} else {
			bytesUsed = wire.VSize
		}

		meta := make([]byte, listMetaSize)
		meta[0] = uint8(len(w.Key))
		meta[1] = uint8(w.Entry.Kind)
		meta[2] = uint8(w.Entry.TTLUnit)
		binary.LittleEndian.PutUint64(meta[3:11], uint64(w.Entry.ExpiresAtNs()))
		wire.PutV(meta[11:11+wire.VSize], bytesUsed)

		key := make([]byte, len(w.Key))
		copy(key, w.Key)

		records = append(records, fragmentRecord{Meta: meta, Tail: key})
		w.Entry.Metrics.RecordRead()
		return true
	})

	batch.OK()
	writeFragmentedDirectory(batch, records)
	return nil
}
