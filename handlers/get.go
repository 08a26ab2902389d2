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
	"time"

	"github.com/throttr/throttr-go/entry"
	"github.com/throttr/throttr-go/wire"
)

// Get implements opcode 0x06: like Query but for raw entries, emitting
// status, ttl_unit, remaining TTL, value_size, then the value bytes.
func Get(d *Deps, frame []byte, batch *wire.Batch) error {
	f := wire.ParseKeyFrame(frame)

	w, ok := d.Storage.FindByKey(f.Key)
	now := d.now()
	if !ok || w.Entry.Kind != entry.KindRaw || !w.Entry.IsLiveAt(now.UnixNano()) {
		batch.Fail()
		return nil
	}

	unit := w.Entry.TTLUnit
	remaining, err := unit.Remaining(now, time.Unix(0, w.Entry.ExpiresAtNs()))
	if err != nil {
		batch.Fail()
		return nil
	}

	value := w.Entry.Value.Load()
	w.Entry.Metrics.RecordRead()

	batch.OK().
		U8(uint8(unit)).
		V(remaining).
		V(uint64(len(value))).
		Stable(value)
	return nil
}
