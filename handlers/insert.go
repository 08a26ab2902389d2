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
	"github.com/throttr/throttr-go/entry"
	"github.com/throttr/throttr-go/ttlunit"
	"github.com/throttr/throttr-go/wire"
)

// Insert implements opcode 0x01 (spec.md §4.3): inserts a counter entry
// with counter = quota, failing if key already exists.
func Insert(d *Deps, frame []byte, batch *wire.Batch) error {
	f := wire.ParseInsert(frame)

	unit := ttlunit.Unit(f.TTLUnit)
	if !unit.Valid() {
		batch.Fail()
		return nil
	}

	now := d.now()
	expiresAt, err := unit.ExpiresAt(now, f.TTL)
	if err != nil {
		batch.Fail()
		return nil
	}

	e := entry.NewCounter(f.Quota, unit, expiresAt.UnixNano())
	w := entry.NewWrapper(f.Key, e)

	if !d.Storage.Insert(w) {
		batch.Fail()
		return nil
	}

	e.Metrics.RecordWrite()
	if d.Scheduler != nil {
		d.Scheduler.Schedule(expiresAt)
	}

	batch.OK()
	return nil
}
