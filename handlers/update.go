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
	"github.com/throttr/throttr-go/wire"
)

// Update implements opcode 0x03 (spec.md §4.3): mutates an existing,
// non-expired entry in place. attribute=quota only applies to counter
// entries; attribute=ttl applies to either kind and is interpreted in the
// entry's own ttl_unit, not the frame's (spec.md §4.3's explicit note).
func Update(d *Deps, frame []byte, batch *wire.Batch) error {
	f := wire.ParseUpdate(frame)

	w, ok := d.Storage.FindByKey(f.Key)
	if !ok || !w.Entry.IsLiveAt(d.now().UnixNano()) {
		batch.Fail()
		return nil
	}

	switch wire.Attribute(f.Attribute) {
	case wire.AttributeQuota:
		if w.Entry.Kind != entry.KindCounter || !updateQuota(w.Entry, wire.Change(f.Change), f.Value) {
			batch.Fail()
			return nil
		}
	case wire.AttributeTTL:
		if !updateTTL(d, w.Entry, wire.Change(f.Change), f.Value) {
			batch.Fail()
			return nil
		}
	default:
		batch.Fail()
		return nil
	}

	w.Entry.Metrics.RecordWrite()
	batch.OK()
	return nil
}

// updateQuota applies change to e's counter, per spec.md §4.3's three
// sub-operations. decrease is a compare-and-swap retry loop since it must
// observe-then-act atomically: fail without mutating if the current value is
// below the requested decrement.
func updateQuota(e *entry.Entry, change wire.Change, value uint64) bool {
	switch change {
	case wire.ChangePatch:
		e.Counter.Store(value)
		return true
	case wire.ChangeIncrease:
		e.Counter.Add(value)
		return true
	case wire.ChangeDecrease:
		for {
			cur := e.Counter.Load()
			if cur < value {
				return false
			}
			if e.Counter.CompareAndSwap(cur, cur-value) {
				return true
			}
		}
	default:
		return false
	}
}

// updateTTL applies change to e's expires_at, re-arming the scheduler
// afterward -- Schedule is idempotent and only re-arms for an earlier
// instant, so calling it unconditionally is safe whether the change
// shortened or lengthened the entry's TTL (spec.md §4.3/§5).
func updateTTL(d *Deps, e *entry.Entry, change wire.Change, value uint64) bool {
	unit := e.TTLUnit
	duration, err := unit.Duration(value)
	if err != nil {
		return false
	}

	var next int64
	switch change {
	case wire.ChangePatch:
		next = d.now().Add(duration.Time()).UnixNano()
	case wire.ChangeIncrease:
		next = e.ExpiresAtNs() + duration.Time().Nanoseconds()
	case wire.ChangeDecrease:
		next = e.ExpiresAtNs() - duration.Time().Nanoseconds()
	default:
		return false
	}

	e.SetExpiresAtNs(next)
	if d.Scheduler != nil {
		d.Scheduler.Schedule(timeUnixNano(next))
	}
	return true
}
