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

// Package storage holds the multi-index container of entry.Wrapper records:
// a primary hash index by key and a secondary ordering by expiration.
//
// The secondary index is not a persistent ordered structure -- it is
// recomputed by sorting a snapshot of the primary map on every call that
// needs expiration order (the state's sweep, the persistence dump). This
// is the "erase-and-reinsert" option spec.md §4.4 explicitly allows, chosen
// over a persistent structure (e.g. a heap with decrease-key support) because
// every caller that needs expiration order already has to visit every live
// entry once per call (the sweep partitions the whole set; the dump writes
// the whole set), so paying an additional O(n log n) sort buys a much
// simpler, harder-to-get-wrong implementation at no asymptotic cost. This
// module is a rate-limiting / shared-state engine for small, bounded record
// counts (spec.md §1), not an unbounded time-series store, so the sort's
// constant factor is not a concern in practice.
//
// All mutation is funneled through a single mutex, standing in for "the
// state's serialization strand" spec.md §5 describes: a coarse-grained mutex
// is the option §5 and §9 explicitly allow as the target-agnostic strategy
// for "post onto a strand".
package storage

import (
	"sort"
	"sync"

	"github.com/throttr/throttr-go/entry"
)

// Index is the storage container of spec.md §4.4.
type Index struct {
	mu sync.Mutex
	m  map[string]*entry.Wrapper
}

// New returns an empty Index.
func New() *Index {
	return &Index{m: make(map[string]*entry.Wrapper)}
}

// Insert inserts wrapper iff no entry with the same key already exists.
func (idx *Index) Insert(w *entry.Wrapper) (inserted bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := string(w.Key)
	if _, exists := idx.m[key]; exists {
		return false
	}

	idx.m[key] = w
	return true
}

// FindByKey returns the wrapper for key, if any.
func (idx *Index) FindByKey(key []byte) (*entry.Wrapper, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	w, ok := idx.m[string(key)]
	return w, ok
}

// Modify looks up key and, if present, calls fn with the wrapper under the
// index's lock, then returns true. fn may mutate the entry in place
// (counter, expires_at, expired) -- the primary index needs no rebuild since
// it is keyed by the (immutable) key bytes, and the secondary index is
// recomputed on demand rather than carried incrementally.
func (idx *Index) Modify(key []byte, fn func(w *entry.Wrapper)) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	w, ok := idx.m[string(key)]
	if !ok {
		return false
	}

	fn(w)
	return true
}

// Erase removes key, reporting whether it was present.
func (idx *Index) Erase(key []byte) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	k := string(key)
	if _, ok := idx.m[k]; !ok {
		return false
	}

	delete(idx.m, k)
	return true
}

// Len returns the number of stored entries, expired or not.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.m)
}

// Snapshot returns every wrapper currently stored, in ascending order of
// expires_at -- the "ordered iteration by expiration" spec.md §4.4 requires.
// The returned slice is a point-in-time copy of the index's wrapper
// pointers; the wrappers themselves are still live and mutable.
func (idx *Index) Snapshot() []*entry.Wrapper {
	idx.mu.Lock()
	out := make([]*entry.Wrapper, 0, len(idx.m))
	for _, w := range idx.m {
		out = append(out, w)
	}
	idx.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAtNs() < out[j].ExpiresAtNs()
	})

	return out
}

// Walk calls fn for every wrapper in the index, including ones already
// marked expired, under the index's lock, stopping early if fn returns
// false. Used for passes that visit every entry (list/stats, metric
// rollups, scheduler.NewIndexSweep) without materializing a sorted snapshot
// when order does not matter to the caller.
func (idx *Index) Walk(fn func(w *entry.Wrapper) bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, w := range idx.m {
		if !fn(w) {
			return
		}
	}
}

// Totals is the storage-wide snapshot the info handler reports (spec.md
// §4.3's "five storage totals"): entry counts by kind plus how much of the
// index is stale.
type Totals struct {
	TotalEntries   uint64
	CounterEntries uint64
	RawEntries     uint64
	BytesUsed      uint64
	ExpiredEntries uint64
}

// Stats computes a Totals snapshot as of now, under the index's lock.
func (idx *Index) Stats(now int64) Totals {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var t Totals
	for _, w := range idx.m {
		t.TotalEntries++
		if !w.Entry.IsLiveAt(now) {
			t.ExpiredEntries++
		}
		if w.Entry.Kind == entry.KindRaw {
			t.RawEntries++
			t.BytesUsed += uint64(len(w.Entry.Value.Load()))
		} else {
			t.CounterEntries++
		}
	}
	return t
}
