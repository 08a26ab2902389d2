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

// Package entry models one stored record: either a counter or a raw byte
// value, both carrying a ttl_unit, an atomic absolute expiration instant, and
// per-entry metrics.
//
// Entry's numeric fields (counter, expires_at, expired) are plain
// sync/atomic primitives: quota updates need fetch_add/fetch_sub (spec.md
// §4.3's increase/decrease), which a generic store/load/CAS wrapper does not
// expose without a CAS retry loop of its own. The connection registry uses
// a bare sync.Map for its connections keyed by id instead; the subscription
// registry uses a mutex-guarded pair of maps.
package entry

import (
	"sync/atomic"

	"github.com/throttr/throttr-go/ttlunit"
)

// Kind discriminates the two entry variants spec.md §3 defines.
type Kind uint8

const (
	KindCounter Kind = iota
	KindRaw
)

// Metrics is the windowed/accumulator/per-minute metric shape shared by
// entries and connections (SPEC_FULL.md, "metric.hpp / entry_metrics.hpp").
// Reads and Writes are the current-minute windows the metrics snapshot
// service swaps to zero once a minute, folding the prior value into the
// accumulator and publishing it as the per-minute figure.
type Metrics struct {
	Reads            atomic.Uint64
	Writes           atomic.Uint64
	ReadsAccumulator atomic.Uint64
	WritesAccumulator atomic.Uint64
	ReadsPerMinute   atomic.Uint64
	WritesPerMinute  atomic.Uint64
}

// RecordRead increments the windowed read counter.
func (m *Metrics) RecordRead() {
	m.Reads.Add(1)
}

// RecordWrite increments the windowed write counter.
func (m *Metrics) RecordWrite() {
	m.Writes.Add(1)
}

// Rollup swaps the windowed counters to zero, publishes the swapped-out value
// as the per-minute figure, and folds it into the lifetime accumulator. It is
// called once a minute by the metrics snapshot service.
func (m *Metrics) Rollup() {
	r := m.Reads.Swap(0)
	w := m.Writes.Swap(0)
	m.ReadsPerMinute.Store(r)
	m.WritesPerMinute.Store(w)
	m.ReadsAccumulator.Add(r)
	m.WritesAccumulator.Add(w)
}

// Snapshot is the four-u64 quadruple the stat/stats handlers emit.
type Snapshot struct {
	ReadsPerMinute  uint64
	WritesPerMinute uint64
	ReadsTotal      uint64
	WritesTotal     uint64
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ReadsPerMinute:  m.ReadsPerMinute.Load(),
		WritesPerMinute: m.WritesPerMinute.Load(),
		ReadsTotal:      m.ReadsAccumulator.Load(),
		WritesTotal:     m.WritesAccumulator.Load(),
	}
}

// Entry is one stored record. Counter and Value are mutually exclusive
// depending on Kind: a counter entry only ever touches Counter, a raw entry
// only ever touches Value.
type Entry struct {
	Kind    Kind
	TTLUnit ttlunit.Unit

	Counter atomic.Uint64 // valid iff Kind == KindCounter
	Value   *RawValue     // valid iff Kind == KindRaw

	expiresAtNs atomic.Int64 // absolute instant, ns since Unix epoch
	expired     atomic.Bool

	Metrics Metrics
}

// NewCounter constructs a counter entry with the given starting quota and
// absolute expiration instant.
func NewCounter(quota uint64, unit ttlunit.Unit, expiresAtNs int64) *Entry {
	e := &Entry{Kind: KindCounter, TTLUnit: unit}
	e.Counter.Store(quota)
	e.expiresAtNs.Store(expiresAtNs)
	return e
}

// NewRaw constructs a raw entry wrapping value (taken by reference, not
// copied -- callers that need independent ownership must copy first).
func NewRaw(value []byte, unit ttlunit.Unit, expiresAtNs int64) *Entry {
	e := &Entry{Kind: KindRaw, TTLUnit: unit, Value: NewRawValue(value)}
	e.expiresAtNs.Store(expiresAtNs)
	return e
}

// ExpiresAtNs returns the current absolute expiration instant.
func (e *Entry) ExpiresAtNs() int64 {
	return e.expiresAtNs.Load()
}

// SetExpiresAtNs atomically rebinds the expiration instant, e.g. from a TTL
// update. Callers are responsible for re-arming the scheduler afterward if
// this entry might have been its current target (spec.md §4.3, §5).
func (e *Entry) SetExpiresAtNs(ns int64) {
	e.expiresAtNs.Store(ns)
}

// Expired reports whether the scheduler has already marked this entry
// expired (the grace-window flag of spec.md §4.5).
func (e *Entry) Expired() bool {
	return e.expired.Load()
}

// MarkExpired flips the expired flag. Idempotent.
func (e *Entry) MarkExpired() {
	e.expired.Store(true)
}

// IsLiveAt reports whether the entry should still answer a request arriving
// at nowNs: not yet marked expired by the scheduler, and not yet past its own
// expires_at. Handlers check both rather than relying solely on the
// scheduler's flag, since the sweep (spec.md §4.5) runs on its own timer and
// may not have observed a just-passed expires_at yet.
func (e *Entry) IsLiveAt(nowNs int64) bool {
	return !e.expired.Load() && nowNs < e.expiresAtNs.Load()
}
