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

// Package metrics implements the metrics snapshot service of spec.md §2/§9:
// a once-a-minute roll-up of windowed counters (request totals, per-opcode
// totals, network byte totals) into "per-minute" fields, the same
// windowed/accumulator/per-minute shape entry.Metrics already carries for
// per-entry reads/writes (SPEC_FULL.md's "metric.hpp / entry_metrics.hpp"
// supplement). It additionally exposes a prometheus Collector over the same
// counters, grounded on the DOMAIN STACK section of SPEC_FULL.md.
package metrics

import "sync/atomic"

// Counter is the generic windowed/accumulator/per-minute counter shape this
// package applies to process-wide totals, mirroring entry.Metrics' own
// hand-rolled Reads/Writes pair but generalized since info's per-opcode and
// network tallies need the same shape repeated many times over.
type Counter struct {
	window      atomic.Uint64
	accumulator atomic.Uint64
	perMinute   atomic.Uint64
}

// Add increments the current-minute window by n.
func (c *Counter) Add(n uint64) {
	c.window.Add(n)
}

// Rollup swaps the window to zero, publishes the swapped-out value as the
// per-minute figure, and folds it into the lifetime accumulator. Called once
// a minute by Service.
func (c *Counter) Rollup() {
	w := c.window.Swap(0)
	c.perMinute.Store(w)
	c.accumulator.Add(w)
}

// Total returns the lifetime accumulator.
func (c *Counter) Total() uint64 {
	return c.accumulator.Load()
}

// PerMinute returns the most recently rolled-up per-minute figure.
func (c *Counter) PerMinute() uint64 {
	return c.perMinute.Load()
}
