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

// Package handlers implements spec.md §4.3's command handlers: one function
// per opcode, each reading and mutating the shared Deps, appending response
// fragments to the caller's *wire.Batch. Handlers never return an error for
// a semantic failure (missing key, duplicate key, insufficient quota) -- per
// spec.md §7, those are all `batch.Fail()`. The error return is reserved for
// truly exceptional conditions a caller should log and still answer with a
// failure byte (connection.Connection does exactly that with the error
// state.State.Dispatch passes back).
package handlers

import (
	"time"

	"github.com/throttr/throttr-go/bufferpool"
	"github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/metrics"
	"github.com/throttr/throttr-go/pubsub"
	"github.com/throttr/throttr-go/scheduler"
	"github.com/throttr/throttr-go/storage"
)

// Deps bundles everything a handler needs, handed down from state.State so
// this package never has to import it back (state depends on handlers, not
// the other way around).
type Deps struct {
	Storage   *storage.Index
	Subs      *pubsub.Registry
	Conns     *connection.Registry
	Scheduler *scheduler.Scheduler
	Process   *metrics.Process
	Pools     *bufferpool.Pools
	Now       func() time.Time
}

// now returns d.Now(), defaulting to time.Now when unset (tests may omit it
// when they don't care about a deterministic clock).
func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
