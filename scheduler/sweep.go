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

package scheduler

import (
	"time"

	"github.com/throttr/throttr-go/entry"
	"github.com/throttr/throttr-go/storage"
)

// DefaultGrace is the grace window spec.md §4.5/§9 fixes at 10 seconds:
// the interval between marking an entry expired and physically erasing it.
const DefaultGrace = 10 * time.Second

// NewIndexSweep returns the SweepFunc that implements spec.md §4.5's sweep
// against idx: partition live entries into to_mark (expires_at <= now) and
// already-marked entries into to_erase (now - expires_at > grace), apply
// both, then report the minimum of every remaining entry's next-relevant
// instant (expires_at for live entries, expires_at+grace for entries
// already marked but still inside their grace window).
func NewIndexSweep(idx *storage.Index, grace time.Duration) SweepFunc {
	return func(now time.Time) (time.Time, bool) {
		nowNs := now.UnixNano()
		graceNs := grace.Nanoseconds()

		var toMark, toErase [][]byte
		var nextNs int64
		hasNext := false

		candidate := func(wakeNs int64) {
			if !hasNext || wakeNs < nextNs {
				nextNs = wakeNs
				hasNext = true
			}
		}

		idx.Walk(func(w *entry.Wrapper) bool {
			e := w.Entry
			expiresAt := e.ExpiresAtNs()

			if !e.Expired() {
				if expiresAt <= nowNs {
					toMark = append(toMark, w.Key)
					candidate(expiresAt + graceNs)
				} else {
					candidate(expiresAt)
				}
				return true
			}

			if nowNs-expiresAt > graceNs {
				toErase = append(toErase, w.Key)
			} else {
				candidate(expiresAt + graceNs)
			}
			return true
		})

		for _, key := range toMark {
			idx.Modify(key, func(w *entry.Wrapper) {
				w.Entry.MarkExpired()
			})
		}

		for _, key := range toErase {
			idx.Erase(key)
		}

		if !hasNext {
			return time.Time{}, false
		}
		return time.Unix(0, nextNs), true
	}
}
