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

import "github.com/throttr/throttr-go/wire"

// Stat implements opcode 0x09: emits the per-entry metrics quadruple
// (reads/min, writes/min, reads total, writes total) for a single live key.
func Stat(d *Deps, frame []byte, batch *wire.Batch) error {
	f := wire.ParseKeyFrame(frame)

	w, ok := d.Storage.FindByKey(f.Key)
	if !ok || !w.Entry.IsLiveAt(d.now().UnixNano()) {
		batch.Fail()
		return nil
	}

	snap := w.Entry.Metrics.Snapshot()
	batch.OK().
		U64(snap.ReadsPerMinute).
		U64(snap.WritesPerMinute).
		U64(snap.ReadsTotal).
		U64(snap.WritesTotal)
	return nil
}
