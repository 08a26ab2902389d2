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

	"github.com/throttr/throttr-go/pubsub"
	"github.com/throttr/throttr-go/wire"
)

// Channel implements opcode 0x0E: emits status, subscriber count, then one
// {connection_id, subscribed_at, read_bytes, write_bytes} record per
// subscriber of the requested channel (spec.md §4.3).
func Channel(d *Deps, frame []byte, batch *wire.Batch) error {
	f := wire.ParseKeyFrame(frame)

	count := uint64(d.Subs.SubscriberCount(f.Key))
	batch.OK().U64(count)

	d.Subs.ForEachSubscriberOf(f.Key, func(s *pubsub.Subscription) {
		rec := make([]byte, 16+8+8+8)
		copy(rec[0:16], s.ConnectionID[:])
		binary.LittleEndian.PutUint64(rec[16:24], uint64(s.SubscribedAt))
		binary.LittleEndian.PutUint64(rec[24:32], s.ReadBytes.Load())
		binary.LittleEndian.PutUint64(rec[32:40], s.WriteBytes.Load())
		batch.Stable(rec)
	})

	return nil
}
