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

// channelsMetaSize is name_size(u8) + read_bytes(u64) + write_bytes(u64) +
// subscriber_count(u64).
const channelsMetaSize = 1 + 8 + 8 + 8

// Channels implements opcode 0x0F: emits status, then the fragmented list
// of every channel with at least one subscriber (spec.md §4.3).
func Channels(d *Deps, _ []byte, batch *wire.Batch) error {
	var records []fragmentRecord

	for _, name := range d.Subs.ChannelNames() {
		var readBytes, writeBytes, subscribers uint64
		d.Subs.ForEachSubscriberOf([]byte(name), func(s *pubsub.Subscription) {
			readBytes += s.ReadBytes.Load()
			writeBytes += s.WriteBytes.Load()
			subscribers++
		})

		meta := make([]byte, channelsMetaSize)
		meta[0] = uint8(len(name))
		binary.LittleEndian.PutUint64(meta[1:9], readBytes)
		binary.LittleEndian.PutUint64(meta[9:17], writeBytes)
		binary.LittleEndian.PutUint64(meta[17:25], subscribers)

		records = append(records, fragmentRecord{Meta: meta, Tail: []byte(name)})
	}

	batch.OK()
	writeFragmentedDirectory(batch, records)
	return nil
}
