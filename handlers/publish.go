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
	"github.com/throttr/throttr-go/bufferpool"
	"github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/pubsub"
	"github.com/throttr/throttr-go/wire"
)

// Publish implements opcode 0x0D (spec.md §4.3/§8 property 10): fans out
// value to every subscriber of channel except the publisher itself, then
// answers the publisher with status only. A channel with no (other)
// subscribers still answers OK -- publish never fails on an empty audience.
//
// Byte accounting follows the original publish_command's per-subscriber
// bookkeeping: every subscription of channel records a read of the payload
// size, including the publisher's own subscription if it is self-subscribed;
// that same self-subscription records a write instead of being sent to, and
// is the only subscription that does. Connection-level counters are
// separate: the publisher's connection records one published_bytes, and
// every other, still-connected recipient records received_bytes.
func Publish(d *Deps, self pubsub.ConnectionID, frame []byte, batch *wire.Batch) error {
	f := wire.ParsePublish(frame)
	payloadLen := uint64(len(f.Value))

	if c, ok := d.Conns.Find(connection.ID(self)); ok {
		c.Metrics.Network[connection.NetPublishedBytes].Add(payloadLen)
	}

	event := buildEventFrame(f.Channel, f.Value)

	d.Subs.ForEachSubscriberOf(f.Channel, func(s *pubsub.Subscription) {
		s.RecordRead(payloadLen)

		if s.ConnectionID == self {
			s.RecordWrite(payloadLen)
			return
		}

		c, ok := d.Conns.Find(connection.ID(s.ConnectionID))
		if !ok {
			return
		}
		c.Metrics.Network[connection.NetReceivedBytes].Add(payloadLen)
		c.Enqueue(&bufferpool.Message{GatherList: [][]byte{event}})
	})

	batch.OK()
	return nil
}

// buildEventFrame serializes the wire.Event (0x13) frame shared, read-only,
// across every subscriber's write queue: opcode, channel_size, value_size,
// channel, value.
func buildEventFrame(channel, value []byte) []byte {
	b := wire.NewBatch(2 + wire.VSize)
	b.U8(uint8(wire.Event)).
		U8(uint8(len(channel))).
		V(uint64(len(value))).
		Bytes(channel).
		Bytes(value)

	buffers := b.Finalize()
	total := 0
	for _, r := range buffers {
		total += len(r)
	}

	frame := make([]byte, 0, total)
	for _, r := range buffers {
		frame = append(frame, r...)
	}
	return frame
}
