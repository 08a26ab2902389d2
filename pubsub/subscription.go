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

// Package pubsub implements the channel-indexed subscriber registry of
// spec.md §3/§4.6: a (connection_id, channel) pairing with a secondary index
// by channel name, used to fan out publish() events to every subscriber of
// a channel other than the publisher itself.
package pubsub

import "sync/atomic"

// ConnectionID is the 16-byte process-unique connection identifier also
// used by the connection registry and the whoami/connection handlers.
type ConnectionID [16]byte

// Subscription is one (connection_id, channel) pairing, carrying the
// per-subscriber byte counters the channel() handler reports.
type Subscription struct {
	ConnectionID ConnectionID
	Channel      []byte
	SubscribedAt int64 // nanoseconds

	ReadBytes  atomic.Uint64
	WriteBytes atomic.Uint64
}

// RecordRead adds n to this subscription's read byte counter.
func (s *Subscription) RecordRead(n uint64) { s.ReadBytes.Add(n) }

// RecordWrite adds n to this subscription's write byte counter.
func (s *Subscription) RecordWrite(n uint64) { s.WriteBytes.Add(n) }
