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

package bufferpool

import "sync/atomic"

// Message is the per-request response scratch state spec.md §4.7 describes:
// a write buffer for scalar fields plus a gather list of byte ranges
// (some of them pointing into WriteBuffer, some zero-copy stable ranges
// borrowed from entry storage) that together form one logical response.
type Message struct {
	WriteBuffer []byte
	GatherList  [][]byte

	inUse      atomic.Bool
	recyclable atomic.Bool
}

// Reset clears WriteBuffer and GatherList to length 0, retaining capacity.
func (m *Message) Reset() {
	m.WriteBuffer = m.WriteBuffer[:0]
	m.GatherList = m.GatherList[:0]
}

// MarkInUse flags the message as claimed by a connection.
func (m *Message) MarkInUse() { m.inUse.Store(true) }

// MarkRecyclable flags the message as eligible for reuse once its write
// completes; the pool only recycles messages whose in_use has since cleared.
func (m *Message) MarkRecyclable() { m.recyclable.Store(true) }

// Release clears in_use, making the message eligible for the pool's next
// Take once also marked recyclable.
func (m *Message) Release() {
	m.inUse.Store(false)
}

func (m *Message) available() bool {
	return !m.inUse.Load() && m.recyclable.Load()
}

// MessagePool bounds the number of idle Message values it will retain. The
// bound is enforced on Put: a message returned while the free list is full
// is dropped rather than retained.
type MessagePool struct {
	mu       chan struct{}
	freeList chan *Message
	minWrite int
	minGather int
}

// NewMessagePool returns a pool retaining at most maxIdle recyclable
// messages, each starting with the given write-buffer and gather-list
// capacities.
func NewMessagePool(maxIdle, minWriteCapacity, minGatherCapacity int) *MessagePool {
	if maxIdle <= 0 {
		maxIdle = 1
	}
	if minWriteCapacity <= 0 {
		minWriteCapacity = 256
	}
	if minGatherCapacity <= 0 {
		minGatherCapacity = 8
	}

	return &MessagePool{
		freeList:  make(chan *Message, maxIdle),
		minWrite:  minWriteCapacity,
		minGather: minGatherCapacity,
	}
}

// Take returns a recyclable message from the free list, or allocates a new
// one if the pool is empty.
func (mp *MessagePool) Take() *Message {
	select {
	case m := <-mp.freeList:
		m.Reset()
		m.inUse.Store(true)
		m.recyclable.Store(false)
		return m
	default:
		m := &Message{
			WriteBuffer: make([]byte, 0, mp.minWrite),
			GatherList:  make([][]byte, 0, mp.minGather),
		}
		m.inUse.Store(true)
		return m
	}
}

// Put returns m to the free list once it is no longer in use and has been
// marked recyclable; if the free list is at capacity, m is dropped (excess
// capacity released, per spec.md §4.7) instead of retained.
func (mp *MessagePool) Put(m *Message) {
	if !m.available() {
		return
	}

	select {
	case mp.freeList <- m:
	default:
	}
}

// Idle reports how many recyclable messages currently sit on the free list.
func (mp *MessagePool) Idle() int {
	return len(mp.freeList)
}
