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

// Package connection implements the per-connection read/dispatch/write loop
// of spec.md §4.2: a ring-region read buffer, frame-at-a-time draining via
// wire.SizeOf, dispatch through a caller-supplied Dispatcher, and a FIFO
// write queue of pooled messages.
//
// Grounded in shape on the teacher's httpserver/run component (accept loop
// owning a cancellable context, a Start/Stop lifecycle, structured
// bring-up/shutdown logging via logger.Entry) -- cited rather than
// imported, since the teacher's run package serves net/http's own
// connection handling rather than a raw framed TCP/unix protocol.
package connection

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/throttr/throttr-go/bufferpool"
	"github.com/throttr/throttr-go/logger"
	"github.com/throttr/throttr-go/pubsub"
	"github.com/throttr/throttr-go/wire"
)

// ID is the 16-byte process-unique connection identifier, shared with the
// subscription registry's keying type.
type ID = pubsub.ConnectionID

// Kind distinguishes the two transports spec.md §6 allows.
type Kind uint8

const (
	KindTCP Kind = iota
	KindLocal
)

// MinReadRegion is the read ring-region floor spec.md §4.2 sets ("a fixed
// ring-region of read memory (≥ 8 KiB)").
const MinReadRegion = 8192

// Dispatcher is implemented by state: given a parsed frame, it runs the
// opcode's handler and appends response fragments to batch. Connection
// never touches storage/registries directly -- only through this seam, to
// keep the reactor-facing read/write loop independent of the domain logic
// the handlers package implements.
type Dispatcher interface {
	Dispatch(id ID, opcode wire.Opcode, frame []byte, batch *wire.Batch) error
}

// Connection owns one accepted socket's read/process/write loop, per
// spec.md §4.2's state machine (Idle → Reading → Processing → Writing →
// Reading → … → Closed).
type Connection struct {
	ID          ID
	Kind        Kind
	RemoteAddr  net.Addr
	ConnectedAt time.Time
	Metrics     Metrics

	conn   net.Conn
	dsp    Dispatcher
	pools  *bufferpool.Pools
	log    *logger.Logger
	onDone func(ID)

	readBuf []byte
	start   int
	end     int

	writeMu    sync.Mutex
	writeQueue []*bufferpool.Message
	writing    bool

	closed atomic.Bool
}

// New wraps an accepted net.Conn as a Connection, identified by id and
// backed by pools for its buffer/message allocation.
func New(id ID, kind Kind, c net.Conn, dsp Dispatcher, pools *bufferpool.Pools, log *logger.Logger, onDone func(ID)) *Connection {
	return &Connection{
		ID:          id,
		Kind:        kind,
		RemoteAddr:  c.RemoteAddr(),
		ConnectedAt: time.Now(),
		conn:        c,
		dsp:         dsp,
		pools:       pools,
		log:         log,
		onDone:      onDone,
		readBuf:     pools.Buffers.Take(),
	}
}

// Serve runs the read/process/write loop until ctx is cancelled or the
// socket errs; it always tears the connection down before returning.
func (c *Connection) Serve(ctx context.Context) {
	defer c.teardown()

	if len(c.readBuf) < MinReadRegion {
		grown := make([]byte, 0, MinReadRegion)
		c.readBuf = grown
	}
	if cap(c.readBuf) < MinReadRegion {
		c.readBuf = append(c.readBuf, make([]byte, MinReadRegion-cap(c.readBuf))...)[:0]
	}
	if cap(c.readBuf) < MinReadRegion {
		c.readBuf = make([]byte, MinReadRegion)[:0]
	}
	c.readBuf = c.readBuf[:cap(c.readBuf)]

	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	for {
		if c.end == len(c.readBuf) {
			c.compactOrGrow()
		}

		n, err := c.conn.Read(c.readBuf[c.end:])
		if n > 0 {
			c.end += n
			c.Metrics.Internal[NetReadOps].Add(1)
			c.Metrics.Network[NetReadBytes].Add(uint64(n))
			c.drain()
		}
		if err != nil {
			if err != io.EOF {
				c.log.Entry(logger.WarnLevel, "connection read error").
					FieldAdd("connection_id", c.ID).
					ErrorAdd(true, err).
					Log()
			}
			return
		}
	}
}

// drain repeatedly frames and dispatches complete requests out of
// readBuf[start:end], per spec.md §4.2's read-path algorithm.
func (c *Connection) drain() {
	for {
		avail := c.readBuf[c.start:c.end]
		n, sizeErr := wire.SizeOf(avail)
		if sizeErr != nil {
			c.log.Entry(logger.WarnLevel, "unknown opcode, closing connection").
				FieldAdd("connection_id", c.ID).
				Log()
			_ = c.conn.Close()
			return
		}
		if n == 0 {
			break
		}

		frame := avail[:n]
		opcode := wire.Opcode(frame[0])
		c.handle(opcode, frame)
		c.start += n
	}

	if c.start == c.end {
		c.start, c.end = 0, 0
	} else if c.start > len(c.readBuf)/2 {
		c.compact()
	}
}

func (c *Connection) compact() {
	copy(c.readBuf, c.readBuf[c.start:c.end])
	c.end -= c.start
	c.start = 0
}

func (c *Connection) compactOrGrow() {
	if c.start > 0 {
		c.compact()
		return
	}

	grown := make([]byte, len(c.readBuf)*2)
	copy(grown, c.readBuf[:c.end])
	c.readBuf = grown
}

func (c *Connection) handle(opcode wire.Opcode, frame []byte) {
	msg := c.pools.Messages.Take()
	batch := wire.NewBatch(len(msg.WriteBuffer))

	if idx, ok := opcode.Index(); ok {
		c.Metrics.Opcodes[idx].Add(1)
	}

	if err := c.dsp.Dispatch(c.ID, opcode, frame, batch); err != nil {
		batch = wire.NewBatch(1)
		batch.Fail()
		c.log.Entry(logger.ErrorLevel, "handler error").
			FieldAdd("connection_id", c.ID).
			FieldAdd("opcode", opcode.String()).
			ErrorAdd(true, err).
			Log()
	}

	msg.GatherList = append(msg.GatherList[:0], batch.Finalize()...)
	c.enqueueWrite(msg)
}

// Enqueue pushes a server-prepared message (a publish() fan-out event, see
// spec.md §4.3) onto this connection's write queue, the same FIFO path a
// request's own response takes. Unlike handle's per-request messages, event
// messages are not necessarily drawn from this connection's own pool -- a
// single event is shared read-only across every subscriber's write queue,
// so msg must reference only stable memory (spec.md §4.3's publish note).
func (c *Connection) Enqueue(msg *bufferpool.Message) {
	c.enqueueWrite(msg)
}

// enqueueWrite pushes msg onto the FIFO write queue, starting an async
// write of the head if none is currently in flight.
func (c *Connection) enqueueWrite(msg *bufferpool.Message) {
	c.writeMu.Lock()
	c.writeQueue = append(c.writeQueue, msg)
	alreadyWriting := c.writing
	if !alreadyWriting {
		c.writing = true
	}
	c.writeMu.Unlock()

	if !alreadyWriting {
		go c.pumpWrites()
	}
}

func (c *Connection) pumpWrites() {
	for {
		c.writeMu.Lock()
		if len(c.writeQueue) == 0 {
			c.writing = false
			c.writeMu.Unlock()
			return
		}
		msg := c.writeQueue[0]
		c.writeMu.Unlock()

		buffers := wire.Buffers(append([][]byte(nil), msg.GatherList...))
		n, err := buffers.WriteTo(c.conn)
		if err == nil {
			c.Metrics.Internal[NetWriteOps].Add(1)
			c.Metrics.Network[NetWriteBytes].Add(uint64(n))
		}

		c.writeMu.Lock()
		c.writeQueue = c.writeQueue[1:]
		c.writeMu.Unlock()

		msg.Release()
		msg.MarkRecyclable()
		c.pools.Messages.Put(msg)

		if err != nil {
			c.log.Entry(logger.WarnLevel, "connection write error").
				FieldAdd("connection_id", c.ID).
				ErrorAdd(true, err).
				Log()
			_ = c.conn.Close()
			return
		}
	}
}

func (c *Connection) teardown() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}

	_ = c.conn.Close()
	c.pools.Buffers.Release(c.readBuf)

	if c.onDone != nil {
		c.onDone(c.ID)
	}
}
