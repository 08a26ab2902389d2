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

package handlers_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/throttr/throttr-go/bufferpool"
	"github.com/throttr/throttr-go/connection"
	. "github.com/throttr/throttr-go/handlers"
	"github.com/throttr/throttr-go/logger"
	"github.com/throttr/throttr-go/metrics"
	"github.com/throttr/throttr-go/pubsub"
	"github.com/throttr/throttr-go/storage"
	"github.com/throttr/throttr-go/wire"
)

func newDirDeps() *Deps {
	return &Deps{
		Storage: storage.New(),
		Subs:    pubsub.NewRegistry(),
		Conns:   connection.NewRegistry(),
		Process: metrics.NewProcess(time.Now()),
	}
}

var _ = Describe("Info", func() {
	It("reports totals and a zero-padded version string", func() {
		d := newDirDeps()
		d.Process.RecordRequest(wire.Insert)
		d.Process.Rollup()

		batch := wire.NewBatch(64)
		Expect(Info(d, nil, batch)).To(Succeed())
		Expect(status(batch)).To(Equal(wire.StatusOK))
	})
})

var _ = Describe("List and Stats", func() {
	It("report an empty directory when storage is empty", func() {
		d := newDirDeps()

		listBatch := wire.NewBatch(16)
		Expect(List(d, nil, listBatch)).To(Succeed())
		Expect(status(listBatch)).To(Equal(wire.StatusOK))

		statsBatch := wire.NewBatch(16)
		Expect(Stats(d, nil, statsBatch)).To(Succeed())
		Expect(status(statsBatch)).To(Equal(wire.StatusOK))
	})

	It("list a counter after Insert and report its stats", func() {
		d := newDirDeps()
		Expect(Insert(d, insertFrame(5, 3, 60, "metered"), wire.NewBatch(16))).To(Succeed())

		listBatch := wire.NewBatch(64)
		Expect(List(d, nil, listBatch)).To(Succeed())
		Expect(status(listBatch)).To(Equal(wire.StatusOK))

		statBatch := wire.NewBatch(64)
		Expect(Stat(d, keyFrame(wire.Stat, "metered"), statBatch)).To(Succeed())
		Expect(status(statBatch)).To(Equal(wire.StatusOK))
	})

	It("fails Stat for a missing key", func() {
		d := newDirDeps()
		batch := wire.NewBatch(16)
		Expect(Stat(d, keyFrame(wire.Stat, "nope"), batch)).To(Succeed())
		Expect(status(batch)).To(Equal(wire.StatusFail))
	})
})

var _ = Describe("Subscribe/Unsubscribe/Channel/Channels", func() {
	It("subscribes, reports the channel, then unsubscribes", func() {
		d := newDirDeps()
		var id pubsub.ConnectionID
		id[0] = 1

		subBatch := wire.NewBatch(16)
		Expect(Subscribe(d, id, keyFrame(wire.Subscribe, "alerts"), subBatch)).To(Succeed())
		Expect(status(subBatch)).To(Equal(wire.StatusOK))

		chanBatch := wire.NewBatch(64)
		Expect(Channel(d, keyFrame(wire.Channel, "alerts"), chanBatch)).To(Succeed())
		Expect(status(chanBatch)).To(Equal(wire.StatusOK))

		listBatch := wire.NewBatch(64)
		Expect(Channels(d, nil, listBatch)).To(Succeed())
		Expect(status(listBatch)).To(Equal(wire.StatusOK))

		unsubBatch := wire.NewBatch(16)
		Expect(Unsubscribe(d, id, keyFrame(wire.Unsubscribe, "alerts"), unsubBatch)).To(Succeed())
		Expect(status(unsubBatch)).To(Equal(wire.StatusOK))

		unsubAgain := wire.NewBatch(16)
		Expect(Unsubscribe(d, id, keyFrame(wire.Unsubscribe, "alerts"), unsubAgain)).To(Succeed())
		Expect(status(unsubAgain)).To(Equal(wire.StatusFail))
	})

	It("publishes OK even with no subscribers", func() {
		d := newDirDeps()
		var self pubsub.ConnectionID
		frame := []byte{byte(wire.Publish), 5, 2, 0}
		frame = append(frame, "alert"...)
		frame = append(frame, "hi"...)

		batch := wire.NewBatch(16)
		Expect(Publish(d, self, frame, batch)).To(Succeed())
		Expect(status(batch)).To(Equal(wire.StatusOK))
	})
})

var _ = Describe("Whoami", func() {
	It("echoes the caller's connection id", func() {
		var id pubsub.ConnectionID
		id[0], id[15] = 0xAB, 0xCD

		batch := wire.NewBatch(16)
		Expect(Whoami(id, batch)).To(Succeed())
		buf := batch.Finalize()
		Expect(buf[0]).To(Equal(wire.StatusOKBytes))
		Expect(buf[1]).To(Equal(id[:]))
	})
})

var _ = Describe("ConnectionInfo and Connections", func() {
	It("fails ConnectionInfo for an unregistered id", func() {
		d := newDirDeps()
		var frame [17]byte
		frame[0] = byte(wire.Connection)

		batch := wire.NewBatch(16)
		Expect(ConnectionInfo(d, frame[:], batch)).To(Succeed())
		Expect(status(batch)).To(Equal(wire.StatusFail))
	})

	It("reports a registered connection's record and lists it under Connections", func() {
		d := newDirDeps()
		pools := bufferpool.NewShardedPools(1)[0]
		log := logger.New(nil, logger.NilLevel)

		server, client := net.Pipe()
		defer client.Close()

		var id connection.ID
		id[0] = 9
		conn := connection.New(id, connection.KindTCP, server, noopDispatcher{}, pools, log, nil)
		d.Conns.Add(conn)

		var frame [17]byte
		frame[0] = byte(wire.Connection)
		copy(frame[1:], id[:])

		infoBatch := wire.NewBatch(256)
		Expect(ConnectionInfo(d, frame[:], infoBatch)).To(Succeed())
		Expect(status(infoBatch)).To(Equal(wire.StatusOK))

		listBatch := wire.NewBatch(256)
		Expect(Connections(d, nil, listBatch)).To(Succeed())
		Expect(status(listBatch)).To(Equal(wire.StatusOK))
	})
})

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(_ connection.ID, _ wire.Opcode, _ []byte, batch *wire.Batch) error {
	batch.OK()
	return nil
}
