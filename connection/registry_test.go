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

package connection_test

import (
	"io"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/logger"
)

var _ = Describe("Registry", func() {
	newConn := func(id ID) *Connection {
		server, _ := net.Pipe()
		return New(id, KindTCP, server, &recordingDispatcher{}, newPools(), logger.New(io.Discard, logger.DebugLevel), nil)
	}

	It("adds, finds, and removes connections by id", func() {
		r := NewRegistry()
		Expect(r.Len()).To(Equal(0))

		c1 := newConn(ID{1})
		c2 := newConn(ID{2})
		r.Add(c1)
		r.Add(c2)
		Expect(r.Len()).To(Equal(2))

		found, ok := r.Find(ID{1})
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(c1))

		r.Remove(ID{1})
		Expect(r.Len()).To(Equal(1))
		_, ok = r.Find(ID{1})
		Expect(ok).To(BeFalse())
	})

	It("walks every registered connection until Each returns false", func() {
		r := NewRegistry()
		r.Add(newConn(ID{1}))
		r.Add(newConn(ID{2}))
		r.Add(newConn(ID{3}))

		visited := 0
		r.Each(func(c *Connection) bool {
			visited++
			return visited < 2
		})
		Expect(visited).To(Equal(2))

		total := 0
		r.Each(func(c *Connection) bool {
			total++
			return true
		})
		Expect(total).To(Equal(3))
	})
})
