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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/wire"
)

var _ = Describe("Metrics", func() {
	It("sizes the network accumulator array at six lifetime byte counters", func() {
		var m Metrics
		Expect(NumNetworkMetrics).To(Equal(6))
		Expect(len(m.Network)).To(Equal(NumNetworkMetrics))
	})

	It("sizes the opcode accumulator array at wire.NumOpcodes", func() {
		var m Metrics
		Expect(len(m.Opcodes)).To(Equal(wire.NumOpcodes))
	})

	It("tracks independent counters per slot", func() {
		var m Metrics
		m.Network[NetReadBytes].Add(10)
		m.Network[NetWriteBytes].Add(20)
		Expect(m.Network[NetReadBytes].Load()).To(Equal(uint64(10)))
		Expect(m.Network[NetWriteBytes].Load()).To(Equal(uint64(20)))
		Expect(m.Network[NetPublishedBytes].Load()).To(Equal(uint64(0)))
	})
})
