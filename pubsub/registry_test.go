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

package pubsub_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/throttr/throttr-go/pubsub"
)

var idA = ConnectionID{0x01}
var idB = ConnectionID{0x02}

var _ = Describe("Registry", func() {
	It("subscribes and fans out to subscribers", func() {
		r := NewRegistry()
		Expect(r.Subscribe(idA, []byte("news"), 100)).To(BeTrue())
		Expect(r.Subscribe(idB, []byte("news"), 200)).To(BeTrue())

		Expect(r.SubscriberCount([]byte("news"))).To(Equal(2))

		var seen []ConnectionID
		r.ForEachSubscriberOf([]byte("news"), func(s *Subscription) {
			seen = append(seen, s.ConnectionID)
		})
		Expect(seen).To(ConsistOf(idA, idB))
	})

	It("treats a duplicate subscription as a no-op success", func() {
		r := NewRegistry()
		Expect(r.Subscribe(idA, []byte("news"), 100)).To(BeTrue())
		Expect(r.Subscribe(idA, []byte("news"), 150)).To(BeFalse())
		Expect(r.SubscriberCount([]byte("news"))).To(Equal(1))
	})

	It("unsubscribes only the matching pair", func() {
		r := NewRegistry()
		r.Subscribe(idA, []byte("news"), 100)
		r.Subscribe(idA, []byte("sports"), 100)

		Expect(r.Unsubscribe(idA, []byte("news"))).To(BeTrue())
		Expect(r.SubscriberCount([]byte("news"))).To(Equal(0))
		Expect(r.SubscriberCount([]byte("sports"))).To(Equal(1))

		Expect(r.Unsubscribe(idA, []byte("news"))).To(BeFalse())
	})

	It("drops every subscription for a connection at teardown", func() {
		r := NewRegistry()
		r.Subscribe(idA, []byte("news"), 100)
		r.Subscribe(idA, []byte("sports"), 100)
		r.Subscribe(idB, []byte("news"), 100)

		r.DropAllFor(idA)

		Expect(r.SubscriberCount([]byte("news"))).To(Equal(1))
		Expect(r.SubscriberCount([]byte("sports"))).To(Equal(0))
		Expect(r.ChannelNames()).To(ConsistOf("news"))
	})

	It("excludes the publisher from its own fan-out list when filtered by caller", func() {
		r := NewRegistry()
		r.Subscribe(idA, []byte("news"), 100)
		r.Subscribe(idB, []byte("news"), 100)

		var delivered []ConnectionID
		r.ForEachSubscriberOf([]byte("news"), func(s *Subscription) {
			if s.ConnectionID == idA {
				return // idA is the publisher in this scenario
			}
			delivered = append(delivered, s.ConnectionID)
		})
		Expect(delivered).To(ConsistOf(idB))
	})
})
