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

package wire_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/throttr/throttr-go/wire"
)

var _ = Describe("ParseKeyFrame", func() {
	It("decodes the trailing key shared by query/purge/get/stat/subscribe/unsubscribe/channel", func() {
		frame := []byte{byte(Purge), 4, 'g', 'a', 't', 'e'}
		f := ParseKeyFrame(frame)
		Expect(string(f.Key)).To(Equal("gate"))
	})

	It("decodes a zero-length key", func() {
		frame := []byte{byte(Get), 0}
		f := ParseKeyFrame(frame)
		Expect(f.Key).To(BeEmpty())
	})
})

var _ = Describe("ParseUpdate", func() {
	It("decodes an increase-quota frame", func() {
		frame := []byte{byte(Update), byte(AttributeQuota), byte(ChangeIncrease), 7, 0, 3, 3}
		frame = append(frame, "abc"...)

		f := ParseUpdate(frame)
		Expect(f.Attribute).To(Equal(uint8(AttributeQuota)))
		Expect(f.Change).To(Equal(uint8(ChangeIncrease)))
		Expect(f.Value).To(Equal(uint64(7)))
		Expect(f.TTLUnit).To(Equal(uint8(3)))
		Expect(string(f.Key)).To(Equal("abc"))
	})
})

var _ = Describe("ParseSet", func() {
	It("decodes key and value with independent lengths", func() {
		frame := []byte{byte(Set), 2, 3, 0, 3, 4, 0}
		frame = append(frame, "key"...)
		frame = append(frame, "data"...)

		f := ParseSet(frame)
		Expect(f.TTLUnit).To(Equal(uint8(2)))
		Expect(f.TTL).To(Equal(uint64(3)))
		Expect(string(f.Key)).To(Equal("key"))
		Expect(string(f.Value)).To(Equal("data"))
	})

	It("decodes an empty value", func() {
		frame := []byte{byte(Set), 1, 1, 0, 1, 0, 0}
		frame = append(frame, "k"...)

		f := ParseSet(frame)
		Expect(f.Value).To(BeEmpty())
	})
})

var _ = Describe("ParsePublish", func() {
	It("decodes a channel/value pair shared by publish and event", func() {
		frame := []byte{byte(Publish), 5, 3, 0}
		frame = append(frame, "alert"...)
		frame = append(frame, "hey"...)

		f := ParsePublish(frame)
		Expect(string(f.Channel)).To(Equal("alert"))
		Expect(string(f.Value)).To(Equal("hey"))
	})
})

var _ = Describe("ParseConnectionFrame", func() {
	It("decodes a 16-byte connection id", func() {
		var id [16]byte
		for i := range id {
			id[i] = byte(i + 1)
		}
		frame := append([]byte{byte(Connection)}, id[:]...)

		f := ParseConnectionFrame(frame)
		Expect(f.ID).To(Equal(id))
	})
})
