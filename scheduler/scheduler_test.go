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

package scheduler_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/throttr/throttr-go/scheduler"
)

var _ = Describe("Scheduler", func() {
	It("runs the sweep synchronously when scheduled at a past instant", func() {
		var calls int32
		s := New(func(time.Time) (time.Time, bool) {
			atomic.AddInt32(&calls, 1)
			return time.Time{}, false
		}, nil)

		s.Schedule(time.Now().Add(-time.Second))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("coalesces repeated schedule calls to the earliest requested instant", func() {
		var calls int32
		s := New(func(time.Time) (time.Time, bool) {
			atomic.AddInt32(&calls, 1)
			return time.Time{}, false
		}, nil)

		now := time.Now()
		s.Schedule(now.Add(40 * time.Millisecond))
		s.Schedule(now.Add(400 * time.Millisecond)) // later: ignored, earlier arm wins

		Eventually(func() int32 {
			return atomic.LoadInt32(&calls)
		}, "200ms", "5ms").Should(Equal(int32(1)))

		Consistently(func() int32 {
			return atomic.LoadInt32(&calls)
		}, "100ms", "10ms").Should(Equal(int32(1)))
	})

	It("re-arms itself using the next wake-up the sweep reports", func() {
		var calls int32
		s := New(func(now time.Time) (time.Time, bool) {
			n := atomic.AddInt32(&calls, 1)
			if n == 1 {
				return now.Add(30 * time.Millisecond), true
			}
			return time.Time{}, false
		}, nil)

		s.Schedule(time.Now().Add(10 * time.Millisecond))

		Eventually(func() int32 {
			return atomic.LoadInt32(&calls)
		}, "200ms", "5ms").Should(Equal(int32(2)))
	})

	It("stops a pending timer so it never fires", func() {
		var calls int32
		s := New(func(time.Time) (time.Time, bool) {
			atomic.AddInt32(&calls, 1)
			return time.Time{}, false
		}, nil)

		s.Schedule(time.Now().Add(30 * time.Millisecond))
		s.Stop()

		Consistently(func() int32 {
			return atomic.LoadInt32(&calls)
		}, "100ms", "10ms").Should(Equal(int32(0)))
	})
})
