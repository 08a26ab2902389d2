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

// Package scheduler implements the single-timer coalescing expiration
// garbage collector of spec.md §4.5: at most one pending timer, armed at
// the nearest future expiration, running a mark-then-sweep pass on fire and
// re-arming itself at whatever the sweep reports as the next wake-up.
//
// Grounded on the shape of the teacher's runner/ticker component (a fixed
// interval wrapped in a Start/Stop lifecycle around a caller-supplied
// callback) cited for the "own your own timer, expose Start/Stop" idiom,
// adapted here from a fixed-period ticker to a one-shot, re-armed-to-target
// timer since spec.md §4.5 requires scheduling at a computed instant rather
// than a fixed period.
package scheduler

import (
	"sync"
	"time"
)

// SweepFunc performs one mark-then-sweep pass at now and reports the next
// instant the scheduler should fire at, if any entry remains live.
type SweepFunc func(now time.Time) (next time.Time, ok bool)

// Scheduler owns the single pending expiration timer spec.md §4.5 and §5
// describe: "at most one pending timer", re-armed idempotently by Schedule.
type Scheduler struct {
	mu     sync.Mutex
	timer  *time.Timer
	armed  bool
	target time.Time
	sweep  SweepFunc
	now    func() time.Time
	stopped bool
}

// New returns a scheduler that invokes sweep on every fire. now defaults to
// time.Now if nil; tests may inject a deterministic clock.
func New(sweep SweepFunc, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{sweep: sweep, now: now}
}

// Schedule arms the timer for at, unless a timer is already armed for an
// earlier (or equal) instant -- making repeated Schedule calls idempotent,
// per spec.md §4.5's coalescing requirement: "extra posts do not compound".
// If at is already due, the sweep runs synchronously before Schedule
// returns.
func (s *Scheduler) Schedule(at time.Time) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	if s.armed && !at.Before(s.target) {
		s.mu.Unlock()
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}

	now := s.now()
	if !at.After(now) {
		s.armed = false
		s.mu.Unlock()
		s.fire()
		return
	}

	s.armed = true
	s.target = at
	s.timer = time.AfterFunc(at.Sub(now), s.fire)
	s.mu.Unlock()
}

// fire runs one sweep pass and re-arms for whatever the sweep reports as
// the next wake-up.
func (s *Scheduler) fire() {
	s.mu.Lock()
	s.armed = false
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	next, ok := s.sweep(s.now())
	if ok {
		s.Schedule(next)
	}
}

// Stop cancels any pending timer; the expiration scheduler step of the
// server shutdown sequence (spec.md §5).
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.armed = false
}
