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

package metrics

import (
	"sync"
	"time"
)

// DefaultInterval is the once-a-minute cadence spec.md §2/SPEC_FULL.md fix
// for the metrics snapshot service: "every 60s (ticker, not wall-clock-
// aligned)".
const DefaultInterval = time.Minute

// Service runs tick on a fixed period until Stop is called. Grounded in
// shape on the same teacher runner/ticker component scheduler.Scheduler
// cites (New/Start/Stop around a caller-supplied callback), here left as a
// plain fixed-period ticker rather than scheduler's re-armed-to-target timer
// since the snapshot cadence is constant, not computed per call.
type Service struct {
	mu      sync.Mutex
	ticker  *time.Ticker
	done    chan struct{}
	tick    func()
	running bool
}

// NewService returns a Service that calls tick every interval once Start is
// called. interval defaults to DefaultInterval if non-positive.
func NewService(interval time.Duration, tick func()) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
		tick:   tick,
	}
}

// Start launches the background roll-up loop. Safe to call once; a second
// call is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop halts the roll-up loop and releases the ticker. Part of the shutdown
// sequence alongside scheduler.Scheduler.Stop (spec.md §5).
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.done)
}
