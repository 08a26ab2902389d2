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

package pubsub

import "sync"

// Registry holds every live subscription, indexed both by connection id and
// by channel name. Lock order relative to the connection registry follows
// spec.md §5: connections_mutex before subscriptions_mutex, so callers that
// hold both must acquire the connection registry's lock first.
type Registry struct {
	mu          sync.Mutex
	byChannel   map[string][]*Subscription
	byConnection map[ConnectionID][]*Subscription
}

// NewRegistry returns an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		byChannel:    make(map[string][]*Subscription),
		byConnection: make(map[ConnectionID][]*Subscription),
	}
}

// Subscribe inserts (id, channel, subscribedAt). A second identical
// subscription is a no-op that still reports success -- spec.md §4.6/§9
// leaves this an implementation choice; throttr-go's choice (recorded in
// DESIGN.md) is "silently accept", matching the reference behavior spec.md
// cites as one of its two observed revisions. The returned bool reports
// whether a new subscription was actually created, for callers (tests,
// metrics) that care about the distinction the wire response does not
// surface.
func (r *Registry) Subscribe(id ConnectionID, channel []byte, subscribedAt int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := string(channel)
	for _, s := range r.byConnection[id] {
		if string(s.Channel) == ch {
			return false
		}
	}

	s := &Subscription{
		ConnectionID: id,
		Channel:      append([]byte(nil), channel...),
		SubscribedAt: subscribedAt,
	}
	r.byChannel[ch] = append(r.byChannel[ch], s)
	r.byConnection[id] = append(r.byConnection[id], s)
	return true
}

// Unsubscribe removes every subscription matching (id, channel), reporting
// whether any were removed.
func (r *Registry) Unsubscribe(id ConnectionID, channel []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := string(channel)
	removed := false

	if subs, ok := r.byConnection[id]; ok {
		kept := subs[:0]
		for _, s := range subs {
			if string(s.Channel) == ch {
				removed = true
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(r.byConnection, id)
		} else {
			r.byConnection[id] = kept
		}
	}

	if subs, ok := r.byChannel[ch]; ok {
		kept := subs[:0]
		for _, s := range subs {
			if s.ConnectionID == id {
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(r.byChannel, ch)
		} else {
			r.byChannel[ch] = kept
		}
	}

	return removed
}

// ForEachSubscriberOf iterates the subscribers of channel under the
// registry lock, intended for publish() fan-out.
func (r *Registry) ForEachSubscriberOf(channel []byte, fn func(s *Subscription)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.byChannel[string(channel)] {
		fn(s)
	}
}

// SubscriberCount reports how many subscribers channel currently has.
func (r *Registry) SubscriberCount(channel []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byChannel[string(channel)])
}

// DropAllFor removes every subscription belonging to id, invoked at
// connection teardown.
func (r *Registry) DropAllFor(id ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.byConnection[id] {
		ch := string(s.Channel)
		subs := r.byChannel[ch]
		kept := subs[:0]
		for _, other := range subs {
			if other.ConnectionID != id {
				kept = append(kept, other)
			}
		}
		if len(kept) == 0 {
			delete(r.byChannel, ch)
		} else {
			r.byChannel[ch] = kept
		}
	}

	delete(r.byConnection, id)
}

// ChannelCount reports how many distinct channels currently have at least
// one subscriber.
func (r *Registry) ChannelCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byChannel)
}

// TotalSubscribers reports the number of live (connection, channel) pairs
// across every channel.
func (r *Registry) TotalSubscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, subs := range r.byChannel {
		n += len(subs)
	}
	return n
}

// ChannelNames returns every channel with at least one subscriber, in no
// particular order.
func (r *Registry) ChannelNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.byChannel))
	for name := range r.byChannel {
		names = append(names, name)
	}
	return names
}
