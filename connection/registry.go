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

package connection

import (
	"sync"
	"sync/atomic"
)

// Registry is the process-wide connection-id → *Connection map the
// connections/connection/whoami handlers read from. Unlike pubsub.Registry
// (which must keep two cross-referencing indices consistent under one
// lock), this is a single flat map with no secondary index, so it is built
// directly on a lock-free sync.Map rather than a sync.Mutex-guarded map --
// a connection's own registration never needs to be observed atomically
// alongside any other connection's.
//
// spec.md §5 fixes the lock order "connections_mutex before
// subscriptions_mutex" whenever a code path needs both; a caller that also
// takes a pubsub.Registry lock should still treat this registry as the
// outer scope, even though it no longer holds an explicit mutex of its own.
type Registry struct {
	byID sync.Map // ID -> *Connection
	size atomic.Int64
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers c under its own ID. It is the accept loop's job to generate
// a fresh ID per connection, so Add never needs to reject a collision.
func (r *Registry) Add(c *Connection) {
	r.byID.Store(c.ID, c)
	r.size.Add(1)
}

// Remove drops id from the registry, typically called from a Connection's
// onDone callback once its Serve loop has returned.
func (r *Registry) Remove(id ID) {
	if _, ok := r.byID.LoadAndDelete(id); ok {
		r.size.Add(-1)
	}
}

// Find returns the connection registered under id, if any.
func (r *Registry) Find(id ID) (*Connection, bool) {
	v, ok := r.byID.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Connection), true
}

// Len returns the number of currently-registered connections.
func (r *Registry) Len() int {
	return int(r.size.Load())
}

// Each calls fn once per registered connection, stopping early if fn
// returns false. Unlike a mutex-guarded walk, this iterates a live
// lock-free map: a connection added or removed mid-walk may or may not be
// observed, which is acceptable for the connections() handler's read-mostly
// snapshot use (spec.md §4.3 does not require it to be linearizable with
// concurrent connects/disconnects).
func (r *Registry) Each(fn func(*Connection) bool) {
	r.byID.Range(func(_, v any) bool {
		return fn(v.(*Connection))
	})
}
