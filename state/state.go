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

// Package state wires every leaf component (storage, pub/sub, connection
// registry, scheduler, pools, process metrics) into the single object the
// acceptor hands each accepted socket: a connection.Dispatcher that routes
// opcodes to the handlers package and owns the process's shutdown sequence
// (spec.md §5).
package state

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/throttr/throttr-go/agent"
	"github.com/throttr/throttr-go/bufferpool"
	"github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/entry"
	liberr "github.com/throttr/throttr-go/errors"
	"github.com/throttr/throttr-go/handlers"
	"github.com/throttr/throttr-go/logger"
	"github.com/throttr/throttr-go/metrics"
	"github.com/throttr/throttr-go/persistence"
	"github.com/throttr/throttr-go/pubsub"
	"github.com/throttr/throttr-go/scheduler"
	"github.com/throttr/throttr-go/storage"
	"github.com/throttr/throttr-go/wire"
)

// Config bundles state.New's construction-time choices.
type Config struct {
	Role            agent.Role
	PersistencePath string
	Workers         int
	Log             *logger.Logger
	Now             func() time.Time
}

// State is the process-wide hub every accepted connection dispatches
// through.
type State struct {
	storage     *storage.Index
	subs        *pubsub.Registry
	conns       *connection.Registry
	sched       *scheduler.Scheduler
	process     *metrics.Process
	msvc        *metrics.Service
	pools       []*bufferpool.Pools
	log         *logger.Logger
	role        agent.Role
	persistPath string
	now         func() time.Time
}

// New constructs a State, restoring from cfg.PersistencePath first when
// cfg.Role owns persistence (spec.md §5's cancellation sequence is mirrored
// at startup: restore before the acceptor is given any connections).
func New(cfg Config) (*State, liberr.Error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Log
	if log == nil {
		log = logger.New(nil, logger.InfoLevel)
	}

	idx := storage.New()

	if cfg.Role.OwnsPersistence() && cfg.PersistencePath != "" {
		if err := persistence.Restore(idx, cfg.PersistencePath); err != nil {
			return nil, err
		}
	}

	s := &State{
		storage:     idx,
		subs:        pubsub.NewRegistry(),
		conns:       connection.NewRegistry(),
		process:     metrics.NewProcess(now()),
		pools:       bufferpool.NewShardedPools(cfg.Workers),
		log:         log,
		role:        cfg.Role,
		persistPath: cfg.PersistencePath,
		now:         now,
	}

	s.sched = scheduler.New(s.sweep, now)
	s.msvc = metrics.NewService(metrics.DefaultInterval, s.rollup)
	s.msvc.Start()

	if first := idx.Snapshot(); len(first) > 0 {
		s.sched.Schedule(time.Unix(0, first[0].ExpiresAtNs()))
	}

	return s, nil
}

// expirationGrace is the 10-second window spec.md §4.5 fixes between marking
// an entry expired and physically erasing it.
const expirationGrace = 10 * time.Second

// sweep implements the two-phase mark-then-sweep pass spec.md §4.5 describes:
// entries whose expires_at has passed are marked expired (so a concurrent
// reader observes a failure response rather than racing the eventual erase);
// entries already marked expired for longer than the grace window are
// physically erased. It returns the next instant any remaining entry needs
// attention, computed as the minimum over survivors of expires_at (if not
// yet marked) or expires_at+grace (if marked, awaiting erase).
func (s *State) sweep(now time.Time) (time.Time, bool) {
	nowNs := now.UnixNano()
	snapshot := s.storage.Snapshot()

	haveNext := false
	var next int64

	for _, w := range snapshot {
		if w.Entry.Expired() {
			continue
		}
		if w.Entry.ExpiresAtNs() <= nowNs {
			s.storage.Modify(w.Key, func(e *entry.Wrapper) {
				e.Entry.MarkExpired()
			})
		}
	}

	for _, w := range snapshot {
		if w.Entry.Expired() {
			if nowNs-w.Entry.ExpiresAtNs() > expirationGrace.Nanoseconds() {
				s.storage.Erase(w.Key)
				continue
			}
			wakeAt := w.Entry.ExpiresAtNs() + expirationGrace.Nanoseconds()
			if !haveNext || wakeAt < next {
				next, haveNext = wakeAt, true
			}
			continue
		}

		wakeAt := w.Entry.ExpiresAtNs()
		if !haveNext || wakeAt < next {
			next, haveNext = wakeAt, true
		}
	}

	return time.Unix(0, next), haveNext
}

func (s *State) rollup() {
	s.process.Rollup()
	s.storage.Walk(func(w *entry.Wrapper) bool {
		w.Entry.Metrics.Rollup()
		return true
	})
}

// Dispatch implements connection.Dispatcher, routing each opcode to its
// handlers function. Unknown opcodes never reach here -- connection.drain
// already closes the socket before calling handle for an opcode wire.SizeOf
// rejects -- so default only guards truly unreachable cases.
func (s *State) Dispatch(id connection.ID, opcode wire.Opcode, frame []byte, batch *wire.Batch) error {
	s.process.RecordRequest(opcode)

	deps := &handlers.Deps{
		Storage:   s.storage,
		Subs:      s.subs,
		Conns:     s.conns,
		Scheduler: s.sched,
		Process:   s.process,
		Pools:     bufferpool.For(s.pools, shardIndex(id)),
		Now:       s.now,
	}

	switch opcode {
	case wire.Insert:
		return handlers.Insert(deps, frame, batch)
	case wire.Query:
		return handlers.Query(deps, frame, batch)
	case wire.Update:
		return handlers.Update(deps, frame, batch)
	case wire.Purge:
		return handlers.Purge(deps, frame, batch)
	case wire.Set:
		return handlers.Set(deps, frame, batch)
	case wire.Get:
		return handlers.Get(deps, frame, batch)
	case wire.List:
		return handlers.List(deps, frame, batch)
	case wire.Info:
		return handlers.Info(deps, frame, batch)
	case wire.Stat:
		return handlers.Stat(deps, frame, batch)
	case wire.Stats:
		return handlers.Stats(deps, frame, batch)
	case wire.Subscribe:
		return handlers.Subscribe(deps, pubsub.ConnectionID(id), frame, batch)
	case wire.Unsubscribe:
		return handlers.Unsubscribe(deps, pubsub.ConnectionID(id), frame, batch)
	case wire.Publish:
		return handlers.Publish(deps, pubsub.ConnectionID(id), frame, batch)
	case wire.Channel:
		return handlers.Channel(deps, frame, batch)
	case wire.Channels:
		return handlers.Channels(deps, frame, batch)
	case wire.Whoami:
		return handlers.Whoami(pubsub.ConnectionID(id), batch)
	case wire.Connection:
		return handlers.ConnectionInfo(deps, frame, batch)
	case wire.Connections:
		return handlers.Connections(deps, frame, batch)
	default:
		batch.Fail()
		return nil
	}
}

// shardIndex picks a deterministic pool shard for a connection id, so one
// connection always draws from the same shard rather than round-robining
// per request.
func shardIndex(id connection.ID) int {
	n := 0
	for _, b := range id {
		n = n*31 + int(b)
	}
	if n < 0 {
		n = -n
	}
	return n
}

// Accept wraps c as a registered Connection and runs its Serve loop in a new
// goroutine, tearing down the subscription/connection registry entries on
// exit (spec.md §4.2's failure path: "unsubscribe all subscriptions for this
// connection id, remove from the registry, release buffers").
func (s *State) Accept(ctx context.Context, c net.Conn, kind connection.Kind) {
	id := connection.ID(uuid.New())

	conn := connection.New(id, kind, c, s, bufferpool.For(s.pools, shardIndex(id)), s.log, s.onConnectionDone)
	s.conns.Add(conn)

	go conn.Serve(ctx)
}

func (s *State) onConnectionDone(id connection.ID) {
	s.subs.DropAllFor(pubsub.ConnectionID(id))
	s.conns.Remove(id)
}

// StorageLen implements metrics.Sampler.
func (s *State) StorageLen() int { return s.storage.Len() }

// ConnectionsLen implements metrics.Sampler.
func (s *State) ConnectionsLen() int { return s.conns.Len() }

// ChannelCount implements metrics.Sampler.
func (s *State) ChannelCount() int { return s.subs.ChannelCount() }

// SubscriberCount implements metrics.Sampler.
func (s *State) SubscriberCount() int { return s.subs.TotalSubscribers() }

// Process exposes the process-wide metrics, for wiring into a
// metrics.Collector.
func (s *State) Process() *metrics.Process { return s.process }

// Shutdown runs spec.md §5's cancellation sequence steps 2-3 (the acceptor
// itself, step 1, is stopped by the caller's server package before Shutdown
// is invoked): cancel the expiration timer, optionally dump storage, then
// stop the metrics rollup ticker.
func (s *State) Shutdown() liberr.Error {
	s.sched.Stop()

	if s.role.OwnsPersistence() && s.persistPath != "" {
		if err := persistence.Dump(s.storage, s.persistPath); err != nil {
			s.log.Entry(logger.WarnLevel, "persistence dump failed").
				ErrorAdd(true, err).
				Log()
		}
	}

	s.msvc.Stop()
	return nil
}
