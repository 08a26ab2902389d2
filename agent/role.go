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

// Package agent specifies the interface a clustered deployment would consume
// to decide whether a node owns persistence, without implementing the
// cluster bootstrap itself (gossip/promotion is a Non-goal, spec.md §1).
// Only Role and Standalone are implemented; Leader/Follower are names a
// future clustering layer would produce, gating state.New's persistence
// dump/restore the same way a real leader-election result would.
package agent

// Role reports a node's standing with respect to persistence ownership.
type Role uint8

const (
	// Standalone is the only role this build ever produces: a single node
	// with no peers, always eligible to dump/restore.
	Standalone Role = iota
	// Leader is a node that has won election in a cluster; eligible to
	// dump/restore. No election process is implemented here.
	Leader
	// Follower is a node that has not won election; never dumps/restores,
	// deferring to whichever node holds Leader.
	Follower
)

// OwnsPersistence reports whether a node in this role should run
// persistence.Dump/persistence.Restore.
func (r Role) OwnsPersistence() bool {
	return r == Standalone || r == Leader
}

func (r Role) String() string {
	switch r {
	case Standalone:
		return "standalone"
	case Leader:
		return "leader"
	case Follower:
		return "follower"
	default:
		return "unknown"
	}
}
