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

package bufferpool

import "runtime"

// Pools bundles the buffer pool and message pool a worker pulls from. One
// Pools is created per reactor worker, sized off runtime.GOMAXPROCS the way
// the original sizes its per-core pools off the detected core count.
type Pools struct {
	Buffers  *BufferPool
	Messages *MessagePool
}

// NewShardedPools returns one Pools per worker, defaulting worker count to
// runtime.GOMAXPROCS(0) when workers <= 0.
func NewShardedPools(workers int) []*Pools {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 0 {
		workers = 1
	}

	shards := make([]*Pools, workers)
	for i := range shards {
		shards[i] = &Pools{
			Buffers:  NewBufferPool(DefaultMinCapacity),
			Messages: NewMessagePool(256, 256, 8),
		}
	}

	return shards
}

// For returns the shard assigned to worker index idx, wrapping around if idx
// exceeds the shard count.
func For(shards []*Pools, idx int) *Pools {
	if len(shards) == 0 {
		return nil
	}
	return shards[idx%len(shards)]
}
