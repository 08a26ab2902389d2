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

package wire

import "net"

// Buffers is the wire package's scatter/gather list. It is a thin alias over
// net.Buffers so that WriteTo degrades to writev(2) on a *net.TCPConn /
// *net.UnixConn, the same single-syscall batching the reference
// implementation gets from its own scatter/gather write.
type Buffers net.Buffers

// WriteTo writes every range in order to w, consuming ranges already written
// the way net.Buffers.WriteTo does, so a partial write can be resumed by
// calling WriteTo again on the same value.
func (b *Buffers) WriteTo(w net.Conn) (int64, error) {
	nb := (*net.Buffers)(b)
	return nb.WriteTo(w)
}

// Len returns the total byte length remaining across all ranges.
func (b Buffers) Len() int {
	n := 0
	for _, r := range b {
		n += len(r)
	}
	return n
}
