//go:build !v8 && !v32 && !v64

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

// VSize is the width, in bytes, of the V-sized wire fields (counter values,
// TTL magnitudes, byte-length fields) for this build. The default build picks
// V = 16 bits, the width spec.md's worked wire examples use; build with
// -tags v8, -tags v32, or -tags v64 to select another width, the Go
// equivalent of the original's compile-time V choice.
const VSize = 2

// VMax is the largest value representable in a V-sized field.
const VMax = 1<<16 - 1

// ReadV decodes a V-sized little-endian unsigned integer from b.
func ReadV(b []byte) uint64 {
	_ = b[1]
	return uint64(b[0]) | uint64(b[1])<<8
}

// PutV encodes v into b as a V-sized little-endian unsigned integer.
// v is truncated to VMax if it does not fit.
func PutV(b []byte, v uint64) {
	_ = b[1]
	if v > VMax {
		v = VMax
	}
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
