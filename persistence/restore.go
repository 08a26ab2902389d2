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

package persistence

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/throttr/throttr-go/entry"
	liberr "github.com/throttr/throttr-go/errors"
	"github.com/throttr/throttr-go/storage"
	"github.com/throttr/throttr-go/ttlunit"
	"github.com/throttr/throttr-go/wire"
)

// Restore loads every entry dumped to path back into idx. A missing file is
// not an error -- the first run of a fresh deployment has nothing to
// restore -- but a present, malformed file is, since silently ignoring
// corruption would start the node with a partial, un-diagnosable dataset.
func Restore(idx *storage.Index, path string) liberr.Error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return codeTruncated.Error(err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	count, rErr := readHeader(r)
	if rErr != nil {
		return rErr
	}

	for i := uint32(0); i < count; i++ {
		w, rErr := readEntry(r)
		if rErr != nil {
			return rErr
		}
		idx.Insert(w)
	}

	return nil
}

func readHeader(r io.Reader) (uint32, liberr.Error) {
	var hdr [4 + 1 + 1 + 4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, codeTruncated.Error(err)
	}

	if hdr[0] != Magic[0] || hdr[1] != Magic[1] || hdr[2] != Magic[2] || hdr[3] != Magic[3] {
		return 0, codeBadMagic.Error()
	}
	if hdr[4] != FormatVersion {
		return 0, codeUnsupportedVersion.Error()
	}
	if int(hdr[5]) != wire.VSize {
		return 0, codeValueSizeMismatch.Error()
	}

	return binary.LittleEndian.Uint32(hdr[6:10]), nil
}

func readEntry(r io.Reader) (*entry.Wrapper, liberr.Error) {
	var keyHdr [2]byte
	if _, err := io.ReadFull(r, keyHdr[:]); err != nil {
		return nil, codeTruncated.Error(err)
	}
	key := make([]byte, binary.LittleEndian.Uint16(keyHdr[:]))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, codeTruncated.Error(err)
	}

	var fixed [8 + 1 + 1]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, codeTruncated.Error(err)
	}
	expiresAtNs := int64(binary.LittleEndian.Uint64(fixed[0:8]))
	kind := entry.Kind(fixed[8])
	unit := ttlunit.Unit(fixed[9])

	var metrics [6 * 8]byte
	if _, err := io.ReadFull(r, metrics[:]); err != nil {
		return nil, codeTruncated.Error(err)
	}

	var e *entry.Entry
	if kind == entry.KindRaw {
		sizeField := make([]byte, wire.VSize)
		if _, err := io.ReadFull(r, sizeField); err != nil {
			return nil, codeTruncated.Error(err)
		}
		value := make([]byte, wire.ReadV(sizeField))
		if _, err := io.ReadFull(r, value); err != nil {
			return nil, codeTruncated.Error(err)
		}
		e = entry.NewRaw(value, unit, expiresAtNs)
	} else {
		counterField := make([]byte, wire.VSize)
		if _, err := io.ReadFull(r, counterField); err != nil {
			return nil, codeTruncated.Error(err)
		}
		e = entry.NewCounter(wire.ReadV(counterField), unit, expiresAtNs)
	}

	e.Metrics.Reads.Store(binary.LittleEndian.Uint64(metrics[0:8]))
	e.Metrics.Writes.Store(binary.LittleEndian.Uint64(metrics[8:16]))
	e.Metrics.ReadsAccumulator.Store(binary.LittleEndian.Uint64(metrics[16:24]))
	e.Metrics.WritesAccumulator.Store(binary.LittleEndian.Uint64(metrics[24:32]))
	e.Metrics.ReadsPerMinute.Store(binary.LittleEndian.Uint64(metrics[32:40]))
	e.Metrics.WritesPerMinute.Store(binary.LittleEndian.Uint64(metrics[40:48]))

	return entry.NewWrapper(key, e), nil
}
