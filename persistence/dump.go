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
	"github.com/throttr/throttr-go/wire"
)

// Dump writes every entry currently in idx to path, in the format spec.md §6
// fixes. It is best-effort: a write failure is returned for the caller to log,
// never panics, and never partially corrupts a *previous* successful dump
// (writes go to a temp file, renamed into place only on success).
func Dump(idx *storage.Index, path string) liberr.Error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return codeWrite.Error(err)
	}

	w := bufio.NewWriter(f)
	entries := idx.Snapshot()

	if wErr := writeHeader(w, len(entries)); wErr != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return codeWrite.Error(wErr)
	}

	for _, wr := range entries {
		if wErr := writeEntry(w, wr); wErr != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return codeWrite.Error(wErr)
		}
	}

	if wErr := w.Flush(); wErr != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return codeWrite.Error(wErr)
	}
	if wErr := f.Close(); wErr != nil {
		_ = os.Remove(tmp)
		return codeWrite.Error(wErr)
	}

	if wErr := os.Rename(tmp, path); wErr != nil {
		return codeWrite.Error(wErr)
	}
	return nil
}

func writeHeader(w io.Writer, count int) error {
	var hdr [4 + 1 + 1 + 4]byte
	copy(hdr[0:4], Magic[:])
	hdr[4] = FormatVersion
	hdr[5] = byte(wire.VSize)
	binary.LittleEndian.PutUint32(hdr[6:10], uint32(count))
	_, err := w.Write(hdr[:])
	return err
}

func writeEntry(w io.Writer, wr *entry.Wrapper) error {
	var keyHdr [2]byte
	binary.LittleEndian.PutUint16(keyHdr[:], uint16(len(wr.Key)))
	if _, err := w.Write(keyHdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(wr.Key); err != nil {
		return err
	}

	var fixed [8 + 1 + 1]byte
	binary.LittleEndian.PutUint64(fixed[0:8], uint64(wr.Entry.ExpiresAtNs()))
	fixed[8] = uint8(wr.Entry.Kind)
	fixed[9] = uint8(wr.Entry.TTLUnit)
	if _, err := w.Write(fixed[:]); err != nil {
		return err
	}

	var metrics [6 * 8]byte
	binary.LittleEndian.PutUint64(metrics[0:8], wr.Entry.Metrics.Reads.Load())
	binary.LittleEndian.PutUint64(metrics[8:16], wr.Entry.Metrics.Writes.Load())
	binary.LittleEndian.PutUint64(metrics[16:24], wr.Entry.Metrics.ReadsAccumulator.Load())
	binary.LittleEndian.PutUint64(metrics[24:32], wr.Entry.Metrics.WritesAccumulator.Load())
	binary.LittleEndian.PutUint64(metrics[32:40], wr.Entry.Metrics.ReadsPerMinute.Load())
	binary.LittleEndian.PutUint64(metrics[40:48], wr.Entry.Metrics.WritesPerMinute.Load())
	if _, err := w.Write(metrics[:]); err != nil {
		return err
	}

	if wr.Entry.Kind == entry.KindRaw {
		value := wr.Entry.Value.Load()
		sizeField := make([]byte, wire.VSize)
		wire.PutV(sizeField, uint64(len(value)))
		if _, err := w.Write(sizeField); err != nil {
			return err
		}
		if _, err := w.Write(value); err != nil {
			return err
		}
		return nil
	}

	counterField := make([]byte, wire.VSize)
	wire.PutV(counterField, wr.Entry.Counter.Load())
	_, err := w.Write(counterField)
	return err
}
