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

package handlers

import (
	"github.com/throttr/throttr-go/connection"
	"github.com/throttr/throttr-go/wire"
)

// ConnectionInfo implements opcode 0x11 (wire.Connection): emits status then
// the fixed-width record for the connection named by the request's id, or a
// failure byte if no such connection is currently registered. Named
// ConnectionInfo rather than Connection to avoid shadowing the imported
// connection package within this file.
func ConnectionInfo(d *Deps, frame []byte, batch *wire.Batch) error {
	f := wire.ParseConnectionFrame(frame)

	c, ok := d.Conns.Find(connection.ID(f.ID))
	if !ok {
		batch.Fail()
		return nil
	}

	batch.OK().Stable(buildConnRecord(c))
	return nil
}

// Connections implements opcode 0x12: emits status then a fragmented
// directory of every registered connection's record, same fragmentation
// rule as List (spec.md §4.3).
func Connections(d *Deps, _ []byte, batch *wire.Batch) error {
	var records []fragmentRecord

	d.Conns.Each(func(c *connection.Connection) bool {
		records = append(records, fragmentRecord{Meta: buildConnRecord(c)})
		return true
	})

	batch.OK()
	writeFragmentedDirectory(batch, records)
	return nil
}
