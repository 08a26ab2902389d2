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

// Opcode identifies the one-byte tag every frame opens with.
type Opcode uint8

const (
	Insert      Opcode = 0x01
	Query       Opcode = 0x02
	Update      Opcode = 0x03
	Purge       Opcode = 0x04
	Set         Opcode = 0x05
	Get         Opcode = 0x06
	List        Opcode = 0x07
	Info        Opcode = 0x08
	Stat        Opcode = 0x09
	Stats       Opcode = 0x0A
	Subscribe   Opcode = 0x0B
	Unsubscribe Opcode = 0x0C
	Publish     Opcode = 0x0D
	Channel     Opcode = 0x0E
	Channels    Opcode = 0x0F
	Whoami      Opcode = 0x10
	Connection  Opcode = 0x11
	Connections Opcode = 0x12
	Event       Opcode = 0x13
)

// NumOpcodes is the count of request-side opcodes (Insert..Connections),
// used to size the per-connection and per-process per-opcode accumulator
// arrays (spec.md §4.3's "eighteen per-opcode accumulators").
const NumOpcodes = 18

// Index returns the zero-based slot this opcode occupies in a NumOpcodes-wide
// accumulator array. Event (0x13, server→client only) has no slot of its own.
func (o Opcode) Index() (int, bool) {
	if o < Insert || o > Connections {
		return 0, false
	}
	return int(o - Insert), true
}

func (o Opcode) String() string {
	switch o {
	case Insert:
		return "insert"
	case Query:
		return "query"
	case Update:
		return "update"
	case Purge:
		return "purge"
	case Set:
		return "set"
	case Get:
		return "get"
	case List:
		return "list"
	case Info:
		return "info"
	case Stat:
		return "stat"
	case Stats:
		return "stats"
	case Subscribe:
		return "subscribe"
	case Unsubscribe:
		return "unsubscribe"
	case Publish:
		return "publish"
	case Channel:
		return "channel"
	case Channels:
		return "channels"
	case Whoami:
		return "whoami"
	case Connection:
		return "connection"
	case Connections:
		return "connections"
	case Event:
		return "event"
	default:
		return "unknown"
	}
}

// StatusFail and StatusOK are the two leading response bytes spec.md §4.1
// defines: every response starts with one of these.
const (
	StatusFail byte = 0x00
	StatusOK   byte = 0x01
)
