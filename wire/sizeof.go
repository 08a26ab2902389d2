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

import (
	liberr "github.com/throttr/throttr-go/errors"
)

const (
	codeUnknownOpcode liberr.CodeError = liberr.MinPkgWire + 10 + iota
	codeFrameTooLarge
)

func init() {
	liberr.RegisterIdFctMessage(codeUnknownOpcode, sizeofMessage)
}

func sizeofMessage(code liberr.CodeError) string {
	switch code {
	case codeUnknownOpcode:
		return "unknown opcode"
	case codeFrameTooLarge:
		return "frame length exceeds the maximum a V-sized length field can carry"
	default:
		return liberr.NullMessage
	}
}

// ErrUnknownOpcode is returned by SizeOf when buf[0] is not one of the
// request-side opcodes. It is distinct from "not enough bytes yet" (0, nil):
// an unknown opcode is a framing error that must close the connection per
// spec.md §7, while a short buffer is simply "read more and retry".
var ErrUnknownOpcode = codeUnknownOpcode.Error()

// SizeOf is the pure function spec.md §4.1 calls size_of(opcode, bytes).
// It inspects buf (which must start at the opcode byte) and returns the full
// length of the frame, opcode byte included. It returns (0, nil) when buf
// does not yet hold enough bytes to determine the length — the caller should
// read more and retry. It returns (0, ErrUnknownOpcode) when buf[0] is not a
// recognized request opcode, signaling the connection must be closed.
func SizeOf(buf []byte) (int, liberr.Error) {
	if len(buf) < 1 {
		return 0, nil
	}

	op := Opcode(buf[0])

	switch op {
	case Insert:
		// opcode, quota(V), ttl_unit(1), ttl(V), key_size(1) -- key_size is the last header byte.
		return sizeOfKeyTrailer(buf, 1+VSize+1+VSize)
	case Query, Purge, Get, Stat:
		// opcode, key_size(1).
		return sizeOfKeyTrailer(buf, 1)
	case Update:
		// opcode, attribute(1), change(1), value(V), ttl_unit(1), key_size(1).
		return sizeOfKeyTrailer(buf, 1+1+1+VSize+1)
	case Set:
		// opcode, ttl_unit(1), ttl(V), key_size(1), value_size(V).
		return sizeOfKeyValueTrailer(buf, 1+1+VSize, 1+1+VSize+1)
	case List, Info, Stats, Channels, Whoami, Connections:
		return 1, nil
	case Subscribe, Unsubscribe, Channel:
		// opcode, channel_size(1).
		return sizeOfKeyTrailer(buf, 1)
	case Publish, Event:
		// opcode, channel_size(1), value_size(V).
		return sizeOfKeyValueTrailer(buf, 1, 1+1)
	case Connection:
		return sizeOfFixed(buf, 1+16)
	default:
		return 0, ErrUnknownOpcode
	}
}

// sizeOfFixed is for opcodes whose total length is constant once the opcode
// byte itself is known (e.g. connection's 16-byte id trailer).
func sizeOfFixed(buf []byte, total int) (int, liberr.Error) {
	if len(buf) < total {
		return 0, nil
	}
	return total, nil
}

// sizeOfKeyTrailer handles the common "fixed header, then a u8 length, then
// that many key/channel bytes" shape shared by insert/query/update/purge/
// subscribe/unsubscribe/channel/stat/get.
//
// lenOffset is the absolute offset from buf[0] (the opcode byte) of the
// trailing key_size/channel_size byte; it is also the number of header bytes
// preceding the trailer once the length byte itself is counted in.
func sizeOfKeyTrailer(buf []byte, lenOffset int) (int, liberr.Error) {
	if len(buf) < lenOffset+1 {
		return 0, nil
	}

	keyLen := int(buf[lenOffset])
	total := lenOffset + 1 + keyLen

	if len(buf) < total {
		return 0, nil
	}

	return total, nil
}

// sizeOfKeyValueTrailer handles set/publish/event: a u8 key/channel length
// followed later by a V-sized value length, both preceding the key-then-value
// trailer. Both offsets are absolute, from buf[0] (the opcode byte).
func sizeOfKeyValueTrailer(buf []byte, keyLenOffset, valueLenOffset int) (int, liberr.Error) {
	if len(buf) < keyLenOffset+1 {
		return 0, nil
	}
	keyLen := int(buf[keyLenOffset])

	if len(buf) < valueLenOffset+VSize {
		return 0, nil
	}
	valueLen := int(ReadV(buf[valueLenOffset : valueLenOffset+VSize]))

	headerLen := valueLenOffset + VSize
	total := headerLen + keyLen + valueLen

	if len(buf) < total {
		return 0, nil
	}

	return total, nil
}
