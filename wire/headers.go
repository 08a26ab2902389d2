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

// Every Parse* function below assumes frame was already sized by SizeOf and
// holds exactly one full frame, opcode byte included; they do not re-check
// length. Key/Channel/Value fields are slices into frame itself (no copy) --
// callers that need them to outlive the read buffer must copy explicitly.

// InsertFrame is opcode 0x01.
type InsertFrame struct {
	Quota   uint64
	TTLUnit uint8
	TTL     uint64
	Key     []byte
}

func ParseInsert(frame []byte) InsertFrame {
	quota := ReadV(frame[1 : 1+VSize])
	ttlUnit := frame[1+VSize]
	ttl := ReadV(frame[2+VSize : 2+2*VSize])
	keySize := int(frame[2+2*VSize])
	key := frame[3+2*VSize : 3+2*VSize+keySize]

	return InsertFrame{Quota: quota, TTLUnit: ttlUnit, TTL: ttl, Key: key}
}

// KeyFrame covers the opcodes whose only field is a trailing key/channel:
// query, purge, get, stat, subscribe, unsubscribe, channel.
type KeyFrame struct {
	Key []byte
}

func ParseKeyFrame(frame []byte) KeyFrame {
	keySize := int(frame[1])
	return KeyFrame{Key: frame[2 : 2+keySize]}
}

// UpdateFrame is opcode 0x03.
type UpdateFrame struct {
	Attribute uint8
	Change    uint8
	Value     uint64
	TTLUnit   uint8
	Key       []byte
}

func ParseUpdate(frame []byte) UpdateFrame {
	attribute := frame[1]
	change := frame[2]
	value := ReadV(frame[3 : 3+VSize])
	ttlUnit := frame[3+VSize]
	keySize := int(frame[4+VSize])
	key := frame[5+VSize : 5+VSize+keySize]

	return UpdateFrame{Attribute: attribute, Change: change, Value: value, TTLUnit: ttlUnit, Key: key}
}

// SetFrame is opcode 0x05.
type SetFrame struct {
	TTLUnit uint8
	TTL     uint64
	Key     []byte
	Value   []byte
}

func ParseSet(frame []byte) SetFrame {
	ttlUnit := frame[1]
	ttl := ReadV(frame[2 : 2+VSize])
	keySize := int(frame[2+VSize])
	valueSize := int(ReadV(frame[3+VSize : 3+2*VSize]))

	headerLen := 3 + 2*VSize
	key := frame[headerLen : headerLen+keySize]
	value := frame[headerLen+keySize : headerLen+keySize+valueSize]

	return SetFrame{TTLUnit: ttlUnit, TTL: ttl, Key: key, Value: value}
}

// PublishFrame covers both opcode 0x0D (publish, client→server) and 0x13
// (event, server→client), which share a layout.
type PublishFrame struct {
	Channel []byte
	Value   []byte
}

func ParsePublish(frame []byte) PublishFrame {
	channelSize := int(frame[1])
	valueSize := int(ReadV(frame[2 : 2+VSize]))

	headerLen := 2 + VSize
	channel := frame[headerLen : headerLen+channelSize]
	value := frame[headerLen+channelSize : headerLen+channelSize+valueSize]

	return PublishFrame{Channel: channel, Value: value}
}

// ConnectionFrame is opcode 0x11.
type ConnectionFrame struct {
	ID [16]byte
}

func ParseConnectionFrame(frame []byte) ConnectionFrame {
	var f ConnectionFrame
	copy(f.ID[:], frame[1:17])
	return f
}
