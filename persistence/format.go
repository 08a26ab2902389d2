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

// Package persistence implements the best-effort storage dump/restore file
// format of spec.md §6. Dump is invoked at most once, from state.Shutdown's
// cancellation sequence (step 3, "optionally dumps storage to the configured
// path") -- not periodically, per SPEC_FULL.md's supplemented-features note
// on the original's SIGTERM/SIGINT-triggered dump.
package persistence

import (
	liberr "github.com/throttr/throttr-go/errors"
)

// Magic is the 4-byte file header spec.md §6 fixes.
var Magic = [4]byte{'T', 'H', 'R', 'T'}

// FormatVersion is this build's persistence file version byte.
const FormatVersion uint8 = 1

const (
	codeBadMagic liberr.CodeError = liberr.MinPkgPersist + iota
	codeUnsupportedVersion
	codeValueSizeMismatch
	codeTruncated
	codeWrite
)

func init() {
	liberr.RegisterIdFctMessage(codeBadMagic, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case codeBadMagic:
		return "persistence file: bad magic"
	case codeUnsupportedVersion:
		return "persistence file: unsupported version"
	case codeValueSizeMismatch:
		return "persistence file: value-size-code does not match this build's V width"
	case codeTruncated:
		return "persistence file: truncated"
	case codeWrite:
		return "persistence file: write error"
	default:
		return liberr.NullMessage
	}
}
