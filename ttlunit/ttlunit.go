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

// Package ttlunit turns the single byte a frame carries for ttl_unit into the
// arithmetic the storage engine needs: an absolute expires_at and a magnitude
// expressed back in that same unit for the remaining-TTL wire fields.
//
// It is built directly on top of the duration package's Duration arithmetic
// rather than re-deriving time.Duration math, the same way the rest of this
// module leans on duration.Duration wherever an elapsed or remaining time has
// to cross a byte boundary.
package ttlunit

import (
	"time"

	libdur "github.com/throttr/throttr-go/duration"
	liberr "github.com/throttr/throttr-go/errors"
)

// Unit is the wire representation of a ttl_unit byte.
type Unit uint8

const (
	Nanoseconds Unit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
	Hours
)

const (
	codeUnknownUnit liberr.CodeError = liberr.MinPkgWire + iota
)

func init() {
	liberr.RegisterIdFctMessage(codeUnknownUnit, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case codeUnknownUnit:
		return "unknown ttl_unit byte"
	default:
		return liberr.NullMessage
	}
}

// Valid reports whether u is one of the six wire-defined units.
func (u Unit) Valid() bool {
	return u <= Hours
}

// String names the unit the way spec.md §2's GLOSSARY names it.
func (u Unit) String() string {
	switch u {
	case Nanoseconds:
		return "nanoseconds"
	case Microseconds:
		return "microseconds"
	case Milliseconds:
		return "milliseconds"
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	default:
		return "unknown"
	}
}

// Duration converts a magnitude expressed in u units into a duration.Duration.
func (u Unit) Duration(magnitude uint64) (libdur.Duration, liberr.Error) {
	switch u {
	case Nanoseconds:
		return libdur.ParseDuration(time.Duration(magnitude)), nil
	case Microseconds:
		return libdur.ParseDuration(time.Duration(magnitude) * time.Microsecond), nil
	case Milliseconds:
		return libdur.ParseDuration(time.Duration(magnitude) * time.Millisecond), nil
	case Seconds:
		return libdur.Seconds(int64(magnitude)), nil
	case Minutes:
		return libdur.Minutes(int64(magnitude)), nil
	case Hours:
		return libdur.Hours(int64(magnitude)), nil
	default:
		return 0, codeUnknownUnit.Error()
	}
}

// ExpiresAt returns the absolute instant magnitude units from now expires at.
func (u Unit) ExpiresAt(now time.Time, magnitude uint64) (time.Time, liberr.Error) {
	d, err := u.Duration(magnitude)
	if err != nil {
		return now, err
	}

	return now.Add(d.Time()), nil
}

// Remaining converts the time left until expiresAt back into a magnitude
// expressed in u units, floored at zero. It never returns a negative value:
// an already-past expiresAt yields 0, the same value an expired-but-not-yet-
// swept entry would report to a racing query.
func (u Unit) Remaining(now, expiresAt time.Time) (uint64, liberr.Error) {
	left := expiresAt.Sub(now)
	if left <= 0 {
		return 0, nil
	}

	d := libdur.ParseDuration(left)

	switch u {
	case Nanoseconds:
		return uint64(d.Time().Nanoseconds()), nil
	case Microseconds:
		return uint64(d.Time().Microseconds()), nil
	case Milliseconds:
		return uint64(d.Time().Milliseconds()), nil
	case Seconds:
		return uint64(d.Time().Seconds()), nil
	case Minutes:
		return uint64(d.Time().Minutes()), nil
	case Hours:
		return uint64(d.Time().Hours()), nil
	default:
		return 0, codeUnknownUnit.Error()
	}
}
