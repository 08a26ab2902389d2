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

package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Entry is a chainable log record, mirroring the teacher's
// logger.Entry{FieldAdd, ErrorAdd, DataSet, Log}/Check builder shape.
type Entry struct {
	log     *logrus.Logger
	level   Level
	message string
	fields  logrus.Fields
	errs    []error
}

func newEntry(log *logrus.Logger, level Level, message string) *Entry {
	return &Entry{log: log, level: level, message: message, fields: logrus.Fields{}}
}

// FieldAdd adds one key/value pair to the entry's structured fields.
func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	e.fields[key] = val
	return e
}

// ErrorAdd appends err values to the entry. When cleanNil is true, nil
// errors are skipped rather than appended as a literal nil.
func (e *Entry) ErrorAdd(cleanNil bool, err ...error) *Entry {
	for _, er := range err {
		if cleanNil && er == nil {
			continue
		}
		e.errs = append(e.errs, er)
	}
	return e
}

// Log emits the entry at its level. An entry at NilLevel, or one built
// without an underlying logger, is dropped.
func (e *Entry) Log() {
	if e.log == nil || e.level == NilLevel {
		return
	}

	fields := e.fields
	if len(e.errs) > 0 {
		fields = logrus.Fields{}
		for k, v := range e.fields {
			fields[k] = v
		}
		for i, err := range e.errs {
			if err == nil {
				continue
			}
			if i == 0 {
				fields["error"] = err.Error()
			} else {
				fields[fmt.Sprintf("error_%d", i)] = err.Error()
			}
		}
	}

	e.log.WithFields(fields).Log(e.level.logrus(), e.message)
}

// Check emits the entry unless its level equals skip -- the teacher's
// `.Check(liblog.NilLevel)` idiom for "log this unconditionally" (NilLevel
// never matches a real entry's level) versus `.Check(someLevel)` to
// suppress a specific level's worth of entries at a call site.
func (e *Entry) Check(skip Level) {
	if e.level == skip {
		return
	}
	e.Log()
}
