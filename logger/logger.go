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
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus.Logger, exposing the teacher's Entry-builder
// logging idiom instead of logrus's own fluent API directly.
type Logger struct {
	log *logrus.Logger
}

// FuncLog returns a Logger instance, matching the teacher's dependency-
// injection/lazy-initialization FuncLog type.
type FuncLog func() *Logger

// New returns a Logger writing to out (os.Stdout if nil) at level.
func New(out io.Writer, level Level) *Logger {
	if out == nil {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level.logrus())
	l.SetFormatter(&logrus.JSONFormatter{})

	return &Logger{log: l}
}

// AddHook registers an additional logrus hook (syslog, file, ...) on top
// of the logger's primary output.
func (lg *Logger) AddHook(hook logrus.Hook) {
	lg.log.AddHook(hook)
}

// SetLevel changes the minimum level that will be logged.
func (lg *Logger) SetLevel(level Level) {
	lg.log.SetLevel(level.logrus())
}

// Entry starts a new chainable log record at level with message.
func (lg *Logger) Entry(level Level, message string) *Entry {
	return newEntry(lg.log, level, message)
}
