/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
 *
 */

// Package log is the config.Component binding --log-level to a constructed
// logger.Logger, shared by every other component and by state.
package log

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/throttr/throttr-go/logger"
)

// Component resolves --log-level into a logger.Logger other components
// read back via Logger.
type Component struct {
	log *logger.Logger
}

func New() *Component {
	return &Component{}
}

func (c *Component) Name() string { return "log" }

func (c *Component) RegisterFlag(cmd *cobra.Command) error {
	cmd.Flags().String("log-level", "info", "panic, fatal, error, warning, info, or debug")
	return nil
}

func (c *Component) Start(v *viper.Viper) error {
	c.log = logger.New(os.Stderr, parseLevel(v.GetString("log-level")))
	return nil
}

func (c *Component) Stop() {}

// Logger returns the constructed logger.
func (c *Component) Logger() *logger.Logger { return c.log }

func parseLevel(s string) logger.Level {
	switch strings.ToLower(s) {
	case "panic":
		return logger.PanicLevel
	case "fatal":
		return logger.FatalLevel
	case "error":
		return logger.ErrorLevel
	case "warning", "warn":
		return logger.WarnLevel
	case "debug":
		return logger.DebugLevel
	default:
		return logger.InfoLevel
	}
}
