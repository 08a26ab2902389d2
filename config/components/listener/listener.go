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

// Package listener is the config.Component that owns spec.md §6's single
// listening endpoint: exactly one of --port or --socket, plus the worker
// pool size (--threads, overridable by the THREADS environment variable).
package listener

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/throttr/throttr-go/server"
)

// Component binds --port/--socket/--threads and builds the server.Network
// + worker count the rest of the process needs at Start.
type Component struct {
	net     server.Network
	workers int
}

func New() *Component {
	return &Component{}
}

func (c *Component) Name() string { return "listener" }

func (c *Component) RegisterFlag(cmd *cobra.Command) error {
	cmd.Flags().Uint16("port", 0, "TCP port to listen on")
	cmd.Flags().String("socket", "", "Unix domain socket path to listen on")
	cmd.Flags().Int("threads", runtime.GOMAXPROCS(0), "worker pool size (THREADS env overrides)")
	return nil
}

// Start validates the port/socket choice (spec.md §6: "mutually exclusive")
// and records the worker count; it does not open the listener itself --
// that is server.New's job, called from cmd/throttrd once every component
// has started.
func (c *Component) Start(v *viper.Viper) error {
	_ = v.BindEnv("threads", "THREADS")

	port := uint16(v.GetUint("port"))
	socket := v.GetString("socket")
	threads := v.GetInt("threads")

	if port != 0 && socket != "" {
		return fmt.Errorf("listener: --port and --socket are mutually exclusive")
	}
	if port == 0 && socket == "" {
		return fmt.Errorf("listener: one of --port or --socket is required")
	}
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	c.net = server.Network{Port: port, Socket: socket}
	c.workers = threads
	return nil
}

func (c *Component) Stop() {}

// Network returns the validated transport choice, for server.New.
func (c *Component) Network() server.Network { return c.net }

// Workers returns the resolved worker pool size, for bufferpool.NewShardedPools.
func (c *Component) Workers() int { return c.workers }
