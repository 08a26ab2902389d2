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

// Package metrics is the optional config.Component that serves the
// process's metrics.Collector under /metrics, per SPEC_FULL.md's domain
// stack note on prometheus/client_golang. It is registered last and
// started only once state already exists, since it wraps a Sampler the
// other components don't have -- cmd/throttrd calls Bind after state.New
// instead of relying on Component.Start to reach into state.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libmet "github.com/throttr/throttr-go/metrics"
)

// Component serves a prometheus.Collector over HTTP on --metrics-addr. It
// is a stdlib net/http.Server rather than the teacher's full httpserver
// package on purpose: a single always-on /metrics handler has none of
// httpserver's multi-vhost/TLS-reload/monitor-pool surface, so reaching for
// that machinery here would add unused knobs rather than remove code.
type Component struct {
	addr    string
	enabled bool
	srv     *http.Server
}

func New() *Component {
	return &Component{}
}

func (c *Component) Name() string { return "metrics" }

func (c *Component) RegisterFlag(cmd *cobra.Command) error {
	cmd.Flags().String("metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")
	return nil
}

func (c *Component) Start(v *viper.Viper) error {
	c.addr = v.GetString("metrics-addr")
	c.enabled = c.addr != ""
	return nil
}

// Bind wires process into a prometheus.Collector and starts listening, once
// the caller has a *libmet.Process/Sampler pair to hand it (i.e. after
// state.New). A no-op when --metrics-addr was not set.
func (c *Component) Bind(process *libmet.Process, sample libmet.Sampler) {
	if !c.enabled {
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(libmet.NewCollector(process, sample))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	c.srv = &http.Server{Addr: c.addr, Handler: mux}
	go func() {
		_ = c.srv.ListenAndServe()
	}()
}

func (c *Component) Stop() {
	if c.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.srv.Shutdown(ctx)
}
