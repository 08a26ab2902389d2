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

// Command throttrd is the process entry point: cobra CLI surface, viper
// configuration binding, and the wiring between config, state and server
// spec.md §6 describes.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cfgpkg "github.com/throttr/throttr-go/config"
	cptlistener "github.com/throttr/throttr-go/config/components/listener"
	cptlog "github.com/throttr/throttr-go/config/components/log"
	cptmetrics "github.com/throttr/throttr-go/config/components/metrics"
	cptstorage "github.com/throttr/throttr-go/config/components/storage"
	"github.com/throttr/throttr-go/server"
	"github.com/throttr/throttr-go/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := cfgpkg.New(nil)

	lis := cptlistener.New()
	strg := cptstorage.New()
	lg := cptlog.New()
	met := cptmetrics.New()

	cfg.Register(lg)
	cfg.Register(strg)
	cfg.Register(lis)
	cfg.Register(met)

	cmd := &cobra.Command{
		Use:          "throttrd",
		Short:        "in-memory key-value and counter store with TTL semantics",
		SilenceUsage: true,
	}

	if err := cfg.RegisterFlag(cmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	exit := 0
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.Viper().BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		exit = serve(cfg, lis, strg, lg, met)
		return nil
	}

	if err := cmd.Execute(); err != nil {
		return 1
	}
	return exit
}

func serve(cfg *cfgpkg.Config, lis *cptlistener.Component, strg *cptstorage.Component, lg *cptlog.Component, met *cptmetrics.Component) int {
	if err := cfg.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	st, sErr := state.New(state.Config{
		Role:            strg.Role(),
		PersistencePath: strg.PersistencePath(),
		Workers:         lis.Workers(),
		Log:             lg.Logger(),
	})
	if sErr != nil {
		fmt.Fprintln(os.Stderr, sErr)
		cfg.Stop()
		return 1
	}

	met.Bind(st.Process(), st)

	srv, lErr := server.New(lis.Network(), st, lg.Logger())
	if lErr != nil {
		fmt.Fprintln(os.Stderr, lErr)
		cfg.Stop()
		return 1
	}

	ctx := cfg.Context()
	done := make(chan struct{})
	go func() {
		_ = srv.Serve(ctx)
		close(done)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	srv.Stop()
	<-done

	if err := st.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cfg.Stop()
		return 1
	}

	cfg.Stop()
	return 0
}
