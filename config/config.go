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

// Package config is the process's component root: a cancellable context, a
// *viper.Viper configuration source, and an ordered registry of Components
// (listener, storage, logging) started together and stopped in reverse.
// Shaped after the teacher's config package (a model bundling context,
// viper and a component map behind Start/Stop/RegisterFlag), generalized
// here to throttr-go's ambient stack instead of an HTTP-service stack.
package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libctx "github.com/throttr/throttr-go/context"
	liberr "github.com/throttr/throttr-go/errors"
)

const (
	codeStart liberr.CodeError = liberr.MinPkgConfig + iota
)

func init() {
	liberr.RegisterIdFctMessage(codeStart, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case codeStart:
		return "config: component start error"
	default:
		return liberr.NullMessage
	}
}

// Config owns the process lifetime context and every registered Component.
type Config struct {
	mu     sync.Mutex
	ctx    libctx.Config[string]
	cancel context.CancelFunc
	viper  *viper.Viper
	order  []string
}

// New builds a Config rooted in parent (context.Background() when nil).
func New(parent context.Context) *Config {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Config{
		ctx:    libctx.New[string](ctx),
		cancel: cancel,
		viper:  viper.New(),
	}
}

// Context returns the cancellable context every Component's blocking work
// should observe.
func (c *Config) Context() context.Context {
	return c.ctx.GetContext()
}

// Viper exposes the bound configuration source, so cmd/throttrd can wire
// cobra flags to it before Start is called.
func (c *Config) Viper() *viper.Viper {
	return c.viper
}

// Register adds a component, started in registration order and stopped in
// the reverse order, the same forward-start/reverse-stop discipline
// spec.md §5's cancellation sequence applies to the process as a whole.
func (c *Config) Register(cpt Component) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ctx.Store(cpt.Name(), cpt)
	c.order = append(c.order, cpt.Name())
}

// RegisterFlag lets every registered component add CLI flags before Start.
func (c *Config) RegisterFlag(cmd *cobra.Command) error {
	for _, name := range c.order {
		cpt := c.component(name)
		if cpt == nil {
			continue
		}
		if err := cpt.RegisterFlag(cmd); err != nil {
			return fmt.Errorf("component %q: register flag: %w", name, err)
		}
	}
	return nil
}

// Start brings every component up in registration order, aborting on the
// first failure (the components already started are left running; the
// caller is expected to call Stop on a failed Start, which is safe to call
// on a partially-started Config).
func (c *Config) Start() liberr.Error {
	for _, name := range c.order {
		cpt := c.component(name)
		if cpt == nil {
			continue
		}
		if err := cpt.Start(c.viper); err != nil {
			return codeStart.Error(err)
		}
	}
	return nil
}

// Stop cancels the root context, then stops every component in reverse
// registration order. The acceptor itself is not a component: cmd/throttrd
// closes it with server.Stop before calling Stop here.
func (c *Config) Stop() {
	c.cancel()

	for i := len(c.order) - 1; i >= 0; i-- {
		cpt := c.component(c.order[i])
		if cpt == nil {
			continue
		}
		cpt.Stop()
	}
}

func (c *Config) component(name string) Component {
	v, ok := c.ctx.Load(name)
	if !ok {
		return nil
	}
	cpt, ok := v.(Component)
	if !ok {
		return nil
	}
	return cpt
}
