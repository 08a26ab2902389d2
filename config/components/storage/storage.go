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

// Package storage is the config.Component that resolves the persistence
// dump/restore path and the agent.Role governing whether this node owns
// persistence at all (spec.md §6's "used only when dump/restore is
// enabled", generalized per SPEC_FULL.md's agent.Role supplement).
package storage

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/throttr/throttr-go/agent"
)

// Component resolves --persistence-path and --role into values state.New
// consumes directly.
type Component struct {
	path string
	role agent.Role
}

func New() *Component {
	return &Component{}
}

func (c *Component) Name() string { return "storage" }

func (c *Component) RegisterFlag(cmd *cobra.Command) error {
	cmd.Flags().String("persistence-path", "", "path to dump/restore storage on shutdown/startup")
	cmd.Flags().String("role", "standalone", "agent role: standalone, leader, or follower")
	return nil
}

func (c *Component) Start(v *viper.Viper) error {
	c.path = v.GetString("persistence-path")
	c.role = parseRole(v.GetString("role"))
	return nil
}

func (c *Component) Stop() {}

// PersistencePath returns the resolved dump/restore path, empty when
// persistence is disabled.
func (c *Component) PersistencePath() string { return c.path }

// Role returns the resolved agent.Role.
func (c *Component) Role() agent.Role { return c.role }

func parseRole(s string) agent.Role {
	switch s {
	case "leader":
		return agent.Leader
	case "follower":
		return agent.Follower
	default:
		return agent.Standalone
	}
}
