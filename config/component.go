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

package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Component is one independently startable/stoppable piece of the process
// (listener, storage, logging). Start order follows registration order;
// Stop runs in reverse, the same forward/reverse discipline the teacher's
// config.Component uses for its dependency-ordered lifecycle, simplified
// here to pure registration order since throttr-go's components have no
// cross-dependencies to topologically sort.
type Component interface {
	// Name identifies the component in logs and flag registration.
	Name() string
	// RegisterFlag lets the component add its own CLI flags before parsing.
	RegisterFlag(cmd *cobra.Command) error
	// Start reads cfg via v and brings the component up.
	Start(v *viper.Viper) error
	// Stop tears the component down. Best-effort: it does not return an
	// error, matching spec.md §5's "this method does not return errors"
	// discipline for cleanup paths.
	Stop()
}
