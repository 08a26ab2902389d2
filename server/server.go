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

// Package server owns the single listening endpoint spec.md §6 requires
// ("a running instance exposes exactly one listening endpoint") and the
// first step of spec.md §5's cancellation sequence: stopping the acceptor
// (step 1). Stop waits only for in-flight accept handoffs, not for accepted
// connections to finish serving. Steps 2-3 belong to state.Shutdown, which
// cmd/throttrd calls after Stop returns.
package server

import (
	"context"
	"net"
	"os"
	"sync"

	"github.com/throttr/throttr-go/connection"
	liberr "github.com/throttr/throttr-go/errors"
	"github.com/throttr/throttr-go/logger"
)

const (
	codeListen liberr.CodeError = liberr.MinPkgServer + iota
	codeAlreadyRunning
)

func init() {
	liberr.RegisterIdFctMessage(codeListen, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case codeListen:
		return "server: listen error"
	case codeAlreadyRunning:
		return "server: already running"
	default:
		return liberr.NullMessage
	}
}

// Acceptor is implemented by state: one call per freshly accepted socket.
type Acceptor interface {
	Accept(ctx context.Context, c net.Conn, kind connection.Kind)
}

// Network selects exactly one of the two transports spec.md §6 allows.
type Network struct {
	// Port is the TCP port to listen on when Socket is empty. Zero binds any
	// free port.
	Port uint16
	// Socket is the filesystem path of a Unix domain stream socket. Empty
	// means "use Port instead."
	Socket string
}

// Server owns the process's single net.Listener and the goroutine group
// accepting connections from it.
type Server struct {
	mu       sync.Mutex
	ln       net.Listener
	kind     connection.Kind
	running  bool
	wg       sync.WaitGroup
	log      *logger.Logger
	acceptor Acceptor
}

// New opens the listener for net: a Unix socket when Socket is set (Port is
// then ignored), otherwise TCP on Port. It does not check that only one of
// the two is set; config/components/listener enforces that rule.
func New(net_ Network, acceptor Acceptor, log *logger.Logger) (*Server, liberr.Error) {
	ln, kind, err := listen(net_)
	if err != nil {
		return nil, codeListen.Error(err)
	}

	return &Server{
		ln:       ln,
		kind:     kind,
		log:      log,
		acceptor: acceptor,
	}, nil
}

func listen(n Network) (net.Listener, connection.Kind, error) {
	if n.Socket != "" {
		_ = os.Remove(n.Socket)
		ln, err := net.Listen("unix", n.Socket)
		return ln, connection.KindLocal, err
	}
	ln, err := net.Listen("tcp", portAddr(n.Port))
	return ln, connection.KindTCP, err
}

func portAddr(port uint16) string {
	return ":" + itoa(port)
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Addr returns the bound listener's address, useful for tests that bind an
// ephemeral TCP port.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve runs the accept loop (spec.md §5's reactor, fed by this acceptor)
// until ctx is canceled or Stop is called. Each accepted socket is handed to
// the Acceptor and this call returns immediately after -- connection
// lifetime is the acceptor's concern, not the listener's.
func (s *Server) Serve(ctx context.Context) liberr.Error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return codeAlreadyRunning.Error()
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	for {
		c, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			if ctx.Err() != nil {
				return nil
			}
			return codeListen.Error(err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.acceptor.Accept(ctx, c, s.kind)
		}()
	}
}

// IsRunning reports whether Serve's accept loop is currently active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop closes the listener, unblocking Serve (step 1 of spec.md §5's
// cancellation sequence), and waits for every in-flight Accept-to-Acceptor
// handoff to finish. It does not itself wait for accepted connections to
// finish serving: step 4 ("connections are closed as their sockets are torn
// down") happens as ctx is canceled, which each connection.Connection.Serve
// loop observes independently.
func (s *Server) Stop() {
	_ = s.ln.Close()
	s.wg.Wait()
}
