// Package server owns the TLS listening socket and the per-connection
// protocol sessions.
package server

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/popcatalog/popcatalog-go/internal/service"
)

// Server accepts TLS connections and runs one session per connection.
// Concurrency is unbounded; there is no admission control.
type Server struct {
	addr      string
	tlsConfig *tls.Config
	auth      *service.AuthService
	funkos    *service.FunkoService

	ln        net.Listener
	clientSeq atomic.Int64
}

// New creates a server listening on addr once ListenAndServe is called.
func New(addr string, tlsConfig *tls.Config, auth *service.AuthService, funkos *service.FunkoService) *Server {
	return &Server{addr: addr, tlsConfig: tlsConfig, auth: auth, funkos: funkos}
}

// LoadTLSConfig builds a server TLS config from a PEM certificate/key pair.
func LoadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("loading TLS key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// ListenAndServe binds the listening socket and accepts connections until
// Close is called. A failed accept is fatal and is returned to the caller.
func (s *Server) ListenAndServe() error {
	ln, err := tls.Listen("tcp", s.addr, s.tlsConfig)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.ln = ln
	slog.Info("catalog server listening", "addr", s.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		sess := newSession(conn, s.clientSeq.Add(1), s.auth, s.funkos)
		go sess.run()
	}
}

// Close stops the listener. In-flight sessions finish on their own.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
