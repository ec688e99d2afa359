// Package server drives the per-connection protocol state machine:
// handshake phase routing into status or login, and login's optional
// modern-forwarding handshake before handing off to the play loop.
package server

import (
	"net"

	"github.com/sirupsen/logrus"

	"github.com/hearthvale/beacon/store"
)

// DefaultAddr is the bind address used when none is configured.
const DefaultAddr = "127.0.0.1:25566"

// ProtocolVersion is the wire protocol version this server speaks.
// Handshakes declaring any other version are logged and dropped.
const ProtocolVersion = 757

// Server owns the shared world store and the TCP listener driving
// connections against it.
type Server struct {
	store store.Store
	log   *logrus.Logger
}

// New builds a Server over store, logging through log.
func New(st store.Store, log *logrus.Logger) *Server {
	return &Server{store: st, log: log}
}

// ListenAndServe binds addr and accepts connections until the listener
// errors. Each accepted connection runs on its own goroutine and is
// independently fault-isolated: one connection's error never stops the
// accept loop.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.log.WithField("addr", ln.Addr().String()).Info("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	peer := conn.RemoteAddr().String()
	log := s.log.WithField("peer", peer)
	log.Info("accepted connection")

	if err := s.runConnection(conn, log); err != nil {
		log.WithError(err).Warn("connection closed")
		return
	}
	log.Info("connection closed cleanly")
}
