package server

import (
	"errors"
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/hearthvale/beacon/proto"
	"github.com/hearthvale/beacon/proto/handshake"
	"github.com/hearthvale/beacon/proto/login"
	"github.com/hearthvale/beacon/proto/status"
)

// runConnection reads the single mandatory handshake frame and routes
// the rest of the connection's lifetime to the status or login phase.
// A protocol-version mismatch is logged and the connection is dropped
// without a response, matching vanilla's behavior (the status path
// doesn't require a version match but this server doesn't bother
// distinguishing — a client significantly out of protocol version has
// nothing useful to do here either way).
func (s *Server) runConnection(conn net.Conn, log *logrus.Entry) error {
	frame, err := proto.ReadFrame(conn)
	if err != nil {
		return err
	}
	if frame.PacketID != handshake.PacketID {
		return &proto.Error{Kind: proto.ErrMissingHandshake}
	}
	hs, err := handshake.Read(frame)
	if err != nil {
		return err
	}
	log = log.WithField("next_state", hs.NextState)
	log.WithField("protocol_version", hs.ProtocolVersion).Info("got handshake")

	if hs.ProtocolVersion != ProtocolVersion {
		log.Warn("unsupported protocol version, closing")
		return nil
	}

	switch hs.NextState {
	case handshake.NextStateStatus:
		return s.runStatus(conn, log)
	case handshake.NextStateLogin:
		return s.runLogin(conn, log)
	default:
		return proto.InvalidEnumValue(int32(hs.NextState))
	}
}

func (s *Server) runStatus(conn net.Conn, log *logrus.Entry) error {
	frame, err := proto.ReadFrame(conn)
	if err != nil {
		return err
	}
	if frame.PacketID != status.PacketIDRequest {
		return &proto.Error{Kind: proto.ErrMissingRequest}
	}
	if err := status.ReadRequest(frame); err != nil {
		return err
	}
	if err := status.WriteResponse(conn, s.store.Config().Status); err != nil {
		return err
	}

	frame, err = proto.ReadFrame(conn)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if frame.PacketID != status.PacketIDPing {
		return nil
	}
	payload, err := status.ReadPing(frame)
	if err != nil {
		return err
	}
	return status.WritePong(conn, payload)
}

func (s *Server) runLogin(conn net.Conn, log *logrus.Entry) error {
	frame, err := proto.ReadFrame(conn)
	if err != nil {
		return err
	}
	if frame.PacketID != login.PacketIDLoginStart {
		return proto.InvalidPacketID(frame.PacketID)
	}
	start, err := login.ReadStart(frame)
	if err != nil {
		return err
	}
	log = log.WithField("username", start.Username)

	cfg := s.store.Config()
	var id proto.UUID
	if cfg.ModernForwardingKey == nil {
		id = proto.OfflineUUID(start.Username)
	} else {
		identity, err := s.runForwarding(conn, log, []byte(*cfg.ModernForwardingKey))
		if err != nil {
			return err
		}
		if identity == nil {
			return nil // bad signature or declined; already logged
		}
		id = identity.UUID
		start.Username = identity.Username
		log = log.WithField("username", start.Username)
	}

	if err := login.WriteSuccess(conn, id, start.Username); err != nil {
		return err
	}
	log.WithField("uuid", id).Info("login complete")

	return s.play(conn, log, id)
}

// runForwarding drives the modern-forwarding plugin-message round trip,
// returning nil (with no error) if the proxy declined or the HMAC
// check failed — both are logged and mean "close the connection", not
// "propagate an error".
func (s *Server) runForwarding(conn net.Conn, log *logrus.Entry, key []byte) (*login.ForwardedIdentity, error) {
	if err := login.WritePluginRequest(conn, login.ForwardingMessageID, login.ForwardingChannel, nil); err != nil {
		return nil, err
	}

	frame, err := proto.ReadFrame(conn)
	if err != nil {
		return nil, err
	}
	if frame.PacketID != login.PacketIDLoginPluginResponse {
		return nil, proto.InvalidPacketID(frame.PacketID)
	}
	resp, err := login.ReadPluginResponse(frame)
	if err != nil {
		return nil, err
	}
	if !resp.Successful {
		log.Warn("proxy declined forwarding handshake, closing")
		return nil, nil
	}
	if resp.MessageID != login.ForwardingMessageID {
		log.WithField("message_id", resp.MessageID).Warn("unexpected forwarding message id, closing")
		return nil, nil
	}

	identity, ok, err := login.VerifyForwarding(key, resp.Data)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warn("forwarding HMAC verification failed, closing")
		return nil, nil
	}
	return &identity, nil
}
