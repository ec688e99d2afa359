// Package login implements the login phase: username intake, the
// optional HMAC-authenticated modern-forwarding handshake, and the
// LoginSuccess response that hands the connection to Play.
package login

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"io"

	"github.com/hearthvale/beacon/proto"
)

const (
	PacketIDLoginStart          = 0x00
	PacketIDLoginPluginResponse = 0x02
	PacketIDLoginSuccess        = 0x02
	PacketIDLoginPluginRequest  = 0x04
)

// ForwardingChannel is the plugin-message channel used to request the
// proxy's forwarded identity payload.
const ForwardingChannel = "velocity:player_info"

// ForwardingMessageID is the fixed message id for the single
// LoginPluginRequest this server ever sends.
const ForwardingMessageID = 1

// StartPacket is the incoming LoginStart packet.
type StartPacket struct {
	Username string
}

// ReadStart decodes LoginStart, username capped at 16 bytes.
func ReadStart(frame proto.Frame) (StartPacket, error) {
	username, err := proto.ReadString(frame.Data, 16)
	if err != nil {
		return StartPacket{}, err
	}
	return StartPacket{Username: username}, nil
}

// PluginResponse is the incoming LoginPluginResponse packet.
type PluginResponse struct {
	MessageID  int32
	Successful bool
	Data       []byte
}

// ReadPluginResponse decodes LoginPluginResponse. Data is only present
// (and only meaningful) when Successful is true; the remainder of the
// frame is read verbatim as raw bytes either way.
func ReadPluginResponse(frame proto.Frame) (PluginResponse, error) {
	messageID, err := proto.ReadVarInt(frame.Data)
	if err != nil {
		return PluginResponse{}, err
	}
	successful, err := proto.ReadBool(frame.Data)
	if err != nil {
		return PluginResponse{}, err
	}
	data, err := io.ReadAll(frame.Data)
	if err != nil {
		return PluginResponse{}, wrapErr(err)
	}
	return PluginResponse{MessageID: messageID, Successful: successful, Data: data}, nil
}

func wrapErr(err error) error {
	if pe, ok := err.(*proto.Error); ok {
		return pe
	}
	return err
}

// ForwardedIdentity is the payload carried inside a verified
// modern-forwarding plugin response.
type ForwardedIdentity struct {
	Version       int32
	ClientAddress string
	UUID          proto.UUID
	Username      string
}

// VerifyForwarding checks data's leading 32-byte HMAC-SHA256 signature
// against key in constant time, then decodes the remaining payload. It
// mirrors the original's split of data into sig=data[0:32],
// payload=data[32:] and its constant-time comparison discipline.
func VerifyForwarding(key []byte, data []byte) (ForwardedIdentity, bool, error) {
	if len(data) < sha256.Size {
		return ForwardedIdentity{}, false, nil
	}
	sig := data[:sha256.Size]
	payload := data[sha256.Size:]

	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if subtle.ConstantTimeCompare(sig, expected) != 1 {
		return ForwardedIdentity{}, false, nil
	}

	r := byteReader{payload}
	version, err := proto.ReadVarInt(&r)
	if err != nil {
		return ForwardedIdentity{}, false, err
	}
	addr, err := proto.ReadString(&r, 32767)
	if err != nil {
		return ForwardedIdentity{}, false, err
	}
	uuid, err := proto.ReadUUID(&r)
	if err != nil {
		return ForwardedIdentity{}, false, err
	}
	username, err := proto.ReadString(&r, 16)
	if err != nil {
		return ForwardedIdentity{}, false, err
	}
	return ForwardedIdentity{
		Version:       version,
		ClientAddress: addr,
		UUID:          uuid,
		Username:      username,
	}, true, nil
}

// byteReader adapts a plain byte slice into an io.Reader that advances
// as it's consumed, letting VerifyForwarding reuse proto's ReadXxx
// functions directly against the payload slice.
type byteReader struct {
	b []byte
}

func (r *byteReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}

// WriteSuccess writes the LoginSuccess packet.
func WriteSuccess(w io.Writer, id proto.UUID, username string) error {
	return proto.WritePacket(w, PacketIDLoginSuccess, id, usernameField(username))
}

type usernameField string

func (u usernameField) WriteTo(w io.Writer) (int64, error) {
	return proto.WriteString(w, string(u), 16)
}

// WritePluginRequest writes the LoginPluginRequest that kicks off the
// modern-forwarding handshake.
func WritePluginRequest(w io.Writer, messageID int32, channel string, data []byte) error {
	return proto.WritePacket(w, PacketIDLoginPluginRequest,
		proto.VarInt(messageID), channelField(channel), rawBytes(data))
}

type channelField string

func (c channelField) WriteTo(w io.Writer) (int64, error) {
	return proto.WriteString(w, string(c), 32767)
}

type rawBytes []byte

func (b rawBytes) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b)
	return int64(n), err
}
