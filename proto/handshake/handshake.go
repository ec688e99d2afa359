// Package handshake implements the protocol's single entry packet: the
// one that tells the server which address the client dialed and which
// phase it wants to enter next.
package handshake

import (
	"github.com/hearthvale/beacon/proto"
)

// NextState is the handshake's requested follow-up phase.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

// PacketID is the only packet id ever legal in the handshake phase.
const PacketID = 0x00

// Packet is the sole incoming handshake packet.
type Packet struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       NextState
}

// Read decodes a handshake packet body. The caller is responsible for
// having already checked the frame's packet id is PacketID; any other
// id reaching a handshake phase handler is a MissingHandshake error at
// the connection driver level, not here.
func Read(frame proto.Frame) (Packet, error) {
	version, err := proto.ReadVarInt(frame.Data)
	if err != nil {
		return Packet{}, err
	}
	addr, err := proto.ReadString(frame.Data, 255)
	if err != nil {
		return Packet{}, err
	}
	port, err := proto.ReadUint16(frame.Data)
	if err != nil {
		return Packet{}, err
	}
	next, err := proto.ReadVarInt(frame.Data)
	if err != nil {
		return Packet{}, err
	}
	if next != int32(NextStateStatus) && next != int32(NextStateLogin) {
		return Packet{}, proto.InvalidEnumValue(next)
	}
	return Packet{
		ProtocolVersion: version,
		ServerAddress:   addr,
		ServerPort:      port,
		NextState:       NextState(next),
	}, nil
}
