// Package status implements the server-list ping exchange: a single
// request/response round trip followed by an echoed ping/pong.
package status

import (
	"io"

	"github.com/hearthvale/beacon/proto"
)

const (
	PacketIDRequest  = 0x00
	PacketIDPing     = 0x01
	PacketIDResponse = 0x00
	PacketIDPong     = 0x01
)

// Version describes the server's reported protocol/game version pair.
type Version struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// SamplePlayer is one entry in the player sample list shown in the
// server's multiplayer-menu tooltip.
type SamplePlayer struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Players carries the player-count summary and sample list.
type Players struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []SamplePlayer `json:"sample"`
}

// Description is the MOTD, using the simple chat-component shape
// (`{"text": "..."}`) rather than the full styled-component tree —
// nothing in this server's scope produces colored or multi-part MOTDs.
type Description struct {
	Text string `json:"text"`
}

// Response is the JSON payload sent back for a status Request. Favicon
// is an optional base64 "data:image/png;base64,..." URI; the original
// server carries this field even though the distilled feature list only
// calls out version/players/description.
type Response struct {
	Version     Version     `json:"version"`
	Players     Players     `json:"players"`
	Description Description `json:"description"`
	Favicon     string      `json:"favicon,omitempty"`
}

// ReadRequest consumes the empty-bodied status Request packet. There is
// nothing to decode; the call exists so callers have a symmetric
// Read/Write pair to reason about per packet type.
func ReadRequest(frame proto.Frame) error {
	return nil
}

// WriteResponse writes the Response packet as a JSON string payload.
func WriteResponse(w io.Writer, resp Response) error {
	return proto.WritePacket(w, PacketIDResponse, jsonField{v: resp})
}

// jsonField adapts an arbitrary JSON-able value to io.WriterTo so it can
// be passed through WritePacket alongside typed scalar fields.
type jsonField struct{ v any }

func (j jsonField) WriteTo(w io.Writer) (int64, error) {
	return proto.WriteJSON(w, j.v)
}

// ReadPing decodes the Ping packet's echoed payload.
func ReadPing(frame proto.Frame) (int64, error) {
	return proto.ReadInt64(frame.Data)
}

// WritePong writes the Pong response, echoing payload verbatim.
func WritePong(w io.Writer, payload int64) error {
	return proto.WritePacket(w, PacketIDPong, proto.Int64(payload))
}
