// Package play implements the play-phase packet set: the join sequence
// (JoinGame, brand, spawn teleport, chunks, view position), keepalive,
// and the handful of incoming packets this server bothers decoding.
package play

import (
	"io"

	"github.com/hearthvale/beacon/proto"
	"github.com/hearthvale/beacon/world"
)

// Outgoing packet ids.
const (
	PacketIDBlockEntityData    = 0x0a
	PacketIDCustomPayload      = 0x18
	PacketIDKeepAlive          = 0x21
	PacketIDChunkData          = 0x22
	PacketIDJoinGame           = 0x26
	PacketIDPlayerPosAndLook   = 0x38
	PacketIDUpdateViewPosition = 0x49
)

// Incoming packet ids.
const (
	PacketIDTeleportConfirm  = 0x00
	PacketIDClientSettings   = 0x05
	PacketIDIncomingCustom   = 0x0a
	PacketIDIncomingKeepAlive = 0x0f
	PacketIDPlayerPosition          = 0x11
	PacketIDPlayerPosAndRotation    = 0x12
	PacketIDPlayerRotation          = 0x13
)

// BrandChannel is the plugin-message channel carrying the server's
// client-facing brand string.
const BrandChannel = "minecraft:brand"

// Gamemode matches the vanilla gamemode discriminant, written on the
// wire as a single unsigned byte.
type Gamemode int

const (
	GamemodeSurvival Gamemode = iota
	GamemodeCreative
	GamemodeAdventure
	GamemodeSpectator
)

// MarshalJSON/UnmarshalJSON let Gamemode round-trip through config.json
// as its original Rust-enum-variant spelling ("Survival", "Creative",
// ...) rather than a bare integer.
func (g Gamemode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + g.String() + `"`), nil
}

func (g *Gamemode) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	switch s {
	case "Survival":
		*g = GamemodeSurvival
	case "Creative":
		*g = GamemodeCreative
	case "Adventure":
		*g = GamemodeAdventure
	case "Spectator":
		*g = GamemodeSpectator
	default:
		*g = GamemodeSurvival
	}
	return nil
}

func (g Gamemode) String() string {
	switch g {
	case GamemodeCreative:
		return "Creative"
	case GamemodeAdventure:
		return "Adventure"
	case GamemodeSpectator:
		return "Spectator"
	default:
		return "Survival"
	}
}

func (g Gamemode) WriteTo(w io.Writer) (int64, error) {
	return proto.Uint8(g).WriteTo(w)
}

// JoinGameData is the configuration-sourced payload of the JoinGame
// packet, decoded from config.json and re-emitted with entity_id filled
// in per connection.
type JoinGameData struct {
	IsHardcore           bool                  `json:"is_hardcore"`
	Gamemode             Gamemode              `json:"gamemode"`
	PreviousGamemode     Gamemode              `json:"previous_gamemode"`
	DimensionNames       []string              `json:"dimension_names"`
	DimensionCodec       world.DimensionCodec  `json:"dimension_codec"`
	Dimension            world.DimensionType   `json:"dimension"`
	DimensionName        string                `json:"dimension_name"`
	HashedSeed           int64                 `json:"hashed_seed"`
	MaxPlayers           int32                 `json:"max_players"`
	ViewDistance         int32                 `json:"view_distance"`
	SimulationDistance   int32                 `json:"simulation_distance"`
	ReducedDebugInfo     bool                  `json:"reduced_debug_info"`
	EnableRespawnScreen  bool                  `json:"enable_respawn_screen"`
	IsDebug              bool                  `json:"is_debug"`
	IsFlat               bool                  `json:"is_flat"`
}

// stringArray writes a VarInt-prefixed array of length-prefixed
// strings, the shape dimension_names uses on the wire.
type stringArray []string

func (a stringArray) WriteTo(w io.Writer) (int64, error) {
	var n int64
	wn, err := proto.VarInt(len(a)).WriteTo(w)
	n += wn
	if err != nil {
		return n, err
	}
	for _, s := range a {
		wn, err := proto.WriteString(w, s, 32767)
		n += wn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

type nbtField struct{ v any }

func (f nbtField) WriteTo(w io.Writer) (int64, error) {
	return proto.WriteNBT(w, f.v)
}

type stringField struct {
	s      string
	maxLen int
}

func (f stringField) WriteTo(w io.Writer) (int64, error) {
	return proto.WriteString(w, f.s, f.maxLen)
}

// WriteJoinGame writes the JoinGame packet: the entity id this
// connection was assigned, followed by the dimension/gamemode registry
// payload verbatim from config.
func WriteJoinGame(w io.Writer, entityID int32, data JoinGameData) error {
	return proto.WritePacket(w, PacketIDJoinGame,
		proto.Int32(entityID),
		proto.Bool(data.IsHardcore),
		data.Gamemode,
		data.PreviousGamemode,
		stringArray(data.DimensionNames),
		nbtField{data.DimensionCodec},
		nbtField{data.Dimension},
		stringField{data.DimensionName, 32767},
		proto.Int64(data.HashedSeed),
		proto.VarInt(data.MaxPlayers),
		proto.VarInt(data.ViewDistance),
		proto.VarInt(data.SimulationDistance),
		proto.Bool(data.ReducedDebugInfo),
		proto.Bool(data.EnableRespawnScreen),
		proto.Bool(data.IsDebug),
		proto.Bool(data.IsFlat),
	)
}

// WriteBrand writes the CustomPayload packet carrying the server brand
// string on the minecraft:brand channel.
func WriteBrand(w io.Writer, brand string) error {
	return proto.WritePacket(w, PacketIDCustomPayload,
		stringField{BrandChannel, 32767},
		stringField{brand, 32767},
	)
}

// PositionAndLook is the spawn-teleport payload, sent twice during the
// join sequence (see Server.play in package server).
type PositionAndLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      uint8
	TeleportID int32
	Dismount   bool
}

// WritePlayerPositionAndLook writes the PlayerPositionAndLook packet.
func WritePlayerPositionAndLook(w io.Writer, p PositionAndLook) error {
	return proto.WritePacket(w, PacketIDPlayerPosAndLook,
		proto.Float64(p.X), proto.Float64(p.Y), proto.Float64(p.Z),
		proto.Float32(p.Yaw), proto.Float32(p.Pitch),
		proto.Uint8(p.Flags),
		proto.VarInt(p.TeleportID),
		proto.Bool(p.Dismount),
	)
}

// ulongArray writes a VarInt-length-prefixed array of u64s, the shape
// the light-mask fields use — always empty in this server, since it
// never computes real lighting data.
type ulongArray []uint64

func (a ulongArray) WriteTo(w io.Writer) (int64, error) {
	var n int64
	wn, err := proto.VarInt(len(a)).WriteTo(w)
	n += wn
	if err != nil {
		return n, err
	}
	for _, v := range a {
		wn, err := proto.Uint64(v).WriteTo(w)
		n += wn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteChunkData writes one ChunkData packet for chunk, embedding the
// fixed heightmap stub and the chunk's section-encoded block data.
func WriteChunkData(w io.Writer, chunk *world.Chunk) error {
	var data []byte
	{
		pw := &countingBuffer{}
		if err := chunk.Write(pw); err != nil {
			return err
		}
		data = pw.buf
	}

	return proto.WritePacket(w, PacketIDChunkData,
		proto.Int32(chunk.X), proto.Int32(chunk.Z),
		nbtField{world.Heightmaps{MotionBlocking: world.StubHeightmap()}},
		byteField(data),
		proto.VarInt(0),  // embedded block entity count
		proto.Bool(true), // trust edges
		ulongArray(nil),  // sky light mask
		ulongArray(nil),  // block light mask
		ulongArray(nil),  // empty sky light mask
		ulongArray(nil),  // empty block light mask
		proto.VarInt(0),  // sky light array count
		proto.VarInt(0),  // block light array count
	)
}

// byteField writes a VarInt-length-prefixed raw byte slice, the shape
// ChunkData's embedded section data takes.
type byteField []byte

func (b byteField) WriteTo(w io.Writer) (int64, error) {
	var n int64
	wn, err := proto.VarInt(len(b)).WriteTo(w)
	n += wn
	if err != nil {
		return n, err
	}
	wn2, err := w.Write(b)
	n += int64(wn2)
	return n, err
}

type countingBuffer struct{ buf []byte }

func (c *countingBuffer) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	return len(p), nil
}

// WriteBlockEntityData writes one BlockEntityData packet for be.
func WriteBlockEntityData(w io.Writer, be world.BlockEntity) error {
	id, ok := world.BlockEntityID(be.ID)
	if !ok {
		return proto.InvalidEnumValue(0)
	}
	return proto.WritePacket(w, PacketIDBlockEntityData,
		proto.Position{X: be.X, Y: be.Y, Z: be.Z},
		proto.VarInt(id),
		nbtField{be.Data},
	)
}

// WriteUpdateViewPosition writes the UpdateViewPosition packet.
func WriteUpdateViewPosition(w io.Writer, chunkX, chunkZ int32) error {
	return proto.WritePacket(w, PacketIDUpdateViewPosition, proto.VarInt(chunkX), proto.VarInt(chunkZ))
}

// WriteKeepAlive writes the KeepAlive packet carrying the current UNIX
// second count, per spec — not a monotonic tick counter, and the
// client's echoed KeepAlive is never checked against it.
func WriteKeepAlive(w io.Writer, unixSeconds uint64) error {
	return proto.WritePacket(w, PacketIDKeepAlive, proto.Uint64(unixSeconds))
}

// Incoming packets below are decoded far enough to log usefully; none
// of their fields feed back into server state, since this server never
// simulates anything the client reports.

// TeleportConfirm is the client's acknowledgement of a teleport id.
type TeleportConfirm struct{ TeleportID int32 }

func ReadTeleportConfirm(frame proto.Frame) (TeleportConfirm, error) {
	id, err := proto.ReadVarInt(frame.Data)
	return TeleportConfirm{TeleportID: id}, err
}

// ClientSettings is the client's locale/render-distance/chat
// preferences packet.
type ClientSettings struct {
	Locale              string
	ViewDistance        int8
	ChatMode            int32
	ChatColors          bool
	DisplayedSkinParts  int8
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListings bool
}

func ReadClientSettings(frame proto.Frame) (ClientSettings, error) {
	var s ClientSettings
	var err error
	if s.Locale, err = proto.ReadString(frame.Data, 16); err != nil {
		return s, err
	}
	if vd, err := proto.ReadInt8(frame.Data); err != nil {
		return s, err
	} else {
		s.ViewDistance = vd
	}
	if s.ChatMode, err = proto.ReadVarInt(frame.Data); err != nil {
		return s, err
	}
	if s.ChatColors, err = proto.ReadBool(frame.Data); err != nil {
		return s, err
	}
	if dsp, err := proto.ReadInt8(frame.Data); err != nil {
		return s, err
	} else {
		s.DisplayedSkinParts = dsp
	}
	if s.MainHand, err = proto.ReadVarInt(frame.Data); err != nil {
		return s, err
	}
	if s.EnableTextFiltering, err = proto.ReadBool(frame.Data); err != nil {
		return s, err
	}
	if s.AllowServerListings, err = proto.ReadBool(frame.Data); err != nil {
		return s, err
	}
	return s, nil
}

// CustomPayload is an incoming plugin-message packet. Only the
// minecraft:brand channel is decoded into Brand; anything else is left
// with Brand == "" and Channel set, to be logged and discarded rather
// than erroring — an unrecognized plugin channel isn't a protocol
// violation.
type CustomPayload struct {
	Channel string
	Brand   string
}

func ReadCustomPayload(frame proto.Frame) (CustomPayload, error) {
	channel, err := proto.ReadString(frame.Data, 32767)
	if err != nil {
		return CustomPayload{}, err
	}
	if channel != BrandChannel {
		return CustomPayload{Channel: channel}, nil
	}
	brand, err := proto.ReadString(frame.Data, 32767)
	if err != nil {
		return CustomPayload{}, err
	}
	return CustomPayload{Channel: channel, Brand: brand}, nil
}

// ReadIncomingKeepAlive decodes the client's KeepAlive echo. The value
// is never compared against what this server sent.
func ReadIncomingKeepAlive(frame proto.Frame) (int64, error) {
	return proto.ReadInt64(frame.Data)
}

// PlayerPosition is the client's bare position update.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func ReadPlayerPosition(frame proto.Frame) (PlayerPosition, error) {
	var p PlayerPosition
	var err error
	if p.X, err = proto.ReadFloat64(frame.Data); err != nil {
		return p, err
	}
	if p.Y, err = proto.ReadFloat64(frame.Data); err != nil {
		return p, err
	}
	if p.Z, err = proto.ReadFloat64(frame.Data); err != nil {
		return p, err
	}
	p.OnGround, err = proto.ReadBool(frame.Data)
	return p, err
}

// PlayerPositionAndRotation is the client's combined position/rotation
// update.
type PlayerPositionAndRotation struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func ReadPlayerPositionAndRotation(frame proto.Frame) (PlayerPositionAndRotation, error) {
	var p PlayerPositionAndRotation
	var err error
	if p.X, err = proto.ReadFloat64(frame.Data); err != nil {
		return p, err
	}
	if p.Y, err = proto.ReadFloat64(frame.Data); err != nil {
		return p, err
	}
	if p.Z, err = proto.ReadFloat64(frame.Data); err != nil {
		return p, err
	}
	if p.Yaw, err = proto.ReadFloat32(frame.Data); err != nil {
		return p, err
	}
	if p.Pitch, err = proto.ReadFloat32(frame.Data); err != nil {
		return p, err
	}
	p.OnGround, err = proto.ReadBool(frame.Data)
	return p, err
}

// PlayerRotation is the client's bare rotation update.
type PlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

func ReadPlayerRotation(frame proto.Frame) (PlayerRotation, error) {
	var p PlayerRotation
	var err error
	if p.Yaw, err = proto.ReadFloat32(frame.Data); err != nil {
		return p, err
	}
	if p.Pitch, err = proto.ReadFloat32(frame.Data); err != nil {
		return p, err
	}
	p.OnGround, err = proto.ReadBool(frame.Data)
	return p, err
}
