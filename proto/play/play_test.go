package play

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hearthvale/beacon/proto"
	"github.com/hearthvale/beacon/world"
)

func TestGamemodeJSONRoundTrip(t *testing.T) {
	for _, g := range []Gamemode{GamemodeSurvival, GamemodeCreative, GamemodeAdventure, GamemodeSpectator} {
		b, err := json.Marshal(g)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", g, err)
		}
		var got Gamemode
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", b, err)
		}
		if got != g {
			t.Errorf("round trip %v -> %s -> %v", g, b, got)
		}
	}
}

func TestGamemodeUnknownDefaultsSurvival(t *testing.T) {
	var g Gamemode = GamemodeCreative
	if err := json.Unmarshal([]byte(`"NotAGamemode"`), &g); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if g != GamemodeSurvival {
		t.Errorf("g = %v, want GamemodeSurvival for unrecognized input", g)
	}
}

func TestWriteKeepAliveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteKeepAlive(&buf, 1234567890); err != nil {
		t.Fatalf("WriteKeepAlive: %v", err)
	}
	frame, err := proto.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.PacketID != PacketIDKeepAlive {
		t.Fatalf("PacketID = %#x, want %#x", frame.PacketID, PacketIDKeepAlive)
	}
	got, err := proto.ReadInt64(frame.Data)
	if err != nil {
		t.Fatalf("ReadInt64: %v", err)
	}
	if got != 1234567890 {
		t.Errorf("got = %d, want 1234567890", got)
	}
}

func TestWriteBrandRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBrand(&buf, "beacon"); err != nil {
		t.Fatalf("WriteBrand: %v", err)
	}
	frame, err := proto.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.PacketID != PacketIDCustomPayload {
		t.Fatalf("PacketID = %#x, want %#x", frame.PacketID, PacketIDCustomPayload)
	}
	cp, err := ReadCustomPayload(frame)
	if err != nil {
		t.Fatalf("ReadCustomPayload: %v", err)
	}
	if cp.Channel != BrandChannel || cp.Brand != "beacon" {
		t.Errorf("cp = %+v, want channel %q brand %q", cp, BrandChannel, "beacon")
	}
}

func TestReadCustomPayloadUnknownChannel(t *testing.T) {
	var buf bytes.Buffer
	if err := proto.WritePacket(&buf, PacketIDIncomingCustom, stringField{"some:other_channel", 32767}); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	frame, err := proto.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	cp, err := ReadCustomPayload(frame)
	if err != nil {
		t.Fatalf("ReadCustomPayload: %v", err)
	}
	if cp.Channel != "some:other_channel" {
		t.Errorf("Channel = %q, want %q", cp.Channel, "some:other_channel")
	}
	if cp.Brand != "" {
		t.Errorf("Brand = %q, want empty for a non-brand channel", cp.Brand)
	}
}

func TestWritePlayerPositionAndLookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := PositionAndLook{X: 8.5, Y: 64, Z: -3.25, Yaw: 90, Pitch: 0, Flags: 0, TeleportID: 7, Dismount: false}
	if err := WritePlayerPositionAndLook(&buf, want); err != nil {
		t.Fatalf("WritePlayerPositionAndLook: %v", err)
	}
	frame, err := proto.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.PacketID != PacketIDPlayerPosAndLook {
		t.Fatalf("PacketID = %#x, want %#x", frame.PacketID, PacketIDPlayerPosAndLook)
	}
	x, err := proto.ReadFloat64(frame.Data)
	if err != nil {
		t.Fatalf("ReadFloat64(x): %v", err)
	}
	if x != want.X {
		t.Errorf("x = %v, want %v", x, want.X)
	}
}

func TestWriteChunkDataRoundTripsFrame(t *testing.T) {
	sections := make([]*world.ChunkSection, 16)
	for y := range sections {
		sections[y] = &world.ChunkSection{YPos: int32(y), BlockCount: 0}
		for i := range sections[y].BlockStates {
			sections[y].BlockStates[i] = world.Air
		}
	}
	chunk := &world.Chunk{X: 2, Z: -1, Sections: sections}

	var buf bytes.Buffer
	if err := WriteChunkData(&buf, chunk); err != nil {
		t.Fatalf("WriteChunkData: %v", err)
	}
	frame, err := proto.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.PacketID != PacketIDChunkData {
		t.Fatalf("PacketID = %#x, want %#x", frame.PacketID, PacketIDChunkData)
	}
	chunkX, err := proto.ReadInt32(frame.Data)
	if err != nil {
		t.Fatalf("ReadInt32(chunk_x): %v", err)
	}
	if chunkX != 2 {
		t.Errorf("chunk_x = %d, want 2", chunkX)
	}
}

func TestWriteBlockEntityDataUnknownIDErrors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBlockEntityData(&buf, world.BlockEntity{ID: "not:a_real_block_entity", X: 0, Y: 0, Z: 0})
	if err == nil {
		t.Fatal("expected an error for an unresolvable block entity id")
	}
}
