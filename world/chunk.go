package world

import (
	"io"

	"github.com/hearthvale/beacon/bitpack"
	"github.com/hearthvale/beacon/proto"
)

// Chunk is a 16-wide, 16-deep, 256-tall column at (X, Z), stored as 16
// vertically stacked sections ordered by y position ascending.
type Chunk struct {
	X, Z     int32
	Sections []*ChunkSection
}

// Write emits every section's wire body in order, the shape embedded
// into ChunkData's data_bytes field.
func (c *Chunk) Write(w io.Writer) error {
	for _, s := range c.Sections {
		if err := s.Write(w); err != nil {
			return err
		}
	}
	return nil
}

// ChunkSection is a 16x16x16 cube of exactly 4096 block states, in XZY
// order, at vertical index YPos.
type ChunkSection struct {
	YPos        int32
	BlockCount  uint16
	BlockStates [4096]BlockState
}

// buildPaletteData assigns each distinct state id an index in order of
// first occurrence and bit-packs the resulting index sequence.
func (s *ChunkSection) buildPaletteData() ([]int32, *bitpack.Array) {
	palette := make([]int32, 0)
	seen := make(map[int32]int, 16)
	indices := make([]uint64, 4096)

	for i, block := range s.BlockStates {
		stateID, ok := StateID(block)
		if !ok {
			panic("world: missing state id for block " + block.Name)
		}
		idx, ok := seen[stateID]
		if !ok {
			idx = len(palette)
			palette = append(palette, stateID)
			seen[stateID] = idx
		}
		indices[i] = uint64(idx)
	}

	packed := bitpack.Empty(len(palette))
	for i, v := range indices {
		packed.Put(i, v)
	}
	return palette, packed
}

// Write emits one section's wire body: block count, bits-per-entry,
// palette, packed states, then a fixed single-valued biome palette
// (id 0) — the client tolerates every section sharing one biome.
func (s *ChunkSection) Write(w io.Writer) error {
	if _, err := proto.Uint16(s.BlockCount).WriteTo(w); err != nil {
		return err
	}
	palette, packed := s.buildPaletteData()

	if _, err := proto.Uint8(packed.BitsPerEntry()).WriteTo(w); err != nil {
		return err
	}
	if _, err := proto.VarInt(len(palette)).WriteTo(w); err != nil {
		return err
	}
	for _, entry := range palette {
		if _, err := proto.VarInt(entry).WriteTo(w); err != nil {
			return err
		}
	}
	data := packed.Data()
	if _, err := proto.VarInt(len(data)).WriteTo(w); err != nil {
		return err
	}
	for _, word := range data {
		if _, err := proto.Uint64(word).WriteTo(w); err != nil {
			return err
		}
	}

	// Biomes: single-valued palette of id 0, per spec.
	if _, err := proto.Uint8(0).WriteTo(w); err != nil {
		return err
	}
	if _, err := proto.VarInt(0).WriteTo(w); err != nil {
		return err
	}
	if _, err := proto.VarInt(0).WriteTo(w); err != nil {
		return err
	}
	return nil
}

// Heightmaps is the NBT compound embedded in ChunkData. MotionBlocking
// is a fixed stub: 36 copies of a precomputed "ground at y=8" packed
// long followed by one trailing long with the tail bits zeroed, which
// vanilla clients accept without computing a real heightmap.
type Heightmaps struct {
	MotionBlocking []int64 `nbt:"MOTION_BLOCKING"`
}

// StubHeightmap builds the fixed heightmap long array every chunk uses.
func StubHeightmap() []int64 {
	const full = int64(0x0100804020100804)
	const tail = int64(0x0000000020100804)
	hm := make([]int64, 37)
	for i := 0; i < 36; i++ {
		hm[i] = full
	}
	hm[36] = tail
	return hm
}
