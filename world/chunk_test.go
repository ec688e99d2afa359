package world

import (
	"bytes"
	"testing"

	"github.com/hearthvale/beacon/bitpack"
)

// TestSectionPaletteAllStone mirrors spec.md §8 scenario 6: a section
// whose 4096 entries are all resolved to the same state compacts to a
// one-entry palette at the minimum 4-bit width, with every packed
// index zero.
func TestSectionPaletteAllStone(t *testing.T) {
	stoneID, ok := StateID(BlockState{Name: "minecraft:stone"})
	if !ok {
		t.Fatal("minecraft:stone missing from embedded block table")
	}

	s := &ChunkSection{YPos: 0, BlockCount: 4096}
	for i := range s.BlockStates {
		s.BlockStates[i] = BlockState{Name: "minecraft:stone"}
	}

	palette, packed := s.buildPaletteData()
	if len(palette) != 1 {
		t.Fatalf("palette = %v, want single entry", palette)
	}
	if palette[0] != stoneID {
		t.Errorf("palette[0] = %d, want %d", palette[0], stoneID)
	}
	if packed.BitsPerEntry() != 4 {
		t.Errorf("BitsPerEntry() = %d, want 4", packed.BitsPerEntry())
	}
	for i := 0; i < 4096; i++ {
		if v := packed.Get(i); v != 0 {
			t.Fatalf("packed.Get(%d) = %d, want 0", i, v)
		}
	}
}

// TestSectionPaletteSizeBound checks the general invariant from §8:
// palette_size never exceeds the number of distinct states in the
// section, and bits_per_entry tracks the computed formula.
func TestSectionPaletteSizeBound(t *testing.T) {
	s := &ChunkSection{YPos: 0, BlockCount: 4096}
	names := []string{"minecraft:air", "minecraft:stone", "minecraft:dirt"}
	for i := range s.BlockStates {
		s.BlockStates[i] = BlockState{Name: names[i%len(names)]}
	}

	palette, packed := s.buildPaletteData()
	if len(palette) > len(names) {
		t.Fatalf("palette size %d exceeds distinct state count %d", len(palette), len(names))
	}
	if got, want := packed.BitsPerEntry(), bitpack.New(packed.Data(), len(palette)).BitsPerEntry(); got != want {
		t.Errorf("BitsPerEntry() = %d, want %d", got, want)
	}
	for i := 0; i < 4096; i++ {
		if idx := packed.Get(i); int(idx) >= len(palette) {
			t.Fatalf("packed index %d at entry %d out of range for palette size %d", idx, i, len(palette))
		}
	}
}

// TestIntoChunksFillsMissingSectionsAsAir exercises the template ->
// runtime chunk pipeline end to end: a template with only section
// y=0 present should still produce 16 sections per chunk, the rest
// synthesized as all-air.
func TestIntoChunksFillsMissingSectionsAsAir(t *testing.T) {
	stoneID, ok := StateID(BlockState{Name: "minecraft:stone"})
	if !ok {
		t.Fatal("minecraft:stone missing from embedded block table")
	}
	_ = stoneID

	palette := []BlockState{{Name: "minecraft:stone"}}
	packed := bitpack.Empty(len(palette))
	data := packed.Data()

	tmpl := &MapTemplate{
		Chunks: []TemplateChunk{
			{
				Pos: [3]int32{0, 0, 0},
				BlockStates: TemplateBlockStates{
					Data:    data,
					Palette: palette,
				},
			},
		},
	}

	chunks := tmpl.IntoChunks()
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	c := chunks[0]
	if len(c.Sections) != sectionsPerChunk {
		t.Fatalf("len(sections) = %d, want %d", len(c.Sections), sectionsPerChunk)
	}
	if c.Sections[0].BlockCount != 4096 {
		t.Errorf("section 0 block_count = %d, want 4096 (decoded sections keep the full count)", c.Sections[0].BlockCount)
	}
	for y := 1; y < sectionsPerChunk; y++ {
		if c.Sections[y].BlockCount != 0 {
			t.Errorf("synthesized section %d block_count = %d, want 0", y, c.Sections[y].BlockCount)
		}
		if !c.Sections[y].BlockStates[0].Equal(Air) {
			t.Errorf("synthesized section %d not all-air", y)
		}
	}
}

// TestChunkWriteProducesBytes is a smoke test that the wire encoding
// path runs end to end without error for a fully-synthesized chunk.
func TestChunkWriteProducesBytes(t *testing.T) {
	sections := make([]*ChunkSection, sectionsPerChunk)
	for y := range sections {
		sections[y] = &ChunkSection{YPos: int32(y), BlockCount: 0}
		for i := range sections[y].BlockStates {
			sections[y].BlockStates[i] = Air
		}
	}
	c := &Chunk{X: 0, Z: 0, Sections: sections}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty chunk data")
	}
}
