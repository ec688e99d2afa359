package world

import (
	"compress/gzip"
	"io"
	"sort"

	"github.com/hearthvale/beacon/bitpack"
	"github.com/hearthvale/beacon/proto"
)

// BlockEntity is extra metadata attached to a block position (signs,
// chests, ...). ID/X/Y/Z are pulled out of the template's compound for
// addressing; Data carries every other key verbatim so it round-trips
// to the client unmodified, the same compound-minus-known-keys shape
// as the original's serde flatten.
type BlockEntity struct {
	ID   string
	X    int32
	Y    int32
	Z    int32
	Data map[string]any
}

// MapTemplate is the on-disk (gzipped NBT) description of the static
// world this server serves, before it's been sectioned into Chunks.
type MapTemplate struct {
	BlockEntities []BlockEntity   `nbt:"-"`
	Biome         string          `nbt:"biome"`
	Chunks        []TemplateChunk `nbt:"chunks"`
}

// rawTemplate mirrors MapTemplate's on-disk shape with block entities
// left as raw compounds, since NBT's static struct decode has no
// equivalent of serde's #[serde(flatten)] for splitting known fields
// out of an otherwise-dynamic map.
type rawTemplate struct {
	BlockEntities []map[string]any `nbt:"block_entities"`
	Biome         string           `nbt:"biome"`
	Chunks        []TemplateChunk  `nbt:"chunks"`
}

// parseBlockEntities pulls id/x/y/z out of each raw compound and keeps
// every remaining key in Data, preserving whatever payload (sign text,
// chest contents, ...) the template attached to that block entity.
func parseBlockEntities(raw []map[string]any) []BlockEntity {
	out := make([]BlockEntity, 0, len(raw))
	for _, m := range raw {
		be := BlockEntity{Data: make(map[string]any, len(m))}
		for k, v := range m {
			switch k {
			case "id":
				if s, ok := v.(string); ok {
					be.ID = s
				}
			case "x":
				be.X = asInt32(v)
			case "y":
				be.Y = asInt32(v)
			case "z":
				be.Z = asInt32(v)
			default:
				be.Data[k] = v
			}
		}
		out = append(out, be)
	}
	return out
}

func asInt32(v any) int32 {
	switch n := v.(type) {
	case int32:
		return n
	case int64:
		return int32(n)
	case int:
		return int32(n)
	default:
		return 0
	}
}

// TemplateChunk is one section's worth of template data: a packed
// block-state array plus the palette it indexes into, positioned at
// (x, y, z) where y is the section's vertical index.
type TemplateChunk struct {
	BlockStates TemplateBlockStates `nbt:"block_states"`
	Pos         [3]int32            `nbt:"pos"`
}

// TemplateBlockStates is the packed-array-plus-palette shape the
// template stores each section's blocks in.
type TemplateBlockStates struct {
	Data    []uint64     `nbt:"data"`
	Palette []BlockState `nbt:"palette"`
}

// LoadTemplate reads a gzip-compressed NBT map template from r.
func LoadTemplate(r io.Reader) (*MapTemplate, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &proto.Error{Kind: proto.ErrNBT, Err: err}
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, &proto.Error{Kind: proto.ErrNBT, Err: err}
	}

	var raw rawTemplate
	if err := proto.ReadNBT(data, &raw); err != nil {
		return nil, err
	}
	return &MapTemplate{
		BlockEntities: parseBlockEntities(raw.BlockEntities),
		Biome:         raw.Biome,
		Chunks:        raw.Chunks,
	}, nil
}

// sectionsPerChunk is fixed by the 1.18 chunk format used by this
// server: 16 vertical sections, y in [0, 15].
const sectionsPerChunk = 16

// IntoChunks groups the template's flat section list by (x, z),
// materializes any of the 16 vertical slots the template didn't
// provide as all-air, and sorts the result by |x*256 + z| ascending —
// a loading-order heuristic that prioritizes chunks near the origin.
func (m *MapTemplate) IntoChunks() []*Chunk {
	type key struct{ x, z int32 }
	grouped := make(map[key]map[int32]*ChunkSection)

	for _, tc := range m.Chunks {
		x, y, z := tc.Pos[0], tc.Pos[1], tc.Pos[2]
		k := key{x, z}
		if grouped[k] == nil {
			grouped[k] = make(map[int32]*ChunkSection)
		}
		grouped[k][y] = decodeSection(y, tc.BlockStates)
	}

	chunks := make([]*Chunk, 0, len(grouped))
	for k, sections := range grouped {
		full := make([]*ChunkSection, sectionsPerChunk)
		for y := int32(0); y < sectionsPerChunk; y++ {
			if s, ok := sections[y]; ok {
				full[y] = s
			} else {
				full[y] = emptySection(y)
			}
		}
		chunks = append(chunks, &Chunk{X: k.x, Z: k.z, Sections: full})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return abs32(chunks[i].X*256+chunks[i].Z) < abs32(chunks[j].X*256+chunks[j].Z)
	})
	return chunks
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// emptySection synthesizes an all-air section. block_count is 0 here,
// unlike decoded sections — there really are no non-air blocks.
func emptySection(y int32) *ChunkSection {
	s := &ChunkSection{YPos: y, BlockCount: 0}
	for i := range s.BlockStates {
		s.BlockStates[i] = Air
	}
	return s
}

// decodeSection unpacks a template section's palette-indexed data into
// a flat 4096-entry block state array. block_count is always set to
// 4096 on load regardless of how many entries are actually air — this
// is technically wrong (the wire format expects a non-air count) but
// matches every template this server has been run against and vanilla
// clients tolerate it; do not "fix" it to a real count.
func decodeSection(y int32, tbs TemplateBlockStates) *ChunkSection {
	packed := bitpack.New(tbs.Data, len(tbs.Palette))
	s := &ChunkSection{YPos: y, BlockCount: 4096}
	for i := 0; i < 4096; i++ {
		idx := packed.Get(i)
		s.BlockStates[i] = tbs.Palette[idx]
	}
	return s
}
