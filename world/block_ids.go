package world

import (
	_ "embed"
	"encoding/json"
	"sync"
)

//go:embed assets/blocks.json
var blocksJSON []byte

//go:embed assets/block_entities.json
var blockEntitiesJSON []byte

type blockStateEntry struct {
	Properties map[string]string `json:"properties"`
	ID         int32             `json:"id"`
	Default    bool              `json:"default"`
}

type blockEntry struct {
	States []blockStateEntry `json:"states"`
}

var (
	blockTableOnce sync.Once
	blockTable     map[string]blockEntry
	entityTable    map[string]int32
)

// loadTables parses the embedded block and block-entity tables once,
// lazily, the way the original's lazy_static! block does at first use
// rather than at process start.
func loadTables() {
	blockTableOnce.Do(func() {
		if err := json.Unmarshal(blocksJSON, &blockTable); err != nil {
			panic("world: failed to parse embedded blocks.json: " + err.Error())
		}
		if err := json.Unmarshal(blockEntitiesJSON, &entityTable); err != nil {
			panic("world: failed to parse embedded block_entities.json: " + err.Error())
		}
	})
}

// StateID resolves a block state to its numeric wire id by matching
// name and exact property map equality against the embedded table.
func StateID(bs BlockState) (int32, bool) {
	loadTables()
	block, ok := blockTable[bs.Name]
	if !ok {
		return 0, false
	}
	for _, state := range block.States {
		if propsEqual(state.Properties, bs.Properties) {
			return state.ID, true
		}
	}
	return 0, false
}

// BlockEntityID resolves a block entity type name to its numeric wire id.
func BlockEntityID(name string) (int32, bool) {
	loadTables()
	id, ok := entityTable[name]
	return id, ok
}

func propsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
