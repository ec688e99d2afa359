// Package store holds the shared, mostly-immutable state every
// connection reads from: the parsed configuration, the preloaded
// chunk/block-entity lists, and the one piece of mutable state —
// the UUID-to-entity-id map — guarded for concurrent access.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hearthvale/beacon/config"
	"github.com/hearthvale/beacon/world"
)

// Store is a cheaply-cloneable handle onto shared world state: copying
// a Store copies only the pointer to the shared data (which holds the
// mutex and counter too), the same "Arc<StoreData>" shape the original
// uses.
type Store struct {
	data *data
}

type data struct {
	config         config.Config
	chunks         []*world.Chunk
	blockEntities  []world.BlockEntity
	nextEntityID   atomic.Int32
	entityIDsMu    sync.RWMutex
	entityIDs      map[uuid.UUID]int32
}

// New builds a Store from a decoded config and map template, sectioning
// the template into wire-ready chunks once up front.
func New(cfg config.Config, tmpl *world.MapTemplate) Store {
	return Store{data: &data{
		config:        cfg,
		chunks:        tmpl.IntoChunks(),
		blockEntities: tmpl.BlockEntities,
		entityIDs:     make(map[uuid.UUID]int32),
	}}
}

// Config returns the server's static configuration.
func (s Store) Config() config.Config { return s.data.config }

// Chunks returns the preloaded, sectioned world, in loading order.
func (s Store) Chunks() []*world.Chunk { return s.data.chunks }

// BlockEntities returns every block entity in the preloaded world.
func (s Store) BlockEntities() []world.BlockEntity { return s.data.blockEntities }

// AssignEntityID returns the entity id previously assigned to id, or
// atomically allocates and caches a new one. Safe for concurrent
// callers; idempotent per UUID under sequential calls for the same
// UUID, mirroring the original's check-then-fetch_add-then-insert
// sequence (and its same narrow race window: two concurrent first
// calls for one UUID can allocate two ids, with the later insert
// winning — acceptable since a given player only ever logs in once
// at a time).
func (s Store) AssignEntityID(id uuid.UUID) int32 {
	s.data.entityIDsMu.RLock()
	existing, ok := s.data.entityIDs[id]
	s.data.entityIDsMu.RUnlock()
	if ok {
		return existing
	}

	assigned := s.data.nextEntityID.Add(1) - 1

	s.data.entityIDsMu.Lock()
	s.data.entityIDs[id] = assigned
	s.data.entityIDsMu.Unlock()
	return assigned
}
