// Package world owns the game state: the six entity tables, the derived
// containment and exit-connection indices, and the accessor through which
// behavior handlers read and mutate everything.
package world

import (
	"github.com/jedharris/text-game-sub000/internal/types"
)

// Metadata is the world-file header.
type Metadata struct {
	Title           string   `json:"title,omitempty"`
	Version         string   `json:"version,omitempty"`
	Description     string   `json:"description,omitempty"`
	StartLocation   string   `json:"start_location,omitempty"`
	ExtraTurnPhases []string `json:"extra_turn_phases,omitempty"`
	RequiresEngine  string   `json:"requires_engine,omitempty"`
}

// State is one loaded world. It is owned by exactly one protocol handler;
// nothing here is safe for concurrent mutation.
type State struct {
	Metadata Metadata

	Locations map[string]*types.Location
	Items     map[string]*types.Item
	Actors    map[string]*types.Actor
	Locks     map[string]*types.Lock
	Parts     map[string]*types.Part
	Exits     map[string]*types.Exit

	// Extra carries behavior-scoped payloads (recipes, item templates)
	// verbatim between load and save.
	Extra map[string]any

	TurnCount int

	// Insertion order per table. Turn phases and queries iterate in this
	// order so replies are deterministic.
	locationOrder []string
	itemOrder     []string
	actorOrder    []string
	lockOrder     []string
	partOrder     []string
	exitOrder     []string

	// Derived indices; rebuilt on load, mutated only through the accessor.
	entitiesAt  map[string]map[string]bool
	entityWhere map[string]string
	connectedTo map[string]map[string]bool
	exitsFrom   map[string][]string
}

// NewState returns an empty world.
func NewState() *State {
	return &State{
		Locations:   map[string]*types.Location{},
		Items:       map[string]*types.Item{},
		Actors:      map[string]*types.Actor{},
		Locks:       map[string]*types.Lock{},
		Parts:       map[string]*types.Part{},
		Exits:       map[string]*types.Exit{},
		Extra:       map[string]any{},
		entitiesAt:  map[string]map[string]bool{},
		entityWhere: map[string]string{},
		connectedTo: map[string]map[string]bool{},
		exitsFrom:   map[string][]string{},
	}
}

// AddLocation inserts a location, recording insertion order.
func (s *State) AddLocation(l *types.Location) {
	if _, dup := s.Locations[l.ID]; !dup {
		s.locationOrder = append(s.locationOrder, l.ID)
	}
	s.Locations[l.ID] = l
}

// AddItem inserts an item, recording insertion order.
func (s *State) AddItem(i *types.Item) {
	if _, dup := s.Items[i.ID]; !dup {
		s.itemOrder = append(s.itemOrder, i.ID)
	}
	s.Items[i.ID] = i
}

// AddActor inserts an actor, recording insertion order.
func (s *State) AddActor(a *types.Actor) {
	if _, dup := s.Actors[a.ID]; !dup {
		s.actorOrder = append(s.actorOrder, a.ID)
	}
	s.Actors[a.ID] = a
}

// AddLock inserts a lock, recording insertion order.
func (s *State) AddLock(k *types.Lock) {
	if _, dup := s.Locks[k.ID]; !dup {
		s.lockOrder = append(s.lockOrder, k.ID)
	}
	s.Locks[k.ID] = k
}

// AddPart inserts a part, recording insertion order.
func (s *State) AddPart(p *types.Part) {
	if _, dup := s.Parts[p.ID]; !dup {
		s.partOrder = append(s.partOrder, p.ID)
	}
	s.Parts[p.ID] = p
}

// AddExit inserts an exit, recording insertion order.
func (s *State) AddExit(e *types.Exit) {
	if _, dup := s.Exits[e.ID]; !dup {
		s.exitOrder = append(s.exitOrder, e.ID)
	}
	s.Exits[e.ID] = e
}

// LocationIDs returns location ids in insertion order.
func (s *State) LocationIDs() []string { return s.locationOrder }

// ItemIDs returns item ids in insertion order.
func (s *State) ItemIDs() []string { return s.itemOrder }

// ActorIDs returns actor ids in insertion order. The turn-phase driver
// iterates actors in this order.
func (s *State) ActorIDs() []string { return s.actorOrder }

// LockIDs returns lock ids in insertion order.
func (s *State) LockIDs() []string { return s.lockOrder }

// PartIDs returns part ids in insertion order.
func (s *State) PartIDs() []string { return s.partOrder }

// ExitIDs returns exit ids in insertion order.
func (s *State) ExitIDs() []string { return s.exitOrder }

// Entity looks an id up across all six tables.
func (s *State) Entity(id string) types.Entity {
	if l, ok := s.Locations[id]; ok {
		return l
	}
	if i, ok := s.Items[id]; ok {
		return i
	}
	if a, ok := s.Actors[id]; ok {
		return a
	}
	if k, ok := s.Locks[id]; ok {
		return k
	}
	if p, ok := s.Parts[id]; ok {
		return p
	}
	if e, ok := s.Exits[id]; ok {
		return e
	}
	return nil
}

// HasEntity reports whether id names any entity.
func (s *State) HasEntity(id string) bool { return s.Entity(id) != nil }

// validContainer reports whether id can hold an entity: any known entity, a
// valid exit slot over a known location, or a removal sentinel.
func (s *State) validContainer(id string) bool {
	if types.IsRemovalSentinel(id) {
		return true
	}
	if loc, _, ok := types.ParseExitSlot(id); ok {
		_, exists := s.Locations[loc]
		return exists
	}
	return s.HasEntity(id)
}

// BuildIndices derives the containment and exit-connection indices from the
// authoritative entity fields. Called once at load; after that the accessor
// keeps the indices in step incrementally.
func (s *State) BuildIndices() {
	s.entitiesAt = map[string]map[string]bool{}
	s.entityWhere = map[string]string{}
	s.connectedTo = map[string]map[string]bool{}
	s.exitsFrom = map[string][]string{}

	for _, id := range s.itemOrder {
		it := s.Items[id]
		if it.Location == "" || types.IsRemovalSentinel(it.Location) {
			continue
		}
		s.indexPlace(id, it.Location)
	}
	for _, id := range s.actorOrder {
		a := s.Actors[id]
		if a.Location == "" || types.IsRemovalSentinel(a.Location) {
			continue
		}
		s.indexPlace(id, a.Location)
	}
	for _, id := range s.partOrder {
		p := s.Parts[id]
		if p.PartOf == "" {
			continue
		}
		s.indexPlace(id, p.PartOf)
	}
	for _, id := range s.exitOrder {
		e := s.Exits[id]
		if e.Location != "" {
			s.exitsFrom[e.Location] = append(s.exitsFrom[e.Location], id)
		}
		for _, other := range e.Connections {
			s.connect(id, other)
		}
	}
}

func (s *State) indexPlace(entityID, containerID string) {
	set := s.entitiesAt[containerID]
	if set == nil {
		set = map[string]bool{}
		s.entitiesAt[containerID] = set
	}
	set[entityID] = true
	s.entityWhere[entityID] = containerID
}

func (s *State) unindexPlace(entityID string) {
	if old, ok := s.entityWhere[entityID]; ok {
		if set := s.entitiesAt[old]; set != nil {
			delete(set, entityID)
			if len(set) == 0 {
				delete(s.entitiesAt, old)
			}
		}
		delete(s.entityWhere, entityID)
	}
}

func (s *State) connect(a, b string) {
	set := s.connectedTo[a]
	if set == nil {
		set = map[string]bool{}
		s.connectedTo[a] = set
	}
	set[b] = true
}

func (s *State) disconnect(a, b string) {
	if set := s.connectedTo[a]; set != nil {
		delete(set, b)
		if len(set) == 0 {
			delete(s.connectedTo, a)
		}
	}
}

// EntityWhere returns the indexed container of id, if any.
func (s *State) EntityWhere(id string) (string, bool) {
	c, ok := s.entityWhere[id]
	return c, ok
}

// EntitiesAtRaw returns the raw id set at containerID. Callers must not
// mutate the result.
func (s *State) EntitiesAtRaw(containerID string) map[string]bool {
	return s.entitiesAt[containerID]
}
