package world

import (
	"fmt"

	"github.com/jedharris/text-game-sub000/internal/types"
)

// Lookup is the typed read surface over the entity tables. Getters return
// nil when the id is unknown; callers that need a hard failure wrap the nil
// check themselves.
type Lookup interface {
	GetLocation(id string) *types.Location
	GetItem(id string) *types.Item
	GetActor(id string) *types.Actor
	GetLock(id string) *types.Lock
	GetPart(id string) *types.Part
	GetExit(id string) *types.Exit
	// GetEntity searches all kinds.
	GetEntity(id string) types.Entity
}

// Query answers containment questions from the derived indices.
type Query interface {
	// GetEntitiesAt returns the entities contained in containerID, filtered
	// to kinds when any are given. Results follow table insertion order:
	// items, then actors, then parts.
	GetEntitiesAt(containerID string, kinds ...types.Kind) []types.Entity
	// GetEntityWhere returns the container of id; ok is false for unknown
	// ids and for entities parked at a removal sentinel.
	GetEntityWhere(id string) (string, bool)
	GetItemsAtPart(partID string) []*types.Item
	GetPartsOf(parentID string) []*types.Part
	// GetCurrentLocation walks the containment chain from an actor up to
	// its enclosing location.
	GetCurrentLocation(actorID string) *types.Location
}

// ExitQueries answers and mutates the exit-connection graph.
type ExitQueries interface {
	GetExitConnections(exitID string) []string
	GetExitsFromLocation(locID string) []*types.Exit
	ConnectExits(a, b string) error
	DisconnectExits(a, b string) error
	// GetDoorForExit returns the door item sitting in the slot
	// exit:<locID>:<direction>, or nil.
	GetDoorForExit(locID, direction string) *types.Item
	// GetDoorItem returns the item when it carries door properties, else nil.
	GetDoorItem(id string) *types.Item
}

// Mutate is the write surface. SetEntityWhere is the only supported way to
// move an item or actor.
type Mutate interface {
	SetEntityWhere(entityID, newContainerID string) error
	// Update applies fields to the entity's properties. When verb is
	// non-empty it also fires the entity's on_<verb> reactions and returns
	// their narration beats.
	Update(e types.Entity, fields map[string]any, verb string) ([]string, error)
}

// Accessor is the single capability object handlers receive. Behavior
// modules depend on this interface, never on the concrete state, and must
// not retain it across turns.
type Accessor interface {
	Lookup
	Query
	ExitQueries
	Mutate
	State() *State
}

// Reactor fires an entity-scoped event and returns the narration beats the
// entity's behaviors produced. The behavior registry supplies this; world
// cannot depend on it directly.
type Reactor func(e types.Entity, event string, acc Accessor, ctx map[string]any) ([]string, error)

type accessor struct {
	state   *State
	reactor Reactor
}

// NewAccessor wraps a state. reactor may be nil, in which case Update fires
// no entity reactions.
func NewAccessor(s *State, reactor Reactor) Accessor {
	return &accessor{state: s, reactor: reactor}
}

func (a *accessor) State() *State { return a.state }

func (a *accessor) GetLocation(id string) *types.Location { return a.state.Locations[id] }
func (a *accessor) GetItem(id string) *types.Item         { return a.state.Items[id] }
func (a *accessor) GetActor(id string) *types.Actor       { return a.state.Actors[id] }
func (a *accessor) GetLock(id string) *types.Lock         { return a.state.Locks[id] }
func (a *accessor) GetPart(id string) *types.Part         { return a.state.Parts[id] }
func (a *accessor) GetExit(id string) *types.Exit         { return a.state.Exits[id] }
func (a *accessor) GetEntity(id string) types.Entity      { return a.state.Entity(id) }

func (a *accessor) GetEntitiesAt(containerID string, kinds ...types.Kind) []types.Entity {
	set := a.state.EntitiesAtRaw(containerID)
	if len(set) == 0 {
		return nil
	}
	want := func(k types.Kind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, kk := range kinds {
			if kk == k {
				return true
			}
		}
		return false
	}
	var out []types.Entity
	if want(types.KindItem) {
		for _, id := range a.state.ItemIDs() {
			if set[id] {
				out = append(out, a.state.Items[id])
			}
		}
	}
	if want(types.KindActor) {
		for _, id := range a.state.ActorIDs() {
			if set[id] {
				out = append(out, a.state.Actors[id])
			}
		}
	}
	if want(types.KindPart) {
		for _, id := range a.state.PartIDs() {
			if set[id] {
				out = append(out, a.state.Parts[id])
			}
		}
	}
	return out
}

func (a *accessor) GetEntityWhere(id string) (string, bool) {
	return a.state.EntityWhere(id)
}

func (a *accessor) GetItemsAtPart(partID string) []*types.Item {
	var out []*types.Item
	for _, e := range a.GetEntitiesAt(partID, types.KindItem) {
		out = append(out, e.(*types.Item))
	}
	return out
}

func (a *accessor) GetPartsOf(parentID string) []*types.Part {
	var out []*types.Part
	for _, e := range a.GetEntitiesAt(parentID, types.KindPart) {
		out = append(out, e.(*types.Part))
	}
	return out
}

func (a *accessor) GetCurrentLocation(actorID string) *types.Location {
	id := actorID
	// Bounded walk: containment is validated acyclic, but a stale id must
	// not loop forever.
	for i := 0; i < 64; i++ {
		if loc, ok := a.state.Locations[id]; ok {
			return loc
		}
		next, ok := a.state.EntityWhere(id)
		if !ok {
			if act, isActor := a.state.Actors[id]; isActor {
				next = act.Location
				if next == "" {
					return nil
				}
			} else {
				return nil
			}
		}
		if slotLoc, _, isSlot := types.ParseExitSlot(next); isSlot {
			return a.state.Locations[slotLoc]
		}
		id = next
	}
	return nil
}

func (a *accessor) GetExitConnections(exitID string) []string {
	set := a.state.connectedTo[exitID]
	if len(set) == 0 {
		return nil
	}
	// Stable order for replies: follow the exit table's insertion order.
	var out []string
	for _, id := range a.state.ExitIDs() {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func (a *accessor) GetExitsFromLocation(locID string) []*types.Exit {
	var out []*types.Exit
	for _, id := range a.state.exitsFrom[locID] {
		out = append(out, a.state.Exits[id])
	}
	return out
}

func (a *accessor) ConnectExits(from, to string) error {
	if a.state.Exits[from] == nil || a.state.Exits[to] == nil {
		return fmt.Errorf("%w: connect %s -> %s", ErrEntityNotFound, from, to)
	}
	a.state.connect(from, to)
	ex := a.state.Exits[from]
	for _, c := range ex.Connections {
		if c == to {
			return nil
		}
	}
	ex.Connections = append(ex.Connections, to)
	return nil
}

func (a *accessor) DisconnectExits(from, to string) error {
	if a.state.Exits[from] == nil || a.state.Exits[to] == nil {
		return fmt.Errorf("%w: disconnect %s -> %s", ErrEntityNotFound, from, to)
	}
	a.state.disconnect(from, to)
	ex := a.state.Exits[from]
	for i, c := range ex.Connections {
		if c == to {
			ex.Connections = append(ex.Connections[:i], ex.Connections[i+1:]...)
			break
		}
	}
	return nil
}

func (a *accessor) GetDoorForExit(locID, direction string) *types.Item {
	slot := types.ExitSlotID(locID, direction)
	for _, e := range a.GetEntitiesAt(slot, types.KindItem) {
		it := e.(*types.Item)
		if _, isDoor := it.Props().Door(); isDoor {
			return it
		}
	}
	return nil
}

func (a *accessor) GetDoorItem(id string) *types.Item {
	it := a.state.Items[id]
	if it == nil {
		return nil
	}
	if _, isDoor := it.Props().Door(); !isDoor {
		return nil
	}
	return it
}

// SetEntityWhere moves an item or actor to a new container. It updates the
// entity's location field, both sides of the containment index, and actor
// inventories when the move crosses an inventory boundary. Moves to a
// "__"-prefixed sentinel drop the entity from the indices entirely.
func (a *accessor) SetEntityWhere(entityID, newContainerID string) error {
	item := a.state.Items[entityID]
	act := a.state.Actors[entityID]
	if item == nil && act == nil {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	if !a.state.validContainer(newContainerID) {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, newContainerID)
	}
	if newContainerID == entityID {
		return Inconsistentf("cannot place %s inside itself", entityID)
	}
	// Walk the target's containment chain; if it passes through the moving
	// entity the move would close a cycle.
	for cur := newContainerID; cur != ""; {
		next, ok := a.state.EntityWhere(cur)
		if !ok {
			break
		}
		if next == entityID {
			return Inconsistentf("moving %s into %s would create a containment cycle", entityID, newContainerID)
		}
		cur = next
	}

	old, _ := a.state.EntityWhere(entityID)
	if old != "" {
		if oldActor := a.state.Actors[old]; oldActor != nil {
			removeID(&oldActor.Inventory, entityID)
		}
	}
	a.state.unindexPlace(entityID)

	if item != nil {
		item.Location = newContainerID
	} else {
		act.Location = newContainerID
	}
	if types.IsRemovalSentinel(newContainerID) {
		return nil
	}
	if newActor := a.state.Actors[newContainerID]; newActor != nil && item != nil {
		appendID(&newActor.Inventory, entityID)
	}
	a.state.indexPlace(entityID, newContainerID)
	return nil
}

// Update merges fields into the entity's properties and, when verb is
// non-empty, fires the entity's on_<verb> reactions. The returned beats come
// from the reactions, in behaviors-list order.
func (a *accessor) Update(e types.Entity, fields map[string]any, verb string) ([]string, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: update on nil entity", ErrEntityNotFound)
	}
	props := e.Props()
	for k, v := range fields {
		if v == nil {
			delete(props, k)
			continue
		}
		props[k] = v
	}
	if verb == "" || a.reactor == nil {
		return nil, nil
	}
	return a.reactor(e, "on_"+verb, a, map[string]any{"verb": verb})
}

func removeID(list *[]string, id string) {
	for i, v := range *list {
		if v == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func appendID(list *[]string, id string) {
	for _, v := range *list {
		if v == id {
			return
		}
	}
	*list = append(*list, id)
}
