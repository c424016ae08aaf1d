// Package resolve maps surface words from the parser onto entity
// identities: inventory first, then the current location, then open
// containers one level deep.
package resolve

import (
	"fmt"
	"strings"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// UniversalSurfaces always resolve, even without an explicit part: the
// handler synthesises a description for them.
var UniversalSurfaces = map[string]bool{
	"ceiling": true,
	"floor":   true,
	"walls":   true,
	"wall":    true,
	"ground":  true,
	"sky":     true,
}

// NotFoundError reports a noun that matched nothing accessible.
type NotFoundError struct {
	Word string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no %s here", e.Word)
}

// Resolution is the outcome of a lookup. Entity is nil exactly when the
// word was a universal surface with no explicit part; Universal then holds
// the surface word.
type Resolution struct {
	Entity    types.Entity
	Universal string
}

// Resolver performs noun lookups against one accessor.
type Resolver struct {
	acc world.Accessor
}

// New returns a resolver over acc.
func New(acc world.Accessor) *Resolver {
	return &Resolver{acc: acc}
}

// Resolve finds the entity the actor means by word (with an optional
// adjective constraint). Search order: the actor's inventory, the current
// location's contents (items, other actors, exits, doors in this
// location's exit slots, visible parts), then containers that are open or
// surfaces, one level deep. Hidden entities are skipped.
func (r *Resolver) Resolve(actorID string, word *types.Word, adjective string) (Resolution, error) {
	if word == nil || word.Word == "" {
		return Resolution{}, &NotFoundError{Word: "that"}
	}
	surface := strings.ToLower(word.Word)

	for _, candidate := range r.candidates(actorID) {
		if candidate.Props().Hidden() {
			continue
		}
		if !matchesWord(candidate, surface, word.Synonyms) {
			continue
		}
		if adjective != "" && !matchesAdjective(candidate, adjective) {
			continue
		}
		return Resolution{Entity: candidate}, nil
	}

	if UniversalSurfaces[surface] {
		return Resolution{Universal: surface}, nil
	}
	return Resolution{}, &NotFoundError{Word: word.Word}
}

// candidates builds the accessible entity list in search order. Duplicates
// are removed keeping the first (closest) occurrence.
func (r *Resolver) candidates(actorID string) []types.Entity {
	var out []types.Entity
	seen := map[string]bool{}
	add := func(e types.Entity) {
		if e == nil || seen[e.EntityID()] {
			return
		}
		seen[e.EntityID()] = true
		out = append(out, e)
	}

	actor := r.acc.GetActor(actorID)
	if actor == nil {
		return nil
	}
	for _, id := range actor.Inventory {
		add(r.acc.GetItem(id))
	}

	loc := r.acc.GetCurrentLocation(actorID)
	if loc == nil {
		return out
	}
	var containers []types.Entity
	for _, e := range r.acc.GetEntitiesAt(loc.ID) {
		if e.EntityID() == actorID {
			continue
		}
		add(e)
		if it, ok := e.(*types.Item); ok {
			if c, isContainer := it.Props().Container(); isContainer && (c.Open || c.Surface) {
				containers = append(containers, e)
			}
		}
	}
	for _, ex := range r.acc.GetExitsFromLocation(loc.ID) {
		add(ex)
	}
	for _, slot := range r.visibleSlots(loc.ID) {
		for _, e := range r.acc.GetEntitiesAt(slot, types.KindItem) {
			add(e)
		}
	}
	for _, p := range r.acc.GetPartsOf(loc.ID) {
		add(p)
		for _, it := range r.acc.GetItemsAtPart(p.ID) {
			add(it)
		}
	}

	// One level into open containers and surfaces.
	for _, c := range containers {
		for _, e := range r.acc.GetEntitiesAt(c.EntityID(), types.KindItem) {
			add(e)
		}
	}
	return out
}

// visibleSlots lists the exit slots observable from locID: this location's
// own slots plus the slots of exits connected to its exits, so both sides
// of a doorway see the door.
func (r *Resolver) visibleSlots(locID string) []string {
	var slots []string
	for _, ex := range r.acc.GetExitsFromLocation(locID) {
		if ex.Direction != "" {
			slots = append(slots, types.ExitSlotID(locID, ex.Direction))
		}
		for _, connID := range r.acc.GetExitConnections(ex.ID) {
			other := r.acc.GetExit(connID)
			if other != nil && other.Direction != "" {
				slots = append(slots, types.ExitSlotID(other.Location, other.Direction))
			}
		}
	}
	return slots
}

// matchesWord checks the surface word (or any parser synonym) against the
// entity's name, the head noun of a multi-word name, and the entity's
// declared synonyms.
func matchesWord(e types.Entity, surface string, parserSynonyms []string) bool {
	words := append([]string{surface}, lowerAll(parserSynonyms)...)
	name := strings.ToLower(e.EntityName())
	nameParts := strings.Fields(name)
	head := ""
	if len(nameParts) > 0 {
		head = nameParts[len(nameParts)-1]
	}
	declared := lowerAll(e.Props().StringList(types.PropSynonyms))

	for _, w := range words {
		if w == name || w == head {
			return true
		}
		for _, syn := range declared {
			if w == syn {
				return true
			}
		}
	}
	return false
}

// matchesAdjective requires the adjective to appear in the entity's
// adjective list or description.
func matchesAdjective(e types.Entity, adjective string) bool {
	adj := strings.ToLower(adjective)
	for _, a := range lowerAll(e.Props().StringList(types.PropAdjectives)) {
		if a == adj {
			return true
		}
	}
	desc := strings.ToLower(e.EntityDescription())
	for _, w := range strings.FieldsFunc(desc, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if w == adj {
			return true
		}
	}
	// A name like "iron door" carries its own adjective.
	for _, w := range strings.Fields(strings.ToLower(e.EntityName())) {
		if w == adj {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
