package validation

import (
	"strings"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// CheckWorld runs every structural validator over the state and returns the
// aggregated report. loadedModules, when non-nil, is the set of behavior
// module ids the registry loaded; entity behaviors lists are checked
// against it.
func CheckWorld(s *world.State, loadedModules map[string]bool) *Report {
	r := &Report{}
	ids := checkUniqueIDs(r, s)
	checkExitReferences(r, s, ids)
	checkItemLocations(r, s, ids)
	checkLocksAndKeys(r, s)
	checkStartLocation(r, s)
	checkPlayer(r, s)
	checkContainmentCycles(r, s)
	checkActorNames(r, s)
	checkParts(r, s)
	if loadedModules != nil {
		checkBehaviorRefs(r, s, loadedModules)
	}
	checkConnectionSymmetry(r, s)
	return r
}

// checkUniqueIDs builds the id registry and flags duplicates across tables.
// Only "player" is reserved, and only for the actor table.
func checkUniqueIDs(r *Report, s *world.State) map[string]types.Kind {
	ids := map[string]types.Kind{}
	add := func(id string, kind types.Kind) {
		if id == "" {
			r.Errorf("%s record with empty id", kind)
			return
		}
		if prev, dup := ids[id]; dup {
			r.Errorf("duplicate id %q: declared as both %s and %s", id, prev, kind)
			return
		}
		if id == types.PlayerID && kind != types.KindActor {
			r.Errorf("id %q is reserved for the viewpoint actor, used as %s", id, kind)
			return
		}
		ids[id] = kind
	}
	for _, id := range s.LocationIDs() {
		add(id, types.KindLocation)
	}
	for _, id := range s.ItemIDs() {
		add(id, types.KindItem)
	}
	for _, id := range s.ActorIDs() {
		add(id, types.KindActor)
	}
	for _, id := range s.LockIDs() {
		add(id, types.KindLock)
	}
	for _, id := range s.PartIDs() {
		add(id, types.KindPart)
	}
	for _, id := range s.ExitIDs() {
		add(id, types.KindExit)
	}
	return ids
}

// checkExitReferences verifies every exit's location, connections, door_id
// and the legacy inline exit maps.
func checkExitReferences(r *Report, s *world.State, ids map[string]types.Kind) {
	for _, id := range s.ExitIDs() {
		e := s.Exits[id]
		if e.Location == "" {
			r.Errorf("exit %q has no originating location", id)
		} else if ids[e.Location] != types.KindLocation {
			r.Errorf("exit %q: location %q is not a location", id, e.Location)
		}
		for _, c := range e.Connections {
			if ids[c] != types.KindExit {
				r.Errorf("exit %q: connection %q is not an exit", id, c)
			}
		}
		if e.DoorID != "" && ids[e.DoorID] != types.KindItem {
			r.Errorf("exit %q: door_id %q is not an item", id, e.DoorID)
		}
	}
	for _, id := range s.LocationIDs() {
		loc := s.Locations[id]
		for dir, d := range loc.Exits {
			if ids[d.To] != types.KindLocation {
				r.Errorf("location %q: exit %q leads to %q, which is not a location", id, dir, d.To)
			}
			if d.DoorID != "" && ids[d.DoorID] != types.KindItem {
				r.Errorf("location %q: exit %q door_id %q is not an item", id, dir, d.DoorID)
			}
		}
	}
}

// checkItemLocations resolves every item's container. Doors must sit in a
// valid exit slot; everything else must resolve to a location, item, actor
// or removal sentinel.
func checkItemLocations(r *Report, s *world.State, ids map[string]types.Kind) {
	for _, id := range s.ItemIDs() {
		it := s.Items[id]
		loc := it.Location
		_, isDoor := it.Props().Door()
		switch {
		case loc == "":
			r.Errorf("item %q has no location", id)
		case types.IsRemovalSentinel(loc):
			// Retained for audit; excluded from indices.
		case types.IsExitSlot(loc):
			slotLoc, dir, ok := types.ParseExitSlot(loc)
			if !ok {
				r.Errorf("item %q: malformed exit slot %q", id, loc)
				break
			}
			if ids[slotLoc] != types.KindLocation {
				r.Errorf("item %q: exit slot %q names unknown location %q", id, loc, slotLoc)
			}
			if dir == "" {
				r.Errorf("item %q: exit slot %q has an empty direction", id, loc)
			}
			if !isDoor {
				r.Errorf("item %q occupies exit slot %q but has no door properties", id, loc)
			}
		default:
			switch ids[loc] {
			case types.KindLocation, types.KindItem, types.KindActor, types.KindPart:
			default:
				r.Errorf("item %q: location %q does not resolve to a container", id, loc)
			}
			if isDoor {
				r.Errorf("door item %q must use an exit:<loc>:<dir> location, has %q", id, loc)
			}
		}
	}
}

// checkLocksAndKeys verifies opens_with ids are items and every door or
// container lock_id is a lock.
func checkLocksAndKeys(r *Report, s *world.State) {
	for _, id := range s.LockIDs() {
		k := s.Locks[id]
		for _, keyID := range k.Props().StringList(types.PropOpensWith) {
			if _, ok := s.Items[keyID]; !ok {
				r.Errorf("lock %q: opens_with %q is not an item", id, keyID)
			}
		}
	}
	for _, id := range s.ItemIDs() {
		it := s.Items[id]
		if d, ok := it.Props().Door(); ok && d.LockID != "" {
			if _, exists := s.Locks[d.LockID]; !exists {
				r.Errorf("door %q: lock_id %q is not a lock", id, d.LockID)
			}
		}
		if c, ok := it.Props().Container(); ok && c.LockID != "" {
			if _, exists := s.Locks[c.LockID]; !exists {
				r.Errorf("container %q: lock_id %q is not a lock", id, c.LockID)
			}
		}
	}
}

func checkStartLocation(r *Report, s *world.State) {
	start := s.Metadata.StartLocation
	if start == "" {
		return
	}
	if _, ok := s.Locations[start]; !ok {
		r.Errorf("metadata start_location %q is not a location", start)
	}
}

// checkPlayer requires the reserved actor and checks its location and
// inventory resolve.
func checkPlayer(r *Report, s *world.State) {
	p, ok := s.Actors[types.PlayerID]
	if !ok {
		r.Errorf("world has no %q actor", types.PlayerID)
		return
	}
	if _, ok := s.Locations[p.Location]; !ok {
		r.Errorf("player location %q is not a location", p.Location)
	}
	for _, id := range s.ActorIDs() {
		a := s.Actors[id]
		for _, itemID := range a.Inventory {
			if _, ok := s.Items[itemID]; !ok {
				r.Errorf("actor %q inventory entry %q is not an item", id, itemID)
			}
		}
	}
}

// checkContainmentCycles follows each item's parent chain to a fixed point;
// any revisit is an error.
func checkContainmentCycles(r *Report, s *world.State) {
	reported := map[string]bool{}
	for _, id := range s.ItemIDs() {
		seen := map[string]bool{id: true}
		chain := []string{id}
		cur := s.Items[id].Location
		for {
			next, ok := s.Items[cur]
			if !ok {
				break
			}
			if seen[cur] {
				if !reported[cur] {
					for _, member := range chain {
						reported[member] = true
					}
					r.Errorf("containment cycle: %s -> %s", strings.Join(chain, " -> "), cur)
				}
				break
			}
			seen[cur] = true
			chain = append(chain, cur)
			cur = next.Location
		}
	}
}

func checkActorNames(r *Report, s *world.State) {
	for _, id := range s.ActorIDs() {
		if id == types.PlayerID {
			continue
		}
		a := s.Actors[id]
		if types.IsReservedActorName(a.Name) {
			r.Errorf("actor %q: name %q is reserved", id, a.Name)
		}
	}
}

// checkParts requires an existing location or item parent; parts of parts
// are forbidden.
func checkParts(r *Report, s *world.State) {
	for _, id := range s.PartIDs() {
		p := s.Parts[id]
		if p.PartOf == "" {
			r.Errorf("part %q has no parent", id)
			continue
		}
		if _, isPart := s.Parts[p.PartOf]; isPart {
			r.Errorf("part %q: parent %q is a part; parts of parts are forbidden", id, p.PartOf)
			continue
		}
		_, isLoc := s.Locations[p.PartOf]
		_, isItem := s.Items[p.PartOf]
		if !isLoc && !isItem {
			r.Errorf("part %q: parent %q is not a location or item", id, p.PartOf)
		}
	}
}

// checkBehaviorRefs requires every id in an entity's behaviors list to name
// a loaded module.
func checkBehaviorRefs(r *Report, s *world.State, loaded map[string]bool) {
	check := func(entityID string, behaviors []string) {
		for _, b := range behaviors {
			if !loaded[b] {
				r.Errorf("entity %q references behavior module %q, which is not loaded", entityID, b)
			}
		}
	}
	for _, id := range s.LocationIDs() {
		check(id, s.Locations[id].Behaviors)
	}
	for _, id := range s.ItemIDs() {
		check(id, s.Items[id].Behaviors)
	}
	for _, id := range s.ActorIDs() {
		check(id, s.Actors[id].Behaviors)
	}
	for _, id := range s.PartIDs() {
		check(id, s.Parts[id].Behaviors)
	}
	for _, id := range s.ExitIDs() {
		check(id, s.Exits[id].Behaviors)
	}
}

// checkConnectionSymmetry warns about one-way exit connections. Asymmetry
// is legal (chutes, one-way portals) but usually an authoring slip.
func checkConnectionSymmetry(r *Report, s *world.State) {
	for _, id := range s.ExitIDs() {
		e := s.Exits[id]
		for _, other := range e.Connections {
			back := s.Exits[other]
			if back == nil {
				continue // reference error reported elsewhere
			}
			mutual := false
			for _, c := range back.Connections {
				if c == id {
					mutual = true
					break
				}
			}
			if !mutual {
				r.Warnf("exit %q connects to %q but not vice versa", id, other)
			}
		}
	}
}
