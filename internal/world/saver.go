package world

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveDocument flattens the state back into the world-file document form:
// properties rejoin the top level of each entity record and a zero
// turn_count is dropped. save ∘ load is the identity on valid states.
func SaveDocument(s *State) map[string]any {
	doc := map[string]any{}

	meta := map[string]any{}
	putStr(meta, "title", s.Metadata.Title)
	putStr(meta, "version", s.Metadata.Version)
	putStr(meta, "description", s.Metadata.Description)
	putStr(meta, "start_location", s.Metadata.StartLocation)
	putStr(meta, "requires_engine", s.Metadata.RequiresEngine)
	if len(s.Metadata.ExtraTurnPhases) > 0 {
		meta["extra_turn_phases"] = s.Metadata.ExtraTurnPhases
	}
	if len(meta) > 0 {
		doc["metadata"] = meta
	}

	var locations []any
	for _, id := range s.LocationIDs() {
		l := s.Locations[id]
		rec := baseRecord(l.ID, l.Name, l.Description, l.Behaviors, l.Properties)
		if len(l.Exits) > 0 {
			exits := map[string]any{}
			for dir, d := range l.Exits {
				e := map[string]any{"to": d.To}
				putStr(e, "door_id", d.DoorID)
				exits[dir] = e
			}
			rec["exits"] = exits
		}
		locations = append(locations, rec)
	}
	doc["locations"] = locations

	var items []any
	for _, id := range s.ItemIDs() {
		it := s.Items[id]
		rec := baseRecord(it.ID, it.Name, it.Description, it.Behaviors, it.Properties)
		rec["location"] = it.Location
		items = append(items, rec)
	}
	doc["items"] = items

	actors := map[string]any{}
	for _, id := range s.ActorIDs() {
		a := s.Actors[id]
		rec := baseRecord("", a.Name, a.Description, a.Behaviors, a.Properties)
		delete(rec, "id") // actors are keyed by id in the document
		rec["location"] = a.Location
		if len(a.Inventory) > 0 {
			rec["inventory"] = a.Inventory
		}
		actors[id] = rec
	}
	doc["actors"] = actors

	if len(s.LockIDs()) > 0 {
		var locks []any
		for _, id := range s.LockIDs() {
			k := s.Locks[id]
			locks = append(locks, baseRecord(k.ID, k.Name, k.Description, nil, k.Properties))
		}
		doc["locks"] = locks
	}
	if len(s.PartIDs()) > 0 {
		var parts []any
		for _, id := range s.PartIDs() {
			p := s.Parts[id]
			rec := baseRecord(p.ID, p.Name, p.Description, p.Behaviors, p.Properties)
			rec["part_of"] = p.PartOf
			parts = append(parts, rec)
		}
		doc["parts"] = parts
	}
	if len(s.ExitIDs()) > 0 {
		var exits []any
		for _, id := range s.ExitIDs() {
			e := s.Exits[id]
			rec := baseRecord(e.ID, e.Name, e.Description, e.Behaviors, e.Properties)
			rec["location"] = e.Location
			putStr(rec, "direction", e.Direction)
			putStr(rec, "door_id", e.DoorID)
			if len(e.Connections) > 0 {
				rec["connections"] = e.Connections
			}
			exits = append(exits, rec)
		}
		doc["exits"] = exits
	}

	if len(s.Extra) > 0 {
		doc["extra"] = s.Extra
	}
	if s.TurnCount != 0 {
		doc["turn_count"] = s.TurnCount
	}
	return doc
}

// SaveJSON serialises the state as an indented world-file document.
func SaveJSON(s *State) ([]byte, error) {
	data, err := json.MarshalIndent(SaveDocument(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialise world: %w", err)
	}
	return append(data, '\n'), nil
}

// SaveFile writes the state to path.
func SaveFile(s *State, path string) error {
	data, err := SaveJSON(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write world file: %w", err)
	}
	return nil
}

// baseRecord builds an entity record with the properties flattened back to
// the top level. Structural fields win on collision with a property key.
func baseRecord(id, name, description string, behaviors []string, props map[string]any) map[string]any {
	rec := map[string]any{}
	for k, v := range props {
		rec[k] = v
	}
	putStr(rec, "id", id)
	putStr(rec, "name", name)
	putStr(rec, "description", description)
	if len(behaviors) > 0 {
		rec["behaviors"] = behaviors
	}
	return rec
}

func putStr(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}
