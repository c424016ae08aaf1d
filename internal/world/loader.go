package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/jedharris/text-game-sub000/internal/types"
)

// EngineVersion gates world files that declare requires_engine. Major
// version must match; a newer minor requirement than the engine refuses to
// load.
const EngineVersion = "v1.0.0"

// Structural allowlists. Fields outside the list for an entity's kind are
// promoted into its properties map; the saver flattens them back out.
var (
	locationFields = fieldSet("id", "name", "description", "exits", "behaviors", "properties")
	itemFields     = fieldSet("id", "name", "description", "location", "behaviors", "properties")
	actorFields    = fieldSet("id", "name", "description", "location", "inventory", "behaviors", "properties")
	lockFields     = fieldSet("id", "name", "description", "properties")
	partFields     = fieldSet("id", "name", "description", "part_of", "behaviors", "properties")
	exitFields     = fieldSet("id", "name", "description", "location", "direction", "connections", "door_id", "behaviors", "properties")
)

func fieldSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// LoadFile reads a world file. YAML is accepted alongside JSON; the
// extension decides.
func LoadFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return LoadJSON(data)
	}
}

// LoadJSON decodes and loads a JSON world document.
func LoadJSON(data []byte) (*State, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse world file: %w", err)
	}
	return LoadDocument(doc)
}

// LoadYAML decodes a YAML world document. The tree is round-tripped through
// JSON so number and map representations match the JSON path exactly.
func LoadYAML(data []byte) (*State, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse world file: %w", err)
	}
	normalized, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("normalize world file: %w", err)
	}
	return LoadJSON(normalized)
}

// LoadDocument builds a State from a decoded world document. It checks the
// top-level shape and the engine-version gate, promotes non-structural
// fields into properties, rewrites item locations from actor inventories
// (the inventory list is authoritative), and builds the indices. Structural
// validation is the caller's next step.
func LoadDocument(doc map[string]any) (*State, error) {
	if err := checkWorldShape(doc); err != nil {
		return nil, err
	}

	s := NewState()
	s.Metadata = loadMetadata(asMap(doc["metadata"]))
	if err := checkEngineVersion(s.Metadata.RequiresEngine); err != nil {
		return nil, err
	}

	for _, raw := range asSlice(doc["locations"]) {
		rec := asMap(raw)
		if rec == nil {
			continue
		}
		s.AddLocation(&types.Location{
			ID:          str(rec["id"]),
			Name:        str(rec["name"]),
			Description: str(rec["description"]),
			Exits:       loadLegacyExits(asMap(rec["exits"])),
			Behaviors:   strList(rec["behaviors"]),
			Properties:  promote(rec, locationFields),
		})
	}
	for _, raw := range asSlice(doc["items"]) {
		rec := asMap(raw)
		if rec == nil {
			continue
		}
		s.AddItem(&types.Item{
			ID:          str(rec["id"]),
			Name:        str(rec["name"]),
			Description: str(rec["description"]),
			Location:    str(rec["location"]),
			Behaviors:   strList(rec["behaviors"]),
			Properties:  promote(rec, itemFields),
		})
	}
	loadActors(s, asMap(doc["actors"]))
	for _, raw := range asSlice(doc["locks"]) {
		rec := asMap(raw)
		if rec == nil {
			continue
		}
		s.AddLock(&types.Lock{
			ID:          str(rec["id"]),
			Name:        str(rec["name"]),
			Description: str(rec["description"]),
			Properties:  promote(rec, lockFields),
		})
	}
	for _, raw := range asSlice(doc["parts"]) {
		rec := asMap(raw)
		if rec == nil {
			continue
		}
		s.AddPart(&types.Part{
			ID:          str(rec["id"]),
			Name:        str(rec["name"]),
			Description: str(rec["description"]),
			PartOf:      str(rec["part_of"]),
			Behaviors:   strList(rec["behaviors"]),
			Properties:  promote(rec, partFields),
		})
	}
	for _, raw := range asSlice(doc["exits"]) {
		rec := asMap(raw)
		if rec == nil {
			continue
		}
		s.AddExit(&types.Exit{
			ID:          str(rec["id"]),
			Name:        str(rec["name"]),
			Description: str(rec["description"]),
			Location:    str(rec["location"]),
			Direction:   str(rec["direction"]),
			Connections: strList(rec["connections"]),
			DoorID:      str(rec["door_id"]),
			Behaviors:   strList(rec["behaviors"]),
			Properties:  promote(rec, exitFields),
		})
	}
	if extra := asMap(doc["extra"]); extra != nil {
		s.Extra = extra
	}
	if tc, ok := doc["turn_count"].(float64); ok {
		s.TurnCount = int(tc)
	}

	// Inventory lists are authoritative for the items they name.
	for _, id := range s.ActorIDs() {
		act := s.Actors[id]
		for _, itemID := range act.Inventory {
			if it, ok := s.Items[itemID]; ok {
				it.Location = id
			}
		}
	}

	s.BuildIndices()
	return s, nil
}

func loadMetadata(rec map[string]any) Metadata {
	return Metadata{
		Title:           str(rec["title"]),
		Version:         str(rec["version"]),
		Description:     str(rec["description"]),
		StartLocation:   str(rec["start_location"]),
		ExtraTurnPhases: strList(rec["extra_turn_phases"]),
		RequiresEngine:  str(rec["requires_engine"]),
	}
}

func loadActors(s *State, recs map[string]any) {
	// Actors arrive as an id-keyed object; sort ids so insertion order is
	// reproducible across loads of the same file.
	for _, id := range sortedKeys(recs) {
		rec := asMap(recs[id])
		if rec == nil {
			continue
		}
		name := str(rec["name"])
		if name == "" {
			name = id
		}
		s.AddActor(&types.Actor{
			ID:          id,
			Name:        name,
			Description: str(rec["description"]),
			Location:    str(rec["location"]),
			Inventory:   strList(rec["inventory"]),
			Behaviors:   strList(rec["behaviors"]),
			Properties:  promote(rec, actorFields),
		})
	}
}

func loadLegacyExits(rec map[string]any) map[string]types.ExitDescriptor {
	if len(rec) == 0 {
		return nil
	}
	out := make(map[string]types.ExitDescriptor, len(rec))
	for dir, raw := range rec {
		switch v := raw.(type) {
		case string:
			out[dir] = types.ExitDescriptor{To: v}
		case map[string]any:
			out[dir] = types.ExitDescriptor{To: str(v["to"]), DoorID: str(v["door_id"])}
		}
	}
	return out
}

// promote collects every field outside the structural allowlist into the
// properties map, merging with an explicit "properties" object when present.
func promote(rec map[string]any, structural map[string]bool) types.Properties {
	props := types.Properties{}
	if explicit := asMap(rec["properties"]); explicit != nil {
		for k, v := range explicit {
			props[k] = v
		}
	}
	for k, v := range rec {
		if !structural[k] {
			props[k] = v
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func checkEngineVersion(requires string) error {
	if requires == "" {
		return nil
	}
	req := requires
	if !strings.HasPrefix(req, "v") {
		req = "v" + req
	}
	if !semver.IsValid(req) {
		// Tolerate free-form requirement strings the way the loader
		// tolerates dev builds.
		return nil
	}
	if semver.Major(req) != semver.Major(EngineVersion) {
		return fmt.Errorf("world requires engine %s, this engine is %s: major versions differ", requires, EngineVersion)
	}
	if semver.Compare(req, EngineVersion) > 0 {
		return fmt.Errorf("world requires engine %s, this engine is %s: upgrade the engine", requires, EngineVersion)
	}
	return nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// player first, then lexical: queries and turn phases visit the
	// viewpoint actor before NPCs.
	sort.Strings(keys)
	for i, k := range keys {
		if k == types.PlayerID && i != 0 {
			copy(keys[1:i+1], keys[:i])
			keys[0] = k
			break
		}
	}
	return keys
}
