// Package serialize converts entities into the JSON view the narrator
// consumes: derived type tags, door and light flags, llm_context trait
// sampling, and perspective-aware annotations.
package serialize

import (
	"math/rand"
	"time"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// Serializer renders entity views. The RNG only drives trait shuffling;
// inject a seeded one for deterministic tests.
type Serializer struct {
	rng *rand.Rand
}

// New returns a serializer with a time-seeded RNG.
func New() *Serializer {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a serializer using rng for trait sampling.
func NewWithRand(rng *rand.Rand) *Serializer {
	return &Serializer{rng: rng}
}

// Entity renders e as a JSON-shaped map. acc supplies the player's posture
// and focus for the perspective fields; it may be nil, in which case the
// perspective and spatial fields are omitted.
func (s *Serializer) Entity(acc world.Accessor, e types.Entity) map[string]any {
	props := e.Props()
	out := map[string]any{
		"id":   e.EntityID(),
		"name": e.EntityName(),
		"type": derivedType(e),
	}
	if desc := e.EntityDescription(); desc != "" {
		out["description"] = desc
	}

	if d, ok := props.Door(); ok {
		out["open"] = d.Open
		out["locked"] = d.Locked
	} else if c, ok := props.Container(); ok {
		out["open"] = c.Open
		if c.Surface {
			out["surface"] = true
		}
	}
	if lit, present := props[types.PropLit]; present {
		out["lit"] = lit == true
	}
	if pl, present := props[types.PropProvidesLight]; present {
		out["provides_light"] = pl == true
	}

	if ex, ok := e.(*types.Exit); ok {
		if dest := s.destination(acc, ex); dest != "" {
			out["destination"] = dest
		}
		if ex.Direction != "" {
			out["direction"] = ex.Direction
		}
	}

	if ctx := s.llmContext(props); ctx != nil {
		out["llm_context"] = ctx
	}

	if acc != nil {
		player := acc.GetActor(types.PlayerID)
		if player != nil {
			posture := player.Props().GetString(types.PropPosture)
			focused := player.Props().GetString(types.PropFocusedOn)
			if note := perspectiveNote(props, posture, focused); note != "" {
				out["perspective_note"] = note
			}
			if posture != "" {
				out["spatial_relation"] = s.spatialRelation(acc, e, posture, focused)
			}
		}
	}
	return out
}

// Location renders a location along with its visible contents and exits.
func (s *Serializer) Location(acc world.Accessor, loc *types.Location) map[string]any {
	out := s.Entity(acc, loc)

	var contents []any
	for _, e := range acc.GetEntitiesAt(loc.ID) {
		if e.Props().Hidden() {
			continue
		}
		contents = append(contents, s.Entity(acc, e))
	}
	if contents != nil {
		out["contents"] = contents
	}

	var exits []any
	for _, ex := range acc.GetExitsFromLocation(loc.ID) {
		view := s.Entity(acc, ex)
		if door := doorForExit(acc, ex); door != nil {
			view["door"] = s.Entity(acc, door)
		}
		exits = append(exits, view)
	}
	if exits != nil {
		out["exits"] = exits
	}
	return out
}

func doorForExit(acc world.Accessor, ex *types.Exit) *types.Item {
	if ex.DoorID != "" {
		return acc.GetDoorItem(ex.DoorID)
	}
	if ex.Direction == "" {
		return nil
	}
	return acc.GetDoorForExit(ex.Location, ex.Direction)
}

// derivedType tags the entity for the narrator: door beats container beats
// item; other kinds map straight through.
func derivedType(e types.Entity) string {
	if it, ok := e.(*types.Item); ok {
		if _, isDoor := it.Props().Door(); isDoor {
			return "door"
		}
		if _, isContainer := it.Props().Container(); isContainer {
			return "container"
		}
		return "item"
	}
	return string(e.EntityKind())
}

// destination names where an exit leads: the location of the first
// connected exit.
func (s *Serializer) destination(acc world.Accessor, ex *types.Exit) string {
	if acc == nil {
		return ""
	}
	for _, connID := range acc.GetExitConnections(ex.ID) {
		if other := acc.GetExit(connID); other != nil {
			return other.Location
		}
	}
	return ""
}

// llmContext copies the llm_context sub-object, shuffling a copy of its
// traits (the source is never mutated) and truncating to max_traits.
func (s *Serializer) llmContext(props types.Properties) map[string]any {
	src := props.SubMap(types.PropLLMContext)
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	traits := src.StringList("traits")
	if traits != nil {
		shuffled := append([]string(nil), traits...)
		s.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if max, ok := src.GetInt("max_traits"); ok && max >= 0 && max < len(shuffled) {
			shuffled = shuffled[:max]
		}
		out["traits"] = shuffled
		delete(out, "max_traits")
	}
	return out
}

// perspectiveNote picks from perspective_variants: the exact
// "<posture>:<focused_on>" key first, then "<posture>", then "default".
func perspectiveNote(props types.Properties, posture, focused string) string {
	variants := props.SubMap(types.PropPerspectiveVariants)
	if variants == nil {
		return ""
	}
	if posture != "" && focused != "" {
		if note := variants.GetString(posture + ":" + focused); note != "" {
			return note
		}
	}
	if posture != "" {
		if note := variants.GetString(posture); note != "" {
			return note
		}
	}
	return variants.GetString("default")
}

// spatialRelation classifies the entity relative to a postured player:
// within_reach when it is (or is inside) the focus target, below when the
// player is elevated and the entity sits in a location, otherwise nearby.
func (s *Serializer) spatialRelation(acc world.Accessor, e types.Entity, posture, focused string) string {
	id := e.EntityID()
	if focused != "" {
		if id == focused {
			return "within_reach"
		}
		if where, ok := acc.GetEntityWhere(id); ok && where == focused {
			return "within_reach"
		}
	}
	if posture == "on_surface" || posture == "climbing" {
		if where, ok := acc.GetEntityWhere(id); ok {
			if acc.GetLocation(where) != nil {
				return "below"
			}
		}
	}
	return "nearby"
}
