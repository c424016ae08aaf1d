// Package behavior defines the module contract and the registry that binds
// verbs, events and turn-phase hooks to their handlers. Registration is
// explicit: a module declares tables of names and function pointers, and
// the registry stores them keyed by name. No reflection anywhere.
package behavior

import (
	"fmt"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// SourceType orders module loading: core first, then library, then game.
// Later sources override earlier ones on verb collisions.
type SourceType int

const (
	SourceCore SourceType = iota
	SourceLibrary
	SourceGame
)

func (s SourceType) String() string {
	switch s {
	case SourceCore:
		return "core"
	case SourceLibrary:
		return "library"
	case SourceGame:
		return "game"
	}
	return "unknown"
}

// HandlerResult is what a verb handler returns to the protocol layer.
type HandlerResult struct {
	Success bool
	Message string
	Data    map[string]any
	// Beats are narration fragments accumulated along the way (implicit
	// movement, entity reactions). The protocol layer folds them into the
	// reply message.
	Beats []string
}

// Okf builds a successful result with a formatted message.
func Okf(format string, args ...any) HandlerResult {
	return HandlerResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Failf builds a failed result with a formatted message.
func Failf(format string, args ...any) HandlerResult {
	return HandlerResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

// HandlerFunc is a verb handler. It resolves the action's nouns, checks
// preconditions, mutates through the accessor, and composes narration.
type HandlerFunc func(acc world.Accessor, action *types.Action) HandlerResult

// EventContext carries the invocation details into an event handler.
// Entity is nil for turn-phase events.
type EventContext struct {
	Entity  types.Entity
	Hook    string
	ActorID string
	Verb    string
	Data    map[string]any
}

// EventFunc handles an entity or turn-phase event. The returned string is a
// narration beat; empty means silence.
type EventFunc func(acc world.Accessor, ctx *EventContext) (string, error)

// EventSpec registers one handler for a named event, optionally bound to a
// hook.
type EventSpec struct {
	Event   string
	Hook    string
	Handler EventFunc
}

// HookDefinition declares a hook a module owns.
type HookDefinition struct {
	Hook        string
	Invocation  string // "turn_phase" or "entity"
	After       []string
	Description string
}

// VerbDef declares a verb with its surface synonyms.
type VerbDef struct {
	Word           string
	Synonyms       []string
	ObjectRequired bool
}

// Vocabulary is a module's contribution to the merged parser vocabulary.
type Vocabulary struct {
	Verbs        []VerbDef
	Nouns        []string
	Adjectives   []string
	Prepositions []string
	Directions   []string
	Articles     []string
}

// Module is the unit of behavior registration. ID is what world files name
// in entity behaviors lists (e.g. "core.doors").
type Module struct {
	ID              string
	Source          SourceType
	Vocabulary      Vocabulary
	Handlers        map[string]HandlerFunc
	Events          []EventSpec
	HookDefinitions []HookDefinition
}
