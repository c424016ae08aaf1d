// Package tif is a data-driven interactive-fiction engine. A host loads a
// JSON or YAML world file, registers behavior modules on top of the bundled
// core set, and drives the game through Engine.HandleMessage: JSON in, JSON
// out. The engine performs no I/O of its own beyond the world-file read;
// saving, networking and narration belong to the host.
package tif

import (
	"fmt"
	"math/rand"

	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/behavior/core"
	"github.com/jedharris/text-game-sub000/internal/protocol"
	"github.com/jedharris/text-game-sub000/internal/serialize"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/validation"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// Re-exported types for hosts and game modules.
type (
	Module          = behavior.Module
	Vocabulary      = behavior.Vocabulary
	VerbDef         = behavior.VerbDef
	HandlerFunc     = behavior.HandlerFunc
	HandlerResult   = behavior.HandlerResult
	EventSpec       = behavior.EventSpec
	EventContext    = behavior.EventContext
	HookDefinition  = behavior.HookDefinition
	SourceType      = behavior.SourceType
	Accessor        = world.Accessor
	Metadata        = world.Metadata
	Action          = types.Action
	Word            = types.Word
	Entity          = types.Entity
	Message         = protocol.Message
	ValidationError = validation.Report
)

// Module source ordering: core loads first, then library, then game.
const (
	SourceCore    = behavior.SourceCore
	SourceLibrary = behavior.SourceLibrary
	SourceGame    = behavior.SourceGame
)

// Okf builds a successful handler result with a formatted message.
func Okf(format string, args ...any) HandlerResult { return behavior.Okf(format, args...) }

// Failf builds a failed handler result with a formatted message.
func Failf(format string, args ...any) HandlerResult { return behavior.Failf(format, args...) }

// Options tunes engine construction.
type Options struct {
	// Modules are registered after the bundled core set; games override
	// core verbs by declaring the same word from a later source.
	Modules []*Module
	// Seed fixes the serializer's RNG for deterministic trait sampling.
	// Zero means time-seeded.
	Seed int64
}

// Engine binds a loaded world, a finalized behavior registry and a protocol
// handler into one message-driven session.
type Engine struct {
	state   *world.State
	reg     *behavior.Registry
	ser     *serialize.Serializer
	handler *protocol.Handler
}

// Open loads a world file (.json or .yaml/.yml) and builds an engine.
func Open(path string, opts Options) (*Engine, error) {
	s, err := world.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return build(s, opts)
}

// FromJSON builds an engine from an in-memory world document.
func FromJSON(doc []byte, opts Options) (*Engine, error) {
	s, err := world.LoadJSON(doc)
	if err != nil {
		return nil, err
	}
	return build(s, opts)
}

func build(s *world.State, opts Options) (*Engine, error) {
	ser := serialize.New()
	if opts.Seed != 0 {
		ser = serialize.NewWithRand(rand.New(rand.NewSource(opts.Seed)))
	}

	reg := behavior.NewRegistry()
	mods := append(core.ModulesWith(ser), opts.Modules...)
	if err := behavior.Load(reg, mods...); err != nil {
		return nil, err
	}
	if err := validation.CheckWorld(s, reg.ModuleIDs()).Err(); err != nil {
		return nil, fmt.Errorf("world validation: %w", err)
	}
	if err := reg.Finalize(s, s.Metadata.ExtraTurnPhases); err != nil {
		return nil, fmt.Errorf("behavior finalization: %w", err)
	}
	return &Engine{
		state:   s,
		reg:     reg,
		ser:     ser,
		handler: protocol.NewHandler(s, reg, ser),
	}, nil
}

// HandleMessage processes one JSON message and returns the JSON reply. It
// never returns an error: malformed input produces an error reply.
func (e *Engine) HandleMessage(raw []byte) []byte {
	return e.handler.HandleMessage(raw)
}

// Handle processes one decoded message.
func (e *Engine) Handle(msg *Message) map[string]any {
	return e.handler.Handle(msg)
}

// SaveJSON serializes the current world state back to the world-file form.
func (e *Engine) SaveJSON() ([]byte, error) {
	return world.SaveJSON(e.state)
}

// Metadata returns the loaded world's header.
func (e *Engine) Metadata() Metadata { return e.state.Metadata }

// TurnCount returns the number of successful non-meta commands so far.
func (e *Engine) TurnCount() int { return e.state.TurnCount }

// Corrupted reports whether the corruption latch has tripped.
func (e *Engine) Corrupted() bool { return e.handler.Corrupted() }

// Accessor exposes the session accessor for host-side reads.
func (e *Engine) Accessor() Accessor { return e.handler.Accessor() }

// VocabularyDocument returns the merged vocabulary for an external parser.
func (e *Engine) VocabularyDocument() map[string]any {
	return e.reg.VocabularyDocument(behavior.BaseVocabulary())
}

// ValidateFile loads and validates a world file without building an engine.
// The returned report carries all structural errors and warnings; err is
// non-nil when loading itself failed.
func ValidateFile(path string) (*validation.Report, error) {
	s, err := world.LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := behavior.NewRegistry()
	if err := behavior.Load(reg, core.Modules()...); err != nil {
		return nil, err
	}
	return validation.CheckWorld(s, reg.ModuleIDs()), nil
}
