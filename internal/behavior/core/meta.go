package core

import (
	"strings"

	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// Signal values meta verbs put in data.signal. The host interprets them;
// the engine itself performs no save/load/quit I/O.
const (
	SignalSave = "save"
	SignalLoad = "load"
	SignalQuit = "quit"
)

// MetaVerbs bypass the corruption latch so a broken session can still be
// saved or abandoned. They are out-of-world: a successful meta command does
// not advance the turn counter and fires no turn phases, so the counter
// tracks successful in-world commands only.
var MetaVerbs = map[string]bool{
	"save": true,
	"load": true,
	"quit": true,
	"help": true,
}

func (c *coreSet) meta() *behavior.Module {
	return &behavior.Module{
		ID:     "core.meta",
		Source: behavior.SourceCore,
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.VerbDef{
				{Word: "save"},
				{Word: "load", Synonyms: []string{"restore"}},
				{Word: "quit", Synonyms: []string{"exit"}},
				{Word: "help"},
			},
		},
		Handlers: map[string]behavior.HandlerFunc{
			"save": c.handleSave,
			"load": c.handleLoad,
			"quit": c.handleQuit,
			"help": c.handleHelp,
		},
	}
}

func (c *coreSet) handleSave(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res := behavior.Okf("Saving the game.")
	res.Data = map[string]any{"signal": SignalSave}
	if f := filenameFrom(action); f != "" {
		res.Data["filename"] = f
	}
	return res
}

func (c *coreSet) handleLoad(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res := behavior.Okf("Loading a saved game.")
	res.Data = map[string]any{"signal": SignalLoad}
	if f := filenameFrom(action); f != "" {
		res.Data["filename"] = f
	}
	return res
}

func (c *coreSet) handleQuit(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res := behavior.Okf("Goodbye.")
	res.Data = map[string]any{"signal": SignalQuit}
	return res
}

func (c *coreSet) handleHelp(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	lines := []string{
		"Common commands:",
		"  look / examine <thing> / search <thing> / inventory",
		"  go <direction> / approach <thing>",
		"  take / drop / put <thing> in <container> / give <thing> to <actor>",
		"  open / close / lock / unlock <thing>",
		"  hide / climb <thing> / stand",
		"  save [name] / load [name] / quit",
	}
	return behavior.Okf("%s", strings.Join(lines, "\n"))
}

// filenameFrom pulls a save-slot name off the command: the object word if
// present, else the raw text after the preposition.
func filenameFrom(action *types.Action) string {
	if w := action.ObjectWord(); w != "" {
		return w
	}
	return strings.TrimSpace(action.RawAfterPreposition)
}
