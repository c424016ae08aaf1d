package core

import (
	"github.com/jedharris/text-game-sub000/internal/behavior"
)

// TurnPhases declares the base turn-phase hooks. It registers no events of
// its own; games bind handlers to these hooks through their own modules.
func TurnPhases() *behavior.Module {
	hooks := make([]behavior.HookDefinition, 0, len(behavior.BasePhases))
	descriptions := map[string]string{
		"turn_npc_action":           "non-player actors act",
		"turn_environmental_effect": "weather, light, ambient changes",
		"turn_condition_tick":       "timed conditions advance",
		"turn_death_check":          "actors past their limits are removed",
	}
	for _, h := range behavior.BasePhases {
		hooks = append(hooks, behavior.HookDefinition{
			Hook:        h,
			Invocation:  "turn_phase",
			Description: descriptions[h],
		})
	}
	return &behavior.Module{
		ID:              "core.turnphases",
		Source:          behavior.SourceCore,
		HookDefinitions: hooks,
	}
}
