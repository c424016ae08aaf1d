package behavior

import (
	"fmt"

	"github.com/jedharris/text-game-sub000/internal/validation"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// BasePhases is the fixed tail of every turn: NPCs act, the environment
// ticks, conditions advance, deaths resolve. Extra phases from world
// metadata run before these.
var BasePhases = []string{
	"turn_npc_action",
	"turn_environmental_effect",
	"turn_condition_tick",
	"turn_death_check",
}

// computePhaseOrder resolves the extra phases' after-dependency graph with a
// stable topological sort (declaration order breaks ties) and appends the
// base sequence. A cycle is a startup error.
func (r *Registry) computePhaseOrder(extraPhases []string) ([]string, error) {
	base := map[string]bool{}
	for _, p := range BasePhases {
		base[p] = true
	}

	var extras []string
	for _, p := range extraPhases {
		if base[p] {
			continue // declaring a base phase as extra is a no-op
		}
		extras = append(extras, p)
	}

	inExtras := map[string]bool{}
	for _, p := range extras {
		inExtras[p] = true
	}

	// Edges among extras only: a dependency on a base phase cannot be
	// honoured (base phases always run last) and is rejected.
	deps := map[string][]string{}
	for _, p := range extras {
		def, ok := r.hookByName[p]
		if !ok {
			return nil, fmt.Errorf("extra turn phase %q is not a defined hook", p)
		}
		if def.Invocation != validation.InvocationTurnPhase {
			return nil, fmt.Errorf("extra turn phase %q is not a turn_phase hook", p)
		}
		for _, after := range def.After {
			if base[after] {
				return nil, fmt.Errorf("extra turn phase %q cannot run after base phase %q", p, after)
			}
			if inExtras[after] {
				deps[p] = append(deps[p], after)
			}
		}
	}

	ordered, err := topoSort(extras, deps)
	if err != nil {
		return nil, err
	}
	return append(ordered, BasePhases...), nil
}

// topoSort is Kahn's algorithm with a declaration-order queue, so the
// result is deterministic for a given world file.
func topoSort(nodes []string, deps map[string][]string) ([]string, error) {
	indegree := map[string]int{}
	dependents := map[string][]string{}
	for _, n := range nodes {
		indegree[n] = 0
	}
	for n, ds := range deps {
		for _, d := range ds {
			indegree[n]++
			dependents[d] = append(dependents[d], n)
		}
	}

	var queue, out []string
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if len(out) != len(nodes) {
		var stuck []string
		for _, n := range nodes {
			if indegree[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, fmt.Errorf("turn phase dependency cycle involving %v", stuck)
	}
	return out, nil
}

// PhaseOrder returns the cached phase order. Empty before Finalize.
func (r *Registry) PhaseOrder() []string { return r.phaseOrder }

// RunTurnPhases fires each phase in the cached order. For every phase with
// a registered event, every handler for that event runs (no short-circuit);
// non-empty narration strings are collected in order. Call only after a
// successful command.
func (r *Registry) RunTurnPhases(acc world.Accessor, actorID string) ([]string, error) {
	var messages []string
	for _, hook := range r.phaseOrder {
		event, ok := r.eventForHook[hook]
		if !ok {
			continue
		}
		for _, entry := range r.events[event] {
			msg, err := entry.fn(acc, &EventContext{Hook: hook, ActorID: actorID})
			if err != nil {
				return messages, fmt.Errorf("turn phase %q (module %q): %w", hook, entry.moduleID, err)
			}
			if msg != "" {
				messages = append(messages, msg)
			}
		}
	}
	return messages, nil
}
