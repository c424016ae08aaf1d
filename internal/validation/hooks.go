package validation

import (
	"strings"

	"github.com/jedharris/text-game-sub000/internal/world"
)

// Hook invocation types.
const (
	InvocationTurnPhase = "turn_phase"
	InvocationEntity    = "entity"
)

// HookDef is a hook declaration as the registry collected it.
type HookDef struct {
	Name        string
	Invocation  string
	After       []string
	Description string
	DefinedBy   string
}

// EventReg is one (event, hook, module) registration.
type EventReg struct {
	Event  string
	Hook   string
	Module string
}

// CheckHooks runs the five finalisation validators over the registry's
// collected hook definitions and event registrations. state may be nil when
// only the module set is being checked (no world loaded yet).
func CheckHooks(defs []HookDef, regs []EventReg, s *world.State) *Report {
	r := &Report{}

	defined := map[string]string{} // hook name -> invocation
	turnPhaseDefiners := map[string]bool{}
	for _, d := range defs {
		switch d.Invocation {
		case InvocationTurnPhase:
			if !strings.HasPrefix(d.Name, "turn_") {
				r.Errorf("hook %q (module %s): turn_phase hooks must begin with turn_", d.Name, d.DefinedBy)
			}
			turnPhaseDefiners[d.DefinedBy] = true
		case InvocationEntity:
			if !strings.HasPrefix(d.Name, "entity_") {
				r.Errorf("hook %q (module %s): entity hooks must begin with entity_", d.Name, d.DefinedBy)
			}
		default:
			r.Errorf("hook %q (module %s): unknown invocation %q", d.Name, d.DefinedBy, d.Invocation)
		}
		if prev, dup := defined[d.Name]; dup && prev != d.Invocation {
			r.Errorf("hook %q defined with conflicting invocations %q and %q", d.Name, prev, d.Invocation)
		} else {
			defined[d.Name] = d.Invocation
		}
	}

	// Dependencies: after may name only defined turn-phase hooks.
	for _, d := range defs {
		if d.Invocation != InvocationTurnPhase {
			if len(d.After) > 0 {
				r.Errorf("hook %q (module %s): after is only valid on turn_phase hooks", d.Name, d.DefinedBy)
			}
			continue
		}
		for _, dep := range d.After {
			inv, ok := defined[dep]
			if !ok {
				r.Errorf("hook %q: after references undefined hook %q", d.Name, dep)
			} else if inv != InvocationTurnPhase {
				r.Errorf("hook %q: after references %q, which is not a turn_phase hook", d.Name, dep)
			}
		}
	}

	// Hooks-are-defined: every registration with a hook must name one.
	for _, reg := range regs {
		if reg.Hook == "" {
			continue
		}
		if _, ok := defined[reg.Hook]; !ok {
			r.Errorf("module %q registers event %q for undefined hook %q", reg.Module, reg.Event, reg.Hook)
		}
	}

	// Turn-phase hooks are world-scoped: no entity may list a module that
	// defines one.
	if s != nil {
		checkEntity := func(entityID string, behaviors []string) {
			for _, b := range behaviors {
				if turnPhaseDefiners[b] {
					r.Errorf("entity %q lists module %q, which defines a turn_phase hook", entityID, b)
				}
			}
		}
		for _, id := range s.LocationIDs() {
			checkEntity(id, s.Locations[id].Behaviors)
		}
		for _, id := range s.ItemIDs() {
			checkEntity(id, s.Items[id].Behaviors)
		}
		for _, id := range s.ActorIDs() {
			checkEntity(id, s.Actors[id].Behaviors)
		}
		for _, id := range s.PartIDs() {
			checkEntity(id, s.Parts[id].Behaviors)
		}
		for _, id := range s.ExitIDs() {
			checkEntity(id, s.Exits[id].Behaviors)
		}
	}

	return r
}
