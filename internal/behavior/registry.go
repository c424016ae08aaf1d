package behavior

import (
	"fmt"
	"sort"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/validation"
	"github.com/jedharris/text-game-sub000/internal/world"
)

type handlerEntry struct {
	moduleID string
	fn       HandlerFunc
}

type eventEntry struct {
	moduleID string
	hook     string
	fn       EventFunc
}

// Registry binds verbs, events and hooks to handlers. Loading is two-phase:
// Register collects everything, Finalize runs the hook validators and
// computes the cached turn-phase order. A registry that has not been
// finalised must not dispatch.
type Registry struct {
	modules    []*Module
	moduleByID map[string]*Module

	handlers map[string]handlerEntry
	events   map[string][]eventEntry

	hookDefs     []validation.HookDef
	hookByName   map[string]validation.HookDef
	eventForHook map[string]string

	phaseOrder []string
	finalized  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		moduleByID:   map[string]*Module{},
		handlers:     map[string]handlerEntry{},
		events:       map[string][]eventEntry{},
		hookByName:   map[string]validation.HookDef{},
		eventForHook: map[string]string{},
	}
}

// Register runs phase one for a single module: vocabulary is recorded,
// handlers are registered (later modules win on verb collision), events and
// hook definitions are collected. Duplicate hook names with different
// invocations are rejected immediately.
func (r *Registry) Register(m *Module) error {
	if m.ID == "" {
		return fmt.Errorf("behavior module with empty id")
	}
	if _, dup := r.moduleByID[m.ID]; dup {
		return fmt.Errorf("behavior module %q registered twice", m.ID)
	}
	for _, hd := range m.HookDefinitions {
		if prev, exists := r.hookByName[hd.Hook]; exists && prev.Invocation != hd.Invocation {
			return fmt.Errorf("hook %q: module %q declares invocation %q but %q already declared %q",
				hd.Hook, m.ID, hd.Invocation, prev.DefinedBy, prev.Invocation)
		}
	}

	r.modules = append(r.modules, m)
	r.moduleByID[m.ID] = m

	for verb, fn := range m.Handlers {
		r.handlers[verb] = handlerEntry{moduleID: m.ID, fn: fn}
	}
	for _, ev := range m.Events {
		r.events[ev.Event] = append(r.events[ev.Event], eventEntry{
			moduleID: m.ID,
			hook:     ev.Hook,
			fn:       ev.Handler,
		})
		if ev.Hook != "" {
			r.eventForHook[ev.Hook] = ev.Event
		}
	}
	for _, hd := range m.HookDefinitions {
		def := validation.HookDef{
			Name:        hd.Hook,
			Invocation:  hd.Invocation,
			After:       hd.After,
			Description: hd.Description,
			DefinedBy:   m.ID,
		}
		r.hookDefs = append(r.hookDefs, def)
		r.hookByName[hd.Hook] = def
	}
	return nil
}

// Finalize runs phase two: the hook validators, the verb/vocabulary
// agreement check, and the turn-phase topological sort. state may be nil
// when no world is loaded yet (vocabulary-only use); extraPhases comes from
// world metadata. Any failure aborts with the aggregated report.
func (r *Registry) Finalize(s *world.State, extraPhases []string) error {
	report := validation.CheckHooks(r.hookDefs, r.eventRegs(), s)

	// Every handler must correspond to a verb declared in the merged
	// vocabulary.
	declared := map[string]bool{}
	for _, m := range r.modules {
		for _, v := range m.Vocabulary.Verbs {
			declared[v.Word] = true
			for _, syn := range v.Synonyms {
				declared[syn] = true
			}
		}
	}
	for _, verb := range sortedHandlerVerbs(r.handlers) {
		if !declared[verb] {
			report.Errorf("handler for verb %q has no vocabulary declaration", verb)
		}
	}

	order, err := r.computePhaseOrder(extraPhases)
	if err != nil {
		report.Errorf("%v", err)
	}
	if err := report.Err(); err != nil {
		return err
	}
	r.phaseOrder = order
	r.finalized = true
	return nil
}

func (r *Registry) eventRegs() []validation.EventReg {
	var regs []validation.EventReg
	for event, entries := range r.events {
		for _, e := range entries {
			regs = append(regs, validation.EventReg{Event: event, Hook: e.hook, Module: e.moduleID})
		}
	}
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].Event != regs[j].Event {
			return regs[i].Event < regs[j].Event
		}
		return regs[i].Module < regs[j].Module
	})
	return regs
}

// ModuleIDs returns the loaded module id set, for the structural validator.
func (r *Registry) ModuleIDs() map[string]bool {
	out := make(map[string]bool, len(r.moduleByID))
	for id := range r.moduleByID {
		out[id] = true
	}
	return out
}

// Modules returns the registered modules in load order.
func (r *Registry) Modules() []*Module { return r.modules }

// HasHandler reports whether verb has a registered handler.
func (r *Registry) HasHandler(verb string) bool {
	_, ok := r.handlers[verb]
	return ok
}

// InvokeHandler dispatches verb to its handler.
func (r *Registry) InvokeHandler(verb string, acc world.Accessor, action *types.Action) (HandlerResult, error) {
	entry, ok := r.handlers[verb]
	if !ok {
		return HandlerResult{}, fmt.Errorf("no handler for verb %q", verb)
	}
	return entry.fn(acc, action), nil
}

// InvokeBehavior fires event on a single entity: every handler registered
// for the event by a module in the entity's behaviors list runs, in the
// order the modules appear in that list. That order is a stable contract.
// Returns the non-empty narration beats.
func (r *Registry) InvokeBehavior(e types.Entity, event string, acc world.Accessor, data map[string]any) ([]string, error) {
	if e == nil {
		return nil, nil
	}
	var beats []string
	for _, moduleID := range e.BehaviorList() {
		for _, entry := range r.events[event] {
			if entry.moduleID != moduleID {
				continue
			}
			verb, _ := data["verb"].(string)
			msg, err := entry.fn(acc, &EventContext{
				Entity: e,
				Verb:   verb,
				Data:   data,
			})
			if err != nil {
				return beats, fmt.Errorf("module %q event %q on %q: %w", moduleID, event, e.EntityID(), err)
			}
			if msg != "" {
				beats = append(beats, msg)
			}
		}
	}
	return beats, nil
}

// Reactor adapts the registry to the accessor's callback shape.
func (r *Registry) Reactor() world.Reactor {
	return func(e types.Entity, event string, acc world.Accessor, data map[string]any) ([]string, error) {
		return r.InvokeBehavior(e, event, acc, data)
	}
}

// GetEventForHook is the reverse lookup the turn-phase driver uses.
func (r *Registry) GetEventForHook(hook string) (string, bool) {
	ev, ok := r.eventForHook[hook]
	return ev, ok
}

// HookDefinitions returns the collected definitions, for diagnostics.
func (r *Registry) HookDefinitions() []validation.HookDef { return r.hookDefs }

func sortedHandlerVerbs(handlers map[string]handlerEntry) []string {
	verbs := make([]string, 0, len(handlers))
	for v := range handlers {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	return verbs
}
