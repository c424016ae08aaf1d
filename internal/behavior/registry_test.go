package behavior

import (
	"strings"
	"testing"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func testAccessor() world.Accessor {
	s := world.NewState()
	s.AddLocation(&types.Location{ID: "loc_a", Name: "room"})
	s.AddActor(&types.Actor{ID: types.PlayerID, Name: "player", Location: "loc_a"})
	s.BuildIndices()
	return world.NewAccessor(s, nil)
}

func verbModule(id string, source SourceType, verb string, message string) *Module {
	return &Module{
		ID:     id,
		Source: source,
		Vocabulary: Vocabulary{
			Verbs: []VerbDef{{Word: verb}},
		},
		Handlers: map[string]HandlerFunc{
			verb: func(acc world.Accessor, action *types.Action) HandlerResult {
				return Okf("%s", message)
			},
		},
	}
}

func TestRegisterAndInvoke(t *testing.T) {
	reg := NewRegistry()
	if err := Load(reg, verbModule("core.test", SourceCore, "wave", "you wave")); err != nil {
		t.Fatal(err)
	}
	if err := reg.Finalize(nil, nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !reg.HasHandler("wave") {
		t.Fatal("wave not registered")
	}
	res, err := reg.InvokeHandler("wave", testAccessor(), &types.Action{Verb: "wave"})
	if err != nil || !res.Success || res.Message != "you wave" {
		t.Errorf("invoke = %+v, %v", res, err)
	}
	if _, err := reg.InvokeHandler("dance", testAccessor(), &types.Action{Verb: "dance"}); err == nil {
		t.Error("unknown verb should error")
	}
}

func TestLaterSourceOverridesVerb(t *testing.T) {
	reg := NewRegistry()
	// Passed out of order on purpose: Load sorts core before game.
	err := Load(reg,
		verbModule("game.custom", SourceGame, "wave", "game wave"),
		verbModule("core.test", SourceCore, "wave", "core wave"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Finalize(nil, nil); err != nil {
		t.Fatal(err)
	}
	res, _ := reg.InvokeHandler("wave", testAccessor(), &types.Action{Verb: "wave"})
	if res.Message != "game wave" {
		t.Errorf("message = %q, want the game module to win", res.Message)
	}
}

func TestDuplicateModuleRejected(t *testing.T) {
	reg := NewRegistry()
	m := verbModule("core.test", SourceCore, "wave", "hi")
	if err := reg.Register(m); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(m); err == nil {
		t.Error("duplicate module id should be rejected")
	}
}

func TestConflictingHookInvocationRejectedAtRegistration(t *testing.T) {
	reg := NewRegistry()
	a := &Module{ID: "a", HookDefinitions: []HookDefinition{{Hook: "turn_x", Invocation: "turn_phase"}}}
	b := &Module{ID: "b", HookDefinitions: []HookDefinition{{Hook: "turn_x", Invocation: "entity"}}}
	if err := reg.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(b); err == nil {
		t.Error("conflicting invocation should be rejected at registration time")
	}
}

func TestFinalizeRejectsUndeclaredVerb(t *testing.T) {
	reg := NewRegistry()
	m := &Module{
		ID: "core.bad",
		Handlers: map[string]HandlerFunc{
			"mumble": func(acc world.Accessor, action *types.Action) HandlerResult { return Okf("m") },
		},
	}
	if err := reg.Register(m); err != nil {
		t.Fatal(err)
	}
	err := reg.Finalize(nil, nil)
	if err == nil || !strings.Contains(err.Error(), "mumble") {
		t.Errorf("undeclared verb not rejected: %v", err)
	}
}

func TestInvokeBehaviorHonorsListOrder(t *testing.T) {
	var order []string
	mkModule := func(id string) *Module {
		return &Module{
			ID: id,
			Events: []EventSpec{{
				Event: "on_take",
				Handler: func(acc world.Accessor, ctx *EventContext) (string, error) {
					order = append(order, id)
					return "beat from " + id, nil
				},
			}},
		}
	}
	reg := NewRegistry()
	for _, id := range []string{"m1", "m2", "m3"} {
		if err := reg.Register(mkModule(id)); err != nil {
			t.Fatal(err)
		}
	}
	item := &types.Item{ID: "item_x", Name: "x", Behaviors: []string{"m3", "m1"}}
	beats, err := reg.InvokeBehavior(item, "on_take", testAccessor(), map[string]any{"verb": "take"})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "m3" || order[1] != "m1" {
		t.Errorf("invocation order = %v, want [m3 m1]", order)
	}
	if len(beats) != 2 || beats[0] != "beat from m3" {
		t.Errorf("beats = %v", beats)
	}
	// m2 is registered but not in the behaviors list.
	for _, b := range beats {
		if strings.Contains(b, "m2") {
			t.Error("m2 should not fire")
		}
	}
}

func phaseModule(id, hook string, after []string, marker string, log *[]string) *Module {
	return &Module{
		ID: id,
		HookDefinitions: []HookDefinition{
			{Hook: hook, Invocation: "turn_phase", After: after},
		},
		Events: []EventSpec{{
			Event: "on_" + hook,
			Hook:  hook,
			Handler: func(acc world.Accessor, ctx *EventContext) (string, error) {
				*log = append(*log, marker)
				return marker, nil
			},
		}},
	}
}

func basePhaseModule() *Module {
	hooks := make([]HookDefinition, 0, len(BasePhases))
	for _, h := range BasePhases {
		hooks = append(hooks, HookDefinition{Hook: h, Invocation: "turn_phase"})
	}
	return &Module{ID: "core.turnphases", HookDefinitions: hooks}
}

func TestPhaseOrderWithExtras(t *testing.T) {
	var log []string
	reg := NewRegistry()
	mods := []*Module{
		basePhaseModule(),
		phaseModule("game.commitment", "turn_phase_commitment", []string{"turn_phase_scheduled"}, "commitment", &log),
		phaseModule("game.scheduled", "turn_phase_scheduled", nil, "scheduled", &log),
	}
	for _, m := range mods {
		if err := reg.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	// Metadata declares them in dependency-violating order; the topo sort
	// must fix it.
	if err := reg.Finalize(nil, []string{"turn_phase_commitment", "turn_phase_scheduled"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	order := reg.PhaseOrder()
	want := append([]string{"turn_phase_scheduled", "turn_phase_commitment"}, BasePhases...)
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	msgs, err := reg.RunTurnPhases(testAccessor(), types.PlayerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0] != "scheduled" || msgs[1] != "commitment" {
		t.Errorf("phase messages = %v", msgs)
	}
}

func TestPhaseCycleAbortsFinalize(t *testing.T) {
	var log []string
	reg := NewRegistry()
	mods := []*Module{
		basePhaseModule(),
		phaseModule("g.a", "turn_a", []string{"turn_b"}, "a", &log),
		phaseModule("g.b", "turn_b", []string{"turn_a"}, "b", &log),
	}
	for _, m := range mods {
		if err := reg.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	err := reg.Finalize(nil, []string{"turn_a", "turn_b"})
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("cycle not rejected: %v", err)
	}
}

func TestGetEventForHook(t *testing.T) {
	var log []string
	reg := NewRegistry()
	if err := reg.Register(phaseModule("g.s", "turn_phase_scheduled", nil, "s", &log)); err != nil {
		t.Fatal(err)
	}
	ev, ok := reg.GetEventForHook("turn_phase_scheduled")
	if !ok || ev != "on_turn_phase_scheduled" {
		t.Errorf("GetEventForHook = %q, %v", ev, ok)
	}
	if _, ok := reg.GetEventForHook("turn_nothing"); ok {
		t.Error("unknown hook should not resolve")
	}
}

func TestMergedVocabulary(t *testing.T) {
	reg := NewRegistry()
	m1 := &Module{
		ID:     "core.a",
		Source: SourceCore,
		Vocabulary: Vocabulary{
			Verbs:      []VerbDef{{Word: "take", Synonyms: []string{"get"}, ObjectRequired: true}},
			Nouns:      []string{"sword"},
			Adjectives: []string{"rusty"},
		},
	}
	m2 := &Module{
		ID:     "game.b",
		Source: SourceGame,
		Vocabulary: Vocabulary{
			Verbs: []VerbDef{{Word: "take", Synonyms: []string{"grab"}}},
			Nouns: []string{"sword", "shield"},
		},
	}
	if err := Load(reg, m2, m1); err != nil {
		t.Fatal(err)
	}
	v := reg.MergedVocabulary(BaseVocabulary())
	var take *VerbDef
	for i := range v.Verbs {
		if v.Verbs[i].Word == "take" {
			take = &v.Verbs[i]
		}
	}
	if take == nil {
		t.Fatal("take missing from merged vocabulary")
	}
	// Later module wins on synonyms and object_required.
	if len(take.Synonyms) != 1 || take.Synonyms[0] != "grab" || take.ObjectRequired {
		t.Errorf("take = %+v", take)
	}
	if count(v.Nouns, "sword") != 1 {
		t.Errorf("nouns not deduplicated: %v", v.Nouns)
	}
	if count(v.Directions, "north") != 1 {
		t.Error("base directions missing")
	}
}

func count(list []string, s string) int {
	n := 0
	for _, v := range list {
		if v == s {
			n++
		}
	}
	return n
}
