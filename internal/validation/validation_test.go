package validation

import (
	"strings"
	"testing"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func minimalWorld(t *testing.T) *world.State {
	t.Helper()
	s := world.NewState()
	s.Metadata.StartLocation = "loc_a"
	s.AddLocation(&types.Location{ID: "loc_a", Name: "room"})
	s.AddActor(&types.Actor{ID: types.PlayerID, Name: "player", Location: "loc_a"})
	s.BuildIndices()
	return s
}

func TestCleanWorldPasses(t *testing.T) {
	r := CheckWorld(minimalWorld(t), nil)
	if !r.OK() {
		t.Fatalf("clean world rejected: %v", r)
	}
}

func TestMissingPlayer(t *testing.T) {
	s := world.NewState()
	s.AddLocation(&types.Location{ID: "loc_a", Name: "room"})
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if r.OK() || !containsError(r, `no "player" actor`) {
		t.Errorf("missing player not reported: %v", r.Errors)
	}
}

func TestDuplicateAndReservedIDs(t *testing.T) {
	s := minimalWorld(t)
	s.AddItem(&types.Item{ID: "loc_a", Name: "impostor", Location: "loc_a"})
	s.AddItem(&types.Item{ID: "player", Name: "impostor2", Location: "loc_a"})
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !containsError(r, "duplicate id") {
		t.Errorf("duplicate not reported: %v", r.Errors)
	}
	if !containsError(r, "reserved") {
		t.Errorf("reserved player id not reported: %v", r.Errors)
	}
}

func TestContainmentCycleReported(t *testing.T) {
	s := minimalWorld(t)
	s.AddItem(&types.Item{ID: "box_a", Name: "box", Location: "box_b"})
	s.AddItem(&types.Item{ID: "box_b", Name: "box", Location: "box_a"})
	s.BuildIndices()
	r := CheckWorld(s, nil)
	found := false
	for _, e := range r.Errors {
		if strings.Contains(e, "cycle") && strings.Contains(e, "box_a") && strings.Contains(e, "box_b") {
			found = true
		}
	}
	if !found {
		t.Errorf("cycle error should mention both ids: %v", r.Errors)
	}
	// The cycle is reported once, not once per member.
	count := 0
	for _, e := range r.Errors {
		if strings.Contains(e, "cycle") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("cycle reported %d times", count)
	}
}

func TestDoorLocationForm(t *testing.T) {
	s := minimalWorld(t)
	door := &types.Item{ID: "door_1", Name: "door", Location: "loc_a"}
	door.Props().SetDoor(types.DoorState{Locked: false})
	s.AddItem(door)
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !containsError(r, "exit:<loc>:<dir>") {
		t.Errorf("door with plain location not reported: %v", r.Errors)
	}
}

func TestExitSlotValidation(t *testing.T) {
	s := minimalWorld(t)
	door := &types.Item{ID: "door_1", Name: "door", Location: "exit:loc_missing:east"}
	door.Props().SetDoor(types.DoorState{})
	s.AddItem(door)
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !containsError(r, "unknown location") {
		t.Errorf("bad exit slot not reported: %v", r.Errors)
	}
}

func TestLockReferences(t *testing.T) {
	s := minimalWorld(t)
	lock := &types.Lock{ID: "lock_1", Name: "lock"}
	lock.Props()[types.PropOpensWith] = []any{"item_missing"}
	s.AddLock(lock)
	door := &types.Item{ID: "door_1", Name: "door", Location: "exit:loc_a:east"}
	door.Props().SetDoor(types.DoorState{LockID: "lock_missing"})
	s.AddItem(door)
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !containsError(r, "opens_with") {
		t.Errorf("bad opens_with not reported: %v", r.Errors)
	}
	if !containsError(r, "lock_missing") {
		t.Errorf("bad lock_id not reported: %v", r.Errors)
	}
}

func TestReservedActorName(t *testing.T) {
	s := minimalWorld(t)
	s.AddActor(&types.Actor{ID: "npc_1", Name: "Myself", Location: "loc_a"})
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !containsError(r, "reserved") {
		t.Errorf("reserved actor name not reported: %v", r.Errors)
	}
}

func TestPartsOfPartsForbidden(t *testing.T) {
	s := minimalWorld(t)
	s.AddPart(&types.Part{ID: "part_a", Name: "shelf", PartOf: "loc_a"})
	s.AddPart(&types.Part{ID: "part_b", Name: "bracket", PartOf: "part_a"})
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !containsError(r, "parts of parts") {
		t.Errorf("part-of-part not reported: %v", r.Errors)
	}
}

func TestBehaviorRefsChecked(t *testing.T) {
	s := minimalWorld(t)
	s.AddItem(&types.Item{ID: "item_a", Name: "thing", Location: "loc_a", Behaviors: []string{"core.missing"}})
	s.BuildIndices()
	r := CheckWorld(s, map[string]bool{"core.doors": true})
	if !containsError(r, "core.missing") {
		t.Errorf("unknown behavior module not reported: %v", r.Errors)
	}
	// nil module set skips the check.
	r = CheckWorld(s, nil)
	if containsError(r, "core.missing") {
		t.Error("behavior check should be skipped without a module list")
	}
}

func TestAsymmetricConnectionWarns(t *testing.T) {
	s := minimalWorld(t)
	s.AddLocation(&types.Location{ID: "loc_b", Name: "room b"})
	s.AddExit(&types.Exit{ID: "exit_a", Name: "chute", Location: "loc_a", Direction: "down", Connections: []string{"exit_b"}})
	s.AddExit(&types.Exit{ID: "exit_b", Name: "hatch", Location: "loc_b", Direction: "up"})
	s.BuildIndices()
	r := CheckWorld(s, nil)
	if !r.OK() {
		t.Fatalf("asymmetry must not be a hard error: %v", r.Errors)
	}
	if len(r.Warnings) == 0 || !strings.Contains(r.Warnings[0], "vice versa") {
		t.Errorf("asymmetry warning missing: %v", r.Warnings)
	}
}

func TestHookValidators(t *testing.T) {
	defs := []HookDef{
		{Name: "turn_npc_action", Invocation: InvocationTurnPhase, DefinedBy: "core.turnphases"},
		{Name: "bad_name", Invocation: InvocationTurnPhase, DefinedBy: "m1"},
		{Name: "entity_reaction", Invocation: InvocationEntity, DefinedBy: "m2"},
		{Name: "entity_bad", Invocation: "weird", DefinedBy: "m2"},
		{Name: "turn_custom", Invocation: InvocationTurnPhase, After: []string{"entity_reaction"}, DefinedBy: "m3"},
		{Name: "turn_dangling", Invocation: InvocationTurnPhase, After: []string{"turn_missing"}, DefinedBy: "m3"},
	}
	regs := []EventReg{
		{Event: "on_tick", Hook: "turn_npc_action", Module: "m1"},
		{Event: "on_ghost", Hook: "turn_nowhere", Module: "m1"},
	}
	r := CheckHooks(defs, regs, nil)
	if !containsError(r, "must begin with turn_") {
		t.Errorf("prefix check missed: %v", r.Errors)
	}
	if !containsError(r, "unknown invocation") {
		t.Errorf("invocation check missed: %v", r.Errors)
	}
	if !containsError(r, "not a turn_phase hook") {
		t.Errorf("after-kind check missed: %v", r.Errors)
	}
	if !containsError(r, "turn_missing") {
		t.Errorf("after-defined check missed: %v", r.Errors)
	}
	if !containsError(r, "turn_nowhere") {
		t.Errorf("hooks-are-defined check missed: %v", r.Errors)
	}
}

func TestTurnPhaseModuleNotOnEntities(t *testing.T) {
	s := minimalWorld(t)
	s.AddItem(&types.Item{ID: "item_a", Name: "thing", Location: "loc_a", Behaviors: []string{"game.weather"}})
	s.BuildIndices()
	defs := []HookDef{
		{Name: "turn_weather", Invocation: InvocationTurnPhase, DefinedBy: "game.weather"},
	}
	r := CheckHooks(defs, nil, s)
	if !containsError(r, "turn_phase hook") {
		t.Errorf("entity with turn-phase module not reported: %v", r.Errors)
	}
}

func TestConflictingInvocations(t *testing.T) {
	defs := []HookDef{
		{Name: "turn_x", Invocation: InvocationTurnPhase, DefinedBy: "a"},
		{Name: "turn_x", Invocation: InvocationEntity, DefinedBy: "b"},
	}
	r := CheckHooks(defs, nil, nil)
	if !containsError(r, "conflicting invocations") {
		t.Errorf("conflict not reported: %v", r.Errors)
	}
}

func TestReportAggregation(t *testing.T) {
	r := &Report{}
	if r.Err() != nil {
		t.Error("empty report should be nil error")
	}
	r.Errorf("first")
	r.Errorf("second")
	msg := r.Error()
	if !strings.Contains(msg, "2 error(s)") || !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Errorf("aggregate message = %q", msg)
	}
}

func containsError(r *Report, substr string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
