package types

import (
	"encoding/json"
	"testing"
)

func TestParseExitSlot(t *testing.T) {
	tests := []struct {
		id       string
		loc, dir string
		ok       bool
	}{
		{"exit:loc_hall:east", "loc_hall", "east", true},
		{"exit:loc:a:b", "loc:a", "b", true}, // direction is the last segment
		{"exit:loc_hall:", "", "", false},
		{"exit::east", "", "", false},
		{"loc_hall", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		loc, dir, ok := ParseExitSlot(tt.id)
		if ok != tt.ok || loc != tt.loc || dir != tt.dir {
			t.Errorf("ParseExitSlot(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.id, loc, dir, ok, tt.loc, tt.dir, tt.ok)
		}
	}
}

func TestExitSlotRoundTrip(t *testing.T) {
	id := ExitSlotID("loc_hall", "east")
	if id != "exit:loc_hall:east" {
		t.Fatalf("ExitSlotID = %q", id)
	}
	loc, dir, ok := ParseExitSlot(id)
	if !ok || loc != "loc_hall" || dir != "east" {
		t.Errorf("round trip failed: (%q, %q, %v)", loc, dir, ok)
	}
}

func TestIsRemovalSentinel(t *testing.T) {
	if !IsRemovalSentinel(SentinelConsumed) {
		t.Error("SentinelConsumed should be a removal sentinel")
	}
	if IsRemovalSentinel("loc_hall") {
		t.Error("loc_hall is not a sentinel")
	}
}

func TestIsReservedActorName(t *testing.T) {
	for _, name := range []string{"player", "Player", "SELF", "me", "Myself", "npc"} {
		if !IsReservedActorName(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	if IsReservedActorName("guard") {
		t.Error("guard should not be reserved")
	}
}

func TestWordPromotion(t *testing.T) {
	var a Action
	data := []byte(`{"verb":"take","object":"sword","indirect_object":{"word":"bag","word_type":"noun","synonyms":["sack"]}}`)
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.ObjectWord() != "sword" {
		t.Errorf("object = %q, want sword", a.ObjectWord())
	}
	if a.IndirectWord() != "bag" {
		t.Errorf("indirect = %q, want bag", a.IndirectWord())
	}
	if len(a.IndirectObject.Synonyms) != 1 || a.IndirectObject.Synonyms[0] != "sack" {
		t.Errorf("synonyms = %v", a.IndirectObject.Synonyms)
	}
}

func TestDoorStateRoundTrip(t *testing.T) {
	p := Properties{}
	p.SetDoor(DoorState{Open: false, Locked: true, LockID: "lock_1"})
	d, ok := p.Door()
	if !ok {
		t.Fatal("door sub-map missing after SetDoor")
	}
	if d.Open || !d.Locked || d.LockID != "lock_1" {
		t.Errorf("door = %+v", d)
	}
}

func TestContainerDecoding(t *testing.T) {
	p := Properties{
		"container": map[string]any{"open": true, "surface": false, "capacity": float64(3)},
	}
	c, ok := p.Container()
	if !ok {
		t.Fatal("container not detected")
	}
	if !c.Open || c.Surface || c.Capacity != 3 {
		t.Errorf("container = %+v", c)
	}
	p.SetContainerOpen(false)
	c, _ = p.Container()
	if c.Open {
		t.Error("SetContainerOpen(false) did not stick")
	}
}

func TestHiddenState(t *testing.T) {
	p := Properties{}
	if p.Hidden() {
		t.Error("empty props should not be hidden")
	}
	p.SetHidden(true)
	if !p.Hidden() {
		t.Error("SetHidden(true) did not stick")
	}
	p.SetHidden(false)
	if p.Hidden() {
		t.Error("SetHidden(false) did not stick")
	}
}

func TestPropertiesClone(t *testing.T) {
	p := Properties{
		"states": map[string]any{"hidden": true},
		"tags":   []any{"a", "b"},
		"n":      2,
	}
	c := p.Clone()
	c.SubMap("states")["hidden"] = false
	if !p.Hidden() {
		t.Error("clone shares nested map with source")
	}
}
