package resolve

import (
	"errors"
	"testing"

	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func buildWorld(t *testing.T) world.Accessor {
	t.Helper()
	s := world.NewState()
	s.AddLocation(&types.Location{ID: "loc_hall", Name: "hall", Description: "A long hall."})
	s.AddLocation(&types.Location{ID: "loc_treasure", Name: "treasure room"})

	sword := &types.Item{ID: "item_sword", Name: "sword", Description: "A rusty sword.", Location: "loc_hall"}
	s.AddItem(sword)
	blade := &types.Item{ID: "item_blade", Name: "blade", Description: "A shining blade.", Location: "loc_hall"}
	blade.Props()[types.PropSynonyms] = []any{"sword"}
	s.AddItem(blade)

	chest := &types.Item{ID: "item_chest", Name: "chest", Location: "loc_hall"}
	chest.Props()["container"] = map[string]any{"open": true}
	s.AddItem(chest)
	s.AddItem(&types.Item{ID: "item_gem", Name: "gem", Location: "item_chest"})

	closedBox := &types.Item{ID: "item_box", Name: "box", Location: "loc_hall"}
	closedBox.Props()["container"] = map[string]any{"open": false}
	s.AddItem(closedBox)
	s.AddItem(&types.Item{ID: "item_secret", Name: "pearl", Location: "item_box"})

	hidden := &types.Item{ID: "item_ghost", Name: "phantom", Location: "loc_hall"}
	hidden.Props().SetHidden(true)
	s.AddItem(hidden)

	door := &types.Item{ID: "door_iron", Name: "door", Description: "A heavy iron door.", Location: "exit:loc_hall:east"}
	door.Props().SetDoor(types.DoorState{Locked: true, LockID: "lock_1"})
	s.AddItem(door)

	s.AddItem(&types.Item{ID: "item_key", Name: "key", Location: "player"})

	s.AddActor(&types.Actor{ID: types.PlayerID, Name: "player", Location: "loc_hall", Inventory: []string{"item_key"}})
	s.AddActor(&types.Actor{ID: "npc_guard", Name: "guard", Location: "loc_hall"})

	s.AddPart(&types.Part{ID: "part_mural", Name: "mural", PartOf: "loc_hall"})

	s.AddExit(&types.Exit{ID: "exit_hall_e", Name: "east archway", Location: "loc_hall", Direction: "east", Connections: []string{"exit_treasure_w"}})
	s.AddExit(&types.Exit{ID: "exit_treasure_w", Name: "west archway", Location: "loc_treasure", Direction: "west", Connections: []string{"exit_hall_e"}})

	s.BuildIndices()
	return world.NewAccessor(s, nil)
}

func word(w string) *types.Word { return &types.Word{Word: w} }

func TestInventoryComesFirst(t *testing.T) {
	r := New(buildWorld(t))
	res, err := r.Resolve("player", word("key"), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity == nil || res.Entity.EntityID() != "item_key" {
		t.Errorf("resolved %v", res.Entity)
	}
}

func TestLocationItemsAndActors(t *testing.T) {
	r := New(buildWorld(t))
	res, err := r.Resolve("player", word("sword"), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityID() != "item_sword" {
		t.Errorf("sword resolved to %s", res.Entity.EntityID())
	}
	res, err = r.Resolve("player", word("guard"), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityID() != "npc_guard" {
		t.Errorf("guard resolved to %s", res.Entity.EntityID())
	}
}

func TestSynonymMatch(t *testing.T) {
	r := New(buildWorld(t))
	// Adjective "shining" appears only in the blade's description, so the
	// synonym-carrying blade wins over the literal sword.
	res, err := r.Resolve("player", word("sword"), "shining")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityID() != "item_blade" {
		t.Errorf("resolved %s, want item_blade", res.Entity.EntityID())
	}
}

func TestAdjectiveFromDescription(t *testing.T) {
	r := New(buildWorld(t))
	res, err := r.Resolve("player", word("sword"), "rusty")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityID() != "item_sword" {
		t.Errorf("resolved %s", res.Entity.EntityID())
	}
	if _, err := r.Resolve("player", word("sword"), "golden"); err == nil {
		t.Error("wrong adjective should fail resolution")
	}
}

func TestDoorVisibleFromBothSides(t *testing.T) {
	acc := buildWorld(t)
	r := New(acc)
	res, err := r.Resolve("player", word("door"), "iron")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityID() != "door_iron" {
		t.Errorf("resolved %s", res.Entity.EntityID())
	}
	// From the far side the slot belongs to the connected exit.
	if err := acc.SetEntityWhere("player", "loc_treasure"); err != nil {
		t.Fatal(err)
	}
	res, err = r.Resolve("player", word("door"), "")
	if err != nil {
		t.Fatalf("door not visible from far side: %v", err)
	}
	if res.Entity.EntityID() != "door_iron" {
		t.Errorf("resolved %s", res.Entity.EntityID())
	}
}

func TestOpenContainerOneLevel(t *testing.T) {
	r := New(buildWorld(t))
	res, err := r.Resolve("player", word("gem"), "")
	if err != nil {
		t.Fatalf("gem in open chest should resolve: %v", err)
	}
	if res.Entity.EntityID() != "item_gem" {
		t.Errorf("resolved %s", res.Entity.EntityID())
	}
	// Closed box contents stay invisible.
	if _, err := r.Resolve("player", word("pearl"), ""); err == nil {
		t.Error("pearl in closed box should not resolve")
	}
}

func TestHiddenSkipped(t *testing.T) {
	r := New(buildWorld(t))
	var nf *NotFoundError
	_, err := r.Resolve("player", word("phantom"), "")
	if !errors.As(err, &nf) {
		t.Errorf("hidden entity resolved: %v", err)
	}
}

func TestPartsAndExits(t *testing.T) {
	r := New(buildWorld(t))
	res, err := r.Resolve("player", word("mural"), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityKind() != types.KindPart {
		t.Errorf("mural kind = %s", res.Entity.EntityKind())
	}
	res, err = r.Resolve("player", word("archway"), "east")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity.EntityID() != "exit_hall_e" {
		t.Errorf("archway resolved to %s", res.Entity.EntityID())
	}
}

func TestUniversalSurfaces(t *testing.T) {
	r := New(buildWorld(t))
	res, err := r.Resolve("player", word("ceiling"), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Entity != nil || res.Universal != "ceiling" {
		t.Errorf("universal = %+v", res)
	}
}

func TestNotFound(t *testing.T) {
	r := New(buildWorld(t))
	var nf *NotFoundError
	_, err := r.Resolve("player", word("dragon"), "")
	if !errors.As(err, &nf) {
		t.Errorf("want NotFoundError, got %v", err)
	}
}
