package world

import (
	"errors"
	"strings"
	"testing"

	"github.com/jedharris/text-game-sub000/internal/types"
)

const sampleWorld = `{
  "metadata": {
    "title": "Test Cellar",
    "version": "1.0",
    "start_location": "loc_room"
  },
  "locations": [
    {"id": "loc_room", "name": "storeroom", "description": "A dusty storeroom."},
    {"id": "loc_hall", "name": "hall", "description": "A long hall."}
  ],
  "items": [
    {"id": "item_sword", "name": "sword", "location": "loc_room", "portable": true},
    {"id": "item_box", "name": "box", "location": "loc_room",
     "container": {"open": false}},
    {"id": "item_coin", "name": "coin", "location": "item_box", "portable": true},
    {"id": "door_iron", "name": "door", "location": "exit:loc_hall:east",
     "door": {"open": false, "locked": true, "lock_id": "lock_1"}},
    {"id": "item_key", "name": "key", "location": "player", "portable": true}
  ],
  "actors": {
    "player": {"name": "player", "location": "loc_room", "inventory": ["item_key"]},
    "npc_guard": {"name": "guard", "location": "loc_hall"}
  },
  "locks": [
    {"id": "lock_1", "name": "iron lock", "opens_with": ["item_key"]}
  ],
  "parts": [
    {"id": "part_shelf", "name": "shelf", "part_of": "loc_room"}
  ],
  "exits": [
    {"id": "exit_room_e", "name": "east door", "location": "loc_room",
     "direction": "east", "connections": ["exit_hall_w"]},
    {"id": "exit_hall_w", "name": "west door", "location": "loc_hall",
     "direction": "west", "connections": ["exit_room_e"]}
  ]
}`

func loadSample(t *testing.T) *State {
	t.Helper()
	s, err := LoadJSON([]byte(sampleWorld))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	return s
}

func TestLoadPromotesProperties(t *testing.T) {
	s := loadSample(t)
	sword := s.Items["item_sword"]
	if sword == nil {
		t.Fatal("item_sword missing")
	}
	if !sword.Props().GetBool("portable") {
		t.Error("portable not promoted into properties")
	}
	if _, present := sword.Props()["location"]; present {
		t.Error("structural field leaked into properties")
	}
	lock := s.Locks["lock_1"]
	if got := lock.Props().StringList("opens_with"); len(got) != 1 || got[0] != "item_key" {
		t.Errorf("opens_with = %v", got)
	}
}

func TestLoadBuildsIndices(t *testing.T) {
	s := loadSample(t)
	where, ok := s.EntityWhere("item_sword")
	if !ok || where != "loc_room" {
		t.Errorf("item_sword where = %q, %v", where, ok)
	}
	if !s.EntitiesAtRaw("loc_room")["item_sword"] {
		t.Error("item_sword missing from loc_room forward index")
	}
	// Inventory is authoritative: item_key sits at the player.
	if where, _ := s.EntityWhere("item_key"); where != "player" {
		t.Errorf("item_key where = %q, want player", where)
	}
	// The door occupies its exit slot.
	if where, _ := s.EntityWhere("door_iron"); where != "exit:loc_hall:east" {
		t.Errorf("door_iron where = %q", where)
	}
	// Parts index under their parent.
	if where, _ := s.EntityWhere("part_shelf"); where != "loc_room" {
		t.Errorf("part_shelf where = %q", where)
	}
}

func TestAccessorLookups(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	if acc.GetItem("item_sword") == nil {
		t.Error("GetItem failed")
	}
	if acc.GetItem("no_such") != nil {
		t.Error("GetItem on unknown id should be nil")
	}
	if acc.GetEntity("npc_guard") == nil {
		t.Error("GetEntity missed the actor table")
	}
	if loc := acc.GetCurrentLocation("player"); loc == nil || loc.ID != "loc_room" {
		t.Errorf("GetCurrentLocation(player) = %v", loc)
	}
	if loc := acc.GetCurrentLocation("npc_guard"); loc == nil || loc.ID != "loc_hall" {
		t.Errorf("GetCurrentLocation(npc_guard) = %v", loc)
	}
}

func TestGetEntitiesAtFiltering(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	all := acc.GetEntitiesAt("loc_room")
	// sword, box, player actor, shelf part
	if len(all) != 4 {
		t.Fatalf("GetEntitiesAt(loc_room) = %d entities", len(all))
	}
	items := acc.GetEntitiesAt("loc_room", types.KindItem)
	if len(items) != 2 {
		t.Errorf("item filter gave %d", len(items))
	}
	parts := acc.GetPartsOf("loc_room")
	if len(parts) != 1 || parts[0].ID != "part_shelf" {
		t.Errorf("GetPartsOf = %v", parts)
	}
}

func TestSetEntityWhereMovesItem(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	if err := acc.SetEntityWhere("item_sword", "player"); err != nil {
		t.Fatalf("SetEntityWhere: %v", err)
	}
	if s.Items["item_sword"].Location != "player" {
		t.Error("location field not updated")
	}
	if !s.EntitiesAtRaw("player")["item_sword"] {
		t.Error("forward index not updated")
	}
	if s.EntitiesAtRaw("loc_room")["item_sword"] {
		t.Error("old forward index entry not removed")
	}
	// Moving into an actor joins its inventory.
	found := false
	for _, id := range s.Actors["player"].Inventory {
		if id == "item_sword" {
			found = true
		}
	}
	if !found {
		t.Error("item not appended to player inventory")
	}
}

func TestSetEntityWhereSentinel(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	if err := acc.SetEntityWhere("item_key", types.SentinelConsumed); err != nil {
		t.Fatalf("SetEntityWhere sentinel: %v", err)
	}
	if _, ok := s.EntityWhere("item_key"); ok {
		t.Error("sentinel move should drop the entity from entity_where")
	}
	for _, id := range s.Actors["player"].Inventory {
		if id == "item_key" {
			t.Error("sentinel move should leave the inventory")
		}
	}
	if s.Items["item_key"].Location != types.SentinelConsumed {
		t.Error("record should keep the sentinel for audit")
	}
}

func TestSetEntityWhereErrors(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	if err := acc.SetEntityWhere("no_such", "loc_room"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("unknown entity: %v", err)
	}
	if err := acc.SetEntityWhere("item_sword", "no_such"); !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("unknown container: %v", err)
	}
	if err := acc.SetEntityWhere("item_box", "item_box"); err == nil || !IsInconsistent(err.Error()) {
		t.Errorf("self-containment: %v", err)
	}
	// box contains coin; moving box into coin closes a cycle.
	if err := acc.SetEntityWhere("item_box", "item_coin"); err == nil || !IsInconsistent(err.Error()) {
		t.Errorf("cycle move: %v", err)
	}
}

func TestDoorQueries(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	door := acc.GetDoorForExit("loc_hall", "east")
	if door == nil || door.ID != "door_iron" {
		t.Fatalf("GetDoorForExit = %v", door)
	}
	if acc.GetDoorItem("door_iron") == nil {
		t.Error("GetDoorItem should see the door sub-map")
	}
	if acc.GetDoorItem("item_sword") != nil {
		t.Error("sword is not a door")
	}
	d, _ := door.Props().Door()
	if !d.Locked || d.LockID != "lock_1" {
		t.Errorf("door state = %+v", d)
	}
}

func TestExitConnections(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	conns := acc.GetExitConnections("exit_room_e")
	if len(conns) != 1 || conns[0] != "exit_hall_w" {
		t.Errorf("connections = %v", conns)
	}
	if err := acc.DisconnectExits("exit_room_e", "exit_hall_w"); err != nil {
		t.Fatalf("DisconnectExits: %v", err)
	}
	if len(acc.GetExitConnections("exit_room_e")) != 0 {
		t.Error("disconnect did not stick")
	}
	if err := acc.ConnectExits("exit_room_e", "exit_hall_w"); err != nil {
		t.Fatalf("ConnectExits: %v", err)
	}
	if len(acc.GetExitConnections("exit_room_e")) != 1 {
		t.Error("reconnect did not stick")
	}
	exits := acc.GetExitsFromLocation("loc_room")
	if len(exits) != 1 || exits[0].ID != "exit_room_e" {
		t.Errorf("GetExitsFromLocation = %v", exits)
	}
}

func TestUpdateMergesProperties(t *testing.T) {
	s := loadSample(t)
	var fired []string
	reactor := func(e types.Entity, event string, acc Accessor, ctx map[string]any) ([]string, error) {
		fired = append(fired, event+":"+e.EntityID())
		return []string{"the sword hums"}, nil
	}
	acc := NewAccessor(s, reactor)
	sword := s.Items["item_sword"]
	beats, err := acc.Update(sword, map[string]any{"glowing": true}, "take")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !sword.Props().GetBool("glowing") {
		t.Error("field not merged")
	}
	if len(fired) != 1 || fired[0] != "on_take:item_sword" {
		t.Errorf("reactor calls = %v", fired)
	}
	if len(beats) != 1 || beats[0] != "the sword hums" {
		t.Errorf("beats = %v", beats)
	}
	// nil value deletes the key.
	if _, err := acc.Update(sword, map[string]any{"glowing": nil}, ""); err != nil {
		t.Fatalf("Update delete: %v", err)
	}
	if _, present := sword.Props()["glowing"]; present {
		t.Error("nil value should delete the property")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := loadSample(t)
	acc := NewAccessor(s, nil)
	if err := acc.SetEntityWhere("item_sword", "player"); err != nil {
		t.Fatal(err)
	}
	s.TurnCount = 7

	data, err := SaveJSON(s)
	if err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	s2, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s2.TurnCount != 7 {
		t.Errorf("turn count = %d", s2.TurnCount)
	}
	if s2.Items["item_sword"].Location != "player" {
		t.Error("sword location lost")
	}
	if !s2.Items["item_sword"].Props().GetBool("portable") {
		t.Error("properties lost in round trip")
	}
	d, ok := s2.Items["door_iron"].Props().Door()
	if !ok || !d.Locked {
		t.Errorf("door state lost: %+v ok=%v", d, ok)
	}
	if where, _ := s2.EntityWhere("item_sword"); where != "player" {
		t.Error("indices not rebuilt on reload")
	}
}

func TestSaveDropsZeroTurnCount(t *testing.T) {
	s := loadSample(t)
	doc := SaveDocument(s)
	if _, present := doc["turn_count"]; present {
		t.Error("turn_count == 0 must be dropped")
	}
}

func TestLoadYAML(t *testing.T) {
	y := `
metadata:
  title: Yaml World
  start_location: loc_a
locations:
  - id: loc_a
    name: cave
items:
  - id: item_rock
    name: rock
    location: loc_a
    portable: true
actors:
  player:
    name: player
    location: loc_a
`
	s, err := LoadYAML([]byte(y))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if s.Metadata.Title != "Yaml World" {
		t.Errorf("title = %q", s.Metadata.Title)
	}
	if !s.Items["item_rock"].Props().GetBool("portable") {
		t.Error("YAML property promotion failed")
	}
}

func TestEngineVersionGate(t *testing.T) {
	_, err := LoadJSON([]byte(`{"metadata":{"requires_engine":"v2.0.0"},"locations":[],"items":[],"actors":{}}`))
	if err == nil || !strings.Contains(err.Error(), "major versions differ") {
		t.Errorf("major mismatch not rejected: %v", err)
	}
	if _, err := LoadJSON([]byte(`{"metadata":{"requires_engine":"1.0"},"locations":[],"items":[],"actors":{}}`)); err != nil {
		t.Errorf("compatible requirement rejected: %v", err)
	}
}

func TestSchemaRejectsMalformedTopLevel(t *testing.T) {
	_, err := LoadJSON([]byte(`{"locations": "not-a-list"}`))
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Errorf("schema violation not reported: %v", err)
	}
}
