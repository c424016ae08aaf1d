package core

import (
	"strings"

	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func (c *coreSet) movement() *behavior.Module {
	return &behavior.Module{
		ID:     "core.movement",
		Source: behavior.SourceCore,
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.VerbDef{
				{Word: "go", Synonyms: []string{"walk", "move"}, ObjectRequired: true},
				{Word: "approach", ObjectRequired: true},
			},
		},
		Handlers: map[string]behavior.HandlerFunc{
			"go":       c.handleGo,
			"approach": c.handleApproach,
		},
	}
}

func (c *coreSet) handleGo(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	direction := strings.ToLower(action.ObjectWord())
	if direction == "" {
		return behavior.Failf("Go where?")
	}
	loc := acc.GetCurrentLocation(action.ActorID)
	if loc == nil {
		return behavior.Failf("You are nowhere.")
	}

	var exit *types.Exit
	for _, ex := range acc.GetExitsFromLocation(loc.ID) {
		if strings.EqualFold(ex.Direction, direction) {
			exit = ex
			break
		}
	}
	if exit == nil {
		return behavior.Failf("You can't go %s from here.", direction)
	}

	if door := doorForExit(acc, exit); door != nil {
		if ds, _ := door.Props().Door(); !ds.Open {
			return behavior.Failf("The %s is closed.", door.Name)
		}
	}

	dest := destinationOf(acc, exit)
	if dest == nil {
		return behavior.Failf("The way %s leads nowhere.", direction)
	}
	if err := acc.SetEntityWhere(action.ActorID, dest.ID); err != nil {
		return behavior.Failf("%s", err.Error())
	}
	// Movement drops any positional context from the old location.
	if actor := acc.GetActor(action.ActorID); actor != nil {
		delete(actor.Props(), types.PropFocusedOn)
		delete(actor.Props(), types.PropPosture)
	}

	res := behavior.Okf("You go %s.", direction)
	if dest.Description != "" {
		res.Message += " " + dest.Description
	} else {
		res.Message += " You arrive at the " + dest.Name + "."
	}
	res.Data = map[string]any{"location": c.ser.Location(acc, dest)}
	return react(acc, exit, nil, "go", res)
}

func (c *coreSet) handleApproach(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	if res.Universal != "" {
		return behavior.Failf("You can't approach the %s.", res.Universal)
	}
	target := res.Entity
	actor := acc.GetActor(action.ActorID)
	if actor == nil {
		return behavior.Failf("no such actor: %s", action.ActorID)
	}
	props := actor.Props()
	if props.GetString(types.PropFocusedOn) == target.EntityID() {
		return behavior.Okf("You are already right by the %s.", target.EntityName())
	}
	props[types.PropFocusedOn] = target.EntityID()
	delete(props, types.PropPosture)
	out := behavior.Okf("You approach the %s.", target.EntityName())
	return react(acc, target, nil, "approach", out)
}

func doorForExit(acc world.Accessor, ex *types.Exit) *types.Item {
	if ex.DoorID != "" {
		return acc.GetDoorItem(ex.DoorID)
	}
	if ex.Direction == "" {
		return nil
	}
	return acc.GetDoorForExit(ex.Location, ex.Direction)
}

// destinationOf follows the exit's first connection to its location.
func destinationOf(acc world.Accessor, ex *types.Exit) *types.Location {
	for _, connID := range acc.GetExitConnections(ex.ID) {
		if other := acc.GetExit(connID); other != nil {
			if loc := acc.GetLocation(other.Location); loc != nil {
				return loc
			}
		}
	}
	return nil
}
