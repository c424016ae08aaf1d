package core

import (
	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func (c *coreSet) manipulation() *behavior.Module {
	return &behavior.Module{
		ID:     "core.manipulation",
		Source: behavior.SourceCore,
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.VerbDef{
				{Word: "take", Synonyms: []string{"get", "grab", "pick"}, ObjectRequired: true},
				{Word: "drop", ObjectRequired: true},
				{Word: "put", Synonyms: []string{"place"}, ObjectRequired: true},
				{Word: "give", ObjectRequired: true},
			},
		},
		Handlers: map[string]behavior.HandlerFunc{
			"take": c.handleTake,
			"drop": c.handleDrop,
			"put":  c.handlePut,
			"give": c.handleGive,
		},
	}
}

func (c *coreSet) handleTake(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	if res.Universal != "" {
		return behavior.Failf("You can't take the %s.", res.Universal)
	}
	item, ok := res.Entity.(*types.Item)
	if !ok {
		return behavior.Failf("You can't take the %s.", res.Entity.EntityName())
	}
	actor := acc.GetActor(action.ActorID)
	if carrying(actor, item.ID) {
		return behavior.Failf("You already have the %s.", item.Name)
	}
	if !item.Props().GetBool(types.PropPortable) {
		return behavior.Failf("The %s won't budge.", item.Name)
	}

	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, item))
	if err := acc.SetEntityWhere(item.ID, action.ActorID); err != nil {
		return behavior.Failf("%s", err.Error())
	}
	out.Message = "You take the " + item.Name + "."
	return react(acc, item, nil, "take", out)
}

func (c *coreSet) handleDrop(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	item, ok := res.Entity.(*types.Item)
	if !ok {
		return behavior.Failf("You can't drop that.")
	}
	actor := acc.GetActor(action.ActorID)
	if !carrying(actor, item.ID) {
		return behavior.Failf("You aren't carrying the %s.", item.Name)
	}
	loc := acc.GetCurrentLocation(action.ActorID)
	if loc == nil {
		return behavior.Failf("There is nowhere to drop it.")
	}
	if err := acc.SetEntityWhere(item.ID, loc.ID); err != nil {
		return behavior.Failf("%s", err.Error())
	}
	out := behavior.Okf("You drop the %s.", item.Name)
	return react(acc, item, nil, "drop", out)
}

func (c *coreSet) handlePut(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	item, ok := res.Entity.(*types.Item)
	if !ok {
		return behavior.Failf("You can't move that.")
	}
	actor := acc.GetActor(action.ActorID)
	if !carrying(actor, item.ID) {
		return behavior.Failf("You aren't carrying the %s.", item.Name)
	}
	if action.IndirectObject == nil {
		return behavior.Failf("Put the %s where?", item.Name)
	}
	targetRes, fail := resolveWord(acc, action.ActorID, action.IndirectObject, "")
	if fail != nil {
		return *fail
	}
	if targetRes.Universal != "" {
		return behavior.Failf("You can't put anything there.")
	}
	target, ok := targetRes.Entity.(*types.Item)
	if !ok {
		return behavior.Failf("You can't put anything in the %s.", targetRes.Entity.EntityName())
	}
	cs, isContainer := target.Props().Container()
	if !isContainer {
		return behavior.Failf("The %s can't hold anything.", target.Name)
	}
	onto := action.Preposition == "on" || action.Preposition == "onto"
	if onto && !cs.Surface {
		return behavior.Failf("You can't put anything on the %s.", target.Name)
	}
	if !onto && !cs.Surface && !cs.Open {
		return behavior.Failf("The %s is closed.", target.Name)
	}
	if cs.Capacity > 0 && len(acc.GetEntitiesAt(target.ID, types.KindItem)) >= cs.Capacity {
		return behavior.Failf("The %s is full.", target.Name)
	}

	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, target))
	if err := acc.SetEntityWhere(item.ID, target.ID); err != nil {
		return behavior.Failf("%s", err.Error())
	}
	where := "in"
	if onto {
		where = "on"
	}
	out.Message = "You put the " + item.Name + " " + where + " the " + target.Name + "."
	return react(acc, item, nil, "put", out)
}

func (c *coreSet) handleGive(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	item, ok := res.Entity.(*types.Item)
	if !ok {
		return behavior.Failf("You can't give that away.")
	}
	actor := acc.GetActor(action.ActorID)
	if !carrying(actor, item.ID) {
		return behavior.Failf("You aren't carrying the %s.", item.Name)
	}
	if action.IndirectObject == nil {
		return behavior.Failf("Give the %s to whom?", item.Name)
	}
	targetRes, fail := resolveWord(acc, action.ActorID, action.IndirectObject, "")
	if fail != nil {
		return *fail
	}
	recipient, ok := targetRes.Entity.(*types.Actor)
	if !ok {
		return behavior.Failf("You can only give things to someone.")
	}
	if recipient.ID == action.ActorID {
		return behavior.Failf("You already have the %s.", item.Name)
	}
	if err := acc.SetEntityWhere(item.ID, recipient.ID); err != nil {
		return behavior.Failf("%s", err.Error())
	}
	out := behavior.Okf("You give the %s to %s.", item.Name, recipient.Name)
	return react(acc, item, nil, "give", out)
}
