package core

import (
	"strings"

	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func (c *coreSet) perception() *behavior.Module {
	return &behavior.Module{
		ID:     "core.perception",
		Source: behavior.SourceCore,
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.VerbDef{
				{Word: "look", Synonyms: []string{"l"}},
				{Word: "examine", Synonyms: []string{"x", "inspect"}, ObjectRequired: true},
				{Word: "search", ObjectRequired: true},
				{Word: "inventory", Synonyms: []string{"i"}},
			},
		},
		Handlers: map[string]behavior.HandlerFunc{
			"look":      c.handleLook,
			"examine":   c.handleExamine,
			"search":    c.handleSearch,
			"inventory": c.handleInventory,
		},
	}
}

func (c *coreSet) handleLook(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	// "look at X" arrives with an object; treat it as examine.
	if action.Object != nil {
		return c.handleExamine(acc, action)
	}
	loc := acc.GetCurrentLocation(action.ActorID)
	if loc == nil {
		return behavior.Failf("You are nowhere.")
	}
	var lines []string
	if loc.Description != "" {
		lines = append(lines, loc.Description)
	} else {
		lines = append(lines, "You are in the "+loc.Name+".")
	}
	var names []string
	for _, e := range acc.GetEntitiesAt(loc.ID) {
		if e.EntityID() == action.ActorID || e.Props().Hidden() {
			continue
		}
		names = append(names, e.EntityName())
	}
	if len(names) > 0 {
		lines = append(lines, "You see: "+strings.Join(names, ", ")+".")
	}
	var dirs []string
	for _, ex := range acc.GetExitsFromLocation(loc.ID) {
		if ex.Direction != "" {
			dirs = append(dirs, ex.Direction)
		}
	}
	if len(dirs) > 0 {
		lines = append(lines, "Exits: "+strings.Join(dirs, ", ")+".")
	}
	res := behavior.HandlerResult{
		Success: true,
		Message: strings.Join(lines, " "),
		Data:    map[string]any{"location": c.ser.Location(acc, loc)},
	}
	return res
}

func (c *coreSet) handleExamine(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	if res.Universal != "" {
		return behavior.Okf("You see nothing special about the %s.", res.Universal)
	}
	target := res.Entity
	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, target))

	desc := target.EntityDescription()
	if desc == "" {
		desc = "You see nothing special about the " + target.EntityName() + "."
	}
	out.Message = desc

	if it, ok := target.(*types.Item); ok {
		if cs, isContainer := it.Props().Container(); isContainer && (cs.Open || cs.Surface) {
			var names []string
			for _, e := range acc.GetEntitiesAt(it.ID, types.KindItem) {
				if !e.Props().Hidden() {
					names = append(names, e.EntityName())
				}
			}
			if len(names) > 0 {
				out.Message += " It holds: " + strings.Join(names, ", ") + "."
			}
		}
	}
	out.Data = map[string]any{"entity": c.ser.Entity(acc, target)}
	return react(acc, target, nil, "examine", out)
}

func (c *coreSet) handleSearch(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	if res.Universal != "" {
		return behavior.Okf("You find nothing of interest.")
	}
	target := res.Entity
	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, target))

	var found []string
	for _, e := range acc.GetEntitiesAt(target.EntityID()) {
		if e.Props().Hidden() {
			e.Props().SetHidden(false)
			found = append(found, e.EntityName())
		}
	}
	if len(found) == 0 {
		out.Message = "You find nothing of interest."
	} else {
		out.Message = "Searching the " + target.EntityName() + " reveals: " + strings.Join(found, ", ") + "."
	}
	return react(acc, target, nil, "search", out)
}

func (c *coreSet) handleInventory(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	actor := acc.GetActor(action.ActorID)
	if actor == nil {
		return behavior.Failf("no such actor: %s", action.ActorID)
	}
	if len(actor.Inventory) == 0 {
		return behavior.Okf("You are carrying nothing.")
	}
	var names []string
	var views []any
	for _, id := range actor.Inventory {
		if it := acc.GetItem(id); it != nil {
			names = append(names, it.Name)
			views = append(views, c.ser.Entity(acc, it))
		}
	}
	res := behavior.Okf("You are carrying: %s.", strings.Join(names, ", "))
	res.Data = map[string]any{"inventory": views}
	return res
}
