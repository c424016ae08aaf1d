package core

import (
	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// Postures the positioning verbs write. Other modules may introduce their
// own; the engine treats posture as a free string.
const (
	PostureCover     = "cover"
	PostureConcealed = "concealed"
	PostureClimbing  = "climbing"
	PostureOnSurface = "on_surface"
)

func (c *coreSet) positioning() *behavior.Module {
	return &behavior.Module{
		ID:     "core.positioning",
		Source: behavior.SourceCore,
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.VerbDef{
				{Word: "hide"},
				{Word: "climb", ObjectRequired: true},
				{Word: "stand"},
			},
		},
		Handlers: map[string]behavior.HandlerFunc{
			"hide":  c.handleHide,
			"climb": c.handleClimb,
			"stand": c.handleStand,
		},
	}
}

func (c *coreSet) handleHide(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	actor := acc.GetActor(action.ActorID)
	if actor == nil {
		return behavior.Failf("no such actor: %s", action.ActorID)
	}
	props := actor.Props()

	// "hide" alone conceals in place; "hide behind X" takes cover at X.
	if action.Object == nil {
		props[types.PropPosture] = PostureConcealed
		return behavior.Okf("You press yourself into the shadows.")
	}
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	if res.Universal != "" {
		return behavior.Failf("You can't hide behind the %s.", res.Universal)
	}
	target := res.Entity
	props[types.PropFocusedOn] = target.EntityID()
	props[types.PropPosture] = PostureCover
	out := behavior.Okf("You take cover behind the %s.", target.EntityName())
	return react(acc, target, nil, "hide", out)
}

func (c *coreSet) handleClimb(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return *fail
	}
	if res.Universal != "" {
		return behavior.Failf("You can't climb the %s.", res.Universal)
	}
	target := res.Entity
	actor := acc.GetActor(action.ActorID)
	if actor == nil {
		return behavior.Failf("no such actor: %s", action.ActorID)
	}
	props := actor.Props()
	props[types.PropFocusedOn] = target.EntityID()

	// Climbing a surface means standing on it; anything else is a climb in
	// progress.
	posture := PostureClimbing
	msg := "You climb the " + target.EntityName() + "."
	if it, ok := target.(*types.Item); ok {
		if cs, isContainer := it.Props().Container(); isContainer && cs.Surface {
			posture = PostureOnSurface
			msg = "You climb onto the " + target.EntityName() + "."
		}
	}
	props[types.PropPosture] = posture
	out := behavior.HandlerResult{Success: true, Message: msg}
	return react(acc, target, nil, "climb", out)
}

func (c *coreSet) handleStand(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	actor := acc.GetActor(action.ActorID)
	if actor == nil {
		return behavior.Failf("no such actor: %s", action.ActorID)
	}
	props := actor.Props()
	if props.GetString(types.PropPosture) == "" && props.GetString(types.PropFocusedOn) == "" {
		return behavior.Okf("You are already standing.")
	}
	delete(props, types.PropPosture)
	delete(props, types.PropFocusedOn)
	return behavior.Okf("You stand up and step back.")
}
