// Package core bundles the engine's built-in behavior modules: perception,
// movement, manipulation, doors, positioning, meta verbs and the base
// turn-phase definitions. Games layer their own modules on top; the
// registry lets later sources override any verb declared here.
package core

import (
	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/resolve"
	"github.com/jedharris/text-game-sub000/internal/serialize"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

type coreSet struct {
	ser *serialize.Serializer
}

// Modules returns the bundled modules with a default serializer.
func Modules() []*behavior.Module {
	return ModulesWith(serialize.New())
}

// ModulesWith returns the bundled modules sharing ser for entity views.
// Inject a seeded serializer for deterministic output.
func ModulesWith(ser *serialize.Serializer) []*behavior.Module {
	c := &coreSet{ser: ser}
	return []*behavior.Module{
		c.perception(),
		c.movement(),
		c.manipulation(),
		c.doors(),
		c.positioning(),
		c.meta(),
		TurnPhases(),
	}
}

// resolveObject resolves the action's direct object. The second return is
// non-nil on failure and is the result the handler should hand back.
func resolveObject(acc world.Accessor, action *types.Action) (resolve.Resolution, *behavior.HandlerResult) {
	return resolveWord(acc, action.ActorID, action.Object, action.Adjective)
}

func resolveWord(acc world.Accessor, actorID string, w *types.Word, adjective string) (resolve.Resolution, *behavior.HandlerResult) {
	res, err := resolve.New(acc).Resolve(actorID, w, adjective)
	if err != nil {
		fail := behavior.Failf("%s", err.Error())
		return resolve.Resolution{}, &fail
	}
	return res, nil
}

// approach moves the actor's attention onto the target, honouring the
// target's interaction_distance. A "near" target that is not already the
// focus costs a movement beat and clears posture; the default ("any")
// shifts focus silently.
func approach(acc world.Accessor, actorID string, target types.Entity) (beat string) {
	actor := acc.GetActor(actorID)
	if actor == nil {
		return ""
	}
	id := target.EntityID()
	props := actor.Props()
	if props.GetString(types.PropFocusedOn) == id {
		return ""
	}
	if target.Props().GetString(types.PropInteractionDistance) == "near" {
		props[types.PropFocusedOn] = id
		delete(props, types.PropPosture)
		return "You move closer to the " + target.EntityName() + "."
	}
	props[types.PropFocusedOn] = id
	return ""
}

// react fires the entity's on_<verb> behaviors and folds the beats into res.
// Errors from reactions surface as a failed result so the protocol layer
// can inspect the message for the corruption prefix.
func react(acc world.Accessor, e types.Entity, fields map[string]any, verb string, res behavior.HandlerResult) behavior.HandlerResult {
	beats, err := acc.Update(e, fields, verb)
	if err != nil {
		return behavior.Failf("%s", err.Error())
	}
	res.Beats = append(res.Beats, beats...)
	return res
}

func addBeat(res behavior.HandlerResult, beat string) behavior.HandlerResult {
	if beat != "" {
		res.Beats = append(res.Beats, beat)
	}
	return res
}

func carrying(actor *types.Actor, itemID string) bool {
	if actor == nil {
		return false
	}
	for _, id := range actor.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}
