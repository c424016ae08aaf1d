package core

import (
	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

func (c *coreSet) doors() *behavior.Module {
	return &behavior.Module{
		ID:     "core.doors",
		Source: behavior.SourceCore,
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.VerbDef{
				{Word: "open", ObjectRequired: true},
				{Word: "close", Synonyms: []string{"shut"}, ObjectRequired: true},
				{Word: "lock", ObjectRequired: true},
				{Word: "unlock", ObjectRequired: true},
			},
		},
		Handlers: map[string]behavior.HandlerFunc{
			"open":   c.handleOpen,
			"close":  c.handleClose,
			"lock":   c.handleLock,
			"unlock": c.handleUnlock,
		},
	}
}

func (c *coreSet) handleOpen(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	item, fail := resolveOpenable(acc, action)
	if fail != nil {
		return *fail
	}
	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, item))

	if ds, isDoor := item.Props().Door(); isDoor {
		if ds.Open {
			return behavior.Failf("The %s is already open.", item.Name)
		}
		if ds.Locked {
			return behavior.Failf("The %s is locked.", item.Name)
		}
		ds.Open = true
		item.Props().SetDoor(ds)
		out.Message = "You open the " + item.Name + "."
		return react(acc, item, nil, "open", out)
	}
	if cs, isContainer := item.Props().Container(); isContainer {
		if cs.Surface {
			return behavior.Failf("The %s doesn't open.", item.Name)
		}
		if cs.Open {
			return behavior.Failf("The %s is already open.", item.Name)
		}
		if cs.LockID != "" {
			if lock := acc.GetLock(cs.LockID); lock != nil && lockEngaged(item) {
				return behavior.Failf("The %s is locked.", item.Name)
			}
		}
		item.Props().SetContainerOpen(true)
		out.Message = "You open the " + item.Name + "."
		return react(acc, item, nil, "open", out)
	}
	return behavior.Failf("The %s doesn't open.", item.Name)
}

func (c *coreSet) handleClose(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	item, fail := resolveOpenable(acc, action)
	if fail != nil {
		return *fail
	}
	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, item))

	if ds, isDoor := item.Props().Door(); isDoor {
		if !ds.Open {
			return behavior.Failf("The %s is already closed.", item.Name)
		}
		ds.Open = false
		item.Props().SetDoor(ds)
		out.Message = "You close the " + item.Name + "."
		return react(acc, item, nil, "close", out)
	}
	if cs, isContainer := item.Props().Container(); isContainer && !cs.Surface {
		if !cs.Open {
			return behavior.Failf("The %s is already closed.", item.Name)
		}
		item.Props().SetContainerOpen(false)
		out.Message = "You close the " + item.Name + "."
		return react(acc, item, nil, "close", out)
	}
	return behavior.Failf("The %s doesn't close.", item.Name)
}

func (c *coreSet) handleLock(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	return c.setLocked(acc, action, true)
}

func (c *coreSet) handleUnlock(acc world.Accessor, action *types.Action) behavior.HandlerResult {
	return c.setLocked(acc, action, false)
}

func (c *coreSet) setLocked(acc world.Accessor, action *types.Action, locked bool) behavior.HandlerResult {
	item, fail := resolveOpenable(acc, action)
	if fail != nil {
		return *fail
	}
	verb := "unlock"
	if locked {
		verb = "lock"
	}
	// Doors carry their locked flag in the door sub-record; containers
	// carry theirs in states.locked.
	var lockID string
	var isOpen, isLocked bool
	ds, isDoor := item.Props().Door()
	cs, isContainer := item.Props().Container()
	switch {
	case isDoor:
		lockID, isOpen, isLocked = ds.LockID, ds.Open, ds.Locked
	case isContainer && !cs.Surface:
		lockID, isOpen, isLocked = cs.LockID, cs.Open, lockEngaged(item)
	}
	if lockID == "" {
		return behavior.Failf("The %s has no lock.", item.Name)
	}
	if isLocked == locked {
		state := "unlocked"
		if locked {
			state = "locked"
		}
		return behavior.Failf("The %s is already %s.", item.Name, state)
	}
	if locked && isOpen {
		return behavior.Failf("Close the %s first.", item.Name)
	}

	lock := acc.GetLock(lockID)
	if lock == nil {
		return behavior.Failf("%s", world.Inconsistentf("%s references missing lock %s", item.ID, lockID).Error())
	}
	key := keyInHand(acc, action.ActorID, lock)
	if key == nil {
		if msg := lock.Props().GetString(types.PropFailMessage); msg != "" {
			return behavior.Failf("%s", msg)
		}
		return behavior.Failf("You don't have anything that fits the %s.", item.Name)
	}

	out := behavior.HandlerResult{Success: true}
	out = addBeat(out, approach(acc, action.ActorID, item))
	if isDoor {
		ds.Locked = locked
		item.Props().SetDoor(ds)
	} else {
		item.Props().SetState("locked", locked)
	}
	if locked {
		out.Message = "You lock the " + item.Name + " with the " + key.Name + "."
	} else {
		out.Message = "You unlock the " + item.Name + " with the " + key.Name + "."
	}
	return react(acc, item, nil, verb, out)
}

// resolveOpenable resolves the direct object down to an item.
func resolveOpenable(acc world.Accessor, action *types.Action) (*types.Item, *behavior.HandlerResult) {
	res, fail := resolveObject(acc, action)
	if fail != nil {
		return nil, fail
	}
	if res.Universal != "" {
		f := behavior.Failf("You can't do that to the %s.", res.Universal)
		return nil, &f
	}
	item, ok := res.Entity.(*types.Item)
	if !ok {
		f := behavior.Failf("You can't do that to the %s.", res.Entity.EntityName())
		return nil, &f
	}
	return item, nil
}

// keyInHand returns the first inventory item the lock opens with.
func keyInHand(acc world.Accessor, actorID string, lock *types.Lock) *types.Item {
	actor := acc.GetActor(actorID)
	if actor == nil {
		return nil
	}
	opens := lock.Props().StringList(types.PropOpensWith)
	for _, held := range actor.Inventory {
		for _, keyID := range opens {
			if held == keyID {
				return acc.GetItem(held)
			}
		}
	}
	return nil
}

// lockEngaged reports whether a locked-container item should refuse to
// open. Containers track their locked state in states.locked.
func lockEngaged(item *types.Item) bool {
	states := item.Props().SubMap(types.PropStates)
	if states == nil {
		return false
	}
	return states.GetBool("locked")
}
