package types

import (
	"fmt"
	"strings"
)

// PlayerID is the one reserved entity id: the viewpoint actor.
const PlayerID = "player"

// SentinelConsumed is the stock removal sentinel for items the player used up.
const SentinelConsumed = "__consumed_by_player__"

// reservedActorNames may not be used as actor names (case-insensitive); the
// parser treats them as self-references.
var reservedActorNames = map[string]bool{
	"player": true,
	"npc":    true,
	"self":   true,
	"me":     true,
	"myself": true,
}

// IsReservedActorName reports whether name collides with the reserved set.
func IsReservedActorName(name string) bool {
	return reservedActorNames[strings.ToLower(name)]
}

// IsRemovalSentinel reports whether id is a "__"-prefixed containment
// sentinel. Entities located at a sentinel keep their record for audit but
// are excluded from the containment indices.
func IsRemovalSentinel(id string) bool {
	return strings.HasPrefix(id, "__")
}

const exitSlotPrefix = "exit:"

// ExitSlotID synthesises the virtual location id for a door sitting in the
// exit of loc toward direction.
func ExitSlotID(loc, direction string) string {
	return fmt.Sprintf("%s%s:%s", exitSlotPrefix, loc, direction)
}

// IsExitSlot reports whether id has the exit:<loc>:<dir> virtual form.
func IsExitSlot(id string) bool {
	return strings.HasPrefix(id, exitSlotPrefix)
}

// ParseExitSlot splits a virtual exit slot id into its location and
// direction. This is the single canonical parse: validators and the
// serializer both go through it. ok is false when id is not a slot or a
// component is empty.
func ParseExitSlot(id string) (loc, direction string, ok bool) {
	if !strings.HasPrefix(id, exitSlotPrefix) {
		return "", "", false
	}
	rest := id[len(exitSlotPrefix):]
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}
