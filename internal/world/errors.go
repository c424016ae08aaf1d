package world

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEntityNotFound is returned when a mutation names an id with no record.
var ErrEntityNotFound = errors.New("entity not found")

// ErrContainerNotFound is returned when a move targets an id that is neither
// a known entity, a valid exit slot, nor a removal sentinel.
var ErrContainerNotFound = errors.New("container not found")

// InconsistentPrefix marks a handler message that must latch the corruption
// flag on the protocol handler. Everything after the prefix is diagnostic.
const InconsistentPrefix = "INCONSISTENT STATE:"

// InconsistentStateError reports that the world has transitioned into a
// state no further input can safely mutate. Its Error string carries the
// latch prefix so it propagates through handler messages unchanged.
type InconsistentStateError struct {
	Detail string
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%s %s", InconsistentPrefix, e.Detail)
}

// Inconsistentf builds an InconsistentStateError with a formatted detail.
func Inconsistentf(format string, args ...any) *InconsistentStateError {
	return &InconsistentStateError{Detail: fmt.Sprintf(format, args...)}
}

// IsInconsistent reports whether msg carries the latch prefix.
func IsInconsistent(msg string) bool {
	return strings.HasPrefix(msg, InconsistentPrefix)
}
