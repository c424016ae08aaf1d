// Package protocol implements the JSON message surface: command dispatch,
// queries, reply composition, and the corruption latch. One Handler serves
// one game session; all calls are expected on a single goroutine.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedharris/text-game-sub000/internal/behavior"
	"github.com/jedharris/text-game-sub000/internal/behavior/core"
	"github.com/jedharris/text-game-sub000/internal/serialize"
	"github.com/jedharris/text-game-sub000/internal/types"
	"github.com/jedharris/text-game-sub000/internal/world"
)

// Message is the envelope the external parser sends. Word-valued action
// fields accept bare strings; Word.UnmarshalJSON promotes them.
type Message struct {
	Type       string        `json:"type"`
	Action     *types.Action `json:"action,omitempty"`
	QueryType  string        `json:"query_type,omitempty"`
	EntityID   string        `json:"entity_id,omitempty"`
	LocationID string        `json:"location_id,omitempty"`
}

// Handler owns one session's corruption latch and turn-phase driver.
type Handler struct {
	state *world.State
	reg   *behavior.Registry
	acc   world.Accessor
	ser   *serialize.Serializer

	corrupted  bool
	corruption string
}

// NewHandler wires a handler over a finalized registry and loaded state.
func NewHandler(s *world.State, reg *behavior.Registry, ser *serialize.Serializer) *Handler {
	return &Handler{
		state: s,
		reg:   reg,
		acc:   world.NewAccessor(s, reg.Reactor()),
		ser:   ser,
	}
}

// Accessor exposes the session accessor for hosts that need direct reads
// (save slots, debugging). Mutating through it mid-command is not supported.
func (h *Handler) Accessor() world.Accessor { return h.acc }

// Corrupted reports whether the latch has tripped.
func (h *Handler) Corrupted() bool { return h.corrupted }

// HandleMessage parses one JSON message and returns the JSON reply. It
// never returns an error: malformed input produces an error reply.
func (h *Handler) HandleMessage(raw []byte) []byte {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return marshal(errorReply(fmt.Sprintf("malformed message: %v", err)))
	}
	return marshal(h.Handle(&msg))
}

// Handle dispatches one parsed message.
func (h *Handler) Handle(msg *Message) map[string]any {
	switch msg.Type {
	case "command":
		return h.handleCommand(msg.Action)
	case "query":
		return h.handleQuery(msg)
	case "":
		return errorReply("message has no type")
	default:
		return errorReply(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (h *Handler) handleCommand(action *types.Action) map[string]any {
	if action == nil || action.Verb == "" {
		return errorReply("command requires action.verb")
	}
	if action.ActorID == "" {
		action.ActorID = types.PlayerID
	}
	verb := action.Verb

	if h.corrupted && !core.MetaVerbs[verb] {
		return failReply(verb, fmt.Sprintf("%s (only save, load, quit and help are available)", h.corruption), true)
	}
	if !h.reg.HasHandler(verb) {
		return failReply(verb, fmt.Sprintf("I don't know how to %q.", verb), false)
	}

	res, err := h.reg.InvokeHandler(verb, h.acc, action)
	if err != nil {
		return failReply(verb, err.Error(), false)
	}
	if strings.HasPrefix(res.Message, world.InconsistentPrefix) {
		h.corrupted = true
		h.corruption = res.Message
		return failReply(verb, res.Message, true)
	}
	if !res.Success {
		return failReply(verb, res.Message, false)
	}

	reply := map[string]any{
		"type":    "result",
		"success": true,
		"action":  verb,
		"message": foldBeats(res.Message, res.Beats),
	}
	if len(res.Data) > 0 {
		reply["data"] = res.Data
	}

	// Meta verbs are out-of-world: no turn passes, no phases fire.
	if !core.MetaVerbs[verb] {
		h.state.TurnCount++
		msgs, err := h.reg.RunTurnPhases(h.acc, action.ActorID)
		if err != nil {
			h.corrupted = true
			h.corruption = world.InconsistentPrefix + " turn phases: " + err.Error()
			return failReply(verb, h.corruption, true)
		}
		if len(msgs) > 0 {
			reply["turn_phase_messages"] = msgs
		}
	}
	return reply
}

func (h *Handler) handleQuery(msg *Message) map[string]any {
	switch msg.QueryType {
	case "location":
		id := msg.LocationID
		if id == "" {
			if loc := h.acc.GetCurrentLocation(types.PlayerID); loc != nil {
				id = loc.ID
			}
		}
		loc := h.acc.GetLocation(id)
		if loc == nil {
			return errorReply(fmt.Sprintf("unknown location %q", id))
		}
		return queryReply("location", h.ser.Location(h.acc, loc))

	case "entity":
		e := h.acc.GetEntity(msg.EntityID)
		if e == nil {
			return errorReply(fmt.Sprintf("unknown entity %q", msg.EntityID))
		}
		return queryReply("entity", h.ser.Entity(h.acc, e))

	case "entities":
		container := msg.LocationID
		if container == "" {
			if loc := h.acc.GetCurrentLocation(types.PlayerID); loc != nil {
				container = loc.ID
			}
		}
		var views []any
		for _, e := range h.acc.GetEntitiesAt(container) {
			views = append(views, h.ser.Entity(h.acc, e))
		}
		return queryReply("entities", map[string]any{
			"container": container,
			"entities":  emptyAsSlice(views),
		})

	case "vocabulary":
		return queryReply("vocabulary", h.reg.VocabularyDocument(behavior.BaseVocabulary()))

	case "metadata":
		md := h.state.Metadata
		data := map[string]any{
			"title":      md.Title,
			"version":    md.Version,
			"turn_count": h.state.TurnCount,
		}
		if md.Description != "" {
			data["description"] = md.Description
		}
		if md.StartLocation != "" {
			data["start_location"] = md.StartLocation
		}
		return queryReply("metadata", data)

	default:
		return errorReply(fmt.Sprintf("unknown query_type %q", msg.QueryType))
	}
}

// foldBeats composes the reply message from the handler's message and the
// accumulated narration beats.
func foldBeats(message string, beats []string) string {
	if len(beats) == 0 {
		return message
	}
	parts := append([]string{message}, beats...)
	return strings.Join(parts, " ")
}

func failReply(verb, message string, fatal bool) map[string]any {
	errObj := map[string]any{"message": message}
	if fatal {
		errObj["fatal"] = true
	}
	return map[string]any{
		"type":    "result",
		"success": false,
		"action":  verb,
		"error":   errObj,
	}
}

func queryReply(queryType string, data any) map[string]any {
	return map[string]any{
		"type":       "query_response",
		"query_type": queryType,
		"data":       data,
	}
}

func errorReply(message string) map[string]any {
	return map[string]any{"type": "error", "message": message}
}

func emptyAsSlice(s []any) []any {
	if s == nil {
		return []any{}
	}
	return s
}

func marshal(v map[string]any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		// Replies are built from plain maps and strings; this cannot fail in
		// practice, but a broken reply must still be valid JSON.
		return []byte(fmt.Sprintf(`{"type":"error","message":%q}`, err.Error()))
	}
	return out
}
