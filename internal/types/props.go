package types

// Typed access helpers over the open properties map. World files arrive as
// generic JSON/YAML, so numbers may be float64 or int and lists may be
// []any; these helpers normalize without mutating the map.

// GetString returns props[key] as a string, or "" when absent or not a string.
func (p Properties) GetString(key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

// GetBool returns props[key] as a bool, or false when absent.
func (p Properties) GetBool(key string) bool {
	if p == nil {
		return false
	}
	b, _ := p[key].(bool)
	return b
}

// GetInt returns props[key] as an int, handling the float64 form JSON
// decoding produces. ok reports whether a numeric value was present.
func (p Properties) GetInt(key string) (n int, ok bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// SubMap returns props[key] as a nested Properties map, or nil.
func (p Properties) SubMap(key string) Properties {
	if p == nil {
		return nil
	}
	switch v := p[key].(type) {
	case Properties:
		return v
	case map[string]any:
		return Properties(v)
	}
	return nil
}

// StringList returns props[key] as a slice of strings, tolerating the []any
// form produced by generic decoding. Non-string elements are skipped.
func (p Properties) StringList(key string) []string {
	if p == nil {
		return nil
	}
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone returns a shallow copy one level deep: nested maps and slices are
// copied, deeper structures are shared.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		switch t := v.(type) {
		case map[string]any:
			m := make(map[string]any, len(t))
			for mk, mv := range t {
				m[mk] = mv
			}
			out[k] = m
		case []any:
			s := make([]any, len(t))
			copy(s, t)
			out[k] = s
		case []string:
			s := make([]string, len(t))
			copy(s, t)
			out[k] = s
		default:
			out[k] = v
		}
	}
	return out
}

// Property keys with engine-level meaning. Behavior modules are free to add
// their own keys; these are the ones the core consults.
const (
	PropDoor                = "door"
	PropContainer           = "container"
	PropStates              = "states"
	PropLLMContext          = "llm_context"
	PropSynonyms            = "synonyms"
	PropAdjectives          = "adjectives"
	PropPortable            = "portable"
	PropHidden              = "hidden"
	PropOpensWith           = "opens_with"
	PropFailMessage         = "fail_message"
	PropFocusedOn           = "focused_on"
	PropPosture             = "posture"
	PropInteractionDistance = "interaction_distance"
	PropPerspectiveVariants = "perspective_variants"
	PropLit                 = "lit"
	PropProvidesLight       = "provides_light"
)

// DoorState is the typed view of the "door" sub-map on an item.
type DoorState struct {
	Open   bool
	Locked bool
	LockID string
}

// Door decodes the door sub-map, if present. A door is not a distinct entity
// kind: any item carrying a "door" sub-map is a door.
func (p Properties) Door() (DoorState, bool) {
	m := p.SubMap(PropDoor)
	if m == nil {
		return DoorState{}, false
	}
	return DoorState{
		Open:   m.GetBool("open"),
		Locked: m.GetBool("locked"),
		LockID: m.GetString("lock_id"),
	}, true
}

// SetDoor writes the door sub-map back, keeping the authoritative form in
// properties so save/load stays symmetrical.
func (p Properties) SetDoor(d DoorState) {
	m := map[string]any{"open": d.Open, "locked": d.Locked}
	if d.LockID != "" {
		m["lock_id"] = d.LockID
	}
	p[PropDoor] = m
}

// ContainerState is the typed view of the "container" sub-map.
type ContainerState struct {
	IsContainer bool
	Open        bool
	Surface     bool
	Capacity    int // 0 means unlimited
	LockID      string
}

// Container decodes the container sub-map, if present.
func (p Properties) Container() (ContainerState, bool) {
	m := p.SubMap(PropContainer)
	if m == nil {
		return ContainerState{}, false
	}
	cap, _ := m.GetInt("capacity")
	return ContainerState{
		IsContainer: true,
		Open:        m.GetBool("open"),
		Surface:     m.GetBool("surface"),
		Capacity:    cap,
		LockID:      m.GetString("lock_id"),
	}, true
}

// SetContainerOpen flips the open flag on the container sub-map in place.
// No-op when the entity is not a container.
func (p Properties) SetContainerOpen(open bool) {
	m := p.SubMap(PropContainer)
	if m == nil {
		return
	}
	m["open"] = open
}

// Hidden reports whether the entity carries states.hidden == true. Hidden
// entities are invisible to resolution and location queries.
func (p Properties) Hidden() bool {
	return p.SubMap(PropStates).GetBool(PropHidden)
}

// SetHidden flips states.hidden, creating the states sub-map on demand.
func (p Properties) SetHidden(hidden bool) {
	p.SetState(PropHidden, hidden)
}

// SetState writes one key in the states sub-map, creating it on demand.
func (p Properties) SetState(key string, value any) {
	m := p.SubMap(PropStates)
	if m == nil {
		m = Properties{}
		p[PropStates] = map[string]any(m)
	}
	m[key] = value
}
