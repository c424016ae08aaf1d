// Package types defines the entity records shared by every layer of the
// engine: locations, items, actors, locks, parts and exits, plus the open
// properties map that carries behavior-defined state.
package types

// Kind identifies which entity table an id lives in.
type Kind string

const (
	KindLocation Kind = "location"
	KindItem     Kind = "item"
	KindActor    Kind = "actor"
	KindLock     Kind = "lock"
	KindPart     Kind = "part"
	KindExit     Kind = "exit"
)

// Properties is the open per-entity attribute map. The loader promotes any
// world-file field outside the structural allowlist into this map, and the
// saver flattens it back to the top level. Nested maps (container, door,
// states, llm_context) are preserved verbatim.
type Properties map[string]any

// Entity is the common read surface over all six entity kinds.
type Entity interface {
	EntityID() string
	EntityKind() Kind
	EntityName() string
	EntityDescription() string
	Props() Properties
	// BehaviorList returns the ordered behavior module ids attached to the
	// entity. Order is a stable contract: entity reactions fire in exactly
	// this order.
	BehaviorList() []string
}

// Location is a place actors can occupy. The Exits map is the legacy inline
// form (direction -> descriptor); worlds that use Exit records leave it empty.
type Location struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Exits       map[string]ExitDescriptor `json:"exits,omitempty"`
	Behaviors   []string                  `json:"behaviors,omitempty"`
	Properties  Properties                `json:"properties,omitempty"`
}

// ExitDescriptor is the legacy inline exit form kept for old world files.
type ExitDescriptor struct {
	To     string `json:"to"`
	DoorID string `json:"door_id,omitempty"`
}

// Item is anything that can be contained: in a location, an actor's
// inventory, another item, or a door's exit slot.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location"`
	Behaviors   []string   `json:"behaviors,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

// Actor is an agent with an inventory. The reserved id "player" is always
// the viewpoint actor.
type Actor struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location"`
	Inventory   []string   `json:"inventory,omitempty"`
	Behaviors   []string   `json:"behaviors,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

// Lock gates a door or container. OpensWith lists the key item ids.
type Lock struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

// Part is a named piece of a location or item (a shelf, a drawer, a wall
// fixture). Parts of parts are forbidden.
type Part struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	PartOf      string     `json:"part_of"`
	Behaviors   []string   `json:"behaviors,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

// Exit is a first-class connection from a location. Direction is empty for
// portals. Connections lists the exit ids this one opens onto.
type Exit struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location"`
	Direction   string     `json:"direction,omitempty"`
	Connections []string   `json:"connections,omitempty"`
	DoorID      string     `json:"door_id,omitempty"`
	Behaviors   []string   `json:"behaviors,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

func (l *Location) EntityID() string          { return l.ID }
func (l *Location) EntityKind() Kind          { return KindLocation }
func (l *Location) EntityName() string        { return l.Name }
func (l *Location) EntityDescription() string { return l.Description }
func (l *Location) Props() Properties         { return l.ensureProps() }
func (l *Location) BehaviorList() []string    { return l.Behaviors }

func (i *Item) EntityID() string          { return i.ID }
func (i *Item) EntityKind() Kind          { return KindItem }
func (i *Item) EntityName() string        { return i.Name }
func (i *Item) EntityDescription() string { return i.Description }
func (i *Item) Props() Properties         { return i.ensureProps() }
func (i *Item) BehaviorList() []string    { return i.Behaviors }

func (a *Actor) EntityID() string          { return a.ID }
func (a *Actor) EntityKind() Kind          { return KindActor }
func (a *Actor) EntityName() string        { return a.Name }
func (a *Actor) EntityDescription() string { return a.Description }
func (a *Actor) Props() Properties         { return a.ensureProps() }
func (a *Actor) BehaviorList() []string    { return a.Behaviors }

func (k *Lock) EntityID() string          { return k.ID }
func (k *Lock) EntityKind() Kind          { return KindLock }
func (k *Lock) EntityName() string        { return k.Name }
func (k *Lock) EntityDescription() string { return k.Description }
func (k *Lock) Props() Properties         { return k.ensureProps() }
func (k *Lock) BehaviorList() []string    { return nil }

func (p *Part) EntityID() string          { return p.ID }
func (p *Part) EntityKind() Kind          { return KindPart }
func (p *Part) EntityName() string        { return p.Name }
func (p *Part) EntityDescription() string { return p.Description }
func (p *Part) Props() Properties         { return p.ensureProps() }
func (p *Part) BehaviorList() []string    { return p.Behaviors }

func (e *Exit) EntityID() string          { return e.ID }
func (e *Exit) EntityKind() Kind          { return KindExit }
func (e *Exit) EntityName() string        { return e.Name }
func (e *Exit) EntityDescription() string { return e.Description }
func (e *Exit) Props() Properties         { return e.ensureProps() }
func (e *Exit) BehaviorList() []string    { return e.Behaviors }

func (l *Location) ensureProps() Properties {
	if l.Properties == nil {
		l.Properties = Properties{}
	}
	return l.Properties
}

func (i *Item) ensureProps() Properties {
	if i.Properties == nil {
		i.Properties = Properties{}
	}
	return i.Properties
}

func (a *Actor) ensureProps() Properties {
	if a.Properties == nil {
		a.Properties = Properties{}
	}
	return a.Properties
}

func (k *Lock) ensureProps() Properties {
	if k.Properties == nil {
		k.Properties = Properties{}
	}
	return k.Properties
}

func (p *Part) ensureProps() Properties {
	if p.Properties == nil {
		p.Properties = Properties{}
	}
	return p.Properties
}

func (e *Exit) ensureProps() Properties {
	if e.Properties == nil {
		e.Properties = Properties{}
	}
	return e.Properties
}
