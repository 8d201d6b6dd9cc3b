package types

import (
	"fmt"
	"math/rand"
	"sync/atomic"
)

// UniverseID uniquely identifies a universe within the process.
// IDs are allocated from a single atomic counter and are never reused.
type UniverseID uint64

var universeIDCounter atomic.Uint64

// NextUniverseID allocates a fresh, process-unique universe ID.
// The first ID handed out is 1; later allocations are strictly greater.
func NextUniverseID() UniverseID {
	return UniverseID(universeIDCounter.Add(1))
}

// Relationship is the symmetric label between two universes, fixed at the
// birth of the newer one.
type Relationship string

const (
	RelationshipBrother Relationship = "brother"
	RelationshipEnemy   Relationship = "enemy"
)

// RGB is a 24-bit display color assigned to a universe at creation.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex renders the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RandomColor picks a color with every channel in [50,255], keeping it
// readable on dark terminal backgrounds.
func RandomColor(rng *rand.Rand) RGB {
	channel := func() uint8 { return uint8(50 + rng.Intn(206)) }
	return RGB{R: channel(), G: channel(), B: channel()}
}

// EventKind identifies an externally-injectable universe event.
type EventKind string

const (
	EventShatter       EventKind = "shatter"
	EventHeal          EventKind = "heal"
	EventCrash         EventKind = "crash"
	EventPeerCollapsed EventKind = "peer.collapsed"
)

// Event is the payload of an InjectEvent command.
type Event struct {
	Kind EventKind
	// Strength carries damage for Shatter and amount for Heal.
	Strength int
	// Peer is set for PeerCollapsed.
	Peer UniverseID
}

// Shatter builds a damage event.
func Shatter(strength int) Event {
	return Event{Kind: EventShatter, Strength: strength}
}

// Heal builds a heal event.
func Heal(strength int) Event {
	return Event{Kind: EventHeal, Strength: strength}
}

// Crash builds an immediate-collapse event.
func Crash() Event {
	return Event{Kind: EventCrash}
}

// PeerCollapsed notifies a universe that a peer is gone.
func PeerCollapsed(peer UniverseID) Event {
	return Event{Kind: EventPeerCollapsed, Peer: peer}
}

// CommandKind identifies a directive sent to a universe actor.
type CommandKind string

const (
	CommandStart           CommandKind = "start"
	CommandStop            CommandKind = "stop"
	CommandShutdown        CommandKind = "shutdown"
	CommandSetRelationship CommandKind = "set.relationship"
	CommandInjectEvent     CommandKind = "inject.event"
	CommandRequestState    CommandKind = "request.state"
)

// Command is a directive delivered on a universe's command mailbox.
// Commands from a single sender are applied in FIFO order.
type Command struct {
	Kind CommandKind
	// Peer and Relationship are set for SetRelationship.
	Peer         UniverseID
	PeerName     string
	Relationship Relationship
	// Event is set for InjectEvent.
	Event Event
}

// Start resumes autonomous execution. Idempotent.
func Start() Command { return Command{Kind: CommandStart} }

// Stop pauses autonomous execution. Idempotent.
func Stop() Command { return Command{Kind: CommandStop} }

// Shutdown terminates the actor without a collapse broadcast.
func Shutdown() Command { return Command{Kind: CommandShutdown} }

// SetRelationship records the birth-time roll against one peer.
func SetRelationship(peer UniverseID, name string, kind Relationship) Command {
	return Command{Kind: CommandSetRelationship, Peer: peer, PeerName: name, Relationship: kind}
}

// InjectEvent wraps an event for delivery.
func InjectEvent(ev Event) Command {
	return Command{Kind: CommandInjectEvent, Event: ev}
}

// RequestState asks the actor to publish a state snapshot log line.
func RequestState() Command { return Command{Kind: CommandRequestState} }

// IntentKind identifies an actor's declared desire, executed by the
// supervisor.
type IntentKind string

const (
	IntentAttack IntentKind = "attack"
	IntentHeal   IntentKind = "heal"
	IntentDead   IntentKind = "dead"
)

// Intent is emitted by an actor during its tick and routed by the
// supervisor. It carries no source field; the supervisor attributes each
// intent to the handle whose queue it drained it from.
type Intent struct {
	Kind   IntentKind
	Target UniverseID
	Amount int
}

// AttackIntent declares an attack on an enemy.
func AttackIntent(target UniverseID, damage int) Intent {
	return Intent{Kind: IntentAttack, Target: target, Amount: damage}
}

// HealIntent declares a heal of a brother.
func HealIntent(target UniverseID, amount int) Intent {
	return Intent{Kind: IntentHeal, Target: target, Amount: amount}
}

// DeadIntent announces the actor's own collapse. Emitted exactly once.
func DeadIntent(self UniverseID) Intent {
	return Intent{Kind: IntentDead, Target: self}
}
