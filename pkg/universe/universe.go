package universe

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/types"
)

const (
	// MaxHP is the hp ceiling; universes are born at full health.
	MaxHP = 100
)

// Behavior tunes the autonomous step. Tests inject deterministic values;
// production uses DefaultBehavior.
type Behavior struct {
	// ActionEveryTicks gates how often the actor considers acting.
	ActionEveryTicks uint64
	// AttackChance is the probability of attacking an enemy on an
	// action tick. HealChance is rolled independently.
	AttackChance float64
	HealChance   float64
	// MinStrength and MaxStrength bound the uniform damage/heal sample.
	MinStrength int
	MaxStrength int
}

// DefaultBehavior returns the production tuning.
func DefaultBehavior() Behavior {
	return Behavior{
		ActionEveryTicks: 4,
		AttackChance:     0.7,
		HealChance:       0.3,
		MinStrength:      7,
		MaxStrength:      20,
	}
}

// Universe is the private state of one actor. It is owned exclusively by
// the actor's own goroutine; every observation and mutation from outside
// travels through the command mailbox.
type Universe struct {
	id       types.UniverseID
	name     string
	color    types.RGB
	hp       int
	tick     uint64
	executes bool
	enemies  map[types.UniverseID]struct{}
	brothers map[types.UniverseID]struct{}

	// dead latches once the single Dead intent has been emitted.
	dead bool

	behavior Behavior
	rng      *rand.Rand
	bus      *logbus.Bus
	intents  *intentQueue
	logger   zerolog.Logger
}

func newUniverse(id types.UniverseID, name string, color types.RGB, behavior Behavior, rng *rand.Rand, bus *logbus.Bus, intents *intentQueue) *Universe {
	return &Universe{
		id:       id,
		name:     name,
		color:    color,
		hp:       MaxHP,
		executes: true,
		enemies:  make(map[types.UniverseID]struct{}),
		brothers: make(map[types.UniverseID]struct{}),
		behavior: behavior,
		rng:      rng,
		bus:      bus,
		intents:  intents,
		logger:   log.ForUniverse(uint64(id), name),
	}
}

// apply processes one command. It returns false when the actor should
// terminate (graceful shutdown, no collapse broadcast).
func (u *Universe) apply(cmd types.Command) bool {
	switch cmd.Kind {
	case types.CommandStart:
		u.executes = true
	case types.CommandStop:
		u.executes = false
	case types.CommandShutdown:
		u.logger.Debug().Msg("Shutting down")
		return false
	case types.CommandSetRelationship:
		u.setRelationship(cmd.Peer, cmd.Relationship)
	case types.CommandInjectEvent:
		u.handleEvent(cmd.Event)
	case types.CommandRequestState:
		u.reportState()
	default:
		u.logger.Debug().Str("kind", string(cmd.Kind)).Msg("Ignoring unknown command")
	}
	return true
}

func (u *Universe) setRelationship(peer types.UniverseID, kind types.Relationship) {
	if peer == u.id {
		return
	}
	switch kind {
	case types.RelationshipBrother:
		u.brothers[peer] = struct{}{}
	case types.RelationshipEnemy:
		u.enemies[peer] = struct{}{}
	}
}

func (u *Universe) handleEvent(ev types.Event) {
	switch ev.Kind {
	case types.EventShatter:
		u.handleShatter(ev.Strength)
	case types.EventHeal:
		u.handleHeal(ev.Strength)
	case types.EventCrash:
		if !u.collapsed() {
			u.bus.Universe(u.name, u.color, "received a CRASH signal")
			u.collapse()
		}
	case types.EventPeerCollapsed:
		// Peers are forgotten even while paused.
		delete(u.enemies, ev.Peer)
		delete(u.brothers, ev.Peer)
	default:
		u.logger.Debug().Str("kind", string(ev.Kind)).Msg("Ignoring unknown event")
	}
}

func (u *Universe) handleShatter(damage int) {
	if u.collapsed() {
		return
	}
	u.hp -= damage
	if u.hp < 0 {
		u.hp = 0
	}
	u.bus.Universe(u.name, u.color, fmt.Sprintf("SHATTERED! -%d HP → %d left", damage, u.hp))
	if u.hp == 0 {
		u.collapse()
	}
}

func (u *Universe) handleHeal(amount int) {
	if u.collapsed() {
		return
	}
	old := u.hp
	u.hp += amount
	if u.hp > MaxHP {
		u.hp = MaxHP
	}
	u.bus.Universe(u.name, u.color, fmt.Sprintf("healed +%d HP (%d → %d)", amount, old, u.hp))
}

// collapse is the terminal transition: hp pinned to 0, execution stopped,
// exactly one Dead intent emitted. Re-collapse is a no-op.
func (u *Universe) collapse() {
	u.hp = 0
	u.executes = false
	if u.dead {
		return
	}
	u.dead = true
	u.intents.push(types.DeadIntent(u.id))
}

func (u *Universe) collapsed() bool {
	return u.hp <= 0
}

// step advances the actor's own clock and, on every Nth tick, rolls the
// autonomous attack/heal actions. The chosen peer is only named in an
// intent; the actor never touches another actor's state.
func (u *Universe) step() {
	u.tick++
	if u.behavior.ActionEveryTicks == 0 || u.tick%u.behavior.ActionEveryTicks != 0 {
		return
	}

	if u.rng.Float64() < u.behavior.AttackChance {
		if target, ok := u.pickPeer(u.enemies); ok {
			u.intents.push(types.AttackIntent(target, u.rollStrength()))
		}
	}
	if u.rng.Float64() < u.behavior.HealChance {
		if target, ok := u.pickPeer(u.brothers); ok {
			u.intents.push(types.HealIntent(target, u.rollStrength()))
		}
	}
}

func (u *Universe) rollStrength() int {
	span := u.behavior.MaxStrength - u.behavior.MinStrength + 1
	return u.behavior.MinStrength + u.rng.Intn(span)
}

func (u *Universe) pickPeer(set map[types.UniverseID]struct{}) (types.UniverseID, bool) {
	if len(set) == 0 {
		return 0, false
	}
	n := u.rng.Intn(len(set))
	for id := range set {
		if n == 0 {
			return id, true
		}
		n--
	}
	return 0, false
}

func (u *Universe) reportState() {
	u.bus.Universe(u.name, u.color, fmt.Sprintf("STATE → HP: %d | Tick: %d | Alive: %t",
		u.hp, u.tick, u.hp > 0))
}
