package universe

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/types"
)

func init() {
	log.Quiet()
}

func newTestUniverse(t *testing.T) (*Universe, *intentQueue, *logbus.Bus) {
	t.Helper()
	bus := logbus.NewBus()
	bus.Start()
	t.Cleanup(bus.Stop)

	queue := &intentQueue{}
	id := types.NextUniverseID()
	rng := rand.New(rand.NewSource(1))
	u := newUniverse(id, "Test", types.RGB{R: 100, G: 100, B: 100}, DefaultBehavior(), rng, bus, queue)
	return u, queue, bus
}

func TestShatterReducesAndClampsHP(t *testing.T) {
	u, _, _ := newTestUniverse(t)

	u.handleEvent(types.Shatter(30))
	assert.Equal(t, 70, u.hp)

	u.handleEvent(types.Shatter(999))
	assert.Equal(t, 0, u.hp)
	assert.False(t, u.executes)
}

func TestHealClampsAtMax(t *testing.T) {
	u, _, _ := newTestUniverse(t)

	u.handleEvent(types.Shatter(30))
	u.handleEvent(types.Heal(20))
	assert.Equal(t, 90, u.hp)

	u.handleEvent(types.Heal(50))
	assert.Equal(t, 100, u.hp)
}

func TestHealAfterCollapseIsNoOp(t *testing.T) {
	u, _, _ := newTestUniverse(t)

	u.handleEvent(types.Shatter(100))
	assert.Equal(t, 0, u.hp)

	u.handleEvent(types.Heal(50))
	assert.Equal(t, 0, u.hp)
	assert.False(t, u.executes)
}

func TestCollapseEmitsExactlyOneDeadIntent(t *testing.T) {
	u, queue, _ := newTestUniverse(t)

	u.handleEvent(types.Shatter(60))
	u.handleEvent(types.Shatter(60))
	u.handleEvent(types.Crash())
	u.handleEvent(types.Shatter(10))

	var deads int
	for _, intent := range queue.drain() {
		if intent.Kind == types.IntentDead {
			deads++
			assert.Equal(t, u.id, intent.Target)
		}
	}
	assert.Equal(t, 1, deads)
}

func TestCrashCollapsesImmediately(t *testing.T) {
	u, queue, _ := newTestUniverse(t)

	u.handleEvent(types.Crash())
	assert.Equal(t, 0, u.hp)
	assert.False(t, u.executes)

	intents := queue.drain()
	assert.Len(t, intents, 1)
	assert.Equal(t, types.IntentDead, intents[0].Kind)
}

func TestStartStopToggleExecution(t *testing.T) {
	u, _, _ := newTestUniverse(t)

	assert.True(t, u.apply(types.Stop()))
	assert.False(t, u.executes)

	assert.True(t, u.apply(types.Start()))
	assert.True(t, u.executes)

	// Idempotent
	assert.True(t, u.apply(types.Start()))
	assert.True(t, u.executes)
}

func TestShutdownCommandTerminatesWithoutDeadIntent(t *testing.T) {
	u, queue, _ := newTestUniverse(t)

	assert.False(t, u.apply(types.Shutdown()))
	assert.Empty(t, queue.drain())
}

func TestRelationshipSetsStayDisjoint(t *testing.T) {
	u, _, _ := newTestUniverse(t)

	// Peer ids derive from the universe's own id: ids come from the
	// process-global counter, so a fixed literal could equal u.id.
	brother := u.id + 1
	enemy := u.id + 2
	u.apply(types.SetRelationship(brother, "Alpha", types.RelationshipBrother))
	u.apply(types.SetRelationship(enemy, "Beta", types.RelationshipEnemy))

	assert.Contains(t, u.brothers, brother)
	assert.Contains(t, u.enemies, enemy)
	assert.NotContains(t, u.enemies, brother)
	assert.NotContains(t, u.brothers, enemy)

	// Self-relationships are ignored.
	u.apply(types.SetRelationship(u.id, "Test", types.RelationshipEnemy))
	assert.NotContains(t, u.enemies, u.id)
}

func TestPeerCollapsedForgetsPeerEvenWhilePaused(t *testing.T) {
	u, _, _ := newTestUniverse(t)

	u.apply(types.SetRelationship(7, "Alpha", types.RelationshipBrother))
	u.apply(types.SetRelationship(8, "Beta", types.RelationshipEnemy))
	u.apply(types.Stop())

	u.handleEvent(types.PeerCollapsed(7))
	u.handleEvent(types.PeerCollapsed(8))

	assert.Empty(t, u.brothers)
	assert.Empty(t, u.enemies)
}

func TestStepActsOnlyOnActionTicks(t *testing.T) {
	u, queue, _ := newTestUniverse(t)
	u.behavior = Behavior{
		ActionEveryTicks: 4,
		AttackChance:     1.0,
		HealChance:       0,
		MinStrength:      7,
		MaxStrength:      20,
	}
	u.setRelationship(99, types.RelationshipEnemy)

	for i := 0; i < 3; i++ {
		u.step()
	}
	assert.Empty(t, queue.drain(), "no action before the 4th tick")

	u.step()
	intents := queue.drain()
	assert.Len(t, intents, 1)
	assert.Equal(t, types.IntentAttack, intents[0].Kind)
	assert.Equal(t, types.UniverseID(99), intents[0].Target)
	assert.GreaterOrEqual(t, intents[0].Amount, 7)
	assert.LessOrEqual(t, intents[0].Amount, 20)
}

func TestStepSkipsEmptySets(t *testing.T) {
	u, queue, _ := newTestUniverse(t)
	u.behavior = Behavior{
		ActionEveryTicks: 1,
		AttackChance:     1.0,
		HealChance:       1.0,
		MinStrength:      7,
		MaxStrength:      20,
	}

	for i := 0; i < 10; i++ {
		u.step()
	}
	assert.Empty(t, queue.drain(), "no peers, no intents")
}

func TestStepHealsBrothers(t *testing.T) {
	u, queue, _ := newTestUniverse(t)
	u.behavior = Behavior{
		ActionEveryTicks: 1,
		AttackChance:     0,
		HealChance:       1.0,
		MinStrength:      7,
		MaxStrength:      20,
	}
	u.setRelationship(5, types.RelationshipBrother)

	u.step()
	intents := queue.drain()
	assert.Len(t, intents, 1)
	assert.Equal(t, types.IntentHeal, intents[0].Kind)
	assert.Equal(t, types.UniverseID(5), intents[0].Target)
}

func TestSpawnedActorCollapsesOnLethalShatter(t *testing.T) {
	bus := logbus.NewBus()
	bus.Start()
	defer bus.Stop()

	h := Spawn("Doomed", Options{
		Bus:        bus,
		TickPeriod: 5 * time.Millisecond,
		Behavior:   Behavior{ActionEveryTicks: 1},
		Seed:       1,
	})

	assert.NoError(t, h.Send(types.InjectEvent(types.Shatter(100))))

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("actor did not terminate after collapse")
	}

	intents := h.DrainIntents()
	assert.Len(t, intents, 1)
	assert.Equal(t, types.IntentDead, intents[0].Kind)
	assert.Equal(t, h.ID, intents[0].Target)
}

func TestSpawnedActorShutsDownGracefully(t *testing.T) {
	bus := logbus.NewBus()
	bus.Start()
	defer bus.Stop()

	h := Spawn("Quiet", Options{
		Bus:        bus,
		TickPeriod: 5 * time.Millisecond,
		Behavior:   Behavior{ActionEveryTicks: 1},
		Seed:       1,
	})

	assert.NoError(t, h.Send(types.Shutdown()))

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("actor did not terminate after shutdown")
	}

	assert.Empty(t, h.DrainIntents(), "graceful exit publishes no collapse intent")

	// Sends to a terminated actor report the hangup.
	assert.ErrorIs(t, h.Send(types.Start()), ErrGone)
}

func TestCommandFIFOLeavesFinalStateStopped(t *testing.T) {
	bus := logbus.NewBus()
	bus.Start()
	defer bus.Stop()

	h := Spawn("Toggled", Options{
		Bus:        bus,
		TickPeriod: 5 * time.Millisecond,
		Behavior: Behavior{
			ActionEveryTicks: 1,
			AttackChance:     1.0,
			MinStrength:      7,
			MaxStrength:      20,
		},
		Seed: 1,
	})
	defer func() {
		_ = h.Send(types.Shutdown())
	}()

	assert.NoError(t, h.SendWait(types.SetRelationship(9999, "Ghost", types.RelationshipEnemy)))
	assert.NoError(t, h.SendWait(types.Stop()))
	assert.NoError(t, h.SendWait(types.Start()))
	assert.NoError(t, h.SendWait(types.Stop()))

	// Let the mailbox drain and any in-flight tick finish, then discard
	// everything produced so far.
	time.Sleep(100 * time.Millisecond)
	h.DrainIntents()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, h.DrainIntents(), "stopped actor must not act")
}

func TestIntentQueueFIFO(t *testing.T) {
	q := &intentQueue{}
	q.push(types.AttackIntent(1, 10))
	q.push(types.HealIntent(2, 5))
	q.push(types.DeadIntent(3))

	intents := q.drain()
	assert.Len(t, intents, 3)
	assert.Equal(t, types.IntentAttack, intents[0].Kind)
	assert.Equal(t, types.IntentHeal, intents[1].Kind)
	assert.Equal(t, types.IntentDead, intents[2].Kind)

	assert.Empty(t, q.drain())
}
