package universe

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/types"
)

const (
	// DefaultTickPeriod is the actor's autonomous clock period.
	DefaultTickPeriod = 80 * time.Millisecond
	// MailboxDepth bounds the command mailbox. Commands are small and
	// infrequent; a full mailbox drops the command back to the sender.
	MailboxDepth = 10
)

// ErrMailboxFull is returned when a command cannot be enqueued without
// blocking. The caller may retry; the fleet never stalls on one actor.
var ErrMailboxFull = errors.New("universe: command mailbox full")

// ErrGone is returned when the actor goroutine has already terminated.
var ErrGone = errors.New("universe: actor terminated")

// intentQueue is the unbounded actor→supervisor path. A bounded channel
// could drop the single Dead intent under load, so the queue grows with
// drain lag instead: memory use is proportional to how far the
// supervisor's pump has fallen behind.
type intentQueue struct {
	mu    sync.Mutex
	items []types.Intent
}

func (q *intentQueue) push(intent types.Intent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, intent)
}

func (q *intentQueue) drain() []types.Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Handle is the supervisor's view of one actor: identity, the command
// sink, the intent source, and the join token for clean shutdown.
type Handle struct {
	ID    types.UniverseID
	Name  string
	Color types.RGB

	commander chan types.Command
	intents   *intentQueue
	done      chan struct{}
}

// Options configures a spawn. Zero values fall back to production
// defaults; tests inject a seeded RNG and a fast tick.
type Options struct {
	Bus        *logbus.Bus
	TickPeriod time.Duration
	Behavior   Behavior
	Seed       int64
}

// Spawn allocates an id and color, builds the actor and starts its
// goroutine. The returned handle is the only reference the rest of the
// system ever holds.
func Spawn(name string, opts Options) *Handle {
	tick := opts.TickPeriod
	if tick <= 0 {
		tick = DefaultTickPeriod
	}
	behavior := opts.Behavior
	if behavior.ActionEveryTicks == 0 {
		behavior = DefaultBehavior()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	id := types.NextUniverseID()
	color := types.RandomColor(rng)
	queue := &intentQueue{}
	u := newUniverse(id, name, color, behavior, rng, opts.Bus, queue)

	h := &Handle{
		ID:        id,
		Name:      name,
		Color:     color,
		commander: make(chan types.Command, MailboxDepth),
		intents:   queue,
		done:      make(chan struct{}),
	}

	go u.run(h.commander, h.done, tick)

	return h
}

// Send enqueues a command without blocking. A full mailbox yields
// ErrMailboxFull and an already terminated actor yields ErrGone; either
// way the command is dropped and the caller decides whether to retry.
func (h *Handle) Send(cmd types.Command) error {
	select {
	case <-h.done:
		return ErrGone
	default:
	}
	select {
	case h.commander <- cmd:
		return nil
	default:
		return ErrMailboxFull
	}
}

// SendWait enqueues a command, blocking until there is mailbox room or
// the actor terminates. Used for deliveries that must not be lost to a
// momentarily full mailbox (relationship rolls, collapse broadcasts).
func (h *Handle) SendWait(cmd types.Command) error {
	select {
	case h.commander <- cmd:
		return nil
	case <-h.done:
		return ErrGone
	}
}

// DrainIntents removes and returns every queued intent in FIFO order.
// The supervisor calls this on every pump cycle.
func (h *Handle) DrainIntents() []types.Intent {
	return h.intents.drain()
}

// Done is closed when the actor goroutine has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// run is the actor loop: a cooperative select between the command
// mailbox and the tick clock. Missed ticks are skipped, not replayed.
func (u *Universe) run(commander <-chan types.Command, done chan struct{}, tickPeriod time.Duration) {
	defer close(done)

	u.bus.Universe(u.name, u.color, "spawned")

	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-commander:
			if !u.apply(cmd) {
				return
			}
		case <-ticker.C:
			if u.executes && u.hp > 0 {
				u.step()
			}
		}
		if u.collapsed() {
			return
		}
	}
}
