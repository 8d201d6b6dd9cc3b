package supervisor

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/metrics"
	"github.com/theyonatan/multiverse/pkg/types"
	"github.com/theyonatan/multiverse/pkg/universe"
)

// ErrNameTaken is returned by Create when the name is already registered.
type ErrNameTaken struct {
	Name string
}

func (e ErrNameTaken) Error() string {
	return fmt.Sprintf("universe name '%s' already exists", e.Name)
}

// ShutdownJoinTimeout bounds how long ShutdownAll waits for each actor
// goroutine to return.
const ShutdownJoinTimeout = 5 * time.Second

// Config holds supervisor configuration.
type Config struct {
	Bus *logbus.Bus
	// TickPeriod overrides the actors' clock period. Zero keeps the
	// production default.
	TickPeriod time.Duration
	// Behavior overrides the actors' autonomous tuning. Zero value keeps
	// the production default.
	Behavior universe.Behavior
	// Seed makes the relationship coin and the per-actor RNGs
	// deterministic. Zero seeds from the current time.
	Seed int64
}

// Supervisor owns the universe registry, mediates every inter-universe
// message and maintains fleet lifecycle. All registry access goes through
// its mutex; actor state is never touched directly.
type Supervisor struct {
	mu     sync.Mutex
	byID   map[types.UniverseID]*universe.Handle
	byName map[string]types.UniverseID

	bus        *logbus.Bus
	tickPeriod time.Duration
	behavior   universe.Behavior
	seeded     bool
	roll       *rand.Rand
	logger     zerolog.Logger
}

type sourcedIntent struct {
	source *universe.Handle
	intent types.Intent
}

// New creates a supervisor.
func New(cfg Config) *Supervisor {
	seed := cfg.Seed
	seeded := seed != 0
	if !seeded {
		seed = time.Now().UnixNano()
	}
	return &Supervisor{
		byID:       make(map[types.UniverseID]*universe.Handle),
		byName:     make(map[string]types.UniverseID),
		bus:        cfg.Bus,
		tickPeriod: cfg.TickPeriod,
		behavior:   cfg.Behavior,
		seeded:     seeded,
		roll:       rand.New(rand.NewSource(seed)),
		logger:     log.WithComponent("supervisor"),
	}
}

// Create spawns a new universe, rolls its relationships against every
// existing peer, and registers it. The roll happens before the newcomer
// is visible in the registry, so every pair carries exactly one label.
func (s *Supervisor) Create(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[name]; exists {
		return ErrNameTaken{Name: name}
	}

	var spawnSeed int64
	if s.seeded {
		spawnSeed = s.roll.Int63()
	}

	h := universe.Spawn(name, universe.Options{
		Bus:        s.bus,
		TickPeriod: s.tickPeriod,
		Behavior:   s.behavior,
		Seed:       spawnSeed,
	})

	// Relationship roll: one fair coin per existing pair, same kind
	// delivered to both sides.
	for _, peer := range s.byID {
		kind := types.RelationshipEnemy
		if s.roll.Intn(2) == 0 {
			kind = types.RelationshipBrother
		}

		if err := h.SendWait(types.SetRelationship(peer.ID, peer.Name, kind)); err != nil {
			s.logger.Warn().Err(err).Str("universe", name).Msg("Failed to deliver relationship to newcomer")
		}
		if err := peer.SendWait(types.SetRelationship(h.ID, name, kind)); err != nil {
			s.logger.Warn().Err(err).Str("universe", peer.Name).Msg("Failed to deliver relationship to peer")
		}

		s.bus.Relationship(name, h.Color, peer.Name, peer.Color, kind)
		metrics.RelationshipRollsTotal.WithLabelValues(string(kind)).Inc()
	}

	s.byID[h.ID] = h
	s.byName[name] = h.ID

	s.bus.Created(name, h.Color)
	s.bus.Info(fmt.Sprintf("Created universe '%s' (ID: %d)", name, h.ID))
	s.logger.Info().Str("universe", name).Uint64("id", uint64(h.ID)).Msg("Universe created")

	metrics.UniversesCreatedTotal.Inc()
	metrics.UniversesTotal.Set(float64(len(s.byID)))

	return nil
}

// Exists reports whether a name is registered.
func (s *Supervisor) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byName[name]
	return ok
}

// List returns the registered names, sorted for stable output.
func (s *Supervisor) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of live universes.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// SendCommand routes a command to a universe by name. A missing name is
// not an error from the caller's perspective: the universe may have
// collapsed concurrently, so the drop is logged and the call returns
// false. A full mailbox likewise drops the command; the front-end may
// retry. The returned bool reports whether the name resolved, so
// callers can suppress their own follow-up narration for ghosts.
func (s *Supervisor) SendCommand(name string, cmd types.Command) bool {
	s.mu.Lock()
	id, ok := s.byName[name]
	h := s.byID[id]
	if ok && cmd.Kind == types.CommandShutdown {
		// Explicit shutdown retires the registry entry immediately; the
		// actor exits without a collapse broadcast.
		delete(s.byID, id)
		delete(s.byName, name)
		metrics.UniversesTotal.Set(float64(len(s.byID)))
	}
	s.mu.Unlock()

	if !ok {
		s.bus.Info(fmt.Sprintf("No universe named '%s'", name))
		return false
	}

	if err := h.Send(cmd); err != nil {
		s.bus.Info(fmt.Sprintf("Command to '%s' dropped: %v", name, err))
		metrics.CommandsDroppedTotal.Inc()
	}
	return true
}

// ProcessIntents drains every handle's intent queue, then applies the
// collected intents in per-actor FIFO order. Called periodically by the
// driver.
func (s *Supervisor) ProcessIntents() {
	s.mu.Lock()
	handles := make([]*universe.Handle, 0, len(s.byID))
	for _, h := range s.byID {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	var pending []sourcedIntent
	for _, h := range handles {
		for _, intent := range h.DrainIntents() {
			pending = append(pending, sourcedIntent{source: h, intent: intent})
		}
	}

	for _, p := range pending {
		s.processIntent(p.source, p.intent)
		metrics.IntentsProcessedTotal.WithLabelValues(string(p.intent.Kind)).Inc()
	}
}

func (s *Supervisor) processIntent(source *universe.Handle, intent types.Intent) {
	switch intent.Kind {
	case types.IntentAttack:
		target, ok := s.lookup(intent.Target)
		if !ok {
			// Target collapsed in flight; the attack dissolves.
			return
		}
		if err := target.Send(types.InjectEvent(types.Shatter(intent.Amount))); err != nil {
			s.logger.Debug().Err(err).Str("target", target.Name).Msg("Attack delivery failed")
			return
		}
		s.bus.Attack(source.Name, source.Color, target.Name, target.Color, intent.Amount)

	case types.IntentHeal:
		target, ok := s.lookup(intent.Target)
		if !ok {
			return
		}
		if err := target.Send(types.InjectEvent(types.Heal(intent.Amount))); err != nil {
			s.logger.Debug().Err(err).Str("target", target.Name).Msg("Heal delivery failed")
			return
		}
		s.bus.Heal(source.Name, source.Color, target.Name, target.Color, intent.Amount)

	case types.IntentDead:
		s.handleCollapse(source)

	default:
		s.logger.Warn().Str("kind", string(intent.Kind)).Msg("Unknown intent")
	}
}

// handleCollapse removes the dead universe from the registry, announces
// the collapse and tells every survivor to forget the peer.
func (s *Supervisor) handleCollapse(dead *universe.Handle) {
	s.mu.Lock()
	if _, still := s.byID[dead.ID]; !still {
		s.mu.Unlock()
		return
	}
	delete(s.byID, dead.ID)
	delete(s.byName, dead.Name)
	survivors := make([]*universe.Handle, 0, len(s.byID))
	for _, h := range s.byID {
		survivors = append(survivors, h)
	}
	count := len(s.byID)
	s.mu.Unlock()

	s.bus.Collapsed(dead.Name, dead.Color)
	s.logger.Info().Str("universe", dead.Name).Uint64("id", uint64(dead.ID)).Msg("Universe collapsed")

	for _, h := range survivors {
		if err := h.SendWait(types.InjectEvent(types.PeerCollapsed(dead.ID))); err != nil {
			s.logger.Debug().Err(err).Str("universe", h.Name).Msg("Peer-collapsed delivery failed")
		}
	}

	// Graceful exit for the dying actor. It usually has already
	// terminated on its own; a failed send is expected.
	_ = dead.Send(types.Shutdown())

	metrics.CollapsesTotal.Inc()
	metrics.UniversesTotal.Set(float64(count))
}

func (s *Supervisor) lookup(id types.UniverseID) (*universe.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byID[id]
	return h, ok
}

// ShutdownAll sends Shutdown to every universe and waits for every actor
// goroutine to return. After it completes the registry is empty and no
// further intents are processed.
func (s *Supervisor) ShutdownAll() {
	s.mu.Lock()
	handles := make([]*universe.Handle, 0, len(s.byID))
	for _, h := range s.byID {
		handles = append(handles, h)
	}
	s.byID = make(map[types.UniverseID]*universe.Handle)
	s.byName = make(map[string]types.UniverseID)
	s.mu.Unlock()

	for _, h := range handles {
		if err := h.SendWait(types.Shutdown()); err != nil {
			// Already gone; nothing to join but the closed done channel.
			s.logger.Debug().Err(err).Str("universe", h.Name).Msg("Shutdown delivery failed")
		}
	}

	for _, h := range handles {
		select {
		case <-h.Done():
		case <-time.After(ShutdownJoinTimeout):
			s.logger.Warn().Str("universe", h.Name).Msg("Universe did not terminate in time")
		}
	}

	s.bus.Info("All universes shut down")
	metrics.UniversesTotal.Set(0)
}
