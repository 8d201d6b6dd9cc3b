package logbus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a log entry for front-end filtering.
type Level string

const (
	LevelInfo         Level = "info"
	LevelUniverse     Level = "universe"
	LevelRelationship Level = "relationship"
	LevelUserAction   Level = "useraction"
)

// Entry is a single broadcast log record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// Subscriber is a channel that receives entries published after the
// subscription was taken.
type Subscriber chan Entry

// SubscriberCapacity is the per-subscriber buffer depth. A subscriber
// that lags further than this loses its oldest buffered entries.
const SubscriberCapacity = 500

// Bus manages entry subscriptions and distribution.
type Bus struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	entryCh     chan Entry
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewBus creates a new log bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[Subscriber]bool),
		entryCh:     make(chan Entry, SubscriberCapacity),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the bus distribution loop.
func (b *Bus) Start() {
	go b.run()
}

// Stop stops the bus.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

// Subscribe creates a new subscription and returns its channel.
func (b *Bus) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, SubscriberCapacity)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[sub] {
		delete(b.subscribers, sub)
		close(sub)
	}
}

// Publish stamps and publishes an entry to all subscribers. Publishers
// are never back-pressured by slow subscribers.
func (b *Bus) Publish(level Level, message string) {
	entry := Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}

	select {
	case b.entryCh <- entry:
	case <-b.stopCh:
	}
}

func (b *Bus) run() {
	for {
		select {
		case entry := <-b.entryCh:
			b.broadcast(entry)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Bus) broadcast(entry Entry) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- entry:
		default:
			// Subscriber buffer full: evict its oldest entry, then retry.
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- entry:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
