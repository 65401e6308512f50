package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TopicEnrollmentChanged is published after any successful enrollment
// mutation so dependent views (billing, dashboards) can refresh.
const TopicEnrollmentChanged = "enrollment.changed"

// Event carries a domain notification. It is a hook, not a data contract:
// consumers reload what they need instead of trusting the payload.
type Event struct {
	Topic      string
	EntityID   string
	OccurredAt time.Time
	Payload    interface{}
}

// Handler consumes a published event.
type Handler func(Event)

// BusConfig tunes dispatcher behaviour.
type BusConfig struct {
	BufferSize int
	Logger     *zap.Logger
}

// Bus is a lightweight in-process publish/subscribe dispatcher backed by a
// single goroutine, so handlers never block the publishing request path.
type Bus struct {
	logger     *zap.Logger
	bufferSize int

	mu      sync.RWMutex
	subs    map[string][]Handler
	events  chan Event
	done    chan struct{}
	started bool
}

// NewBus builds an event bus.
func NewBus(cfg BusConfig) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Bus{
		logger:     cfg.Logger,
		bufferSize: cfg.BufferSize,
		subs:       make(map[string][]Handler),
	}
}

// Subscribe registers a handler for a topic. Must be called before Start.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], handler)
}

// Start launches the dispatcher goroutine. Safe to call once.
func (b *Bus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true
	b.events = make(chan Event, b.bufferSize)
	b.done = make(chan struct{})
	go b.dispatch()
}

// Stop drains the queue and stops the dispatcher.
func (b *Bus) Stop() {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return
	}
	b.started = false
	close(b.events)
	b.mu.Unlock()
	<-b.done
}

// Publish enqueues an event. Events published on a full buffer or a stopped
// bus are dropped with a warning; notification delivery is best effort.
func (b *Bus) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.started {
		b.logger.Warn("event dropped, bus not started", zap.String("topic", event.Topic))
		return
	}
	select {
	case b.events <- event:
	default:
		b.logger.Warn("event dropped, buffer full", zap.String("topic", event.Topic), zap.String("entity_id", event.EntityID))
	}
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for event := range b.events {
		b.mu.RLock()
		handlers := append([]Handler(nil), b.subs[event.Topic]...)
		b.mu.RUnlock()
		for _, handler := range handlers {
			b.safeInvoke(handler, event)
		}
	}
}

func (b *Bus) safeInvoke(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", zap.String("topic", event.Topic), zap.Any("panic", r))
		}
	}()
	handler(event)
}
