package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(BusConfig{})
	var mu sync.Mutex
	var got []Event
	bus.Subscribe(TopicEnrollmentChanged, func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	bus.Start()

	bus.Publish(Event{Topic: TopicEnrollmentChanged, EntityID: "enr-1"})
	bus.Publish(Event{Topic: "other.topic", EntityID: "x"})
	bus.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "enr-1", got[0].EntityID)
	assert.False(t, got[0].OccurredAt.IsZero())
}

func TestBusPublishBeforeStartDrops(t *testing.T) {
	bus := NewBus(BusConfig{})
	delivered := false
	bus.Subscribe(TopicEnrollmentChanged, func(Event) { delivered = true })

	bus.Publish(Event{Topic: TopicEnrollmentChanged})
	bus.Start()
	bus.Stop()
	assert.False(t, delivered)
}

func TestBusHandlerPanicIsContained(t *testing.T) {
	bus := NewBus(BusConfig{})
	var second bool
	bus.Subscribe(TopicEnrollmentChanged, func(Event) { panic("boom") })
	bus.Subscribe(TopicEnrollmentChanged, func(Event) { second = true })
	bus.Start()

	bus.Publish(Event{Topic: TopicEnrollmentChanged, OccurredAt: time.Now()})
	bus.Stop()
	assert.True(t, second)
}
