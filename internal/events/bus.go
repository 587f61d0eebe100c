package events

import (
	"sync"
	"time"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/logger"
)

// Event is one entry in the assignment change feed. The four concrete types
// below are the only events the engine emits.
type Event interface {
	EventType() string
	OccurredAt() time.Time
}

type AssignmentCreated struct {
	AssignmentID string    `json:"assignment_id"`
	TaskID       string    `json:"task_id"`
	VolunteerID  string    `json:"volunteer_id"`
	At           time.Time `json:"at"`
}

type AssignmentDispatched struct {
	AssignmentID string    `json:"assignment_id"`
	TaskID       string    `json:"task_id"`
	VolunteerID  string    `json:"volunteer_id"`
	At           time.Time `json:"at"`
}

// AssignmentResponded records the status the row held before the response
// settled; a link can be answered before dispatch, so From is not always sent.
type AssignmentResponded struct {
	AssignmentID string                    `json:"assignment_id"`
	TaskID       string                    `json:"task_id"`
	VolunteerID  string                    `json:"volunteer_id"`
	From         domain.NotificationStatus `json:"from"`
	Action       domain.ResponseAction     `json:"action"`
	At           time.Time                 `json:"at"`
}

type AssignmentExpired struct {
	AssignmentID string    `json:"assignment_id"`
	TaskID       string    `json:"task_id"`
	VolunteerID  string    `json:"volunteer_id"`
	At           time.Time `json:"at"`
}

func (e AssignmentCreated) EventType() string    { return "assignment_created" }
func (e AssignmentDispatched) EventType() string { return "assignment_dispatched" }
func (e AssignmentResponded) EventType() string  { return "assignment_responded" }
func (e AssignmentExpired) EventType() string    { return "assignment_expired" }

func (e AssignmentCreated) OccurredAt() time.Time    { return e.At }
func (e AssignmentDispatched) OccurredAt() time.Time { return e.At }
func (e AssignmentResponded) OccurredAt() time.Time  { return e.At }
func (e AssignmentExpired) OccurredAt() time.Time    { return e.At }

// Bus is an in-process publish/subscribe fan-out. Publish never blocks the
// caller: a subscriber whose buffer is full misses the event and is expected
// to recompute from the store (polling is the documented fallback).
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a receive channel and a cancel function. The cancel
// function closes the channel; callers must stop ranging over it afterwards.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			logger.Warn("Event dropped for slow subscriber", "event", ev.EventType())
		}
	}
}

// SubscriberCount is used by tests and health reporting.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
