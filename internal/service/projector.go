package service

import (
	"context"
	"sync"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
)

// projectorService maintains an in-memory counts projection fed by the
// event bus, so dashboard polls do not hit the store on every request.
// The cache is primed lazily from the store and advanced by event deltas;
// if the subscription falls behind (the bus drops events rather than
// block), the next prime recomputes from the store.
type projectorService struct {
	assignRepo repository.AssignmentRepository

	mu     sync.RWMutex
	counts map[domain.NotificationStatus]int32
	primed bool

	cancel func()
	done   chan struct{}
}

func NewProjectorService(assignRepo repository.AssignmentRepository, bus *events.Bus) ProjectorService {
	p := &projectorService{
		assignRepo: assignRepo,
		counts:     make(map[domain.NotificationStatus]int32),
		done:       make(chan struct{}),
	}
	ch, cancel := bus.Subscribe(64)
	p.cancel = cancel
	go p.consume(ch)
	return p
}

func (p *projectorService) consume(ch <-chan events.Event) {
	defer close(p.done)
	for ev := range ch {
		p.apply(ev)
	}
}

func (p *projectorService) apply(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.primed {
		return
	}
	switch e := ev.(type) {
	case events.AssignmentCreated:
		p.counts[domain.NotificationStatusPending]++
	case events.AssignmentDispatched:
		p.shift(domain.NotificationStatusPending, domain.NotificationStatusSent)
	case events.AssignmentResponded:
		// A response can settle from pending as well as sent; the event
		// carries the actual from-status so the right bucket shrinks.
		p.shift(e.From, e.Action.Status())
	case events.AssignmentExpired:
		p.shift(domain.NotificationStatusSent, domain.NotificationStatusExpired)
	}
}

func (p *projectorService) shift(from, to domain.NotificationStatus) {
	if p.counts[from] > 0 {
		p.counts[from]--
	} else {
		// Deltas drifted from the store; force a recompute on next read.
		p.primed = false
		logger.Warn("Counts projection drifted, will recompute", "from", from, "to", to)
		return
	}
	p.counts[to]++
}

// CountsByStatus returns a count for every notification status, zero
// included, so dashboards render a stable set of buckets.
func (p *projectorService) CountsByStatus(ctx context.Context) (map[domain.NotificationStatus]int32, error) {
	p.mu.RLock()
	primed := p.primed
	p.mu.RUnlock()

	if !primed {
		fresh, err := p.assignRepo.CountsByNotificationStatus(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.counts = fresh
		p.primed = true
		p.mu.Unlock()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[domain.NotificationStatus]int32, 5)
	for _, st := range []domain.NotificationStatus{
		domain.NotificationStatusPending,
		domain.NotificationStatusSent,
		domain.NotificationStatusAccept,
		domain.NotificationStatusReject,
		domain.NotificationStatusExpired,
	} {
		out[st] = p.counts[st]
	}
	return out, nil
}

// RosterForTask is a plain read-through; rosters are per-task and cheap
// enough to serve straight from the store.
func (p *projectorService) RosterForTask(ctx context.Context, taskID string) ([]domain.AssignmentProjection, error) {
	return p.assignRepo.ListRoster(ctx, taskID)
}

func (p *projectorService) Close() {
	p.cancel()
	<-p.done
}
