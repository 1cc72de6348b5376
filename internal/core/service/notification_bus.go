package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// NotificationBus is an ordered queue of transient messages. Every posted
// entry is removed by its own timer unless dismissed first.
type NotificationBus struct {
	defaultDuration time.Duration
	observer        ports.Observer
	now             func() time.Time

	mu     sync.Mutex
	items  []domain.Notification
	timers map[string]*time.Timer
	seq    uint64
	closed bool
}

func NewNotificationBus(defaultDuration time.Duration, observer ports.Observer) *NotificationBus {
	if defaultDuration <= 0 {
		defaultDuration = domain.DefaultNotificationDuration
	}
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &NotificationBus{
		defaultDuration: defaultDuration,
		observer:        observer,
		now:             time.Now,
		timers:          make(map[string]*time.Timer),
	}
}

// Post appends a notification and arms its expiry timer. A non-positive
// duration uses the bus default.
func (b *NotificationBus) Post(sev domain.Severity, text string, d time.Duration) domain.Notification {
	if d <= 0 {
		d = b.defaultDuration
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.seq++
	n := domain.Notification{
		ID:        fmt.Sprintf("%d-%d", now.UnixMilli(), b.seq),
		Severity:  sev,
		Text:      text,
		Duration:  d,
		CreatedAt: now,
	}
	if b.closed {
		return n
	}

	b.items = append(b.items, n)
	id := n.ID
	b.timers[id] = time.AfterFunc(d, func() { b.Dismiss(id) })
	b.observer.NotificationPosted(sev)
	return n
}

func (b *NotificationBus) Success(text string) domain.Notification {
	return b.Post(domain.SeveritySuccess, text, 0)
}

func (b *NotificationBus) Error(text string) domain.Notification {
	return b.Post(domain.SeverityError, text, 0)
}

func (b *NotificationBus) Warning(text string) domain.Notification {
	return b.Post(domain.SeverityWarning, text, 0)
}

func (b *NotificationBus) Info(text string) domain.Notification {
	return b.Post(domain.SeverityInfo, text, 0)
}

// Dismiss removes id and reports whether it was queued. Unknown ids are a no-op.
func (b *NotificationBus) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the queue in display order.
func (b *NotificationBus) List() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Notification, len(b.items))
	copy(out, b.items)
	return out
}

func (b *NotificationBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Close stops every timer and empties the queue. Later posts are dropped.
func (b *NotificationBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.items = nil
	b.closed = true
}
