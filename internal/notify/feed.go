// Package notify provides an in-process notification feed. Real deployments
// would push these over a WebSocket; here a simulation ticker stands in for
// the missing server push, mirroring the demo behavior of the product.
package notify

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification event.
type Type string

// Notification event types.
const (
	TypeExpenseSubmitted    Type = "expense_submitted"
	TypeExpenseApproved     Type = "expense_approved"
	TypeCommentAdded        Type = "comment_added"
	TypeDeadlineApproaching Type = "deadline_approaching"
	TypeBudgetAlert         Type = "budget_alert"
)

// Notification is a single feed event.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

var titles = map[Type]string{
	TypeExpenseSubmitted:    "New Expense Submitted",
	TypeExpenseApproved:     "Expense Approved",
	TypeCommentAdded:        "New Comment",
	TypeDeadlineApproaching: "Approval Deadline",
	TypeBudgetAlert:         "Budget Alert",
}

var messages = map[Type]string{
	TypeExpenseSubmitted:    "A new expense was submitted by a teammate.",
	TypeExpenseApproved:     "An expense you oversee was approved.",
	TypeCommentAdded:        "Someone left a comment on an expense.",
	TypeDeadlineApproaching: "Some approvals are due soon.",
	TypeBudgetAlert:         "Department spending exceeded threshold.",
}

var simulatedTypes = []Type{
	TypeExpenseSubmitted,
	TypeExpenseApproved,
	TypeCommentAdded,
	TypeDeadlineApproaching,
	TypeBudgetAlert,
}

// Feed fans notifications out to any number of subscribers. Slow
// subscribers drop events rather than blocking the publisher.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]chan Notification
	nextID int
	rng    *rand.Rand
}

// NewFeed creates an empty notification feed.
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[int]chan Notification),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Subscribe registers a listener. The returned cancel function removes the
// subscription and closes the channel.
func (f *Feed) Subscribe() (<-chan Notification, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan Notification, 16)
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the notification to every subscriber.
func (f *Feed) Publish(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- n:
		default:
			// subscriber is not keeping up
		}
	}
}

// Event builds a notification of the given type with canned title and message.
func Event(t Type) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Title:     titles[t],
		Message:   messages[t],
		Timestamp: time.Now(),
	}
}

// Simulate publishes a random notification on every tick until the context
// is canceled.
func (f *Feed) Simulate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.mu.Lock()
			t := simulatedTypes[f.rng.Intn(len(simulatedTypes))]
			f.mu.Unlock()
			f.Publish(Event(t))
		}
	}
}
