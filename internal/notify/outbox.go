package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/store"
)

// SentEmail is a write-once record of a simulated email. Nothing is ever
// actually transmitted.
type SentEmail struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Outbox is the mock email outbox, most recent first.
type Outbox struct {
	store *store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewOutbox creates an outbox backed by the given store.
func NewOutbox(st *store.Store) *Outbox {
	return &Outbox{store: st, now: time.Now}
}

// SetClock overrides the wall clock, for tests.
func (o *Outbox) SetClock(now func() time.Time) { o.now = now }

// All returns the recorded emails, most recent first.
func (o *Outbox) All() ([]SentEmail, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.load()
}

func (o *Outbox) load() ([]SentEmail, error) {
	var items []SentEmail
	if _, err := o.store.Load(store.PartitionEmailOutbox, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Send appends a simulated email and returns the record.
func (o *Outbox) Send(to, subject, body string) (SentEmail, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	items, err := o.load()
	if err != nil {
		return SentEmail{}, err
	}

	e := SentEmail{
		ID:        uuid.NewString(),
		To:        to,
		Subject:   subject,
		Body:      body,
		Timestamp: o.now(),
	}
	items = append([]SentEmail{e}, items...)

	if err := o.store.Save(store.PartitionEmailOutbox, items); err != nil {
		return SentEmail{}, err
	}
	return e, nil
}

// Clear empties the outbox.
func (o *Outbox) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.store.Clear(store.PartitionEmailOutbox)
}
