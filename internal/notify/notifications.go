// Package notify keeps the user-facing notification log and the mock email
// outbox. Both are most-recent-first lists persisted as store partitions.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/store"
)

// Notification types.
const (
	TypeReminder = "reminder"
	TypeSystem   = "system"
	TypePDF      = "pdf"
	TypeVoice    = "voice"
	TypeChat     = "chat"
)

// Notification is one entry in the alert log. RelatedID is a loose backward
// reference (for example a reminder id); deleting the referenced record does
// not cascade here.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	RelatedID string    `json:"relatedId,omitempty"`
}

// Manager is the notification log service.
type Manager struct {
	store *store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewManager creates a notification manager backed by the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st, now: time.Now}
}

// SetClock overrides the wall clock, for tests.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// All returns every notification, most recent first.
func (m *Manager) All() ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() ([]Notification, error) {
	var items []Notification
	if _, err := m.store.Load(store.PartitionNotifications, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add prepends a new unread notification and returns it.
func (m *Manager) Add(typ, title, message, relatedID string) (Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load()
	if err != nil {
		return Notification{}, err
	}

	n := Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: m.now(),
		Read:      false,
		RelatedID: relatedID,
	}
	items = append([]Notification{n}, items...)

	if err := m.store.Save(store.PartitionNotifications, items); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// MarkRead flips a single notification to read. Unknown ids are ignored.
func (m *Manager) MarkRead(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load()
	if err != nil {
		return err
	}
	changed := false
	for i := range items {
		if items[i].ID == id && !items[i].Read {
			items[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return m.store.Save(store.PartitionNotifications, items)
}

// MarkAllRead flips every notification to read. Idempotent.
func (m *Manager) MarkAllRead() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load()
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Read = true
	}
	return m.store.Save(store.PartitionNotifications, items)
}

// UnreadCount returns the number of unread notifications. It is cheap enough
// to poll every few seconds.
func (m *Manager) UnreadCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range items {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// Clear empties the notification log.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clear(store.PartitionNotifications)
}
