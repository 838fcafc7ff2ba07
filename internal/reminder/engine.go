// Package reminder implements one-shot reminders: created with an absolute
// due time, optionally completed or deleted by the user, and fired at most
// once by the periodic due sweep. A fired reminder is removed from the
// active set; it never recurs.
package reminder

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/store"
)

// ErrNotFound is returned when a reminder id does not match anything.
var ErrNotFound = errors.New("reminder not found")

// Reminder is a scheduled one-shot reminder.
type Reminder struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"dueAt"`
	CreatedAt   time.Time `json:"createdAt"`
	Email       string    `json:"email,omitempty"`
	Completed   bool      `json:"completed"`
}

// Engine owns the reminder list and its side effects on the notification
// log and the email outbox.
type Engine struct {
	store         *store.Store
	notifications *notify.Manager
	outbox        *notify.Outbox
	settings      *settings.Manager

	mu  sync.Mutex
	now func() time.Time
}

// NewEngine creates a reminder engine.
func NewEngine(st *store.Store, notifications *notify.Manager, outbox *notify.Outbox, settingsMgr *settings.Manager) *Engine {
	return &Engine{
		store:         st,
		notifications: notifications,
		outbox:        outbox,
		settings:      settingsMgr,
		now:           time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// All returns every stored reminder, newest first.
func (e *Engine) All() ([]Reminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load()
}

func (e *Engine) load() ([]Reminder, error) {
	var items []Reminder
	if _, err := e.store.Load(store.PartitionReminders, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add stores a new reminder, immediately raises a "Reminder created"
// notification and returns the stored record.
func (e *Engine) Add(description string, dueAt time.Time, email string) (Reminder, error) {
	e.mu.Lock()

	items, err := e.load()
	if err != nil {
		e.mu.Unlock()
		return Reminder{}, err
	}
	r := Reminder{
		ID:          uuid.NewString(),
		Description: description,
		DueAt:       dueAt,
		CreatedAt:   e.now(),
		Email:       email,
	}
	items = append([]Reminder{r}, items...)
	if err := e.store.Save(store.PartitionReminders, items); err != nil {
		e.mu.Unlock()
		return Reminder{}, err
	}
	e.mu.Unlock()

	_, err = e.notifications.Add(notify.TypeReminder, "Reminder created",
		r.Description+" ("+r.DueAt.Format("Jan 2, 2006 3:04 PM")+")", r.ID)
	if err != nil {
		return r, err
	}
	return r, nil
}

// Complete marks a reminder as completed. Completing a reminder twice is a
// no-op; a completed reminder is never fired by the due sweep.
func (e *Engine) Complete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].Completed {
			return nil
		}
		items[i].Completed = true
		return e.store.Save(store.PartitionReminders, items)
	}
	return ErrNotFound
}

// Delete removes a reminder unconditionally, completed or not.
func (e *Engine) Delete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.load()
	if err != nil {
		return err
	}
	kept := items[:0]
	found := false
	for _, r := range items {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return ErrNotFound
	}
	return e.store.Save(store.PartitionReminders, kept)
}

// PurgeCompleted removes every completed reminder and reports how many were
// dropped. The due sweep never touches completed reminders; this is the
// explicit cleanup path.
func (e *Engine) PurgeCompleted() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.load()
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	dropped := 0
	for _, r := range items {
		if r.Completed {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped == 0 {
		return 0, nil
	}
	return dropped, e.store.Save(store.PartitionReminders, kept)
}

// ProcessDue fires every non-completed reminder whose due time has been
// reached: an in-app notification if the channel is enabled, a mock email if
// the email channel is enabled and an address is attached. Fired reminders
// are removed, so calling ProcessDue again can never re-fire them. Completed
// reminders are skipped untouched.
func (e *Engine) ProcessDue(now time.Time) ([]Reminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.load()
	if err != nil {
		return nil, err
	}

	prefs := e.settings.Get()
	kept := items[:0]
	var fired []Reminder
	for _, r := range items {
		if r.Completed || r.DueAt.After(now) {
			kept = append(kept, r)
			continue
		}
		fired = append(fired, r)
	}
	if len(fired) == 0 {
		return nil, nil
	}
	if err := e.store.Save(store.PartitionReminders, kept); err != nil {
		return nil, err
	}

	for _, r := range fired {
		if prefs.ReminderInApp {
			if _, err := e.notifications.Add(notify.TypeReminder, "Reminder due", r.Description, r.ID); err != nil {
				return fired, err
			}
		}
		if prefs.ReminderEmail && r.Email != "" {
			if _, err := e.outbox.Send(r.Email, "Reminder due", "Your reminder is due now: "+r.Description); err != nil {
				return fired, err
			}
		}
	}
	return fired, nil
}
