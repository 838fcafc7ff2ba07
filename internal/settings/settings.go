// Package settings holds the user-facing application settings and the daily
// token quota derived from them. Settings are a singleton document: every
// other component reads them through Get and mutates them only through
// Update, which persists the merged result and notifies subscribers.
package settings

import (
	"log"
	"sync"
	"time"

	"github.com/notexe/cli-assistant/internal/store"
)

// Plan is the subscription tier that determines the daily token limit.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

// Settings is the persistent user preference document.
type Settings struct {
	ReminderInApp  bool   `json:"reminderInApp"`
	ReminderEmail  bool   `json:"reminderEmail"`
	APIKey         string `json:"apiKey,omitempty"`
	Plan           Plan   `json:"plan"`
	ReduceLoad     bool   `json:"reduceLoad"`
	Language       string `json:"language"`
	HideTokenUsage bool   `json:"hideTokenUsage"`
}

// Defaults returns the documented default settings, used when nothing has
// been persisted yet.
func Defaults() Settings {
	return Settings{
		ReminderInApp:  true,
		ReminderEmail:  false,
		Plan:           PlanFree,
		ReduceLoad:     false,
		Language:       "en",
		HideTokenUsage: false,
	}
}

// Patch is a partial settings update. Nil fields are left unchanged.
type Patch struct {
	ReminderInApp  *bool
	ReminderEmail  *bool
	APIKey         *string
	Plan           *Plan
	ReduceLoad     *bool
	Language       *string
	HideTokenUsage *bool
}

// Manager is the settings singleton service.
type Manager struct {
	store *store.Store

	mu      sync.Mutex
	subs    map[int]func(Settings)
	nextSub int
	now     func() time.Time
}

// NewManager creates a settings manager backed by the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{
		store: st,
		subs:  make(map[int]func(Settings)),
		now:   time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get returns the current settings, falling back to defaults when nothing
// has been persisted. It is always safe to call.
func (m *Manager) Get() Settings {
	s := Defaults()
	found, err := m.store.Load(store.PartitionSettings, &s)
	if err != nil {
		log.Printf("[settings] read failed, using defaults: %v", err)
		return Defaults()
	}
	if !found {
		return Defaults()
	}
	return s
}

// Update shallow-merges patch over the current settings, persists the result
// and notifies subscribers. It returns the merged settings.
func (m *Manager) Update(patch Patch) (Settings, error) {
	m.mu.Lock()
	s := m.Get()
	if patch.ReminderInApp != nil {
		s.ReminderInApp = *patch.ReminderInApp
	}
	if patch.ReminderEmail != nil {
		s.ReminderEmail = *patch.ReminderEmail
	}
	if patch.APIKey != nil {
		s.APIKey = *patch.APIKey
	}
	if patch.Plan != nil {
		s.Plan = *patch.Plan
	}
	if patch.ReduceLoad != nil {
		s.ReduceLoad = *patch.ReduceLoad
	}
	if patch.Language != nil {
		s.Language = *patch.Language
	}
	if patch.HideTokenUsage != nil {
		s.HideTokenUsage = *patch.HideTokenUsage
	}

	if err := m.store.Save(store.PartitionSettings, s); err != nil {
		m.mu.Unlock()
		return Settings{}, err
	}

	subs := make([]func(Settings), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	// Notify outside the lock so a subscriber may call back into the manager.
	for _, fn := range subs {
		fn(s)
	}
	return s, nil
}

// Subscribe registers fn to be called after every successful Update. The
// returned function cancels the subscription.
func (m *Manager) Subscribe(fn func(Settings)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}
