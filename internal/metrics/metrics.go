// Package metrics tracks coarse usage statistics: how many sessions the user
// has started and how much active time has accumulated.
package metrics

import (
	"math"
	"sync"
	"time"

	"github.com/notexe/cli-assistant/internal/store"
)

// Metrics is the persisted counter document.
type Metrics struct {
	SessionCount  int   `json:"sessionCount"`
	TotalActiveMs int64 `json:"totalActiveMs"`
}

// Manager is the metrics service.
type Manager struct {
	store *store.Store
	mu    sync.Mutex
}

// NewManager creates a metrics manager backed by the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Get returns the current counters, zero-valued if nothing is persisted.
func (m *Manager) Get() (Metrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (Metrics, error) {
	var v Metrics
	if _, err := m.store.Load(store.PartitionMetrics, &v); err != nil {
		return Metrics{}, err
	}
	return v, nil
}

// IncrementSession bumps the session counter.
func (m *Manager) IncrementSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.load()
	if err != nil {
		return err
	}
	v.SessionCount++
	return m.store.Save(store.PartitionMetrics, v)
}

// AddActive accumulates active time. Non-positive durations are ignored.
func (m *Manager) AddActive(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.load()
	if err != nil {
		return err
	}
	v.TotalActiveMs += d.Milliseconds()
	return m.store.Save(store.PartitionMetrics, v)
}

// TotalHours returns the accumulated active time in hours, rounded to one
// decimal place.
func (m *Manager) TotalHours() (float64, error) {
	v, err := m.Get()
	if err != nil {
		return 0, err
	}
	hours := float64(v.TotalActiveMs) / float64(time.Hour.Milliseconds())
	return math.Round(hours*10) / 10, nil
}

// Reset clears the counters.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clear(store.PartitionMetrics)
}
