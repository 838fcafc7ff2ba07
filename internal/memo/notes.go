// Package memo holds the quick-capture notes and todos lists. Items are
// newest-first and addressable either by stable id or by 1-based display
// index, so "delete note 2" and "delete note <uuid>" both work.
package memo

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/store"
)

// Note is a single saved note.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notes manages the note list.
type Notes struct {
	store *store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewNotes creates a notes manager backed by the given store.
func NewNotes(st *store.Store) *Notes {
	return &Notes{store: st, now: time.Now}
}

// All returns every note, newest first.
func (n *Notes) All() ([]Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.load()
}

func (n *Notes) load() ([]Note, error) {
	var items []Note
	if _, err := n.store.Load(store.PartitionNotes, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add prepends a new note and returns it.
func (n *Notes) Add(text string) (Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	items, err := n.load()
	if err != nil {
		return Note{}, err
	}

	note := Note{ID: uuid.NewString(), Text: text, CreatedAt: n.now()}
	items = append([]Note{note}, items...)

	if err := n.store.Save(store.PartitionNotes, items); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Delete removes the note addressed by a 1-based index or an id. It returns
// false when no note matches.
func (n *Notes) Delete(ref string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	items, err := n.load()
	if err != nil {
		return false, err
	}
	idx := resolveRef(ref, len(items), func(i int) string { return items[i].ID })
	if idx < 0 {
		return false, nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := n.store.Save(store.PartitionNotes, items); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every note.
func (n *Notes) Clear() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.Clear(store.PartitionNotes)
}

// resolveRef turns a 1-based index or an id into a slice index, or -1 when
// nothing matches.
func resolveRef(ref string, length int, idAt func(int) string) int {
	if i, err := strconv.Atoi(ref); err == nil {
		idx := i - 1
		if idx >= 0 && idx < length {
			return idx
		}
		return -1
	}
	for i := 0; i < length; i++ {
		if idAt(i) == ref {
			return i
		}
	}
	return -1
}
