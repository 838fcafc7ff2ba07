package memo

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/store"
)

// Todo is a single todo item.
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Completed bool      `json:"completed"`
}

// Todos manages the todo list.
type Todos struct {
	store *store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewTodos creates a todos manager backed by the given store.
func NewTodos(st *store.Store) *Todos {
	return &Todos{store: st, now: time.Now}
}

// All returns every todo, newest first.
func (t *Todos) All() ([]Todo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

func (t *Todos) load() ([]Todo, error) {
	var items []Todo
	if _, err := t.store.Load(store.PartitionTodos, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add prepends a new todo and returns it.
func (t *Todos) Add(text string) (Todo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load()
	if err != nil {
		return Todo{}, err
	}

	todo := Todo{ID: uuid.NewString(), Text: text, CreatedAt: t.now()}
	items = append([]Todo{todo}, items...)

	if err := t.store.Save(store.PartitionTodos, items); err != nil {
		return Todo{}, err
	}
	return todo, nil
}

// Complete marks the addressed todo as completed. Completing an already
// completed todo is a no-op that still reports success.
func (t *Todos) Complete(ref string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load()
	if err != nil {
		return false, err
	}
	idx := resolveRef(ref, len(items), func(i int) string { return items[i].ID })
	if idx < 0 {
		return false, nil
	}
	if items[idx].Completed {
		return true, nil
	}
	items[idx].Completed = true
	if err := t.store.Save(store.PartitionTodos, items); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the addressed todo. It returns false when nothing matches.
func (t *Todos) Delete(ref string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load()
	if err != nil {
		return false, err
	}
	idx := resolveRef(ref, len(items), func(i int) string { return items[i].ID })
	if idx < 0 {
		return false, nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := t.store.Save(store.PartitionTodos, items); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every todo.
func (t *Todos) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Clear(store.PartitionTodos)
}
