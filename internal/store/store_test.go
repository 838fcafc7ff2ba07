package store

import (
	"path/filepath"
	"testing"
	"time"
)

type record struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "assistant.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadMissingPartition(t *testing.T) {
	s := newTestStore(t)

	var out []record
	found, err := s.Load(PartitionNotes, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected missing partition to report found=false")
	}
	if out != nil {
		t.Fatalf("expected target to be left untouched, got %v", out)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created := time.Date(2024, 1, 1, 10, 30, 0, 123e6, time.Local)
	in := []record{
		{ID: "a", Text: "buy milk", CreatedAt: created},
		{ID: "b", Text: "call mom", CreatedAt: created.Add(time.Minute)},
	}
	if err := s.Save(PartitionNotes, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []record
	found, err := s.Load(PartitionNotes, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatalf("expected partition to exist after save")
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "a" || out[0].Text != "buy milk" {
		t.Fatalf("first record mismatch: %+v", out[0])
	}
	// Timestamps must survive with at least millisecond precision.
	if !out[0].CreatedAt.Equal(created) {
		t.Fatalf("timestamp drift: want %v, got %v", created, out[0].CreatedAt)
	}
}

func TestPartitionsAreIndependent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(PartitionNotes, []record{{ID: "n"}}); err != nil {
		t.Fatalf("save notes: %v", err)
	}
	if err := s.Save(PartitionTodos, []record{{ID: "t"}}); err != nil {
		t.Fatalf("save todos: %v", err)
	}

	if err := s.Clear(PartitionNotes); err != nil {
		t.Fatalf("clear notes: %v", err)
	}

	var notes []record
	found, err := s.Load(PartitionNotes, &notes)
	if err != nil {
		t.Fatalf("load notes: %v", err)
	}
	if found {
		t.Fatalf("expected notes partition to be gone")
	}

	var todos []record
	found, err = s.Load(PartitionTodos, &todos)
	if err != nil {
		t.Fatalf("load todos: %v", err)
	}
	if !found || len(todos) != 1 {
		t.Fatalf("expected todos partition to survive, found=%v todos=%v", found, todos)
	}
}

func TestClearMissingPartitionIsNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.Clear("never_written"); err != nil {
		t.Fatalf("clear missing: %v", err)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(PartitionMetrics, []byte(`{"sessionCount":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(PartitionMetrics, []byte(`{"sessionCount":2}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	data, found, err := s.Get(PartitionMetrics)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if string(data) != `{"sessionCount":2}` {
		t.Fatalf("expected last write to win, got %s", data)
	}
}
