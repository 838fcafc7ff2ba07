package memo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/cli-assistant/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assistant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestNotesNewestFirst(t *testing.T) {
	n := NewNotes(newTestStore(t))

	_, err := n.Add("first")
	require.NoError(t, err)
	_, err = n.Add("second")
	require.NoError(t, err)

	items, err := n.All()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Text)
	assert.Equal(t, "first", items[1].Text)
}

func TestNotesDeleteByIndexAndID(t *testing.T) {
	n := NewNotes(newTestStore(t))

	_, err := n.Add("keep")
	require.NoError(t, err)
	victim, err := n.Add("delete me")
	require.NoError(t, err)

	// "delete me" is newest, so display index 1.
	ok, err := n.Delete("1")
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := n.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "keep", items[0].Text)
	assert.NotEqual(t, victim.ID, items[0].ID)

	ok, err = n.Delete(items[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err = n.All()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNotesDeleteMissing(t *testing.T) {
	n := NewNotes(newTestStore(t))

	_, err := n.Add("only")
	require.NoError(t, err)

	for _, ref := range []string{"0", "2", "-1", "no-such-id"} {
		ok, err := n.Delete(ref)
		require.NoError(t, err)
		assert.False(t, ok, "ref %q should not match", ref)
	}
}

func TestTodosCompleteIsIdempotent(t *testing.T) {
	td := NewTodos(newTestStore(t))

	item, err := td.Add("pay bills")
	require.NoError(t, err)
	assert.False(t, item.Completed)

	ok, err := td.Complete("1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = td.Complete(item.ID)
	require.NoError(t, err)
	assert.True(t, ok, "completing twice stays a successful no-op")

	items, err := td.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed)
}

func TestTodosDeleteAndClear(t *testing.T) {
	td := NewTodos(newTestStore(t))

	_, err := td.Add("a")
	require.NoError(t, err)
	_, err = td.Add("b")
	require.NoError(t, err)

	ok, err := td.Delete("2")
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := td.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Text)

	require.NoError(t, td.Clear())
	items, err = td.All()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTodosCompleteMissing(t *testing.T) {
	td := NewTodos(newTestStore(t))

	ok, err := td.Complete("1")
	require.NoError(t, err)
	assert.False(t, ok)
}
