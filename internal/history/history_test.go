package history

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assistant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestCreateConversationSetsActive(t *testing.T) {
	c := NewConversations(newTestStore(t))

	conv, err := c.Create("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(conv.Title, "Chat "))
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, SenderAssistant, conv.Messages[0].Sender)

	active, err := c.ActiveID()
	require.NoError(t, err)
	assert.Equal(t, conv.ID, active)
}

func TestAppendMessageAutoTitles(t *testing.T) {
	c := NewConversations(newTestStore(t))

	conv, err := c.Create("")
	require.NoError(t, err)

	_, err = c.AppendMessage(conv.ID, SenderUser, "plan my trip to Goa")
	require.NoError(t, err)

	all, err := c.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "plan my trip to Goa", all[0].Title)
	assert.Len(t, all[0].Messages, 2)

	long := strings.Repeat("x", 60)
	conv2, err := c.Create("")
	require.NoError(t, err)
	_, err = c.AppendMessage(conv2.ID, SenderUser, long)
	require.NoError(t, err)

	all, err = c.All()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 50)+"...", all[0].Title)
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	c := NewConversations(newTestStore(t))
	_, err := c.AppendMessage("missing", SenderUser, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteClearsActivePointer(t *testing.T) {
	c := NewConversations(newTestStore(t))

	conv, err := c.Create("")
	require.NoError(t, err)
	require.NoError(t, c.Delete(conv.ID))

	active, err := c.ActiveID()
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, c.Delete(conv.ID), ErrNotFound)
}

func TestClearAllConversations(t *testing.T) {
	c := NewConversations(newTestStore(t))

	_, err := c.Create("a")
	require.NoError(t, err)
	_, err = c.Create("b")
	require.NoError(t, err)

	require.NoError(t, c.ClearAll())

	all, err := c.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestVoiceHistoryRoundTrip(t *testing.T) {
	v := NewVoiceHistory(newTestStore(t))

	rec, err := v.Add("turn on the lights", 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), rec.DurationMs)

	_, err = v.Add("what time is it", 0)
	require.NoError(t, err)

	items, err := v.All()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "what time is it", items[0].Transcript)

	require.NoError(t, v.Clear())
	items, err = v.All()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPDFAddRaisesNotification(t *testing.T) {
	st := newTestStore(t)
	notifications := notify.NewManager(st)
	p := NewPDFHistory(st, notifications)

	rec, err := p.Add("report.pdf", "quarterly numbers")
	require.NoError(t, err)

	items, err := notifications.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, notify.TypePDF, items[0].Type)
	assert.Equal(t, rec.ID, items[0].RelatedID)
	assert.Contains(t, items[0].Message, "report.pdf")
}
