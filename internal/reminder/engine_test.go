package reminder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/store"
)

type fixture struct {
	engine        *Engine
	notifications *notify.Manager
	outbox        *notify.Outbox
	settings      *settings.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assistant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	notifications := notify.NewManager(st)
	outbox := notify.NewOutbox(st)
	settingsMgr := settings.NewManager(st)
	return &fixture{
		engine:        NewEngine(st, notifications, outbox, settingsMgr),
		notifications: notifications,
		outbox:        outbox,
		settings:      settingsMgr,
	}
}

func (f *fixture) titles(t *testing.T) []string {
	t.Helper()
	items, err := f.notifications.All()
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.Title
	}
	return out
}

func TestAddEmitsCreatedNotification(t *testing.T) {
	f := newFixture(t)

	due := time.Now().Add(time.Hour)
	r, err := f.engine.Add("call mom", due, "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Completed)
	assert.True(t, r.DueAt.Equal(due))

	items, err := f.notifications.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Reminder created", items[0].Title)
	assert.Equal(t, r.ID, items[0].RelatedID)
}

func TestProcessDueFiresOnceAndRemoves(t *testing.T) {
	f := newFixture(t)

	due := time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)
	r, err := f.engine.Add("call mom", due, "")
	require.NoError(t, err)

	// Not yet due: nothing fires.
	fired, err := f.engine.ProcessDue(due.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, fired)

	// Exactly due: fires and is removed.
	fired, err = f.engine.ProcessDue(due)
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, r.ID, fired[0].ID)

	all, err := f.engine.All()
	require.NoError(t, err)
	assert.Empty(t, all, "fired reminder must leave the active set")

	// A later sweep can never re-fire it.
	fired, err = f.engine.ProcessDue(due.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, fired)

	assert.Equal(t, []string{"Reminder due", "Reminder created"}, f.titles(t))
}

func TestProcessDueSkipsCompleted(t *testing.T) {
	f := newFixture(t)

	due := time.Now().Add(-time.Minute)
	r, err := f.engine.Add("done already", due, "")
	require.NoError(t, err)
	require.NoError(t, f.engine.Complete(r.ID))

	fired, err := f.engine.ProcessDue(time.Now())
	require.NoError(t, err)
	assert.Empty(t, fired)

	all, err := f.engine.All()
	require.NoError(t, err)
	require.Len(t, all, 1, "completed reminders are left untouched by the sweep")
	assert.True(t, all[0].Completed)
}

func TestProcessDueEmailChannel(t *testing.T) {
	f := newFixture(t)

	_, err := f.settings.Update(settings.Patch{})
	require.NoError(t, err)

	due := time.Now().Add(-time.Minute)
	_, err = f.engine.Add("with email", due, "a@example.com")
	require.NoError(t, err)

	// Email channel disabled by default: no outbox entry.
	_, err = f.engine.ProcessDue(time.Now())
	require.NoError(t, err)
	emails, err := f.outbox.All()
	require.NoError(t, err)
	assert.Empty(t, emails)

	// Enable the channel and fire another one.
	on := true
	_, err = f.settings.Update(settings.Patch{ReminderEmail: &on})
	require.NoError(t, err)

	_, err = f.engine.Add("second", due, "b@example.com")
	require.NoError(t, err)
	_, err = f.engine.ProcessDue(time.Now())
	require.NoError(t, err)

	emails, err = f.outbox.All()
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "b@example.com", emails[0].To)
	assert.Equal(t, "Reminder due", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "second")
}

func TestProcessDueInAppChannelOff(t *testing.T) {
	f := newFixture(t)

	off := false
	_, err := f.settings.Update(settings.Patch{ReminderInApp: &off})
	require.NoError(t, err)

	_, err = f.engine.Add("quiet", time.Now().Add(-time.Minute), "")
	require.NoError(t, err)

	fired, err := f.engine.ProcessDue(time.Now())
	require.NoError(t, err)
	require.Len(t, fired, 1, "reminder still fires and is removed")

	// Only the creation notification exists; no "Reminder due".
	assert.Equal(t, []string{"Reminder created"}, f.titles(t))
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := newFixture(t)

	r, err := f.engine.Add("x", time.Now().Add(time.Hour), "")
	require.NoError(t, err)

	require.NoError(t, f.engine.Complete(r.ID))
	require.NoError(t, f.engine.Complete(r.ID), "second complete is a no-op")

	assert.ErrorIs(t, f.engine.Complete("missing"), ErrNotFound)
}

func TestDeleteRegardlessOfState(t *testing.T) {
	f := newFixture(t)

	r, err := f.engine.Add("x", time.Now().Add(time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, f.engine.Complete(r.ID))
	require.NoError(t, f.engine.Delete(r.ID))

	assert.ErrorIs(t, f.engine.Delete(r.ID), ErrNotFound)

	all, err := f.engine.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPurgeCompleted(t *testing.T) {
	f := newFixture(t)

	a, err := f.engine.Add("a", time.Now().Add(time.Hour), "")
	require.NoError(t, err)
	_, err = f.engine.Add("b", time.Now().Add(time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, f.engine.Complete(a.ID))

	dropped, err := f.engine.PurgeCompleted()
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	all, err := f.engine.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Description)
}

func TestRoundTripPreservesTimestamps(t *testing.T) {
	f := newFixture(t)

	due := time.Date(2024, 6, 1, 12, 0, 0, 250e6, time.Local)
	r, err := f.engine.Add("precise", due, "")
	require.NoError(t, err)

	all, err := f.engine.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, r.ID, all[0].ID)
	assert.Equal(t, r.Description, all[0].Description)
	assert.True(t, all[0].DueAt.Equal(due), "due time must survive to millisecond precision")
	assert.True(t, all[0].CreatedAt.Equal(r.CreatedAt))
}
