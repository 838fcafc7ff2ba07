package command

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/cli-assistant/internal/auth"
	"github.com/notexe/cli-assistant/internal/history"
	"github.com/notexe/cli-assistant/internal/memo"
	"github.com/notexe/cli-assistant/internal/metrics"
	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/reminder"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/store"
)

type fixture struct {
	it            *Interpreter
	reminders     *reminder.Engine
	notifications *notify.Manager
	notes         *memo.Notes
	todos         *memo.Todos

	now    time.Time
	rand   int
	opened []string
	routes []string
	copied []string

	scheduled   []time.Duration
	scheduledFn []func()

	user    *auth.User
	copyErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assistant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)}
	notifications := notify.NewManager(st)
	outbox := notify.NewOutbox(st)
	settingsMgr := settings.NewManager(st)

	f.notifications = notifications
	f.reminders = reminder.NewEngine(st, notifications, outbox, settingsMgr)
	f.notes = memo.NewNotes(st)
	f.todos = memo.NewTodos(st)

	f.it = New(Deps{
		Reminders:     f.reminders,
		Notifications: notifications,
		Notes:         f.notes,
		Todos:         f.todos,
		Metrics:       metrics.NewManager(st),
		Conversations: history.NewConversations(st),
		Voice:         history.NewVoiceHistory(st),
		PDF:           history.NewPDFHistory(st, notifications),
		CurrentUser:   func() *auth.User { return f.user },
		OpenURL: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
		Navigate: func(route string) { f.routes = append(f.routes, route) },
		CopyText: func(text string) error {
			if f.copyErr != nil {
				return f.copyErr
			}
			f.copied = append(f.copied, text)
			return nil
		},
		Schedule: func(d time.Duration, fn func()) {
			f.scheduled = append(f.scheduled, d)
			f.scheduledFn = append(f.scheduledFn, fn)
		},
		Now:     func() time.Time { return f.now },
		RandInt: func(n int) int { return f.rand % n },
	})
	return f
}

func (f *fixture) handle(t *testing.T, input string) string {
	t.Helper()
	res := f.it.Interpret(input)
	require.True(t, res.Handled, "expected %q to be handled", input)
	return res.Response
}

func TestUnrecognizedInputIsNotHandled(t *testing.T) {
	f := newFixture(t)
	for _, input := range []string{"tell me a joke", "what's the weather", ""} {
		res := f.it.Interpret(input)
		assert.False(t, res.Handled, "input %q", input)
		assert.Empty(t, res.Response)
	}
}

func TestOpenKnownService(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "open youtube")
	assert.Equal(t, "Opening https://www.youtube.com in your browser.", resp)
	assert.Equal(t, []string{"https://www.youtube.com"}, f.opened)

	f.handle(t, "please visit Twitter")
	assert.Equal(t, "https://x.com", f.opened[1])
}

func TestOpenURLForms(t *testing.T) {
	f := newFixture(t)

	f.handle(t, "open https://example.org/a?b=c")
	f.handle(t, "open example.org/path")
	f.handle(t, "open somestartup")
	f.handle(t, "go to the github")

	assert.Equal(t, []string{
		"https://example.org/a?b=c",
		"https://example.org/path",
		"https://somestartup.com",
		"https://github.com",
	}, f.opened)
}

func TestOpenFallsBackToSearch(t *testing.T) {
	f := newFixture(t)
	f.handle(t, "open !!!")
	require.Len(t, f.opened, 1)
	assert.Equal(t, "https://www.google.com/search?q=%21%21%21", f.opened[0])
}

func TestOpenAppRoutesBeatURLGuessing(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Opening Chat…", f.handle(t, "open chat"))
	assert.Equal(t, "Opening Settings…", f.handle(t, "go to settings"))
	assert.Equal(t, "Opening Notifications…", f.handle(t, "open notifications"))
	assert.Equal(t, "Opening AI Tools…", f.handle(t, "open ai tools"))
	assert.Equal(t, "Opening Home…", f.handle(t, "open dashboard"))

	assert.Equal(t, []string{"/chat", "/settings", "/notifications", "/ai-tools", "/home"}, f.routes)
	assert.Empty(t, f.opened, "in-app names must never open a URL")
}

func TestReminderEndToEnd(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "remind me at 5:30 pm to call mom")
	assert.Contains(t, resp, "Jan 1, 2024 5:30 PM")
	assert.Contains(t, resp, "call mom")

	items, err := f.reminders.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "call mom", items[0].Description)
	assert.True(t, items[0].DueAt.Equal(time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)))
	assert.Empty(t, items[0].Email, "nobody signed in")

	notifs, err := f.notifications.All()
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Reminder created", notifs[0].Title)
}

func TestReminderPhrasings(t *testing.T) {
	f := newFixture(t)

	f.handle(t, `set reminder at 6 pm for "walk the dog"`)
	f.handle(t, "set reminder for tea at 11")
	f.handle(t, "set reminder in 20 minutes for stretch")

	items, err := f.reminders.All()
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Newest first.
	assert.Equal(t, "stretch", items[0].Description)
	assert.True(t, items[0].DueAt.Equal(f.now.Add(20*time.Minute)))
	assert.Equal(t, "tea", items[1].Description)
	assert.True(t, items[1].DueAt.Equal(time.Date(2024, 1, 1, 11, 0, 0, 0, time.Local)))
	assert.Equal(t, "walk the dog", items[2].Description)
	assert.True(t, items[2].DueAt.Equal(time.Date(2024, 1, 1, 18, 0, 0, 0, time.Local)))
}

func TestReminderCarriesSignedInEmail(t *testing.T) {
	f := newFixture(t)
	f.user = &auth.User{ID: "u1", Email: "a@example.com", Name: "A"}

	resp := f.handle(t, "set reminder for lunch")
	assert.Contains(t, resp, "(email: a@example.com)")

	items, err := f.reminders.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a@example.com", items[0].Email)
	// No time phrase defaults to one hour out.
	assert.True(t, items[0].DueAt.Equal(f.now.Add(time.Hour)))
}

func TestReminderBadTime(t *testing.T) {
	f := newFixture(t)
	resp := f.handle(t, "remind me at 99:99 to panic")
	assert.Equal(t, `I couldn't understand the time "99:99".`, resp)

	items, err := f.reminders.All()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReminderListCompleteDelete(t *testing.T) {
	f := newFixture(t)

	f.handle(t, "set reminder at 5 pm for walk")
	f.handle(t, "set reminder at 6 pm for shop")

	resp := f.handle(t, "show reminders")
	assert.Contains(t, resp, "1. [ ] shop")
	assert.Contains(t, resp, "2. [ ] walk")

	assert.Equal(t, "Marked reminder completed.", f.handle(t, "complete reminder 1"))
	assert.Contains(t, f.handle(t, "show reminders"), "1. [x] shop")

	assert.Equal(t, "Removed 1 completed reminder(s).", f.handle(t, "clear completed reminders"))
	assert.Equal(t, "Deleted reminder.", f.handle(t, "delete reminder 1"))
	assert.Equal(t, "No reminders set.", f.handle(t, "show reminders"))

	assert.Equal(t, "Reminder not found.", f.handle(t, "complete reminder 7"))
}

func TestNotesFlow(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, `Saved note: "buy milk"`, f.handle(t, "note buy milk"))
	assert.Equal(t, `Saved note: "call bank"`, f.handle(t, "note down call bank"))

	resp := f.handle(t, "list notes")
	assert.Equal(t, "1. call bank\n2. buy milk", resp)

	notifs, err := f.notifications.All()
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, "Note saved", notifs[0].Title)

	assert.Equal(t, "Deleted note.", f.handle(t, "delete note 2"))
	assert.Equal(t, "Note not found.", f.handle(t, "delete note 5"))
	assert.Equal(t, "Cleared all notes.", f.handle(t, "clear notes"))
	assert.Equal(t, "No notes yet.", f.handle(t, "show notes"))
}

func TestTodosFlow(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, `Added todo: "pay bills"`, f.handle(t, "add todo pay bills"))
	assert.Equal(t, `Added todo: "water plants"`, f.handle(t, "remember to water plants"))

	assert.Equal(t, "Marked todo completed.", f.handle(t, "complete todo 1"))
	assert.Equal(t, "1. [x] water plants\n2. [ ] pay bills", f.handle(t, "list todos"))

	assert.Equal(t, "Todo not found.", f.handle(t, "done todo 9"))
	assert.Equal(t, "Deleted todo.", f.handle(t, "delete todo 2"))
	assert.Equal(t, "Cleared all todos.", f.handle(t, "clear todos"))
	assert.Equal(t, "No todos yet.", f.handle(t, "list todos"))
}

func TestCalcRejectsNonArithmetic(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Only simple arithmetic is supported.", f.handle(t, "calc 1; alert(1)"))
	assert.Equal(t, "Only simple arithmetic is supported.", f.handle(t, "calc process.exit()"))
}

func TestCalcEvaluates(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "8", f.handle(t, "calc 2+2*3"))
	assert.Equal(t, "9", f.handle(t, "what is (1+2)*3?"))
	assert.Equal(t, "2.5", f.handle(t, "calculate 10/4"))
	assert.Equal(t, "-4", f.handle(t, "calc -(2+2)"))
}

func TestCalcCannotCompute(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Sorry, I could not compute that.", f.handle(t, "calc 1/0"))
	assert.Equal(t, "Sorry, I could not compute that.", f.handle(t, "calc (1+2"))
	assert.Equal(t, "Sorry, I could not compute that.", f.handle(t, "calc 1++"))
}

func TestCoinAndDice(t *testing.T) {
	f := newFixture(t)

	f.rand = 0
	assert.Equal(t, "Heads", f.handle(t, "flip coin"))
	f.rand = 1
	assert.Equal(t, "Tails", f.handle(t, "toss coin"))

	f.rand = 3
	assert.Equal(t, "Rolls: 4, 4 | Sum: 8", f.handle(t, "roll 2d6"))
	assert.Equal(t, "Rolls: 4 | Sum: 4", f.handle(t, "roll d20"))
	assert.Equal(t, "Rolls: 4 | Sum: 4", f.handle(t, "roll dice"))
}

func TestDiceCaps(t *testing.T) {
	f := newFixture(t)
	f.rand = 0

	resp := f.handle(t, "roll 99d999")
	// Capped at 20 dice with 100 sides.
	assert.Contains(t, resp, "Sum: 20")
}

func TestClock(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "10:00:00 AM", f.handle(t, "what time is it?"))
	assert.Equal(t, "1/1/2024", f.handle(t, "what date is it?"))
	assert.Equal(t, "10:00:00 AM", f.handle(t, "current time"))
}

func TestTimer(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Timer set for 2 minutes.", f.handle(t, "set timer for 2 minutes"))
	require.Len(t, f.scheduled, 1)
	assert.Equal(t, 2*time.Minute, f.scheduled[0])

	f.scheduledFn[0]()
	notifs, err := f.notifications.All()
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Timer", notifs[0].Title)
	assert.Equal(t, "2 minutes elapsed", notifs[0].Message)

	assert.Equal(t, "Timer set for 30 seconds.", f.handle(t, "set timer for 30 seconds"))
	assert.Equal(t, 30*time.Second, f.scheduled[1])
}

func TestStopwatch(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "stopwatch")
	assert.Contains(t, resp, "Stopwatch started")

	f.now = f.now.Add(90 * time.Second)
	assert.Equal(t, "Stopwatch stopped. Elapsed: 1m30s.", f.handle(t, "stop stopwatch"))

	// No running stopwatch: no elapsed time to report.
	assert.Equal(t, "Stopwatch stopped.", f.handle(t, "stop stopwatch"))
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Chats: 0\nSessions: 0\nHours active: 0", f.handle(t, "show stats"))
}

func TestNotificationActions(t *testing.T) {
	f := newFixture(t)

	f.handle(t, "note one")
	f.handle(t, "note two")

	count, err := f.notifications.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, "Marked all notifications as read.", f.handle(t, "mark all read"))
	count, err = f.notifications.UnreadCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Equal(t, "Cleared notifications.", f.handle(t, "clear notifications"))
	all, err := f.notifications.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCopy(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Copied to clipboard.", f.handle(t, `copy "Hello world"`))
	assert.Equal(t, "Copied to clipboard.", f.handle(t, "copy plain text"))
	assert.Equal(t, []string{"Hello world", "plain text"}, f.copied)

	f.copyErr = errors.New("no display")
	assert.Equal(t, "Clipboard not available here.", f.handle(t, "copy nope"))
}

func TestDaysUntil(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "2 day(s)", f.handle(t, "days until 2024-01-03"))
	assert.Equal(t, "7 day(s) ago", f.handle(t, "days until 2023-12-25"))
	assert.Equal(t, "Could not understand that date.", f.handle(t, "days until whenever"))
}

func TestHelpListsCapabilities(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(t, "help")
	assert.Contains(t, resp, "open youtube")
	assert.Contains(t, resp, "set reminder")
	assert.Contains(t, resp, "convert 10 km to miles")
	assert.Equal(t, resp, f.handle(t, "what can you do?"))
}

func TestConversions(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "10 km = 6.214 mi", f.handle(t, "convert 10 km to mi"))
	assert.Equal(t, "10 km = 6.214 miles", f.handle(t, "convert 10 km to miles"))
	assert.Equal(t, "0 c = 32 f", f.handle(t, "convert 0 c to f"))
	assert.Equal(t, "72 f = 22.222 c", f.handle(t, "convert 72 F to C"))
	assert.Equal(t, "100 cm = 39.37 in", f.handle(t, "convert 100 cm to inches"))
	assert.Equal(t, "2 m = 6.562 ft", f.handle(t, "convert 2 m to ft"))
	assert.Equal(t, "Sorry, I do not support that conversion yet.", f.handle(t, "convert 5 kg to lb"))
}

func TestOpenRuleWinsOverLaterRules(t *testing.T) {
	f := newFixture(t)

	// "open youtube" must resolve as a URL, not fall through to any other rule.
	f.handle(t, "open youtube")
	assert.Equal(t, []string{"https://www.youtube.com"}, f.opened)

	// A reminder phrasing inside an open command stays an open command.
	f.handle(t, "open calendar")
	assert.Equal(t, "https://calendar.google.com", f.opened[1])
}

func TestInterpretSurvivesNilCollaboratorPanic(t *testing.T) {
	it := New(Deps{}) // no managers wired at all

	res := it.Interpret("list notes")
	assert.True(t, res.Handled)
	assert.Equal(t, "Sorry, something went wrong handling that command.", res.Response)
}
