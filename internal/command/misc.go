package command

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/reminder"
)

var helpRe = regexp.MustCompile(`(?i)^(help|what\s+can\s+you\s+do\??)$`)

var helpLines = []string{
	`Open: "open youtube", "open instagram", "open chat", "open notifications"`,
	`Reminders: "set reminder at 5:30 pm for walk", "set reminder in 20 minutes for tea"`,
	`Notes: "note buy milk", "list notes", "delete note 1", "clear notes"`,
	`Todos: "add todo pay bills", "list todos", "complete todo 2", "clear todos"`,
	`Stats: "show stats"`,
	`History: "show chat history", "show voice history", "show pdf history"`,
	`Notifications: "mark all read", "clear notifications"`,
	`Clear: "clear conversations", "clear voice history", "clear pdf history"`,
	`Timer: "set timer for 10 minutes"`,
	`Stopwatch: "stopwatch" then "stop stopwatch"`,
	`Coin/Dice: "flip coin", "roll d20", "roll 2d6"`,
	`Math: "calc 2+2*3"`,
	`Time/Date: "what time is it?", "what date is it?", "days until 25 Dec 2025"`,
	`Clipboard: "copy Hello world"`,
	`Convert: "convert 10 km to miles", "convert 72 F to C"`,
}

func (it *Interpreter) tryHelp(t string) *Result {
	if !helpRe.MatchString(t) {
		return nil
	}
	return reply(strings.Join(helpLines, "\n"))
}

var (
	noteAddRe    = regexp.MustCompile(`(?i)^(?:note\s+(?:down\s+)?|add\s+note\s+|save\s+note\s+)(.+)$`)
	noteListRe   = regexp.MustCompile(`(?i)^(?:list|show)\s+notes$`)
	noteDeleteRe = regexp.MustCompile(`(?i)^(?:delete|remove)\s+note\s+(\S+)$`)
	noteClearRe  = regexp.MustCompile(`(?i)^clear\s+notes$`)
)

func (it *Interpreter) tryNotes(t string) *Result {
	if m := noteAddRe.FindStringSubmatch(t); m != nil {
		note, err := it.deps.Notes.Add(strings.TrimSpace(m[1]))
		if err != nil {
			return replyErr("add note", err)
		}
		if _, err := it.deps.Notifications.Add(notify.TypeSystem, "Note saved", note.Text, note.ID); err != nil {
			return replyErr("add note", err)
		}
		return replyf("Saved note: %q", note.Text)
	}
	if noteListRe.MatchString(t) {
		notes, err := it.deps.Notes.All()
		if err != nil {
			return replyErr("list notes", err)
		}
		if len(notes) == 0 {
			return reply("No notes yet.")
		}
		lines := make([]string, len(notes))
		for i, n := range notes {
			lines[i] = fmt.Sprintf("%d. %s", i+1, n.Text)
		}
		return reply(strings.Join(lines, "\n"))
	}
	if noteClearRe.MatchString(t) {
		if err := it.deps.Notes.Clear(); err != nil {
			return replyErr("clear notes", err)
		}
		return reply("Cleared all notes.")
	}
	if m := noteDeleteRe.FindStringSubmatch(t); m != nil {
		ok, err := it.deps.Notes.Delete(m[1])
		if err != nil {
			return replyErr("delete note", err)
		}
		if !ok {
			return reply("Note not found.")
		}
		return reply("Deleted note.")
	}
	return nil
}

var (
	todoAddRe      = regexp.MustCompile(`(?i)^(?:add\s+todo\s+|todo\s+|remember\s+to\s+)(.+)$`)
	todoListRe     = regexp.MustCompile(`(?i)^(?:list|show)\s+todos?$`)
	todoCompleteRe = regexp.MustCompile(`(?i)^(?:complete|done|finish|check)\s+todo\s+(\S+)$`)
	todoDeleteRe   = regexp.MustCompile(`(?i)^(?:delete|remove)\s+todo\s+(\S+)$`)
	todoClearRe    = regexp.MustCompile(`(?i)^clear\s+todos$`)
)

func (it *Interpreter) tryTodos(t string) *Result {
	if m := todoAddRe.FindStringSubmatch(t); m != nil {
		todo, err := it.deps.Todos.Add(strings.TrimSpace(m[1]))
		if err != nil {
			return replyErr("add todo", err)
		}
		if _, err := it.deps.Notifications.Add(notify.TypeSystem, "Todo added", todo.Text, todo.ID); err != nil {
			return replyErr("add todo", err)
		}
		return replyf("Added todo: %q", todo.Text)
	}
	if todoListRe.MatchString(t) {
		todos, err := it.deps.Todos.All()
		if err != nil {
			return replyErr("list todos", err)
		}
		if len(todos) == 0 {
			return reply("No todos yet.")
		}
		lines := make([]string, len(todos))
		for i, todo := range todos {
			mark := " "
			if todo.Completed {
				mark = "x"
			}
			lines[i] = fmt.Sprintf("%d. [%s] %s", i+1, mark, todo.Text)
		}
		return reply(strings.Join(lines, "\n"))
	}
	if m := todoCompleteRe.FindStringSubmatch(t); m != nil {
		ok, err := it.deps.Todos.Complete(m[1])
		if err != nil {
			return replyErr("complete todo", err)
		}
		if !ok {
			return reply("Todo not found.")
		}
		return reply("Marked todo completed.")
	}
	if todoClearRe.MatchString(t) {
		if err := it.deps.Todos.Clear(); err != nil {
			return replyErr("clear todos", err)
		}
		return reply("Cleared all todos.")
	}
	if m := todoDeleteRe.FindStringSubmatch(t); m != nil {
		ok, err := it.deps.Todos.Delete(m[1])
		if err != nil {
			return replyErr("delete todo", err)
		}
		if !ok {
			return reply("Todo not found.")
		}
		return reply("Deleted todo.")
	}
	return nil
}

var (
	coinRe     = regexp.MustCompile(`(?i)^(?:flip|toss)\s+coin$`)
	diceRe     = regexp.MustCompile(`(?i)^roll\s+(\d*)d(\d+)$`)
	rollDiceRe = regexp.MustCompile(`(?i)^roll\s+dice$`)
)

func (it *Interpreter) tryChance(t string) *Result {
	if coinRe.MatchString(t) {
		if it.deps.RandInt(2) == 0 {
			return reply("Heads")
		}
		return reply("Tails")
	}

	count, sides := 0, 0
	if m := diceRe.FindStringSubmatch(t); m != nil {
		count = 1
		if m[1] != "" {
			count, _ = strconv.Atoi(m[1])
		}
		sides, _ = strconv.Atoi(m[2])
	} else if rollDiceRe.MatchString(t) {
		count, sides = 1, 6
	} else {
		return nil
	}

	count = clamp(count, 1, 20)
	sides = clamp(sides, 1, 100)

	rolls := make([]string, count)
	sum := 0
	for i := range rolls {
		r := 1 + it.deps.RandInt(sides)
		sum += r
		rolls[i] = strconv.Itoa(r)
	}
	return replyf("Rolls: %s | Sum: %d", strings.Join(rolls, ", "), sum)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var (
	timeRe = regexp.MustCompile(`(?i)^(?:what\s+time\s+is\s+it\??|current\s+time)$`)
	dateRe = regexp.MustCompile(`(?i)^(?:what\s+date\s+is\s+it\??|current\s+date)$`)
)

func (it *Interpreter) tryClock(t string) *Result {
	if timeRe.MatchString(t) {
		return reply(it.deps.Now().Format("3:04:05 PM"))
	}
	if dateRe.MatchString(t) {
		return reply(it.deps.Now().Format("1/2/2006"))
	}
	return nil
}

var (
	timerRe         = regexp.MustCompile(`(?i)^set\s+timer\s+for\s+(\d+)\s*(seconds?|minutes?|mins?)$`)
	stopwatchRe     = regexp.MustCompile(`(?i)^(start\s+)?stopwatch$`)
	stopStopwatchRe = regexp.MustCompile(`(?i)^stop\s+stopwatch$`)
)

func (it *Interpreter) tryTimers(t string) *Result {
	if m := timerRe.FindStringSubmatch(t); m != nil {
		amount, _ := strconv.Atoi(m[1])
		unit := strings.ToLower(m[2])
		d := time.Duration(amount) * time.Minute
		if strings.HasPrefix(unit, "sec") {
			d = time.Duration(amount) * time.Second
		}
		notifications := it.deps.Notifications
		it.deps.Schedule(d, func() {
			if _, err := notifications.Add(notify.TypeSystem, "Timer", fmt.Sprintf("%d %s elapsed", amount, unit), ""); err != nil {
				log.Printf("[command] timer notification: %v", err)
			}
		})
		return replyf("Timer set for %d %s.", amount, unit)
	}
	if stopwatchRe.MatchString(t) {
		now := it.deps.Now()
		it.mu.Lock()
		it.stopwatchStart = now
		it.mu.Unlock()
		if _, err := it.deps.Notifications.Add(notify.TypeSystem, "Stopwatch started", now.Format("3:04:05 PM"), ""); err != nil {
			return replyErr("start stopwatch", err)
		}
		return reply(`Stopwatch started. I will keep time until you say "stop stopwatch".`)
	}
	if stopStopwatchRe.MatchString(t) {
		it.mu.Lock()
		start := it.stopwatchStart
		it.stopwatchStart = time.Time{}
		it.mu.Unlock()
		if start.IsZero() {
			return reply("Stopwatch stopped.")
		}
		elapsed := it.deps.Now().Sub(start).Round(time.Second)
		return replyf("Stopwatch stopped. Elapsed: %s.", elapsed)
	}
	return nil
}

var statsRe = regexp.MustCompile(`(?i)^(?:show\s+stats|usage\s+stats)$`)

func (it *Interpreter) tryStats(t string) *Result {
	if !statsRe.MatchString(t) {
		return nil
	}
	convos, err := it.deps.Conversations.All()
	if err != nil {
		return replyErr("stats", err)
	}
	m, err := it.deps.Metrics.Get()
	if err != nil {
		return replyErr("stats", err)
	}
	hours, err := it.deps.Metrics.TotalHours()
	if err != nil {
		return replyErr("stats", err)
	}
	return replyf("Chats: %d\nSessions: %d\nHours active: %s",
		len(convos), m.SessionCount, formatNumber(hours))
}

var (
	chatHistoryRe  = regexp.MustCompile(`(?i)^show\s+chat\s+history$`)
	voiceHistoryRe = regexp.MustCompile(`(?i)^show\s+voice\s+history$`)
	pdfHistoryRe   = regexp.MustCompile(`(?i)^show\s+pdf\s+history$`)
)

func (it *Interpreter) tryHistory(t string) *Result {
	if chatHistoryRe.MatchString(t) {
		convos, err := it.deps.Conversations.All()
		if err != nil {
			return replyErr("chat history", err)
		}
		if len(convos) == 0 {
			return reply("No chat history.")
		}
		lines := make([]string, len(convos))
		for i, c := range convos {
			lines[i] = fmt.Sprintf("%d. %s", i+1, c.Title)
		}
		return reply(strings.Join(lines, "\n"))
	}
	if voiceHistoryRe.MatchString(t) {
		items, err := it.deps.Voice.All()
		if err != nil {
			return replyErr("voice history", err)
		}
		if len(items) == 0 {
			return reply("No voice history.")
		}
		lines := make([]string, len(items))
		for i, r := range items {
			lines[i] = fmt.Sprintf("%d. %s (%s)", i+1, r.Transcript, r.Timestamp.Format(dueFormat))
		}
		return reply(strings.Join(lines, "\n"))
	}
	if pdfHistoryRe.MatchString(t) {
		items, err := it.deps.PDF.All()
		if err != nil {
			return replyErr("pdf history", err)
		}
		if len(items) == 0 {
			return reply("No PDF history.")
		}
		lines := make([]string, len(items))
		for i, r := range items {
			lines[i] = fmt.Sprintf("%d. %s (%s)", i+1, r.FileName, r.Timestamp.Format(dueFormat))
		}
		return reply(strings.Join(lines, "\n"))
	}
	return nil
}

var (
	markAllReadRe        = regexp.MustCompile(`(?i)^mark\s+all\s+read$`)
	clearNotificationsRe = regexp.MustCompile(`(?i)^clear\s+notifications$`)
)

func (it *Interpreter) tryNotifications(t string) *Result {
	if markAllReadRe.MatchString(t) {
		if err := it.deps.Notifications.MarkAllRead(); err != nil {
			return replyErr("mark all read", err)
		}
		return reply("Marked all notifications as read.")
	}
	if clearNotificationsRe.MatchString(t) {
		if err := it.deps.Notifications.Clear(); err != nil {
			return replyErr("clear notifications", err)
		}
		return reply("Cleared notifications.")
	}
	return nil
}

var copyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^copy\s+"([^"]+)"$`),
	regexp.MustCompile(`(?i)^copy\s+'([^']+)'$`),
	regexp.MustCompile(`(?i)^copy\s+(.+)$`),
}

func (it *Interpreter) tryCopy(t string) *Result {
	for _, re := range copyPatterns {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		if err := it.deps.CopyText(m[1]); err != nil {
			return reply("Clipboard not available here.")
		}
		return reply("Copied to clipboard.")
	}
	return nil
}

var daysUntilRe = regexp.MustCompile(`(?i)^days\s+until\s+(.+)$`)

func (it *Interpreter) tryDaysUntil(t string) *Result {
	m := daysUntilRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	when, err := reminder.ParseDate(m[1])
	if err != nil {
		return reply("Could not understand that date.")
	}
	diff := int(math.Ceil(when.Sub(it.deps.Now()).Hours() / 24))
	if diff >= 0 {
		return replyf("%d day(s)", diff)
	}
	return replyf("%d day(s) ago", -diff)
}

var (
	clearConversationsRe = regexp.MustCompile(`(?i)^clear\s+(?:history|conversations)$`)
	clearVoiceRe         = regexp.MustCompile(`(?i)^clear\s+voice\s+history$`)
	clearPDFRe           = regexp.MustCompile(`(?i)^clear\s+pdf\s+history$`)
)

func (it *Interpreter) tryClear(t string) *Result {
	if clearConversationsRe.MatchString(t) {
		if err := it.deps.Conversations.ClearAll(); err != nil {
			return replyErr("clear conversations", err)
		}
		return reply("Cleared all conversations.")
	}
	if clearVoiceRe.MatchString(t) {
		if err := it.deps.Voice.Clear(); err != nil {
			return replyErr("clear voice history", err)
		}
		return reply("Cleared voice history.")
	}
	if clearPDFRe.MatchString(t) {
		if err := it.deps.PDF.Clear(); err != nil {
			return replyErr("clear pdf history", err)
		}
		return reply("Cleared PDF history.")
	}
	return nil
}
