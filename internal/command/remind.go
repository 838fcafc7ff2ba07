package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/cli-assistant/internal/reminder"
)

const dueFormat = "Jan 2, 2006 3:04 PM"

// reminderPatterns cover the three phrasings, quoted descriptions first so a
// quoted description can contain the word "at". timeIdx/descIdx pick the
// capture groups.
var reminderPatterns = []struct {
	re      *regexp.Regexp
	timeIdx int
	descIdx int
}{
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+at\s+(.+?)\s+for\s+"([^"]+)"$`), 1, 2},
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+at\s+(.+?)\s+for\s+'([^']+)'$`), 1, 2},
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+at\s+(.+?)\s+for\s+(.+)$`), 1, 2},
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+(in\s+.+?)\s+for\s+(.+)$`), 1, 2},
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+for\s+"([^"]+)"\s+at\s+(.+)$`), 2, 1},
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+for\s+'([^']+)'\s+at\s+(.+)$`), 2, 1},
	{regexp.MustCompile(`(?i)^set\s+reminders?\s+for\s+(.+)\s+at\s+(.+)$`), 2, 1},
	{regexp.MustCompile(`(?i)^remind\s+me\s+at\s+(.+?)\s+to\s+"([^"]+)"$`), 1, 2},
	{regexp.MustCompile(`(?i)^remind\s+me\s+at\s+(.+?)\s+to\s+'([^']+)'$`), 1, 2},
	{regexp.MustCompile(`(?i)^remind\s+me\s+at\s+(.+?)\s+to\s+(.+)$`), 1, 2},
}

// simpleReminderPatterns have no time phrase; the reminder defaults to one
// hour from now.
var simpleReminderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^set\s+reminders?\s+for\s+"([^"]+)"$`),
	regexp.MustCompile(`(?i)^set\s+reminders?\s+for\s+'([^']+)'$`),
	regexp.MustCompile(`(?i)^set\s+reminders?\s+for\s+(.+)$`),
}

var (
	showRemindersRe    = regexp.MustCompile(`(?i)^(?:list|show)\s+reminders$`)
	completeReminderRe = regexp.MustCompile(`(?i)^(?:complete|done|finish|check)\s+reminder\s+(\S+)$`)
	deleteReminderRe   = regexp.MustCompile(`(?i)^(?:delete|remove)\s+reminder\s+(\S+)$`)
	purgeRemindersRe   = regexp.MustCompile(`(?i)^clear\s+completed\s+reminders$`)
)

func (it *Interpreter) tryReminder(t string) *Result {
	for _, p := range reminderPatterns {
		m := p.re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		timeStr := strings.TrimSpace(m[p.timeIdx])
		desc := strings.TrimSpace(m[p.descIdx])

		due, err := reminder.ParseTimePhrase(timeStr, it.deps.Now())
		if err != nil {
			return replyf("I couldn't understand the time %q.", timeStr)
		}
		return it.createReminder(desc, due)
	}

	for _, re := range simpleReminderPatterns {
		if m := re.FindStringSubmatch(t); m != nil {
			return it.createReminder(strings.TrimSpace(m[1]), it.deps.Now().Add(time.Hour))
		}
	}

	if showRemindersRe.MatchString(t) {
		items, err := it.deps.Reminders.All()
		if err != nil {
			return replyErr("list reminders", err)
		}
		if len(items) == 0 {
			return reply("No reminders set.")
		}
		lines := make([]string, len(items))
		for i, r := range items {
			mark := " "
			if r.Completed {
				mark = "x"
			}
			lines[i] = fmt.Sprintf("%d. [%s] %s (%s)", i+1, mark, r.Description, r.DueAt.Format(dueFormat))
		}
		return reply(strings.Join(lines, "\n"))
	}
	if m := completeReminderRe.FindStringSubmatch(t); m != nil {
		if err := it.completeByRef(m[1]); err != nil {
			return reply("Reminder not found.")
		}
		return reply("Marked reminder completed.")
	}
	if m := deleteReminderRe.FindStringSubmatch(t); m != nil {
		if err := it.deleteByRef(m[1]); err != nil {
			return reply("Reminder not found.")
		}
		return reply("Deleted reminder.")
	}
	if purgeRemindersRe.MatchString(t) {
		n, err := it.deps.Reminders.PurgeCompleted()
		if err != nil {
			return replyErr("purge reminders", err)
		}
		return replyf("Removed %d completed reminder(s).", n)
	}
	return nil
}

func (it *Interpreter) createReminder(desc string, due time.Time) *Result {
	email := ""
	user := it.deps.CurrentUser()
	if user != nil {
		email = user.Email
	}
	if _, err := it.deps.Reminders.Add(desc, due, email); err != nil {
		return replyErr("create reminder", err)
	}
	suffix := ""
	if email != "" {
		suffix = " (email: " + email + ")"
	}
	return replyf("Reminder set for %s%s: %q.", due.Format(dueFormat), suffix, desc)
}

// reminderID resolves a 1-based index or an id against the current list.
func (it *Interpreter) reminderID(ref string) (string, error) {
	items, err := it.deps.Reminders.All()
	if err != nil {
		return "", err
	}
	if idx, ok := parseIndex(ref); ok {
		if idx < 0 || idx >= len(items) {
			return "", reminder.ErrNotFound
		}
		return items[idx].ID, nil
	}
	for _, r := range items {
		if r.ID == ref {
			return r.ID, nil
		}
	}
	return "", reminder.ErrNotFound
}

// parseIndex converts a decimal ref to a 0-based slice index.
func parseIndex(ref string) (int, bool) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

func (it *Interpreter) completeByRef(ref string) error {
	id, err := it.reminderID(ref)
	if err != nil {
		return err
	}
	return it.deps.Reminders.Complete(id)
}

func (it *Interpreter) deleteByRef(ref string) error {
	id, err := it.reminderID(ref)
	if err != nil {
		return err
	}
	return it.deps.Reminders.Delete(id)
}
