// Package command implements the local command interpreter: an ordered list
// of pattern rules that turns chat input into manager calls before any text
// is ever sent to a remote model. A handled command produces its response
// locally and consumes no tokens.
package command

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/notexe/cli-assistant/internal/auth"
	"github.com/notexe/cli-assistant/internal/history"
	"github.com/notexe/cli-assistant/internal/memo"
	"github.com/notexe/cli-assistant/internal/metrics"
	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/reminder"
)

// Result is the outcome of interpreting one input line. Handled means the
// interpreter produced Response and the input must not reach the model.
type Result struct {
	Handled  bool
	Response string
}

// Deps are the collaborators the interpreter drives. The function fields may
// be left nil; New fills in working defaults.
type Deps struct {
	Reminders     *reminder.Engine
	Notifications *notify.Manager
	Notes         *memo.Notes
	Todos         *memo.Todos
	Metrics       *metrics.Manager
	Conversations *history.Conversations
	Voice         *history.VoiceHistory
	PDF           *history.PDFHistory

	// CurrentUser supplies the signed-in user, nil when nobody is.
	CurrentUser func() *auth.User
	// OpenURL opens an external URL. The default logs and does nothing else.
	OpenURL func(url string) error
	// Navigate switches the app to an internal view route like "/settings".
	Navigate func(route string)
	// CopyText writes to the system clipboard.
	CopyText func(text string) error
	// Schedule runs fn once after d. Used by "set timer".
	Schedule func(d time.Duration, fn func())

	Now     func() time.Time
	RandInt func(n int) int
}

// Interpreter matches input against its rule list, first match wins.
type Interpreter struct {
	deps Deps

	mu             sync.Mutex
	stopwatchStart time.Time
}

// New creates an interpreter, filling nil Deps functions with defaults.
func New(deps Deps) *Interpreter {
	if deps.CurrentUser == nil {
		deps.CurrentUser = func() *auth.User { return nil }
	}
	if deps.OpenURL == nil {
		deps.OpenURL = func(url string) error {
			log.Printf("[command] open %s", url)
			return nil
		}
	}
	if deps.Navigate == nil {
		deps.Navigate = func(string) {}
	}
	if deps.CopyText == nil {
		deps.CopyText = clipboard.WriteAll
	}
	if deps.Schedule == nil {
		deps.Schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RandInt == nil {
		deps.RandInt = rand.IntN
	}
	return &Interpreter{deps: deps}
}

type ruleFunc func(*Interpreter, string) *Result

// rules in priority order. Earlier rules shadow later ones, so the open rule
// claiming "open youtube" wins over any later pattern.
var rules = []ruleFunc{
	(*Interpreter).tryOpen,
	(*Interpreter).tryReminder,
	(*Interpreter).tryHelp,
	(*Interpreter).tryNotes,
	(*Interpreter).tryTodos,
	(*Interpreter).tryCalc,
	(*Interpreter).tryChance,
	(*Interpreter).tryClock,
	(*Interpreter).tryTimers,
	(*Interpreter).tryStats,
	(*Interpreter).tryHistory,
	(*Interpreter).tryNotifications,
	(*Interpreter).tryCopy,
	(*Interpreter).tryConvert,
	(*Interpreter).tryDaysUntil,
	(*Interpreter).tryClear,
}

// Interpret runs text through the rule list. It never panics: a rule blowing
// up is downgraded to an apologetic handled response, and unrecognized input
// simply comes back with Handled false so the caller can forward it.
func (it *Interpreter) Interpret(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[command] panic while interpreting %q: %v", text, r)
			res = Result{Handled: true, Response: "Sorry, something went wrong handling that command."}
		}
	}()

	t := strings.TrimSpace(text)
	if t == "" {
		return Result{}
	}
	for _, rule := range rules {
		if r := rule(it, t); r != nil {
			return *r
		}
	}
	return Result{}
}

func reply(s string) *Result { return &Result{Handled: true, Response: s} }

func replyf(format string, args ...any) *Result {
	return reply(fmt.Sprintf(format, args...))
}

// replyErr is the shared path for storage failures inside a matched rule: the
// command stays handled, the error goes to the log.
func replyErr(op string, err error) *Result {
	log.Printf("[command] %s: %v", op, err)
	return reply("Sorry, something went wrong handling that command.")
}
