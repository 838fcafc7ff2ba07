// Package repl is the interactive chat loop. Every input line goes through
// the local command interpreter first; only unhandled text is sent to the
// remote model, and only when today's token budget allows it.
package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/notexe/cli-assistant/internal/api"
	"github.com/notexe/cli-assistant/internal/auth"
	"github.com/notexe/cli-assistant/internal/command"
	"github.com/notexe/cli-assistant/internal/config"
	"github.com/notexe/cli-assistant/internal/history"
	"github.com/notexe/cli-assistant/internal/metrics"
	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/reminder"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/ui"
)

// maxContextMessages caps how much conversation history is replayed to the
// model per request.
const maxContextMessages = 50

// Deps are the collaborators the REPL drives.
type Deps struct {
	Config        *config.Config
	Provider      api.Provider // nil when no remote provider is configured
	Interpreter   *command.Interpreter
	Conversations *history.Conversations
	Settings      *settings.Manager
	Notifications *notify.Manager
	Metrics       *metrics.Manager
	Reminders     *reminder.Engine
	PDF           *history.PDFHistory
	Auth          *auth.Service
}

type REPL struct {
	deps      Deps
	rl        *readline.Instance
	formatter *ui.Formatter
	status    *ui.StatusDisplay
	spinner   *ui.Spinner

	convID string
}

func New(deps Deps) (*REPL, error) {
	rl, err := setupReadline()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	providerName := ""
	if deps.Provider != nil {
		providerName = deps.Provider.Name()
	}
	formatter := ui.NewFormatter(deps.Config.UI.ColoredOutput, providerName)

	return &REPL{
		deps:      deps,
		rl:        rl,
		formatter: formatter,
		status:    ui.NewStatusDisplay(formatter, true),
		spinner:   ui.NewSpinner(deps.Config.UI.ColoredOutput),
	}, nil
}

// Start runs the loop until EOF, /quit or ctx cancellation. The reminder
// sweeper and the unread-badge refresher run for exactly as long as the loop.
func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.deps.Metrics.IncrementSession(); err != nil {
		r.displayError(err)
	}
	sessionStart := time.Now()
	defer func() {
		if err := r.deps.Metrics.AddActive(time.Since(sessionStart)); err != nil {
			r.displayError(err)
		}
	}()

	if err := r.resumeConversation(); err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}

	sweeper := reminder.NewSweeper(r.deps.Reminders, time.Duration(r.deps.Config.Assistant.SweepInterval)*time.Second)
	go sweeper.Run(ctx)
	go r.refreshBadge(ctx)

	r.displayWelcome()
	r.updatePrompt()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, cmd, args := r.parseCommand(input)
		if isCommand {
			if err := r.handleSlash(ctx, cmd, args); err != nil {
				r.displayError(err)
			}
			if cmd == "/quit" || cmd == "/exit" || cmd == "/q" {
				return nil
			}
			r.updatePrompt()
			continue
		}

		r.handleMessage(ctx, input)
		r.updatePrompt()
	}
}

// resumeConversation reopens the active conversation or starts a fresh one.
func (r *REPL) resumeConversation() error {
	active, err := r.deps.Conversations.ActiveID()
	if err != nil {
		return err
	}
	if active != "" {
		r.convID = active
		return nil
	}
	conv, err := r.deps.Conversations.Create("")
	if err != nil {
		return err
	}
	r.convID = conv.ID
	return nil
}

// handleMessage routes one chat line: interpreter first, then the quota gate,
// then the remote model. Every outcome lands in the conversation history.
func (r *REPL) handleMessage(ctx context.Context, text string) {
	r.record(history.SenderUser, text)

	if res := r.deps.Interpreter.Interpret(text); res.Handled {
		r.record(history.SenderAssistant, res.Response)
		r.displayLocal(res.Response)
		return
	}

	reply := r.completeRemote(ctx, text)
	r.record(history.SenderAssistant, reply)
}

// completeRemote runs the quota-gated model round trip and returns the reply
// text, which is also what gets printed.
func (r *REPL) completeRemote(ctx context.Context, text string) string {
	if r.deps.Provider == nil {
		msg := "No AI provider is configured. Local commands still work; type \"help\" to see them."
		r.displayLocal(msg)
		return msg
	}

	cost := estimateTokens(text)
	if ok, err := r.deps.Settings.Consume(cost); err != nil {
		r.displayError(err)
		return "AI request failed: " + err.Error()
	} else if !ok {
		msg := r.quotaExceededMessage()
		r.displayLocal(msg)
		return msg
	}

	req := r.buildRequest()
	r.spinner.Start("Thinking...")
	start := time.Now()
	resp, err := r.deps.Provider.SendMessage(ctx, req)
	duration := time.Since(start)
	r.spinner.Stop()

	if err != nil {
		msg := fmt.Sprintf("AI request failed: %v", err)
		r.displayLocal(msg)
		return msg
	}

	display := resp.Content
	if r.deps.Config.UI.RenderMarkdown {
		display = ui.RenderMarkdown(display)
	}

	fmt.Println()
	fmt.Println(r.formatter.FormatAssistantMessage(display))
	if !r.deps.Settings.Get().HideTokenUsage {
		fmt.Println(r.formatter.FormatTokenUsage(resp.Usage, duration))
	}
	fmt.Println()

	return resp.Content
}

// buildRequest replays the tail of the active conversation to the model.
func (r *REPL) buildRequest() api.MessageRequest {
	var messages []api.Message

	convos, err := r.deps.Conversations.All()
	if err == nil {
		for _, c := range convos {
			if c.ID != r.convID {
				continue
			}
			msgs := c.Messages
			if len(msgs) > maxContextMessages {
				msgs = msgs[len(msgs)-maxContextMessages:]
			}
			for _, m := range msgs {
				role := "user"
				if m.Sender == history.SenderAssistant {
					role = "assistant"
				}
				messages = append(messages, api.Message{Role: role, Content: m.Text})
			}
			break
		}
	}

	return api.MessageRequest{
		Messages:    messages,
		System:      r.deps.Config.Model.SystemPrompt,
		Model:       r.deps.Config.Model.Name,
		MaxTokens:   r.deps.Config.Model.MaxTokens,
		Temperature: r.deps.Config.Model.Temperature,
	}
}

func (r *REPL) quotaExceededMessage() string {
	s := r.deps.Settings.Get()
	return fmt.Sprintf(
		"You've used all %d tokens of your daily %s plan limit. Upgrade with /plan, or add your own API key with /key to lift the limit.",
		r.deps.Settings.DailyLimit(), s.Plan)
}

// record appends to the conversation, logging quietly on failure so the chat
// keeps flowing.
func (r *REPL) record(sender, text string) {
	if _, err := r.deps.Conversations.AppendMessage(r.convID, sender, text); err != nil {
		r.displayError(fmt.Errorf("failed to save message: %w", err))
	}
}

// estimateTokens approximates the model cost of a prompt: one token per four
// characters, at least one.
func estimateTokens(text string) int {
	n := (len(text) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// refreshBadge keeps the unread-notification badge in the prompt current.
func (r *REPL) refreshBadge(ctx context.Context) {
	interval := time.Duration(r.deps.Config.Assistant.BadgeInterval) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.updatePrompt()
		}
	}
}

func (r *REPL) updatePrompt() {
	unread, err := r.deps.Notifications.UnreadCount()
	if err != nil {
		unread = 0
	}
	r.rl.SetPrompt(r.formatter.FormatPrompt(unread))
	r.rl.Refresh()
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	cmd := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, cmd, args
}
