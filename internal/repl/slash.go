package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/notexe/cli-assistant/internal/api"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/ui"
)

// maxPDFChars caps how much of a document is sent for summarization.
const maxPDFChars = 12000

func (r *REPL) handleSlash(ctx context.Context, cmd, args string) error {
	switch cmd {
	case "/help", "/h":
		r.displayHelp()

	case "/clear":
		conv, err := r.deps.Conversations.Create("")
		if err != nil {
			return fmt.Errorf("failed to start conversation: %w", err)
		}
		r.convID = conv.ID
		r.displaySystem("Started a new conversation.")

	case "/plan":
		return r.handlePlan(args)

	case "/key":
		return r.handleKey(args)

	case "/usage":
		fmt.Println()
		fmt.Println(r.formatter.FormatQuota(r.deps.Settings.UsageToday(), r.deps.Settings.DailyLimit()))
		fmt.Println()

	case "/settings":
		return r.handleSettings(args)

	case "/pdf":
		return r.handlePDF(ctx, args)

	case "/provider":
		if r.deps.Provider == nil {
			r.displayInfo("No provider configured. Local commands only.")
			return nil
		}
		r.displayInfo(fmt.Sprintf("Provider: %s\nModel: %s",
			r.deps.Provider.Name(), r.deps.Config.Model.Name))

	case "/login":
		return r.handleLogin(args)

	case "/logout":
		if err := r.deps.Auth.SignOut(); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
		r.displaySystem("Signed out.")

	case "/whoami":
		if u := r.deps.Auth.CurrentUser(); u != nil {
			r.displayInfo(fmt.Sprintf("%s <%s>", u.Name, u.Email))
		} else {
			r.displayInfo("Not signed in.")
		}

	case "/quit", "/exit", "/q":
		fmt.Println("Goodbye!")

	default:
		return fmt.Errorf("unknown command %q, type /help", cmd)
	}

	return nil
}

func (r *REPL) handlePlan(args string) error {
	if args == "" {
		s := r.deps.Settings.Get()
		limit := r.deps.Settings.DailyLimit()
		if limit == settings.Unlimited {
			r.displayInfo(fmt.Sprintf("Plan: %s (unlimited, own API key)", s.Plan))
		} else {
			r.displayInfo(fmt.Sprintf("Plan: %s (%d tokens/day)", s.Plan, limit))
		}
		return nil
	}

	plan := settings.Plan(strings.ToLower(args))
	switch plan {
	case settings.PlanFree, settings.PlanPro, settings.PlanPremium:
	default:
		return fmt.Errorf("unknown plan %q, expected free, pro or premium", args)
	}

	if _, err := r.deps.Settings.Update(settings.Patch{Plan: &plan}); err != nil {
		return fmt.Errorf("failed to change plan: %w", err)
	}
	if err := r.deps.Settings.ResetUsage(); err != nil {
		return fmt.Errorf("failed to reset usage: %w", err)
	}
	r.displaySystem(fmt.Sprintf("Switched to the %s plan (%d tokens/day). Usage reset.",
		plan, r.deps.Settings.DailyLimit()))
	return nil
}

func (r *REPL) handleKey(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /key <api-key> or /key clear")
	}

	if strings.EqualFold(args, "clear") {
		empty := ""
		if _, err := r.deps.Settings.Update(settings.Patch{APIKey: &empty}); err != nil {
			return fmt.Errorf("failed to clear API key: %w", err)
		}
		r.displaySystem("API key cleared. Plan limits apply again.")
		return nil
	}

	key := args
	if _, err := r.deps.Settings.Update(settings.Patch{APIKey: &key}); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	r.displaySystem(fmt.Sprintf("API key saved (%s). Daily limit lifted.", maskKey(key)))
	return nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func (r *REPL) handleSettings(args string) error {
	if args == "" {
		s := r.deps.Settings.Get()
		lines := []string{
			fmt.Sprintf("in-app      %s  (reminder alerts in the app)", onOff(s.ReminderInApp)),
			fmt.Sprintf("email       %s  (reminder alerts by email)", onOff(s.ReminderEmail)),
			fmt.Sprintf("tokens      %s  (hide per-request token usage)", onOff(s.HideTokenUsage)),
			fmt.Sprintf("reduce-load %s  (fewer background refreshes)", onOff(s.ReduceLoad)),
			fmt.Sprintf("language    %s", s.Language),
		}
		r.displayInfo(strings.Join(lines, "\n"))
		return nil
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		return fmt.Errorf("usage: /settings <name> <on|off> or /settings language <code>")
	}
	name, value := strings.ToLower(parts[0]), strings.ToLower(parts[1])

	if name == "language" {
		lang := parts[1]
		if _, err := r.deps.Settings.Update(settings.Patch{Language: &lang}); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		r.displaySystem("Language set to " + lang + ".")
		return nil
	}

	var on bool
	switch value {
	case "on", "true", "yes":
		on = true
	case "off", "false", "no":
		on = false
	default:
		return fmt.Errorf("expected on or off, got %q", parts[1])
	}

	var patch settings.Patch
	switch name {
	case "in-app", "inapp":
		patch.ReminderInApp = &on
	case "email":
		patch.ReminderEmail = &on
	case "tokens":
		hide := on
		patch.HideTokenUsage = &hide
	case "reduce-load", "reduceload":
		patch.ReduceLoad = &on
	default:
		return fmt.Errorf("unknown setting %q", parts[0])
	}

	if _, err := r.deps.Settings.Update(patch); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	r.displaySystem(fmt.Sprintf("Setting %s is now %s.", name, onOff(on)))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// handlePDF reads a local document, sends it through the quota-gated provider
// for a summary and stores the result in the PDF history.
func (r *REPL) handlePDF(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /pdf <file>")
	}
	if r.deps.Provider == nil {
		return fmt.Errorf("no AI provider configured, cannot summarize")
	}

	r.status.Show("Reading " + args + "...")
	data, err := os.ReadFile(args)
	r.status.Hide()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args, err)
	}
	content := string(data)
	if len(content) > maxPDFChars {
		content = content[:maxPDFChars]
	}

	cost := estimateTokens(content)
	if ok, err := r.deps.Settings.Consume(cost); err != nil {
		return err
	} else if !ok {
		r.displayLocal(r.quotaExceededMessage())
		return nil
	}

	req := api.MessageRequest{
		Messages: []api.Message{
			{Role: "user", Content: "Summarize the following document concisely:\n\n" + content},
		},
		Model:       r.deps.Config.Model.Name,
		MaxTokens:   r.deps.Config.Model.MaxTokens,
		Temperature: r.deps.Config.Model.Temperature,
	}

	r.spinner.Start("Summarizing...")
	start := time.Now()
	resp, err := r.deps.Provider.SendMessage(ctx, req)
	duration := time.Since(start)
	r.spinner.Stop()
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	name := filepath.Base(args)
	if _, err := r.deps.PDF.Add(name, resp.Content); err != nil {
		r.displayError(fmt.Errorf("failed to save summary: %w", err))
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
	return nil
}

// handleLogin performs the mock federated sign-in.
func (r *REPL) handleLogin(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return fmt.Errorf("usage: /login <email> [name]")
	}
	email := parts[0]
	name := strings.Join(parts[1:], " ")
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	u, err := r.deps.Auth.SignInWithGoogle(email, name)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	r.displaySystem(fmt.Sprintf("Signed in as %s <%s>.", u.Name, u.Email))
	return nil
}
