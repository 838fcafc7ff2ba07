package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/cli-assistant/internal/api"
)

var (
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")) // Soft green

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	TokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dim gray

	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")). // Orange
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Bold(true)
)

type Formatter struct {
	colored     bool
	provider    string // display name (e.g., "DeepSeek", "Ollama")
	providerRaw string // raw name (e.g., "deepseek", "ollama")
}

func NewFormatter(colored bool, provider ...string) *Formatter {
	displayName := "Assistant"
	rawName := ""
	if len(provider) > 0 && provider[0] != "" {
		rawName = provider[0]
		displayName = formatProviderName(provider[0])
	}
	return &Formatter{
		colored:     colored,
		provider:    displayName,
		providerRaw: rawName,
	}
}

// formatProviderName returns a display-friendly provider name.
func formatProviderName(provider string) string {
	switch provider {
	case "deepseek":
		return "DeepSeek"
	case "ollama":
		return "Ollama"
	default:
		if len(provider) > 0 && provider[0] >= 'a' && provider[0] <= 'z' {
			return string(provider[0]-32) + provider[1:]
		}
		return provider
	}
}

func (f *Formatter) FormatUserMessage(msg string) string {
	prefix := "You: "
	if f.colored {
		prefix = UserStyle.Render("You: ")
	}
	return prefix + msg
}

// FormatAssistantMessage renders a reply produced by the remote model.
func (f *Formatter) FormatAssistantMessage(msg string) string {
	prefix := f.provider + ": "
	if f.colored {
		prefix = AssistantStyle.Render(f.provider + ": ")
	}
	return prefix + msg
}

// FormatLocalReply renders a reply produced by the local interpreter. The
// distinct prefix makes it obvious no tokens were spent.
func (f *Formatter) FormatLocalReply(msg string) string {
	prefix := "Assistant: "
	if f.colored {
		prefix = AssistantStyle.Render("Assistant: ")
	}
	return prefix + msg
}

func (f *Formatter) FormatError(err error) string {
	prefix := "Error: "
	if f.colored {
		prefix = ErrorStyle.Render("Error: ")
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	if f.colored {
		return InfoStyle.Render(info)
	}
	return info
}

func (f *Formatter) FormatSystem(msg string) string {
	if f.colored {
		return SystemStyle.Render(msg)
	}
	return msg
}

func (f *Formatter) FormatStatus(msg string) string {
	if f.colored {
		return StatusStyle.Render(msg)
	}
	return msg
}

// FormatTokenUsage renders the per-request token line shown after a remote
// completion.
func (f *Formatter) FormatTokenUsage(usage api.Usage, duration time.Duration) string {
	parts := []string{
		fmt.Sprintf("tokens: input=%d, output=%d", usage.InputTokens, usage.OutputTokens),
	}
	if duration > 0 {
		parts = append(parts, "time: "+formatDuration(duration))
	}

	msg := "(" + strings.Join(parts, " | ") + ")"
	if f.colored {
		return TokenStyle.Render(msg)
	}
	return msg
}

// FormatQuota renders the daily-usage line for /usage and the status bar.
func (f *Formatter) FormatQuota(used, limit int) string {
	var msg string
	if limit < 0 {
		msg = fmt.Sprintf("tokens today: %d (unlimited, own API key)", used)
	} else {
		msg = fmt.Sprintf("tokens today: %d/%d", used, limit)
	}
	if f.colored {
		return TokenStyle.Render(msg)
	}
	return msg
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatPrompt returns the input prompt, with an unread-notification badge
// when there is anything unread.
func (f *Formatter) FormatPrompt(unread int) string {
	badge := ""
	if unread > 0 {
		badge = fmt.Sprintf(" [%d]", unread)
		if f.colored {
			badge = " " + BadgeStyle.Render(fmt.Sprintf("[%d]", unread))
		}
	}
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("you") + badge + arrowStyle.Render(" > ")
	}
	return "you" + badge + " > "
}

func (f *Formatter) FormatWelcome(model string, provider ...string) string {
	providerName := f.provider
	if len(provider) > 0 && provider[0] != "" {
		providerName = formatProviderName(provider[0])
	}

	if f.colored {
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

		subtitleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

		labelStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

		valueStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

		borderStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

		topBorder := borderStyle.Render("╭─────────────────────────────────────────╮")
		bottomBorder := borderStyle.Render("╰─────────────────────────────────────────╯")
		sideBorder := borderStyle.Render("│")

		title := titleStyle.Render(fmt.Sprintf("CLI Assistant • %s", providerName))
		modelLine := labelStyle.Render("Model: ") + valueStyle.Render(model)
		helpLine := subtitleStyle.Render(`Type "help" for commands, /help for extras`)

		padLine := func(content string, width int) string {
			contentLen := lipgloss.Width(content)
			if contentLen < width {
				return content + strings.Repeat(" ", width-contentLen)
			}
			return content
		}

		boxWidth := 39
		lines := []string{
			"",
			topBorder,
			sideBorder + " " + padLine(title, boxWidth) + " " + sideBorder,
			sideBorder + " " + padLine(modelLine, boxWidth) + " " + sideBorder,
			sideBorder + " " + padLine("", boxWidth) + " " + sideBorder,
			sideBorder + " " + padLine(helpLine, boxWidth) + " " + sideBorder,
			bottomBorder,
			"",
		}

		return strings.Join(lines, "\n")
	}

	lines := []string{
		"",
		fmt.Sprintf("CLI Assistant • %s", providerName),
		fmt.Sprintf("Model: %s", model),
		`Type "help" for commands, /help for extras`,
		"",
	}

	return strings.Join(lines, "\n")
}

func (f *Formatter) FormatHelp() string {
	if f.colored {
		headerStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

		cmdStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

		descStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

		sectionStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")).
			Bold(true)

		dimStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

		formatCmd := func(cmd, desc string) string {
			return "  " + cmdStyle.Render(cmd) + " " + descStyle.Render(desc)
		}

		lines := []string{
			"",
			headerStyle.Render("Slash commands"),
			"",
			sectionStyle.Render("General"),
			formatCmd("/help", "Show this help"),
			formatCmd("/clear", "Start a fresh conversation"),
			formatCmd("/quit", "Exit"),
			"",
			sectionStyle.Render("Account"),
			formatCmd("/plan [free|pro|premium]", "Show or change plan"),
			formatCmd("/key <api-key>|clear", "Set or clear your API key"),
			formatCmd("/usage", "Today's token usage"),
			formatCmd("/settings [name on|off]", "Show or toggle preferences"),
			"",
			sectionStyle.Render("Tools"),
			formatCmd("/pdf <file>", "Summarize a document"),
			formatCmd("/provider", "Show provider info"),
			"",
			headerStyle.Render("Tips"),
			dimStyle.Render(`  Plain text like "note buy milk" or "open youtube" is handled locally`),
			dimStyle.Render(`  Type "help" (no slash) for the full list of assistant commands`),
			dimStyle.Render("  Ctrl+C or Ctrl+D to exit"),
			"",
		}

		return strings.Join(lines, "\n")
	}

	lines := []string{
		"",
		"Slash commands:",
		"  /help                      - Show help",
		"  /clear                     - Start a fresh conversation",
		"  /plan [free|pro|premium]   - Show or change plan",
		"  /key <api-key>|clear       - Set or clear API key",
		"  /usage                     - Today's token usage",
		"  /settings [name on|off]    - Show or toggle preferences",
		"  /pdf <file>                - Summarize a document",
		"  /provider                  - Show provider",
		"  /quit                      - Exit",
		"",
	}

	return strings.Join(lines, "\n")
}
