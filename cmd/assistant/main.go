package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/notexe/cli-assistant/internal/api"
	"github.com/notexe/cli-assistant/internal/auth"
	"github.com/notexe/cli-assistant/internal/command"
	"github.com/notexe/cli-assistant/internal/config"
	"github.com/notexe/cli-assistant/internal/history"
	"github.com/notexe/cli-assistant/internal/memo"
	"github.com/notexe/cli-assistant/internal/metrics"
	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/reminder"
	"github.com/notexe/cli-assistant/internal/repl"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/store"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	provider := flag.String("provider", "", "Provider to use (deepseek, ollama)")
	modelName := flag.String("model", "", "Model name (overrides config)")
	dataFile := flag.String("data", "", "Path to the assistant database (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *dataFile != "" {
		cfg.Assistant.DataFile = *dataFile
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		if cfg.Provider == config.ProviderDeepSeek {
			fmt.Fprintf(os.Stderr, "Tip: Set DEEPSEEK_API_KEY environment variable or add it to config file\n")
		}
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Assistant.DataFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Assistant.DataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	settingsMgr := settings.NewManager(st)
	notifications := notify.NewManager(st)
	outbox := notify.NewOutbox(st)
	metricsMgr := metrics.NewManager(st)
	conversations := history.NewConversations(st)
	voiceHistory := history.NewVoiceHistory(st)
	pdfHistory := history.NewPDFHistory(st, notifications)
	notes := memo.NewNotes(st)
	todos := memo.NewTodos(st)
	authSvc := auth.NewService(st)
	reminders := reminder.NewEngine(st, notifications, outbox, settingsMgr)

	// A key saved through /key takes precedence over config and environment.
	providerCfg := cfg.GetProviderConfig()
	if key := settingsMgr.Get().APIKey; key != "" && cfg.Provider == config.ProviderDeepSeek {
		providerCfg.DeepSeek.APIKey = key
	}

	providerInstance, err := api.NewProvider(providerCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no AI provider available: %v\n", err)
		fmt.Fprintf(os.Stderr, "Local commands still work; remote completions are disabled.\n")
		providerInstance = nil
	}
	if providerInstance != nil {
		defer providerInstance.Close()
	}

	interpreter := command.New(command.Deps{
		Reminders:     reminders,
		Notifications: notifications,
		Notes:         notes,
		Todos:         todos,
		Metrics:       metricsMgr,
		Conversations: conversations,
		Voice:         voiceHistory,
		PDF:           pdfHistory,
		CurrentUser:   authSvc.CurrentUser,
		OpenURL:       openBrowser,
	})

	replInstance, err := repl.New(repl.Deps{
		Config:        cfg,
		Provider:      providerInstance,
		Interpreter:   interpreter,
		Conversations: conversations,
		Settings:      settingsMgr,
		Notifications: notifications,
		Metrics:       metricsMgr,
		Reminders:     reminders,
		PDF:           pdfHistory,
		Auth:          authSvc,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := replInstance.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openBrowser launches the platform's default browser detached from the
// terminal, so the REPL keeps control of stdin.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
