// Command mcp-assistant provides an MCP server over the assistant's local
// state: reminders, notes and todos.
//
// Usage:
//
//	./mcp-assistant          # Start MCP server (stdio)
//	./mcp-assistant --help   # Show help
//
// Environment:
//
//	ASSISTANT_DB_PATH  Path to SQLite database (default: ~/.assistant/assistant.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/cli-assistant/internal/memo"
	"github.com/notexe/cli-assistant/internal/notify"
	"github.com/notexe/cli-assistant/internal/reminder"
	"github.com/notexe/cli-assistant/internal/settings"
	"github.com/notexe/cli-assistant/internal/store"
	"github.com/notexe/cli-assistant/internal/toolserver"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	dbPath := os.Getenv("ASSISTANT_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".assistant")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create config directory: %v\n", err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "assistant.db")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	settingsMgr := settings.NewManager(st)
	notifications := notify.NewManager(st)
	outbox := notify.NewOutbox(st)
	reminders := reminder.NewEngine(st, notifications, outbox, settingsMgr)
	notes := memo.NewNotes(st)
	todos := memo.NewTodos(st)

	s := toolserver.NewServer(reminders, notes, todos)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Assistant Server - Assistant state management via MCP protocol

USAGE:
    mcp-assistant          Start MCP server (communicates via stdio)
    mcp-assistant --help   Show this help

ENVIRONMENT:
    ASSISTANT_DB_PATH  Path to SQLite database file
                       Default: ~/.assistant/assistant.db

TOOLS:
    add_reminder       Add a reminder (description, due, optional email)
    list_reminders     List reminders (optional status filter)
    complete_reminder  Mark a reminder as completed
    delete_reminder    Delete a reminder permanently
    add_note           Save a quick note
    list_notes         List all notes
    delete_note        Delete a note by ID or position
    add_todo           Add a todo item
    list_todos         List all todos
    complete_todo      Mark a todo as completed
    delete_todo        Delete a todo permanently

CONFIGURATION:
    Add to your MCP client configuration:
    {
      "mcpServers": {
        "assistant": {
          "command": "/path/to/mcp-assistant",
          "args": []
        }
      }
    }`)
}
