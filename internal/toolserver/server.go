// Package toolserver exposes the assistant's reminders, notes and todos over
// MCP so external agents can drive the same state the chat loop uses.
package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/cli-assistant/internal/memo"
	"github.com/notexe/cli-assistant/internal/reminder"
)

const (
	serverName    = "assistant"
	serverVersion = "1.0.0"
)

// Server is the MCP server for assistant state management.
type Server struct {
	mcpServer *server.MCPServer
	reminders *reminder.Engine
	notes     *memo.Notes
	todos     *memo.Todos
}

// NewServer creates an assistant MCP server on top of the given managers.
func NewServer(reminders *reminder.Engine, notes *memo.Notes, todos *memo.Todos) *Server {
	s := &Server{
		reminders: reminders,
		notes:     notes,
		todos:     todos,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a one-shot reminder. The due time is either RFC3339 or a natural phrase like \"in 20 minutes\" or \"at 5:30 pm\""),
			mcp.WithString("description", mcp.Required(), mcp.Description("What to remind about")),
			mcp.WithString("due", mcp.Required(), mcp.Description("Due time: RFC3339 (e.g. 2025-01-15T09:00:00Z) or a natural phrase")),
			mcp.WithString("email", mcp.Description("Optional email address for the email channel")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders, optionally filtered by status (pending or completed)"),
			mcp.WithString("status", mcp.Description("Filter by status: pending, completed, or empty for all")),
		),
		s.handleListReminders,
	)

	// complete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed so the due sweep skips it"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	// add_note
	s.mcpServer.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Save a quick note"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
		),
		s.handleAddNote,
	)

	// list_notes
	s.mcpServer.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List all saved notes, newest first"),
		),
		s.handleListNotes,
	)

	// delete_note
	s.mcpServer.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note by ID or 1-based position"),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Note ID or position")),
		),
		s.handleDeleteNote,
	)

	// add_todo
	s.mcpServer.AddTool(
		mcp.NewTool("add_todo",
			mcp.WithDescription("Add a todo item"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Todo text")),
		),
		s.handleAddTodo,
	)

	// list_todos
	s.mcpServer.AddTool(
		mcp.NewTool("list_todos",
			mcp.WithDescription("List all todos, newest first"),
		),
		s.handleListTodos,
	)

	// complete_todo
	s.mcpServer.AddTool(
		mcp.NewTool("complete_todo",
			mcp.WithDescription("Mark a todo as completed"),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Todo ID or 1-based position")),
		),
		s.handleCompleteTodo,
	)

	// delete_todo
	s.mcpServer.AddTool(
		mcp.NewTool("delete_todo",
			mcp.WithDescription("Delete a todo permanently"),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Todo ID or 1-based position")),
		),
		s.handleDeleteTodo,
	)
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description := req.GetString("description", "")
	due := req.GetString("due", "")
	email := req.GetString("email", "")

	if description == "" {
		return mcp.NewToolResultError("description is required"), nil
	}
	if due == "" {
		return mcp.NewToolResultError("due is required"), nil
	}

	dueAt, err := time.Parse(time.RFC3339, due)
	if err != nil {
		dueAt, err = reminder.ParseTimePhrase(due, time.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("could not understand due time %q: %v", due, err)), nil
		}
	}

	added, err := s.reminders.Add(description, dueAt, email)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(added, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")

	items, err := s.reminders.All()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	switch status {
	case "pending":
		filtered := items[:0]
		for _, r := range items {
			if !r.Completed {
				filtered = append(filtered, r)
			}
		}
		items = filtered
	case "completed":
		filtered := items[:0]
		for _, r := range items {
			if r.Completed {
				filtered = append(filtered, r)
			}
		}
		items = filtered
	case "":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q, expected pending or completed", status)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCompleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.reminders.Complete(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s marked as completed.", id)), nil
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.reminders.Delete(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

func (s *Server) handleAddNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	note, err := s.notes.Add(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add note: %v", err)), nil
	}

	output, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListNotes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.notes.All()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No notes found."), nil
	}

	output, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleDeleteNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("ref is required"), nil
	}

	ok, err := s.notes.Delete(ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no note matches %q", ref)), nil
	}
	return mcp.NewToolResultText("Note deleted."), nil
}

func (s *Server) handleAddTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	todo, err := s.todos.Add(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add todo: %v", err)), nil
	}

	output, _ := json.MarshalIndent(todo, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListTodos(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.todos.All()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list todos: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No todos found."), nil
	}

	output, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCompleteTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("ref is required"), nil
	}

	ok, err := s.todos.Complete(ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete todo: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no todo matches %q", ref)), nil
	}
	return mcp.NewToolResultText("Todo marked as completed."), nil
}

func (s *Server) handleDeleteTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("ref is required"), nil
	}

	ok, err := s.todos.Delete(ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete todo: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no todo matches %q", ref)), nil
	}
	return mcp.NewToolResultText("Todo deleted."), nil
}
