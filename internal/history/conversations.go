// Package history stores past interactions: chat conversations, voice
// transcripts and PDF summaries. Each list is newest-first and lives in its
// own store partition.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/store"
)

// ErrNotFound is returned when a record id does not match anything.
var ErrNotFound = errors.New("not found")

// Message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "ai"
)

const greeting = "Hello! I'm your AI assistant. How can I help you today?"

// Message is one chat message inside a conversation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a titled chat thread.
type Conversation struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"createdAt"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Messages      []Message `json:"messages"`
}

// Conversations manages the chat threads and the active-conversation pointer.
type Conversations struct {
	store *store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewConversations creates a conversation manager backed by the given store.
func NewConversations(st *store.Store) *Conversations {
	return &Conversations{store: st, now: time.Now}
}

// SetClock overrides the wall clock, for tests.
func (c *Conversations) SetClock(now func() time.Time) { c.now = now }

// All returns every conversation, newest first.
func (c *Conversations) All() ([]Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Conversations) load() ([]Conversation, error) {
	var items []Conversation
	if _, err := c.store.Load(store.PartitionConversations, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create starts a new conversation with a greeting message, makes it active
// and returns it. An empty title gets a dated placeholder that auto-titling
// replaces on the first user message.
func (c *Conversations) Create(title string) (Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if title == "" {
		title = "Chat " + now.Format("1/2/2006")
	}
	conv := Conversation{
		ID:            uuid.NewString(),
		Title:         title,
		CreatedAt:     now,
		LastMessageAt: now,
		Messages: []Message{{
			ID:        uuid.NewString(),
			Text:      greeting,
			Sender:    SenderAssistant,
			Timestamp: now,
		}},
	}

	items, err := c.load()
	if err != nil {
		return Conversation{}, err
	}
	items = append([]Conversation{conv}, items...)
	if err := c.store.Save(store.PartitionConversations, items); err != nil {
		return Conversation{}, err
	}
	if err := c.store.Save(store.PartitionActiveConversation, conv.ID); err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

// AppendMessage adds a message to the identified conversation. The first
// user message replaces a placeholder "Chat ..." title with a truncated copy
// of its text.
func (c *Conversations) AppendMessage(convID, sender, text string) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return Message{}, err
	}

	for i := range items {
		if items[i].ID != convID {
			continue
		}
		msg := Message{
			ID:        uuid.NewString(),
			Text:      text,
			Sender:    sender,
			Timestamp: c.now(),
		}
		items[i].Messages = append(items[i].Messages, msg)
		items[i].LastMessageAt = msg.Timestamp

		if sender == SenderUser && len(items[i].Title) >= 5 && items[i].Title[:5] == "Chat " {
			title := text
			if len(title) > 50 {
				title = title[:50] + "..."
			}
			items[i].Title = title
		}

		if err := c.store.Save(store.PartitionConversations, items); err != nil {
			return Message{}, err
		}
		return msg, nil
	}
	return Message{}, ErrNotFound
}

// ActiveID returns the id of the active conversation, or "" when none is set.
func (c *Conversations) ActiveID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var id string
	if _, err := c.store.Load(store.PartitionActiveConversation, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetActive records the active conversation pointer.
func (c *Conversations) SetActive(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Save(store.PartitionActiveConversation, id)
}

// Delete removes one conversation, clearing the active pointer if it pointed
// at the removed thread.
func (c *Conversations) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	kept := items[:0]
	found := false
	for _, conv := range items {
		if conv.ID == id {
			found = true
			continue
		}
		kept = append(kept, conv)
	}
	if !found {
		return ErrNotFound
	}
	if err := c.store.Save(store.PartitionConversations, kept); err != nil {
		return err
	}

	var active string
	if _, err := c.store.Load(store.PartitionActiveConversation, &active); err != nil {
		return err
	}
	if active == id {
		return c.store.Clear(store.PartitionActiveConversation)
	}
	return nil
}

// ClearAll removes every conversation and the active pointer.
func (c *Conversations) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(store.PartitionConversations); err != nil {
		return err
	}
	return c.store.Clear(store.PartitionActiveConversation)
}
