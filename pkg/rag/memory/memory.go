package memory

import (
	"sync"
)

// Turn roles as stored in the conversation log.
const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// Turn is one entry of the conversation log.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an append-only, ordered turn log for a single chat session.
// The caller appends the human turn before a pipeline run and the serialized
// answer after it; the pipeline itself only ever sees snapshots.
//
// Growth is unbounded by default. With a positive maxTurns the log keeps only
// the most recent maxTurns entries (oldest evicted first).
type Conversation struct {
	mu       sync.Mutex
	turns    []Turn
	maxTurns int
}

type ConversationOption func(*Conversation)

// WithMaxTurns bounds the log to the last n turns. n <= 0 means unbounded.
func WithMaxTurns(n int) ConversationOption {
	return func(c *Conversation) {
		c.maxTurns = n
	}
}

func NewConversation(opts ...ConversationOption) *Conversation {
	c := &Conversation{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append adds a turn to the end of the log.
func (c *Conversation) Append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, Turn{Role: role, Content: content})

	if c.maxTurns > 0 && len(c.turns) > c.maxTurns {
		overflow := len(c.turns) - c.maxTurns
		c.turns = append(c.turns[:0:0], c.turns[overflow:]...)
	}
}

// Snapshot returns an immutable copy of the log, so an in-flight pipeline run
// keeps a consistent view even if a later query appends concurrently.
func (c *Conversation) Snapshot() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns currently held.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
