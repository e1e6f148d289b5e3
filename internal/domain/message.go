// Package domain defines the core types and interfaces for the movie-chat
// assistant. All other packages depend on domain; domain depends on nothing
// beyond small utility libraries.
package domain

import (
	"github.com/google/uuid"
)

// Sender identifies who produced a chat message.
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
)

// String returns a human-readable sender name.
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Kind distinguishes plain text messages from custom rendered blocks
// (posters, actor cards, watch buttons).
type Kind int

const (
	KindPlain Kind = iota
	KindBlock
)

// String returns a human-readable message kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Message is a single chat entry. Content may embed inline markup tags
// (<br>, <strong>, block tags). Messages are immutable once appended to
// a Log.
type Message struct {
	ID      string
	Sender  Sender
	Kind    Kind
	Content string
}

// NewMessage creates a message with a fresh ID.
func NewMessage(sender Sender, kind Kind, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Sender:  sender,
		Kind:    kind,
		Content: content,
	}
}

// Log is an ordered, append-only sequence of chat messages. Insertion
// order is chronological. Loading a stored conversation replaces the
// whole log; entries are never merged or edited in place.
//
// Log is not safe for concurrent use. The chat controller owns it and
// all mutation happens on the scheduler queue.
type Log struct {
	entries []Message
}

// NewLog creates an empty message log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a message to the end of the log.
func (l *Log) Append(m Message) {
	l.entries = append(l.entries, m)
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.entries)
}

// Messages returns a copy of the log's entries in chronological order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// Replace swaps the entire log contents. Used when a canned chat history
// is loaded; the previous conversation is discarded, not merged.
func (l *Log) Replace(msgs []Message) {
	l.entries = make([]Message, len(msgs))
	copy(l.entries, msgs)
}

// Clear removes all messages. Used by "start over".
func (l *Log) Clear() {
	l.entries = nil
}
