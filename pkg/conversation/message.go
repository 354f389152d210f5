// Package conversation projects a PPT tree onto the conversational message
// shape: an ordered list of role/content pairs.
package conversation

import "github.com/papercomputeco/pptree/pkg/ppt"

// Message is a single role/content pair in a conversation.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant"
	Content string `json:"content"` // the turn's main text
}

// NewMessage creates a message for the given role and content.
func NewMessage(role ppt.Role, content string) Message {
	return Message{Role: string(role), Content: content}
}

// Project maps each turn to a message carrying its main text, preserving
// order. Alternatives are ignored.
func Project(turns ppt.PT) []Message {
	messages := make([]Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, NewMessage(turn.Role, turn.Main))
	}
	return messages
}
