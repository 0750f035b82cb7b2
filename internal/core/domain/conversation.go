package domain

import "time"

// ConversationMessage is one turn of a chat session. Sessions are identified
// by an opaque session id supplied by the caller; history is capped per
// session by the chat use case.
type ConversationMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReply is the answer produced for one chat turn, with the context
// fragments the answer was grounded on.
type ChatReply struct {
	SessionID string         `json:"session_id"`
	Answer    string         `json:"answer"`
	Sources   []ScoredResult `json:"sources"`
}
