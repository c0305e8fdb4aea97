package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	// RoleUser is a question asked by the caller.
	RoleUser Role = "user"

	// RoleAssistant is an answer produced by the synthesizer.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Turn is a single exchange entry within a session.
type Turn struct {
	// Role is who produced the text.
	Role Role

	// Text is the turn content.
	Text string

	// Timestamp is when the turn was recorded.
	Timestamp time.Time
}

// Session is a caller-identified conversational thread with bounded turn
// history. The identifier is opaque; no authentication or identity binding
// happens at this layer.
type Session struct {
	// ID is the opaque caller-supplied session identifier.
	ID string

	// Turns is the retained history, oldest first.
	Turns []Turn

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time
}
