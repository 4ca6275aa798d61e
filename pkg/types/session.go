package types

import "time"

// SessionInfo is the wire snapshot of a conversation session. The canonical
// session lives in the store; handlers and events carry this point-in-time
// view instead of the mutable instance.
type SessionInfo struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	MessageCount   int       `json:"messageCount"`
}
