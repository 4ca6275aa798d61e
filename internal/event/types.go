package event

import "github.com/fraudlens-ai/fraudlens/pkg/types"

// EventType identifies a bus event.
type EventType string

// Event types published by the server.
const (
	SessionCreated         EventType = "session.created"
	SessionMessageAppended EventType = "session.message.appended"
	AnalysisCompleted      EventType = "analysis.completed"
	ProviderValidated      EventType = "provider.validated"
	BreakerStateChanged    EventType = "breaker.state.changed"
	ProfileReloaded        EventType = "profile.reloaded"
)

// Event is a single bus notification.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// SessionCreatedData is the payload for session.created events.
type SessionCreatedData struct {
	Info types.SessionInfo `json:"info"`
}

// SessionMessageAppendedData is the payload for session.message.appended
// events. One event fires per appended turn, so a chat exchange emits two.
type SessionMessageAppendedData struct {
	SessionID string        `json:"sessionID"`
	Message   types.Message `json:"message"`
}

// AnalysisCompletedData is the payload for analysis.completed events.
type AnalysisCompletedData struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Profile   string `json:"profile,omitempty"`
	AccountID string `json:"accountID,omitempty"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// ProviderValidatedData is the payload for provider.validated events.
type ProviderValidatedData struct {
	Provider  string `json:"provider"`
	OK        bool   `json:"ok"`
	Detail    string `json:"detail,omitempty"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// BreakerStateChangedData is the payload for breaker.state.changed events,
// fired from the resilience layer's state change hook.
type BreakerStateChangedData struct {
	Target string `json:"target"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// ProfileReloadedData is the payload for profile.reloaded events.
type ProfileReloadedData struct {
	Profiles []string `json:"profiles"`
}
