// Package events contains the event contracts pushed to dashboard clients
// over the WebSocket connection.
package events

import "time"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnected is sent once when a client connects.
	MessageTypeConnected MessageType = "connected"
	// MessageTypeDataReloaded is broadcast after the dataset file changed
	// and the store picked up the new version.
	MessageTypeDataReloaded MessageType = "data_reloaded"
)

// Event is the envelope every WebSocket message uses.
type Event struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(t MessageType, payload interface{}) Event {
	return Event{Type: t, Timestamp: time.Now().UTC(), Payload: payload}
}

// ReloadPayload describes a dataset reload to connected clients.
type ReloadPayload struct {
	Version      string    `json:"version"`
	LoadedAt     time.Time `json:"loaded_at"`
	TotalRecords int       `json:"total_records"`
	GateEntries  int       `json:"gate_entries"`
	HDEntries    int       `json:"hd_entries"`
}
