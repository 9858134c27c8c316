// Package queue defines message payloads exchanged over the message
// broker and the background audit consumer.
package queue

// EventMaterialized is published whenever the scheduler's upsert
// creates a new attendance event row.  It carries enough for
// downstream consumers to log or trigger analytics without querying
// the primary database.
type EventMaterialized struct {
	EventID      uint64 `json:"event_id"`
	UserID       string `json:"user_id"`
	EventType    string `json:"event_type"`
	EventDate    string `json:"event_date"`
	ScheduledFor string `json:"scheduled_for"`
}
