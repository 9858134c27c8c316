package model

import "time"

// Event types stored in attendance_events.event_type.
const (
	EventTypeEntry = "entry"
	EventTypeExit  = "exit"
)

// ScheduleEvent is one concrete, date-stamped instance of a profile's
// entry or exit rule.  The triple (UserID, EventDate, EventType) is
// unique in the store and acts as the idempotency key: re-running the
// scheduler on the same local day never creates a second row.  Rows
// are immutable after insert except for NotifiedAt, which the
// notifier sets exactly once when delivery succeeds.
//
// Fields:
//  ID                  – primary key identifier.
//  UserID              – owner of the event.
//  EventType           – "entry" or "exit".
//  EventDate           – local calendar date "YYYY-MM-DD" (recurrence key).
//  ScheduledFor        – resolved absolute instant in UTC.
//  Timezone            – the profile's raw zone string, kept for audit.
//  BaseLocalTime       – configured "HH:MM:SS" before jitter.
//  RandomWindowMinutes – jitter half-width used for this instance.
//  OffsetMinutes       – signed jitter applied, within [-window, window].
//  NotifiedAt          – delivery timestamp; nil while pending.
type ScheduleEvent struct {
	ID                  uint64     // attendance_events.id
	UserID              string     // attendance_events.user_id
	EventType           string     // attendance_events.event_type
	EventDate           string     // attendance_events.event_date
	ScheduledFor        time.Time  // attendance_events.scheduled_for (UTC)
	Timezone            string     // attendance_events.timezone
	BaseLocalTime       string     // attendance_events.base_local_time
	RandomWindowMinutes int        // attendance_events.random_window_minutes
	OffsetMinutes       int        // attendance_events.offset_minutes
	NotifiedAt          *time.Time // attendance_events.notified_at (nullable)
}
