package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/attendance-scheduler/internal/model"
)

// EventRepo owns all access to the attendance_events table.  The table
// carries UNIQUE KEY (user_id, event_date, event_type), which is the
// natural idempotency key: at most one event per user per local day
// per type, enforced atomically by the store.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// UpsertEvents persists candidate events with duplicate-ignoring
// semantics and returns only the rows this call actually created
// (with their ids filled in).  INSERT IGNORE makes a re-run during the
// same local day a no-op for already-materialized instances, so the
// RowsAffected check cleanly separates "newly inserted" from
// "duplicate": downstream dispatch fires only for the former.
func (r *EventRepo) UpsertEvents(ctx context.Context, events []model.ScheduleEvent) ([]model.ScheduleEvent, error) {
	inserted := make([]model.ScheduleEvent, 0, len(events))
	for _, ev := range events {
		res, err := r.DB.ExecContext(ctx,
			`INSERT IGNORE INTO attendance_events
			 (user_id, event_type, event_date, scheduled_for, timezone,
			  base_local_time, random_window_minutes, offset_minutes)
			 VALUES (?,?,?,?,?,?,?,?)`,
			ev.UserID, ev.EventType, ev.EventDate, ev.ScheduledFor.UTC(),
			ev.Timezone, ev.BaseLocalTime, ev.RandomWindowMinutes, ev.OffsetMinutes)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue // duplicate for (user_id, event_date, event_type)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ev.ID = uint64(id)
		inserted = append(inserted, ev)
	}
	return inserted, nil
}

// ListPending returns events whose notified_at is still NULL.  Only
// the fields the notifier consumes are selected.
func (r *EventRepo) ListPending(ctx context.Context) ([]model.ScheduleEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, scheduled_for, timezone
		 FROM attendance_events WHERE notified_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ScheduleEvent
	for rows.Next() {
		var (
			ev model.ScheduleEvent
			tz sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.ScheduledFor, &tz); err != nil {
			return nil, err
		}
		ev.Timezone = tz.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

// MarkNotified stamps notified_at for the given event ids in a single
// batch update.  The notified_at IS NULL guard keeps the pending →
// notified transition one-way even if ids are replayed.
func (r *EventRepo) MarkNotified(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE attendance_events SET notified_at = UTC_TIMESTAMP()
		 WHERE id IN (`+placeholders+`) AND notified_at IS NULL`, args...)
	return err
}
