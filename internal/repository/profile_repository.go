package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/iliyamo/attendance-scheduler/internal/model"
)

// ProfileRepo reads attendance profiles and their contact projection
// from the attendance_records table.  The table is owned by the
// upstream attendance API; this service only ever reads it.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// ListAll returns every attendance profile, active or not.  The
// scheduler counts all rows as "considered" and skips inactive ones
// itself, so no is_active filter is applied here.
func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.AttendanceProfile, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, is_active, timezone, random_window_minutes,
		        entry_enabled, entry_local_time, entry_days,
		        exit_enabled, exit_local_time, exit_days
		 FROM attendance_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.AttendanceProfile
	for rows.Next() {
		var (
			p         model.AttendanceProfile
			tz        sql.NullString
			window    sql.NullInt64
			entryTime sql.NullString
			exitTime  sql.NullString
			entryDays []byte
			exitDays  []byte
		)
		if err := rows.Scan(&p.UserID, &p.IsActive, &tz, &window,
			&p.EntryEnabled, &entryTime, &entryDays,
			&p.ExitEnabled, &exitTime, &exitDays); err != nil {
			return nil, err
		}
		p.Timezone = tz.String
		p.RandomWindowMinutes = int(window.Int64)
		if entryTime.Valid {
			v := entryTime.String
			p.EntryLocalTime = &v
		}
		if exitTime.Valid {
			v := exitTime.String
			p.ExitLocalTime = &v
		}
		p.EntryDays = decodeDayList(entryDays)
		p.ExitDays = decodeDayList(exitDays)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ListContactsByUserIDs returns the contact projection for the given
// user ids.  Callers pass the deduplicated id set of a pending event
// batch; an empty input short-circuits to an empty result.
func (r *ProfileRepo) ListContactsByUserIDs(ctx context.Context, userIDs []string) ([]model.ContactProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		args = append(args, id)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, phone_number, location_address, location_latitude, location_longitude
		 FROM attendance_records WHERE user_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []model.ContactProfile
	for rows.Next() {
		var (
			c       model.ContactProfile
			phone   sql.NullString
			address sql.NullString
			lat     sql.NullFloat64
			lng     sql.NullFloat64
		)
		if err := rows.Scan(&c.UserID, &phone, &address, &lat, &lng); err != nil {
			return nil, err
		}
		if phone.Valid {
			v := phone.String
			c.PhoneNumber = &v
		}
		c.LocationAddress = address.String
		c.LocationLatitude = lat.Float64
		c.LocationLongitude = lng.Float64
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// decodeDayList unmarshals a JSON weekday array column.  NULL or
// malformed values read as nil, which the evaluator treats as "every
// day" rather than failing the scheduler run over one bad row.
func decodeDayList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil
	}
	return days
}
