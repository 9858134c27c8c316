package model

// AttendanceProfile is the recurring schedule configuration stored in
// the attendance_records table.  One row exists per user and drives
// both the entry and the exit check-in rule.  Local times are kept as
// raw "HH:MM:SS" strings and the timezone is stored exactly as the
// user entered it; normalization happens at evaluation time.
//
// Fields:
//  UserID              – attendance_records.user_id (opaque, unique).
//  IsActive            – whether the profile takes part in scheduling.
//  Timezone            – free-text zone descriptor (IANA name, offset, or empty).
//  RandomWindowMinutes – half-width of the jitter window in minutes.
//  EntryEnabled        – whether the entry rule is evaluated at all.
//  EntryLocalTime      – local "HH:MM:SS" for the entry event (nullable).
//  EntryDays           – lowercase weekday allow-list; empty means every day.
//  ExitEnabled         – whether the exit rule is evaluated at all.
//  ExitLocalTime       – local "HH:MM:SS" for the exit event (nullable).
//  ExitDays            – lowercase weekday allow-list; empty means every day.
type AttendanceProfile struct {
	UserID              string   // attendance_records.user_id
	IsActive            bool     // attendance_records.is_active
	Timezone            string   // attendance_records.timezone
	RandomWindowMinutes int      // attendance_records.random_window_minutes
	EntryEnabled        bool     // attendance_records.entry_enabled
	EntryLocalTime      *string  // attendance_records.entry_local_time (nullable)
	EntryDays           []string // attendance_records.entry_days (JSON array, nullable)
	ExitEnabled         bool     // attendance_records.exit_enabled
	ExitLocalTime       *string  // attendance_records.exit_local_time (nullable)
	ExitDays            []string // attendance_records.exit_days (JSON array, nullable)
}

// ContactProfile is the delivery-side projection of the same
// attendance_records row.  The notifier looks these up by user id to
// address the message and to fill the location header.  A missing
// phone number means the user cannot be notified at all.
//
// Fields:
//  UserID            – attendance_records.user_id.
//  PhoneNumber       – E.164 phone number including leading "+" (nullable).
//  LocationAddress   – human-readable check-in address.
//  LocationLatitude  – check-in latitude.
//  LocationLongitude – check-in longitude.
type ContactProfile struct {
	UserID            string  // attendance_records.user_id
	PhoneNumber       *string // attendance_records.phone_number (nullable)
	LocationAddress   string  // attendance_records.location_address
	LocationLatitude  float64 // attendance_records.location_latitude
	LocationLongitude float64 // attendance_records.location_longitude
}
