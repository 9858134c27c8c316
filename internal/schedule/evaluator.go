package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/attendance-scheduler/internal/model"
)

// Evaluate decides whether one profile rule ("entry" or "exit") is due
// at the given local instant and, if so, returns the fully populated
// event instance.  The function is pure: "now" must already be
// projected into the profile's zone (see SafeLocation) and is the only
// notion of time used, which keeps the evaluator deterministic and
// testable without a wall clock.
//
// The steps mirror the recurrence policy:
//  1. a disabled rule or a rule without a configured local time yields nothing;
//  2. a non-empty weekday allow-list that excludes today's local weekday yields nothing;
//  3. the base local time is today's date at the configured HH:MM:SS;
//  4. the deterministic jitter offset shifts the base time;
//  5. the shifted time is clamped into the local day, jitter never crosses midnight;
//  6. the rule is due only once "now" has reached the scheduled local time.
func Evaluate(p model.AttendanceProfile, eventType string, now time.Time) *model.ScheduleEvent {
	var enabled bool
	var baseTime *string
	var days []string
	switch eventType {
	case model.EventTypeEntry:
		enabled, baseTime, days = p.EntryEnabled, p.EntryLocalTime, p.EntryDays
	case model.EventTypeExit:
		enabled, baseTime, days = p.ExitEnabled, p.ExitLocalTime, p.ExitDays
	default:
		return nil
	}
	if !enabled || baseTime == nil || *baseTime == "" {
		return nil
	}

	localDay := strings.ToLower(now.Weekday().String())
	if !matchesDay(days, localDay) {
		return nil
	}

	window := p.RandomWindowMinutes
	if window < 0 {
		window = 0
	}

	year, month, day := now.Date()
	loc := now.Location()
	hour, minute, second := parseClock(*baseTime)
	base := time.Date(year, month, day, hour, minute, second, 0, loc)

	eventDate := now.Format("2006-01-02")
	offset := OffsetMinutes(p.UserID, eventDate, eventType, window)
	scheduled := base.Add(time.Duration(offset) * time.Minute)

	// Clamp into [00:00:00, 23:59:59] of the local day.
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)
	if scheduled.Before(dayStart) {
		scheduled = dayStart
	}
	if scheduled.After(dayEnd) {
		scheduled = dayEnd
	}

	if now.Before(scheduled) {
		return nil
	}

	return &model.ScheduleEvent{
		UserID:              p.UserID,
		EventType:           eventType,
		EventDate:           eventDate,
		ScheduledFor:        scheduled.UTC(),
		Timezone:            p.Timezone,
		BaseLocalTime:       *baseTime,
		RandomWindowMinutes: window,
		OffsetMinutes:       offset,
	}
}

// matchesDay reports whether today's lowercase weekday name passes the
// allow-list.  An absent or empty list allows every day.
func matchesDay(days []string, today string) bool {
	if len(days) == 0 {
		return true
	}
	for _, d := range days {
		if strings.ToLower(strings.TrimSpace(d)) == today {
			return true
		}
	}
	return false
}

// parseClock splits "HH:MM:SS" into its components.  Missing or
// non-numeric parts read as zero, so "09:00" and malformed values
// degrade instead of failing the whole evaluation.
func parseClock(value string) (hour, minute, second int) {
	parts := strings.Split(value, ":")
	read := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0
		}
		return n
	}
	return read(0), read(1), read(2)
}
