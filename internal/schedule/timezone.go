package schedule // package schedule contains the pure scheduling logic: zone handling, jitter and the recurrence evaluator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// offsetPattern matches a "±HH:MM" UTC offset, optionally prefixed with
// "UTC" (e.g. "UTC-05:00" or "-05:00").  Group 2 captures the offset.
var offsetPattern = regexp.MustCompile(`(?i)(UTC)?([+-]\d{2}:\d{2})`)

// Normalize reduces a free-text zone descriptor to a candidate zone
// identifier.  Profiles store whatever the user typed, which in practice
// is one of three shapes: a label that embeds an IANA name (e.g.
// "UTC-05:00 America/Lima"), a bare UTC offset, or garbage.  The policy
// is: prefer the rightmost token containing a "/" (parentheses
// stripped), else a fixed "UTC±HH:MM" built from an offset pattern,
// else "UTC".  Normalize never fails; validation against real zone data
// happens in SafeLocation.
func Normalize(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "UTC"
	}
	parts := strings.Fields(trimmed)
	for i := len(parts) - 1; i >= 0; i-- {
		token := strings.NewReplacer("(", "", ")", "").Replace(parts[i])
		if strings.Contains(token, "/") {
			return token
		}
	}
	if m := offsetPattern.FindStringSubmatch(trimmed); m != nil {
		return "UTC" + m[2]
	}
	return "UTC"
}

// SafeLocation resolves a free-text zone descriptor into a usable
// *time.Location.  The candidate from Normalize is validated by
// actually loading it; anything that cannot be applied to the current
// instant falls back to UTC so garbage zone strings never propagate
// into date arithmetic.
func SafeLocation(value string) *time.Location {
	name := Normalize(value)
	if loc, ok := loadZone(name); ok {
		return loc
	}
	return time.UTC
}

// loadZone turns a normalized zone name into a location.  Fixed
// "UTC±HH:MM" names become fixed-offset zones; everything else is
// looked up in the IANA database.
func loadZone(name string) (*time.Location, bool) {
	if name == "UTC" {
		return time.UTC, true
	}
	if strings.HasPrefix(name, "UTC+") || strings.HasPrefix(name, "UTC-") {
		seconds, ok := parseOffsetSeconds(name[3:])
		if !ok {
			return nil, false
		}
		return time.FixedZone(name, seconds), true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// parseOffsetSeconds parses "±HH:MM" into an offset in seconds.
func parseOffsetSeconds(s string) (int, bool) {
	if len(s) != 6 || s[3] != ':' {
		return 0, false
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false
	}
	hours, err := strconv.Atoi(s[1:3])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(s[4:6])
	if err != nil {
		return 0, false
	}
	return sign * (hours*3600 + minutes*60), true
}

// FormatLocal projects a stored UTC instant into the profile's zone and
// returns the localized date ("DD/MM/YYYY") and time ("HH:MM") strings
// used by the notification template.
func FormatLocal(instant time.Time, timezone string) (date string, clock string) {
	local := instant.UTC().In(SafeLocation(timezone))
	return local.Format("02/01/2006"), local.Format("15:04")
}
