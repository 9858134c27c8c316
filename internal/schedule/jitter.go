package schedule

import (
	"fmt"
	"unicode/utf16"
)

// OffsetMinutes computes the deterministic jitter for one event
// instance.  The same (userID, date, eventType, window) inputs always
// yield the same offset, so the scheduler can be re-invoked any number
// of times per day without drifting the chosen instant: the due check
// and the persisted offset_minutes always agree.  The result lies in
// [-windowMinutes, windowMinutes]; a non-positive window disables
// jitter entirely.
func OffsetMinutes(userID, date, eventType string, windowMinutes int) int {
	if windowMinutes <= 0 {
		return 0
	}
	h := seedHash(fmt.Sprintf("%s:%s:%s", userID, date, eventType))
	span := int64(windowMinutes)*2 + 1
	return int(h%span) - windowMinutes
}

// seedHash is a 31-multiplier rolling hash accumulated in 32-bit
// two's-complement arithmetic, returned as the absolute value widened
// to int64 (the absolute value of math.MinInt32 does not fit in an
// int32).  Each code point contributes its leading UTF-16 code unit,
// so a rune beyond the BMP hashes as its high surrogate.
func seedHash(s string) int64 {
	var h uint32
	for _, r := range s {
		if r > 0xFFFF {
			r, _ = utf16.EncodeRune(r)
		}
		h = h*31 + uint32(r)
	}
	v := int64(int32(h))
	if v < 0 {
		v = -v
	}
	return v
}
