package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"America/Lima", "America/Lima"},
		{"UTC-05:00 America/Lima", "America/Lima"},
		{"UTC-05:00 (America/Lima)", "America/Lima"},
		{"Europe/Berlin America/Lima", "America/Lima"}, // rightmost wins
		{"UTC-05:00", "UTC-05:00"},
		{"-05:00", "UTC-05:00"},
		{"utc+09:30", "UTC+09:30"},
		{"garbage", "UTC"},
		{"", "UTC"},
		{"   ", "UTC"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestSafeLocation_IANA(t *testing.T) {
	t.Parallel()

	loc := SafeLocation("America/Lima")
	require.Equal(t, "America/Lima", loc.String())
}

func TestSafeLocation_FixedOffset(t *testing.T) {
	t.Parallel()

	loc := SafeLocation("UTC-05:00")
	_, offset := time.Now().In(loc).Zone()
	require.Equal(t, -5*3600, offset)
}

func TestSafeLocation_Fallbacks(t *testing.T) {
	t.Parallel()

	require.Equal(t, time.UTC, SafeLocation("garbage"))
	require.Equal(t, time.UTC, SafeLocation(""))
	// Normalized to an IANA-looking name that does not exist: the
	// validation stage must still fall back.
	require.Equal(t, time.UTC, SafeLocation("Nowhere/Imaginary"))
	// Malformed offsets never reach FixedZone.
	require.Equal(t, time.UTC, SafeLocation("UTC-5:00"))
}

func TestFormatLocal(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

	date, clock := FormatLocal(instant, "America/Lima")
	require.Equal(t, "05/03/2024", date)
	require.Equal(t, "09:07", clock)

	// A fixed offset behaves identically.
	date, clock = FormatLocal(instant, "UTC-05:00")
	require.Equal(t, "05/03/2024", date)
	require.Equal(t, "09:07", clock)

	// Garbage zones render in UTC rather than failing.
	date, clock = FormatLocal(instant, "garbage")
	require.Equal(t, "05/03/2024", date)
	require.Equal(t, "14:07", clock)
}

func TestFormatLocal_DateRollsOverAcrossZones(t *testing.T) {
	t.Parallel()

	// 01:30 UTC is still the previous day in Lima.
	instant := time.Date(2024, 3, 5, 1, 30, 0, 0, time.UTC)
	date, clock := FormatLocal(instant, "America/Lima")
	require.Equal(t, "04/03/2024", date)
	require.Equal(t, "20:30", clock)
}
