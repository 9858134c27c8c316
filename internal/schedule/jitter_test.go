package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOffsetMinutes_Deterministic(t *testing.T) {
	t.Parallel()

	first := OffsetMinutes("u1", "2024-03-05", "entry", 10)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, OffsetMinutes("u1", "2024-03-05", "entry", 10))
	}
}

func TestOffsetMinutes_WithinWindow(t *testing.T) {
	t.Parallel()

	windows := []int{1, 5, 10, 30, 60, 720}
	for _, w := range windows {
		for i := 0; i < 50; i++ {
			userID := fmt.Sprintf("user-%d", i)
			offset := OffsetMinutes(userID, "2024-03-05", "exit", w)
			require.GreaterOrEqual(t, offset, -w, "window=%d user=%s", w, userID)
			require.LessOrEqual(t, offset, w, "window=%d user=%s", w, userID)
		}
	}
}

func TestOffsetMinutes_ZeroOrNegativeWindow(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, OffsetMinutes("u1", "2024-03-05", "entry", 0))
	require.Equal(t, 0, OffsetMinutes("u1", "2024-03-05", "entry", -3))
}

func TestOffsetMinutes_InputsChangeOffset(t *testing.T) {
	t.Parallel()

	// Not a hard guarantee for any single pair, but across a spread of
	// users the offsets must not all collapse to one value; that is the
	// whole point of the jitter.
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		seen[OffsetMinutes(fmt.Sprintf("user-%d", i), "2024-03-05", "entry", 30)] = true
	}
	require.Greater(t, len(seen), 1)
}

func TestSeedHash_KnownValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(0), seedHash(""))
	require.Equal(t, int64('a'), seedHash("a"))
	require.Equal(t, int64('a')*31+int64('b'), seedHash("ab"))
}

func TestSeedHash_AstralRunesUseLeadingSurrogate(t *testing.T) {
	t.Parallel()

	// A code point beyond the BMP contributes only its high surrogate:
	// U+1F600 encodes as the pair D83D DE00, and the hash sees D83D.
	require.Equal(t, int64(0xD83D), seedHash("\U0001F600"))

	// U+1F601 shares the same high surrogate, so the hashes collide.
	require.Equal(t, seedHash("\U0001F600"), seedHash("\U0001F601"))

	// The surrogate also participates in the rolling accumulation.
	require.Equal(t, int64('a')*31+0xD83D, seedHash("a\U0001F600"))
}

func TestOffsetMinutes_DistinguishesEventType(t *testing.T) {
	t.Parallel()

	// entry and exit hash different seed strings; verify the seeds are
	// independent rather than asserting inequality (they may collide).
	entry := OffsetMinutes("u1", "2024-03-05", "entry", 60)
	exit := OffsetMinutes("u1", "2024-03-05", "exit", 60)
	require.Equal(t, entry, OffsetMinutes("u1", "2024-03-05", "entry", 60))
	require.Equal(t, exit, OffsetMinutes("u1", "2024-03-05", "exit", 60))
}
