package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, "2025-03", p.String())
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "2025", "2025-13", "2025-00", "march-2025", "2025-xx"} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestContains(t *testing.T) {
	p := Period{Year: 2025, Month: time.March}

	assert.True(t, p.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, p.Contains(time.Date(2025, time.March, 31, 23, 59, 59, 0, time.Local)))
	assert.False(t, p.Contains(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.Local)))
	assert.False(t, p.Contains(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)))
}

func TestNext(t *testing.T) {
	p := Period{Year: 2025, Month: time.November}
	assert.Equal(t, Period{Year: 2025, Month: time.December}, p.Next())
	assert.Equal(t, Period{Year: 2026, Month: time.January}, p.Next().Next())
}

func TestStart(t *testing.T) {
	p := Period{Year: 2025, Month: time.February}
	start := p.Start()
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, time.February, start.Month())

	// [Start, Next.Start) covers the whole month, leap day included.
	assert.True(t, p.Contains(p.Next().Start().Add(-time.Second)))
}

func TestOf(t *testing.T) {
	p := Of(time.Date(2025, time.July, 18, 9, 30, 0, 0, time.Local))
	assert.Equal(t, Period{Year: 2025, Month: time.July}, p)
}
