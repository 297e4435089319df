package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2024, 5, 12, 10, 30, 0, 0, hkt)

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "5 秒前", want: now.Add(-5 * time.Second)},
		{in: "5 分鐘前", want: now.Add(-5 * time.Minute)},
		{in: "5小時前", want: now.Add(-5 * time.Hour)},
		{in: " 5 日前", want: now.AddDate(0, 0, -5)},
		{in: "2024年5月11日 17:19", want: time.Date(2024, 5, 11, 17, 19, 0, 0, hkt)},
		{in: "2023年12月1日  8:05", want: time.Date(2023, 12, 1, 8, 5, 0, 0, hkt)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRelativeDate(tt.in, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "剛剛", "yesterday", "2024年5月11日"} {
		_, ok := ParseRelativeDate(bad, now)
		assert.False(t, ok, bad)
	}
}

func TestParseRelativeDate_WallClock(t *testing.T) {
	got, ok := ParseRelativeDate("5 分鐘前", time.Now())
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(-5*time.Minute), got, time.Second)

	got, ok = ParseRelativeDate("2024年5月11日 17:19", time.Now())
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 11, got.Day())
	assert.Equal(t, 17, got.Hour())
	assert.Equal(t, 19, got.Minute())
}
