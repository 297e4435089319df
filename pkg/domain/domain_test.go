package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" finance ")
	require.NoError(t, err)
	assert.Equal(t, CategoryFinance, c)
	assert.Equal(t, "finance", c.Key())

	_, err = ParseCategory("weather")
	assert.EqualError(t, err, `unknown category "weather"`)
}

func TestParseLanguage(t *testing.T) {
	for _, s := range []string{"zh-hk", "ZH_HK", " zh-HK"} {
		l, err := ParseLanguage(s)
		require.NoError(t, err, s)
		assert.Equal(t, LanguageZhHK, l)
	}
	_, err := ParseLanguage("fr")
	assert.Error(t, err)
}

func TestJob_Elapsed(t *testing.T) {
	start := time.Date(2024, 5, 11, 17, 0, 0, 0, time.UTC)
	j := Job{StartedAt: start}
	assert.Zero(t, j.Elapsed())

	finished := start.Add(90 * time.Second)
	j.FinishedAt = &finished
	assert.Equal(t, 90*time.Second, j.Elapsed())
}

func TestFormatElapsed(t *testing.T) {
	tbl := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{1500 * time.Millisecond, "00:00:02"},
		{61 * time.Second, "00:01:01"},
		{3*time.Hour + 25*time.Minute + 7*time.Second, "03:25:07"},
		{27 * time.Hour, "27:00:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, FormatElapsed(tt.d), tt.d.String())
	}
}
