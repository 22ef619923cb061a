package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 4, 19, 21, 0, 0, 0, time.UTC) // 9:00 PM

func TestParseNow(t *testing.T) {
	res, ok := Parse(testNow, "now")
	require.True(t, ok)
	assert.Equal(t, testNow, res.At)
	assert.Equal(t, "now", res.Display)
}

func TestParseRelative(t *testing.T) {
	tests := []struct {
		text string
		want time.Duration
	}{
		{"in 30 minutes", 30 * time.Minute},
		{"in 1 minute", time.Minute},
		{"in 45 mins", 45 * time.Minute},
		{"in 90 min", 90 * time.Minute},
		{"in 2 hours", 2 * time.Hour},
		{"in 1 hour", time.Hour},
		{"in 3 hrs", 3 * time.Hour},
		{"in 24 hours", 24 * time.Hour},
		{"IN 10 MINUTES", 10 * time.Minute},
		{"  in 5 minutes  ", 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res, ok := Parse(testNow, tt.text)
			require.True(t, ok)
			assert.Equal(t, testNow.Add(tt.want), res.At)
		})
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		// 10pm is still ahead of the 9pm reference time.
		{"at 10pm", time.Date(2025, 4, 19, 22, 0, 0, 0, time.UTC)},
		{"at 10:30pm", time.Date(2025, 4, 19, 22, 30, 0, 0, time.UTC)},
		{"at 22:15", time.Date(2025, 4, 19, 22, 15, 0, 0, time.UTC)},
		// 8pm already passed today, so it rolls to tomorrow.
		{"at 8pm", time.Date(2025, 4, 20, 20, 0, 0, 0, time.UTC)},
		{"at 9am", time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)},
		{"at 12am", time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)},
		{"at 12pm", time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)},
		{"at 0:30", time.Date(2025, 4, 20, 0, 30, 0, 0, time.UTC)},
		{"at 23:59", time.Date(2025, 4, 19, 23, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res, ok := Parse(testNow, tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.At)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []string{
		"",
		"later",
		"tomorrow",
		"in 0 minutes",
		"in -5 minutes",
		"in 1441 minutes",
		"in 1500 minutes",
		"in 25 hours",
		"in ten minutes",
		"in 30 seconds",
		"at 25:00",
		"at 24:00",
		"at 13pm",
		"at 0pm",
		"at 10:75",
		"at",
		"now-ish",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, ok := Parse(testNow, text)
			assert.False(t, ok)
		})
	}
}
