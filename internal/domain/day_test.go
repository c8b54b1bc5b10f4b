package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDay_DateString(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "date 2024-12-12",
			date:     time.Date(2024, 12, 12, 10, 0, 0, 0, time.UTC),
			expected: "2024-12-12",
		},
		{
			name:     "date 2024-01-01",
			date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := Day{Date: tt.date}
			assert.Equal(t, tt.expected, day.DateString())
		})
	}
}

func TestDay_DisplayString(t *testing.T) {
	now := time.Date(2024, 6, 20, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "today",
			date:     now,
			expected: "Today",
		},
		{
			name:     "yesterday",
			date:     now.AddDate(0, 0, -1),
			expected: "Yesterday",
		},
		{
			name:     "same year",
			date:     time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: "Sat 15 Jun",
		},
		{
			name:     "previous year",
			date:     time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: "31 Dec 2023",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := Day{Date: tt.date}
			assert.Equal(t, tt.expected, day.DisplayString(now))
		})
	}
}

func TestISOWeek(t *testing.T) {
	assert.Equal(t, "2024-W07", ISOWeek(time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)))
	// Jan 1st 2021 belongs to the last ISO week of 2020
	assert.Equal(t, "2020-W53", ISOWeek(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}
