package services

import (
	"errors"
	"testing"

	"neirocalendar/internal/core"
)

func TestMonthlyOccurrences(t *testing.T) {
	tests := []struct {
		name   string
		start  core.Date
		months int
		want   []core.Date
	}{
		{
			name:   "plain day",
			start:  core.NewDate(2024, 11, 15),
			months: 3,
			want:   []core.Date{core.NewDate(2024, 11, 15), core.NewDate(2024, 12, 15), core.NewDate(2025, 1, 15)},
		},
		{
			name:   "end of month clamps",
			start:  core.NewDate(2024, 1, 31),
			months: 4,
			want:   []core.Date{core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 29), core.NewDate(2024, 3, 31), core.NewDate(2024, 4, 30)},
		},
		{
			name:   "30th in a non-leap year",
			start:  core.NewDate(2023, 1, 30),
			months: 2,
			want:   []core.Date{core.NewDate(2023, 1, 30), core.NewDate(2023, 2, 28)},
		},
		{
			name:   "29th keeps leap day",
			start:  core.NewDate(2024, 1, 29),
			months: 2,
			want:   []core.Date{core.NewDate(2024, 1, 29), core.NewDate(2024, 2, 29)},
		},
		{
			name:   "single month",
			start:  core.NewDate(2024, 2, 29),
			months: 1,
			want:   []core.Date{core.NewDate(2024, 2, 29)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyOccurrences(tt.start, tt.months)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("occurrence %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMonthlyOccurrences_Bounds(t *testing.T) {
	for _, months := range []int{0, -1, MaxRecurringMonths + 1} {
		if _, err := MonthlyOccurrences(core.NewDate(2024, 1, 1), months); !errors.Is(err, core.ErrInvalidMonths) {
			t.Errorf("months=%d: expected ErrInvalidMonths, got %v", months, err)
		}
	}
}
