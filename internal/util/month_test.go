package util

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{"mid year", 2024, 6, 2024, 5},
		{"january wraps to december", 2024, 1, 2023, 12},
		{"february", 2024, 2, 2024, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
			if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
				t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
					tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, 2)
	if !from.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected Feb 1, got %v", from)
	}
	// 2024 is a leap year
	if !to.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected Feb 29, got %v", to)
	}

	from, to = MonthRange(2023, 12)
	if !from.Equal(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected Dec 1, got %v", from)
	}
	if !to.Equal(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected Dec 31, got %v", to)
	}
}
