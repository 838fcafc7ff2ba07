package reminder

import (
	"testing"
	"time"
)

var parseNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func TestParseTimePhrase(t *testing.T) {
	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"in 20 minutes", parseNow.Add(20 * time.Minute)},
		{"in 1 min", parseNow.Add(time.Minute)},
		{"in 2 hours", parseNow.Add(2 * time.Hour)},
		{"in 1 hr", parseNow.Add(time.Hour)},
		{"5:30 pm", time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)},
		{"5:30PM", time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)},
		{"12 am", time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)},
		{"17:30", time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)},
		// 9:00 has already passed at 10:00, so it rolls to tomorrow.
		{"9", time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)},
		{"11", time.Date(2024, 1, 1, 11, 0, 0, 0, time.Local)},
		{"2024-02-14 08:30", time.Date(2024, 2, 14, 8, 30, 0, 0, time.Local)},
		{"25 Dec 2025", time.Date(2025, 12, 25, 0, 0, 0, 0, time.Local)},
		{"25 dec 2025", time.Date(2025, 12, 25, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		got, err := ParseTimePhrase(tt.phrase, parseNow)
		if err != nil {
			t.Errorf("ParseTimePhrase(%q): unexpected error %v", tt.phrase, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimePhrase(%q) = %v, want %v", tt.phrase, got, tt.want)
		}
	}
}

func TestParseTimePhraseErrors(t *testing.T) {
	for _, phrase := range []string{"", "whenever", "in some minutes", "99:99", "the cows come home"} {
		if _, err := ParseTimePhrase(phrase, parseNow); err == nil {
			t.Errorf("ParseTimePhrase(%q): expected error", phrase)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("Jan 2, 2025")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}

	if _, err := ParseDate("not a date"); err == nil {
		t.Fatalf("expected error for junk input")
	}
}
