package recurrence

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/fintrack/internal/domain"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func datePtr(t *testing.T, s string) *civil.Date {
	t.Helper()
	d := date(t, s)
	return &d
}

func TestNext(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		freq   domain.Frequency
		want   string
	}{
		{"daily", "2024-01-01", domain.FrequencyDaily, "2024-01-02"},
		{"daily across month end", "2024-01-31", domain.FrequencyDaily, "2024-02-01"},
		{"weekly", "2024-01-01", domain.FrequencyWeekly, "2024-01-08"},
		{"weekly across year end", "2023-12-28", domain.FrequencyWeekly, "2024-01-04"},
		{"monthly", "2024-03-15", domain.FrequencyMonthly, "2024-04-15"},
		{"monthly clamps to leap February", "2024-01-31", domain.FrequencyMonthly, "2024-02-29"},
		{"monthly clamps to short February", "2023-01-31", domain.FrequencyMonthly, "2023-02-28"},
		{"monthly 31st to 30-day month", "2024-03-31", domain.FrequencyMonthly, "2024-04-30"},
		{"monthly across year end", "2023-12-15", domain.FrequencyMonthly, "2024-01-15"},
		{"yearly", "2023-06-15", domain.FrequencyYearly, "2024-06-15"},
		{"yearly clamps Feb 29", "2024-02-29", domain.FrequencyYearly, "2025-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(date(t, tt.anchor), tt.freq)
			if err != nil {
				t.Fatalf("Next(%s, %s): unexpected error: %v", tt.anchor, tt.freq, err)
			}
			if got != date(t, tt.want) {
				t.Errorf("Next(%s, %s) = %s, want %s", tt.anchor, tt.freq, got, tt.want)
			}
		})
	}
}

func TestNext_UnknownFrequency(t *testing.T) {
	_, err := Next(date(t, "2024-01-01"), domain.Frequency("fortnightly"))
	if !errors.Is(err, ErrUnknownFrequency) {
		t.Errorf("expected ErrUnknownFrequency, got %v", err)
	}
}

func TestDueOccurrences(t *testing.T) {
	tests := []struct {
		name  string
		sched domain.ScheduledTransaction
		today string
		want  []string
	}{
		{
			// The anchor advances to the clamped Feb 29, so March derives
			// from the 29th, not the original 31st.
			name: "monthly month-end replay with leap clamp",
			sched: domain.ScheduledTransaction{
				Frequency: domain.FrequencyMonthly,
				StartDate: date(t, "2024-01-31"),
			},
			today: "2024-04-01",
			want:  []string{"2024-02-29", "2024-03-29"},
		},
		{
			name: "weekly replays every missed period",
			sched: domain.ScheduledTransaction{
				Frequency: domain.FrequencyWeekly,
				StartDate: date(t, "2024-01-01"),
			},
			today: "2024-01-22",
			want:  []string{"2024-01-08", "2024-01-15", "2024-01-22"},
		},
		{
			name: "daily stops at end date",
			sched: domain.ScheduledTransaction{
				Frequency: domain.FrequencyDaily,
				StartDate: date(t, "2024-01-01"),
				EndDate:   datePtr(t, "2024-01-03"),
			},
			today: "2024-01-10",
			want:  []string{"2024-01-02", "2024-01-03"},
		},
		{
			name: "yearly not yet due",
			sched: domain.ScheduledTransaction{
				Frequency:         domain.FrequencyYearly,
				StartDate:         date(t, "2020-06-15"),
				LastProcessedDate: datePtr(t, "2023-06-15"),
			},
			today: "2023-06-14",
			want:  nil,
		},
		{
			name: "start date in the future",
			sched: domain.ScheduledTransaction{
				Frequency: domain.FrequencyDaily,
				StartDate: date(t, "2024-02-01"),
			},
			today: "2024-01-15",
			want:  nil,
		},
		{
			name: "caught-up schedule produces nothing",
			sched: domain.ScheduledTransaction{
				Frequency:         domain.FrequencyMonthly,
				StartDate:         date(t, "2023-01-10"),
				LastProcessedDate: datePtr(t, "2024-01-10"),
			},
			today: "2024-01-31",
			want:  nil,
		},
		{
			name: "anchor is last processed date, not start date",
			sched: domain.ScheduledTransaction{
				Frequency:         domain.FrequencyWeekly,
				StartDate:         date(t, "2023-01-02"),
				LastProcessedDate: datePtr(t, "2024-01-01"),
			},
			today: "2024-01-15",
			want:  []string{"2024-01-08", "2024-01-15"},
		},
		{
			name: "occurrence due exactly today fires",
			sched: domain.ScheduledTransaction{
				Frequency:         domain.FrequencyDaily,
				StartDate:         date(t, "2024-01-01"),
				LastProcessedDate: datePtr(t, "2024-01-09"),
			},
			today: "2024-01-10",
			want:  []string{"2024-01-10"},
		},
		{
			name: "start date itself never fires",
			sched: domain.ScheduledTransaction{
				Frequency: domain.FrequencyDaily,
				StartDate: date(t, "2024-01-05"),
			},
			today: "2024-01-05",
			want:  nil,
		},
		{
			name: "end date equal to occurrence still fires",
			sched: domain.ScheduledTransaction{
				Frequency: domain.FrequencyWeekly,
				StartDate: date(t, "2024-01-01"),
				EndDate:   datePtr(t, "2024-01-08"),
			},
			today: "2024-02-01",
			want:  []string{"2024-01-08"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DueOccurrences(tt.sched, date(t, tt.today))
			if err != nil {
				t.Fatalf("DueOccurrences: unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DueOccurrences = %v, want %v", got, tt.want)
			}
			for i, w := range tt.want {
				if got[i] != date(t, w) {
					t.Errorf("occurrence %d = %s, want %s", i, got[i], w)
				}
			}
		})
	}
}

func TestDueOccurrences_StrictlyIncreasing(t *testing.T) {
	sched := domain.ScheduledTransaction{
		Frequency: domain.FrequencyDaily,
		StartDate: date(t, "2023-12-01"),
	}

	got, err := DueOccurrences(sched, date(t, "2024-01-15"))
	if err != nil {
		t.Fatalf("DueOccurrences: %v", err)
	}
	if len(got) != 45 {
		t.Fatalf("expected 45 daily occurrences, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Before(got[i]) {
			t.Fatalf("occurrences not strictly increasing at %d: %s then %s", i, got[i-1], got[i])
		}
	}
}

func TestDueOccurrences_UnknownFrequency(t *testing.T) {
	sched := domain.ScheduledTransaction{
		Frequency: domain.Frequency("hourly"),
		StartDate: date(t, "2024-01-01"),
	}

	_, err := DueOccurrences(sched, date(t, "2024-02-01"))
	if !errors.Is(err, ErrUnknownFrequency) {
		t.Errorf("expected ErrUnknownFrequency, got %v", err)
	}
}
