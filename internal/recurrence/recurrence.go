// Package recurrence computes the due occurrence dates of scheduled
// transactions. All functions take the reference date as an argument so the
// rollforward is deterministic under test; nothing here reads a wall clock.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/fintrack/internal/domain"
)

// ErrUnknownFrequency is returned for a schedule whose frequency is outside
// the recognized set. The caller is expected to skip that schedule and keep
// processing its siblings.
var ErrUnknownFrequency = errors.New("unknown schedule frequency")

// Next returns the occurrence date one period after anchor.
//
// Monthly and yearly steps preserve the anchor's day-of-month, clamping to the
// last valid day of the target month when the day does not exist there
// (Jan 31 -> Feb 29 in a leap year, Feb 29 -> next Feb 28).
func Next(anchor civil.Date, freq domain.Frequency) (civil.Date, error) {
	switch freq {
	case domain.FrequencyDaily:
		return anchor.AddDays(1), nil
	case domain.FrequencyWeekly:
		return anchor.AddDays(7), nil
	case domain.FrequencyMonthly:
		return addMonths(anchor, 1), nil
	case domain.FrequencyYearly:
		return addMonths(anchor, 12), nil
	default:
		return civil.Date{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, freq)
	}
}

// DueOccurrences returns every occurrence of sched due on or before today, in
// strictly increasing order, one period apart.
//
// The rollforward anchor is LastProcessedDate when present, otherwise
// StartDate; in both cases the first candidate is one period after the anchor,
// so StartDate itself never fires. A schedule that has not been processed for
// several periods replays every missed occurrence rather than jumping to the
// latest one. An EndDate bounds the sequence: candidates past it are dropped
// and the schedule is exhausted.
func DueOccurrences(sched domain.ScheduledTransaction, today civil.Date) ([]civil.Date, error) {
	if sched.StartDate.After(today) {
		return nil, nil
	}

	anchor := sched.StartDate
	if sched.LastProcessedDate != nil {
		anchor = *sched.LastProcessedDate
	}

	var due []civil.Date
	for {
		next, err := Next(anchor, sched.Frequency)
		if err != nil {
			return nil, err
		}
		if next.After(today) {
			break
		}
		if sched.EndDate != nil && next.After(*sched.EndDate) {
			break
		}
		due = append(due, next)
		anchor = next
	}

	return due, nil
}

// addMonths advances d by n calendar months, clamping the day to the last
// valid day of the target month.
func addMonths(d civil.Date, n int) civil.Date {
	year := d.Year
	month := int(d.Month) + n
	for month > 12 {
		month -= 12
		year++
	}

	day := d.Day
	if last := daysIn(year, time.Month(month)); day > last {
		day = last
	}

	return civil.Date{Year: year, Month: time.Month(month), Day: day}
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
