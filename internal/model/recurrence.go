package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxInstances caps how many concrete occurrences a single series
	// parent may materialize.
	MaxInstances = 50

	// DefaultHorizonDays bounds expansion when the parent has no explicit
	// recurrence end date.
	DefaultHorizonDays = 365
)

// NextDueDate computes the occurrence that follows current under the given
// pattern and interval. Monthly and yearly steps preserve the day of month
// and clamp to the last day of shorter target months, so Jan 31 + 1 month
// is Feb 29 in a leap year and Feb 28 otherwise.
//
// Callers must pass a valid pattern and a positive interval; Task.Validate
// rejects anything else before this is reached.
func NextDueDate(current time.Time, pattern Pattern, interval int) time.Time {
	day := DateOnly(current)
	switch pattern {
	case PatternDaily:
		return day.AddDate(0, 0, interval)
	case PatternWeekly:
		return day.AddDate(0, 0, 7*interval)
	case PatternMonthly:
		return addMonthsClamped(day, interval)
	case PatternYearly:
		return addMonthsClamped(day, 12*interval)
	default:
		return day
	}
}

func addMonthsClamped(day time.Time, months int) time.Time {
	y, m, d := day.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// EffectiveEndDate is the parent's recurrence end date, or its due date
// plus DefaultHorizonDays when none was given.
func EffectiveEndDate(parent Task) time.Time {
	if parent.RecurrenceEndDate != nil {
		return DateOnly(*parent.RecurrenceEndDate)
	}
	return DateOnly(parent.DueDate).AddDate(0, 0, DefaultHorizonDays)
}

// Expand materializes the future occurrences of a recurring parent, eagerly
// and bounded: stepping from the parent's due date, it emits one instance
// per occurrence until the computed date exceeds EffectiveEndDate or
// MaxInstances have been emitted. Instances copy the parent's title,
// duration, flexibility, color and user; they are never themselves
// recurring.
//
// Instance ids are derived from the parent id and the occurrence date, so
// expanding the same parent twice yields identical records and a repeated
// batch insert is a no-op under the store's uniqueness constraint.
func Expand(parent Task, createdAt time.Time) ([]Task, error) {
	if !parent.IsRecurring {
		return nil, fmt.Errorf("%w: %s", ErrNotRecurring, parent.ID)
	}
	if err := parent.Validate(); err != nil {
		return nil, err
	}

	end := EffectiveEndDate(parent)
	out := make([]Task, 0, MaxInstances)
	cursor := DateOnly(parent.DueDate)
	for len(out) < MaxInstances {
		cursor = NextDueDate(cursor, parent.RecurrencePattern, parent.RecurrenceInterval)
		if cursor.After(end) {
			break
		}
		out = append(out, Task{
			ID:           InstanceID(parent.ID, cursor),
			Title:        parent.Title,
			Duration:     parent.Duration,
			DueDate:      cursor,
			Flexibility:  parent.Flexibility,
			Completed:    false,
			IsRecurring:  false,
			ParentTaskID: parent.ID,
			Color:        parent.Color,
			UserID:       parent.UserID,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		})
	}
	return out, nil
}

// InstanceID is the deterministic identifier of the occurrence of a series
// on a given date.
func InstanceID(parentID string, due time.Time) string {
	name := parentID + "/" + DateOnly(due).Format(DateLayout)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
