package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPattern  = errors.New("model: invalid recurrence pattern")
	ErrInvalidInterval = errors.New("model: invalid recurrence interval")
	ErrNotRecurring    = errors.New("model: task is not a recurring parent")
)

// DefaultColor is applied when a task is created without an explicit color.
const DefaultColor = "#0a7ea4"

type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
	PatternYearly  Pattern = "yearly"
)

func (p Pattern) IsValid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternMonthly, PatternYearly:
		return true
	default:
		return false
	}
}

// Task is the sole entity of the engine. A task is exactly one of: a
// standalone task, a recurring series parent, or a generated series
// instance. Instances never carry recurrence fields of their own.
type Task struct {
	ID                 string
	Title              string
	Duration           int // minutes
	DueDate            time.Time
	Flexibility        int // days the task may slip past its due date
	Completed          bool
	IsRecurring        bool
	RecurrencePattern  Pattern
	RecurrenceInterval int
	RecurrenceEndDate  *time.Time
	ParentTaskID       string
	Color              string
	UserID             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.Duration <= 0 {
		return errors.New("model: task duration must be positive")
	}
	if t.DueDate.IsZero() {
		return errors.New("model: task due date is required")
	}
	if t.Flexibility < 0 {
		return errors.New("model: task flexibility must not be negative")
	}
	if t.IsRecurring && t.ParentTaskID != "" {
		return errors.New("model: a series parent cannot reference another parent")
	}
	if t.IsRecurring {
		if !t.RecurrencePattern.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, t.RecurrencePattern)
		}
		if t.RecurrenceInterval <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidInterval, t.RecurrenceInterval)
		}
	} else if t.RecurrencePattern != "" || t.RecurrenceInterval != 0 || t.RecurrenceEndDate != nil {
		return errors.New("model: recurrence fields are only valid on a series parent")
	}
	return nil
}

// WindowEnd is the last day of the task's actionable window,
// due date plus flexibility, inclusive.
func (t Task) WindowEnd() time.Time {
	return DateOnly(t.DueDate).AddDate(0, 0, t.Flexibility)
}

type SeriesKind string

const (
	SeriesNone     SeriesKind = "standalone"
	SeriesParent   SeriesKind = "parent"
	SeriesInstance SeriesKind = "instance"
)

// SeriesRef identifies which series, if any, a task belongs to. Key is the
// parent's id for both the parent row and its instances, so every member of
// one series shares the same Key.
type SeriesRef struct {
	Kind SeriesKind
	Key  string
}

func (t Task) Series() SeriesRef {
	switch {
	case t.ParentTaskID != "":
		return SeriesRef{Kind: SeriesInstance, Key: t.ParentTaskID}
	case t.IsRecurring:
		return SeriesRef{Kind: SeriesParent, Key: t.ID}
	default:
		return SeriesRef{Kind: SeriesNone}
	}
}
