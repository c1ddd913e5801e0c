package model

import "time"

type Urgency string

const (
	UrgencyFuture         Urgency = "future"
	UrgencyDueTodayNoFlex Urgency = "due_today_no_flex"
	UrgencyInFlexWindow   Urgency = "in_flex_window"
	UrgencyOverdue        Urgency = "overdue"
)

// ClassifyUrgency places a task relative to today, at day granularity.
// A task due today with flexibility remaining classifies as in-window:
// its actionable window [due, due+flexibility] still covers today.
func ClassifyUrgency(t Task, today time.Time) Urgency {
	day := DateOnly(today)
	due := DateOnly(t.DueDate)
	switch {
	case due.After(day):
		return UrgencyFuture
	case due.Equal(day) && t.Flexibility == 0:
		return UrgencyDueTodayNoFlex
	case !t.WindowEnd().Before(day):
		return UrgencyInFlexWindow
	default:
		return UrgencyOverdue
	}
}
