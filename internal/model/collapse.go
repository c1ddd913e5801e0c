package model

import "time"

// Collapse reduces a flat task set to what a list should show: standalone
// tasks pass through unchanged, and each recurring series is represented by
// its single next actionable member, the one with the smallest due date on
// or after now that is not completed. A series whose members are all
// completed or in the past contributes nothing. Output order follows the
// input: each series appears at the position of its first-seen member.
//
// Collapse is idempotent; re-collapsing its own output returns the same
// records.
func Collapse(all []Task, now time.Time) []Task {
	today := DateOnly(now)

	best := make(map[string]Task)
	for _, t := range all {
		ref := t.Series()
		if ref.Kind == SeriesNone {
			continue
		}
		if t.Completed || DateOnly(t.DueDate).Before(today) {
			continue
		}
		// Ties on due date keep the earlier input member.
		if cur, ok := best[ref.Key]; !ok || DateOnly(t.DueDate).Before(DateOnly(cur.DueDate)) {
			best[ref.Key] = t
		}
	}

	out := make([]Task, 0, len(all))
	emitted := make(map[string]bool)
	for _, t := range all {
		ref := t.Series()
		if ref.Kind == SeriesNone {
			out = append(out, t)
			continue
		}
		if emitted[ref.Key] {
			continue
		}
		emitted[ref.Key] = true
		if next, ok := best[ref.Key]; ok {
			out = append(out, next)
		}
	}
	return out
}
