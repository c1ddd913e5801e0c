// Package calendar maps tasks onto a month grid: seven Sunday-first
// columns, one row per calendar week. Tasks without flexibility become
// point indicators on their due date; tasks with flexibility become
// spanning segments over their actionable window, split at week
// boundaries.
package calendar

import (
	"time"

	"flexplan/internal/model"
)

// Dot is a point indicator on a single day of the displayed month.
type Dot struct {
	Task model.Task
	Day  int
}

// Segment is the part of one task's flexibility span that falls inside a
// single week row. Days and columns are inclusive on both ends.
type Segment struct {
	Task     model.Task
	Row      int
	StartDay int
	EndDay   int
	StartCol int
	EndCol   int
}

// Month holds the placements for one displayed month.
type Month struct {
	Year         int
	Month        time.Month
	Days         int
	FirstWeekday int // column of day 1; 0 = Sunday
	Rows         int
	Dots         []Dot
	Segments     []Segment
}

// Placements computes per-cell placements for every task whose due date or
// flexibility window touches the given month. A task contributes at most
// one dot per date and at most one segment per row it spans.
func Placements(tasks []model.Task, year int, month time.Month) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	firstWeekday := int(first.Weekday())
	days := last.Day()

	m := Month{
		Year:         year,
		Month:        month,
		Days:         days,
		FirstWeekday: firstWeekday,
		Rows:         (firstWeekday + days + 6) / 7,
	}

	for _, task := range tasks {
		due := model.DateOnly(task.DueDate)
		if task.Flexibility == 0 {
			if due.Year() == year && due.Month() == month {
				m.Dots = append(m.Dots, Dot{Task: task, Day: due.Day()})
			}
			continue
		}

		start, end, ok := clipSpan(due, task.WindowEnd(), first, last)
		if !ok {
			continue
		}
		m.Segments = append(m.Segments, splitByRow(task, start, end, firstWeekday)...)
	}
	return m
}

// clipSpan intersects [spanStart, spanEnd] with the month's day range.
func clipSpan(spanStart, spanEnd, first, last time.Time) (int, int, bool) {
	if spanEnd.Before(first) || spanStart.After(last) {
		return 0, 0, false
	}
	start := 1
	if !spanStart.Before(first) {
		start = spanStart.Day()
	}
	end := last.Day()
	if !spanEnd.After(last) {
		end = spanEnd.Day()
	}
	return start, end, true
}

// splitByRow breaks an in-month day range into one segment per week row.
func splitByRow(task model.Task, startDay, endDay, firstWeekday int) []Segment {
	out := make([]Segment, 0, 2)
	for day := startDay; day <= endDay; {
		cell := firstWeekday + day - 1
		row := cell / 7
		rowEnd := day + (6 - cell%7)
		if rowEnd > endDay {
			rowEnd = endDay
		}
		out = append(out, Segment{
			Task:     task,
			Row:      row,
			StartDay: day,
			EndDay:   rowEnd,
			StartCol: cell % 7,
			EndCol:   (firstWeekday + rowEnd - 1) % 7,
		})
		day = rowEnd + 1
	}
	return out
}

// Cell returns the row and column of a day number in the grid.
func (m Month) Cell(day int) (row, col int) {
	idx := m.FirstWeekday + day - 1
	return idx / 7, idx % 7
}

// DotsOn lists the point indicators placed on a day.
func (m Month) DotsOn(day int) []Dot {
	var out []Dot
	for _, d := range m.Dots {
		if d.Day == day {
			out = append(out, d)
		}
	}
	return out
}

// SegmentsOn lists the segments covering a day.
func (m Month) SegmentsOn(day int) []Segment {
	var out []Segment
	for _, s := range m.Segments {
		if s.StartDay <= day && day <= s.EndDay {
			out = append(out, s)
		}
	}
	return out
}
