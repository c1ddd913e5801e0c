// Package views renders the engine's output for the terminal: the
// urgency-colored task list and the month calendar with point indicators
// and flexibility span bars.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"flexplan/internal/calendar"
	"flexplan/internal/model"
)

var (
	futureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	soonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
)

// UrgencyStyle maps the classifier's output onto the three display tiers:
// future is green, due-today and in-window are amber, overdue is red.
func UrgencyStyle(u model.Urgency) lipgloss.Style {
	switch u {
	case model.UrgencyFuture:
		return futureStyle
	case model.UrgencyDueTodayNoFlex, model.UrgencyInFlexWindow:
		return soonStyle
	default:
		return overdueStyle
	}
}

// FlexBadge is the short label for a task's flexibility window.
func FlexBadge(t model.Task) string {
	if t.Flexibility == 0 {
		return "no flex"
	}
	return fmt.Sprintf("+%dd", t.Flexibility)
}

// RenderList renders the collapsed task list, one task per line.
func RenderList(tasks []model.Task, today time.Time) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("no tasks")
	}
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		lines = append(lines, renderTaskLine(task, today))
	}
	return strings.Join(lines, "\n")
}

func renderTaskLine(task model.Task, today time.Time) string {
	style := UrgencyStyle(model.ClassifyUrgency(task, today))
	marker := style.Render("●")

	title := task.Title
	if task.Completed {
		title = doneStyle.Render(title)
	}
	if task.Series().Kind != model.SeriesNone {
		title += " " + mutedStyle.Render("↻")
	}

	details := fmt.Sprintf("%s  %dm  %s",
		task.DueDate.Format(model.DateLayout), task.Duration, FlexBadge(task))
	return fmt.Sprintf("%s %s  %s  %s", marker, title, mutedStyle.Render(details), mutedStyle.Render(shortID(task.ID)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// RenderMonth paints a month grid. Each cell shows the day number followed
// by a marker: a dot for a task due that day with no flexibility, a bar
// for a day covered by a flexibility span.
func RenderMonth(m calendar.Month, today time.Time) string {
	var b strings.Builder
	title := fmt.Sprintf("%s %d", m.Month, m.Year)
	b.WriteString(headerStyle.Render(title))
	b.WriteByte('\n')
	for i, name := range weekdayHeader {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(mutedStyle.Render(name + " "))
	}
	b.WriteByte('\n')

	day := 1
	for row := 0; row < m.Rows; row++ {
		cells := make([]string, 7)
		for col := 0; col < 7; col++ {
			idx := row*7 + col
			if idx < m.FirstWeekday || day > m.Days {
				cells[col] = "   "
				continue
			}
			cells[col] = renderCell(m, day, today)
			day++
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderCell(m calendar.Month, day int, today time.Time) string {
	num := fmt.Sprintf("%2d", day)
	cellDate := time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
	if model.SameDay(cellDate, today) {
		num = todayStyle.Render(num)
	}

	if dots := m.DotsOn(day); len(dots) > 0 {
		return num + colorFor(dots[0].Task).Render("•")
	}
	if segs := m.SegmentsOn(day); len(segs) > 0 {
		return num + colorFor(segs[0].Task).Render("─")
	}
	return num + " "
}

func colorFor(task model.Task) lipgloss.Style {
	color := task.Color
	if color == "" {
		color = model.DefaultColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// RenderMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
