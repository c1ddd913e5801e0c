package model

import (
	"testing"
	"time"
)

func TestClassifyUrgency(t *testing.T) {
	today := date(2024, 3, 12)
	tests := []struct {
		name string
		task Task
		want Urgency
	}{
		{"future", Task{DueDate: date(2024, 3, 20)}, UrgencyFuture},
		{"tomorrow", Task{DueDate: date(2024, 3, 13), Flexibility: 5}, UrgencyFuture},
		{"due today no flex", Task{DueDate: date(2024, 3, 12)}, UrgencyDueTodayNoFlex},
		{"due today with flex", Task{DueDate: date(2024, 3, 12), Flexibility: 2}, UrgencyInFlexWindow},
		{"inside flex window", Task{DueDate: date(2024, 3, 10), Flexibility: 3}, UrgencyInFlexWindow},
		{"window ends today", Task{DueDate: date(2024, 3, 9), Flexibility: 3}, UrgencyInFlexWindow},
		{"window closed yesterday", Task{DueDate: date(2024, 3, 8), Flexibility: 3}, UrgencyOverdue},
		{"overdue no flex", Task{DueDate: date(2024, 3, 11)}, UrgencyOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyUrgency(tt.task, today); got != tt.want {
				t.Fatalf("got %s want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyUrgencyZeroFlexNeverInWindow(t *testing.T) {
	today := date(2024, 3, 12)
	for offset := -30; offset <= 30; offset++ {
		task := Task{DueDate: today.AddDate(0, 0, offset)}
		if got := ClassifyUrgency(task, today); got == UrgencyInFlexWindow {
			t.Fatalf("zero-flexibility task due %+d days classified in-window", offset)
		}
	}
}

func TestClassifyUrgencyIgnoresTimeOfDay(t *testing.T) {
	task := Task{DueDate: date(2024, 3, 12).Add(23 * time.Hour)}
	now := date(2024, 3, 12).Add(time.Second)
	if got := ClassifyUrgency(task, now); got != UrgencyDueTodayNoFlex {
		t.Fatalf("expected due-today at day granularity, got %s", got)
	}
}
