package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"flexplan/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "flexplan-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTask(id string, due time.Time) model.Task {
	return model.Task{
		ID:        id,
		UserID:    "user-1",
		Title:     "Task " + id,
		Duration:  30,
		DueDate:   due,
		Color:     model.DefaultColor,
		CreatedAt: day(2024, 1, 1),
		UpdatedAt: day(2024, 1, 1),
	}
}

func TestTaskCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	end := day(2024, 6, 1)
	in := sampleTask("task-1", day(2024, 3, 10))
	in.Flexibility = 3
	in.IsRecurring = true
	in.RecurrencePattern = model.PatternWeekly
	in.RecurrenceInterval = 2
	in.RecurrenceEndDate = &end

	stored, err := repo.CreateTask(ctx, in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if stored.ID != in.ID || !stored.DueDate.Equal(in.DueDate) || stored.Flexibility != 3 {
		t.Fatalf("unexpected stored task: %#v", stored)
	}
	if stored.RecurrencePattern != model.PatternWeekly || stored.RecurrenceInterval != 2 {
		t.Fatalf("recurrence fields lost: %#v", stored)
	}
	if stored.RecurrenceEndDate == nil || !stored.RecurrenceEndDate.Equal(end) {
		t.Fatalf("recurrence end date lost: %#v", stored.RecurrenceEndDate)
	}

	title := "Renamed"
	done := true
	updated, err := repo.UpdateTask(ctx, in.ID, TaskUpdate{Title: &title, Completed: &done})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Title != "Renamed" || !updated.Completed {
		t.Fatalf("unexpected updated task: %#v", updated)
	}

	if err := repo.DeleteTask(ctx, in.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, in.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.DeleteTask(ctx, in.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got: %v", err)
	}
}

func TestUpdateTaskMissing(t *testing.T) {
	repo := setupRepo(t)
	title := "Nope"
	if _, err := repo.UpdateTask(context.Background(), "missing", TaskUpdate{Title: &title}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestListTasksOrderedByDueDate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, task := range []model.Task{
		sampleTask("late", day(2024, 3, 20)),
		sampleTask("early", day(2024, 3, 1)),
		sampleTask("middle", day(2024, 3, 10)),
	} {
		if _, err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}
	other := sampleTask("foreign", day(2024, 3, 2))
	other.UserID = "user-2"
	if _, err := repo.CreateTask(ctx, other); err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	list, err := repo.ListTasks(ctx, "user-1")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tasks for user-1, got %d", len(list))
	}
	if list[0].ID != "early" || list[1].ID != "middle" || list[2].ID != "late" {
		t.Fatalf("unexpected order: %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestListTasksFitting(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	quick := sampleTask("quick", day(2024, 3, 5))
	quick.Duration = 10
	long := sampleTask("long", day(2024, 3, 1))
	long.Duration = 90
	doneQuick := sampleTask("done", day(2024, 3, 2))
	doneQuick.Duration = 10
	doneQuick.Completed = true

	for _, task := range []model.Task{quick, long, doneQuick} {
		if _, err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	list, err := repo.ListTasksFitting(ctx, "user-1", 15)
	if err != nil {
		t.Fatalf("list fitting: %v", err)
	}
	if len(list) != 1 || list[0].ID != "quick" {
		t.Fatalf("unexpected fitting list: %#v", list)
	}
}

func TestCreateTasksBatchIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	parent := sampleTask("parent", day(2024, 1, 1))
	parent.IsRecurring = true
	parent.RecurrencePattern = model.PatternWeekly
	parent.RecurrenceInterval = 1
	if _, err := repo.CreateTask(ctx, parent); err != nil {
		t.Fatalf("create parent: %v", err)
	}

	batch := make([]model.Task, 0, 3)
	for i := 1; i <= 3; i++ {
		due := day(2024, 1, 1).AddDate(0, 0, 7*i)
		inst := sampleTask(model.InstanceID(parent.ID, due), due)
		inst.ParentTaskID = parent.ID
		batch = append(batch, inst)
	}

	if err := repo.CreateTasks(ctx, batch); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if err := repo.CreateTasks(ctx, batch); err != nil {
		t.Fatalf("repeated batch should be ignored, got: %v", err)
	}

	list, err := repo.ListTasks(ctx, "user-1")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected parent plus 3 instances, got %d rows", len(list))
	}
}

func TestMigrateDownAndUpAgain(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flexplan-migrate.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO tasks (id, user_id, title, duration_minutes, due_date, created_at, updated_at)
		VALUES ('t', 'u', 'Task', 5, '2024-01-01', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert after re-migrate: %v", err)
	}
}
