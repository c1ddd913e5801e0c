package storage

import (
	"context"
	"errors"
	"time"

	"flexplan/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// TaskUpdate is a partial field set for updating a task in place. Nil
// fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Duration    *int
	DueDate     *time.Time
	Flexibility *int
	Completed   *bool
	Color       *string
}

// Repository is the persistence boundary of the engine. The engine never
// talks to a database directly; callers inject an implementation, and
// tests substitute an in-memory fake.
type Repository interface {
	// ListTasks returns every task of the user, due date ascending.
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
	// ListTasksFitting returns the user's incomplete tasks with a
	// duration of at most maxDuration minutes, due date ascending.
	ListTasksFitting(ctx context.Context, userID string, maxDuration int) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	// CreateTask inserts one task and returns the stored record.
	CreateTask(ctx context.Context, in model.Task) (model.Task, error)
	// CreateTasks inserts a batch of tasks in one transaction. Rows whose
	// (parent_task_id, due_date) pair already exists are skipped, which
	// makes series re-expansion a no-op.
	CreateTasks(ctx context.Context, in []model.Task) error
	// UpdateTask applies a partial field set and returns the updated
	// record, or ErrNotFound.
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
