// Package service orchestrates the scheduling engine over an injected
// store: it owns the create-then-expand two-phase write, collapses series
// for listing, and enforces the authenticated-user precondition.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flexplan/internal/calendar"
	"flexplan/internal/model"
	"flexplan/internal/storage"
)

var (
	// ErrNotAuthenticated is the precondition failure for operating
	// without a user identity. It is user-actionable, not retryable.
	ErrNotAuthenticated = errors.New("service: no authenticated user")

	ErrInvalidDuration = errors.New("service: duration must be a positive number of minutes")
)

// ExpansionError reports a partial failure of recurring task creation: the
// parent was durably persisted but its instances were not. The parent is
// not rolled back; callers may retry with Reexpand, which is idempotent.
type ExpansionError struct {
	Parent model.Task
	Err    error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("service: expand series for task %s: %v", e.Parent.ID, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}

// Session carries the identity every stored record is associated with.
type Session struct {
	UserID string
}

// Draft is the caller-supplied shape of a new task.
type Draft struct {
	Title              string
	Duration           int
	DueDate            time.Time
	Flexibility        int
	Color              string
	IsRecurring        bool
	RecurrencePattern  model.Pattern
	RecurrenceInterval int
	RecurrenceEndDate  *time.Time
}

type TaskService struct {
	repo    storage.Repository
	session Session
	now     func() time.Time
}

func New(repo storage.Repository, session Session) *TaskService {
	return &TaskService{repo: repo, session: session, now: time.Now}
}

func (s *TaskService) requireUser() error {
	if s.session.UserID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// List returns the user's tasks with each recurring series collapsed to
// its next actionable occurrence, due date ascending.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}
	all, err := s.repo.ListTasks(ctx, s.session.UserID)
	if err != nil {
		return nil, err
	}
	return model.Collapse(all, s.now()), nil
}

// FindFitting returns the user's incomplete tasks that fit a free slot of
// maxDuration minutes, collapsed per series. The duration and completion
// filter is applied by the store before collapsing, so a series is only
// represented if its own next occurrence fits.
func (s *TaskService) FindFitting(ctx context.Context, maxDuration int) ([]model.Task, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}
	if maxDuration <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, maxDuration)
	}
	fitting, err := s.repo.ListTasksFitting(ctx, s.session.UserID, maxDuration)
	if err != nil {
		return nil, err
	}
	return model.Collapse(fitting, s.now()), nil
}

// Create persists a new task. For a recurring parent it then materializes
// the series instances in a second write; if that write fails the parent
// is kept and an *ExpansionError carrying it is returned, so the caller
// can surface the task and retry expansion later.
func (s *TaskService) Create(ctx context.Context, d Draft) (model.Task, error) {
	if err := s.requireUser(); err != nil {
		return model.Task{}, err
	}
	now := s.now().UTC()
	color := d.Color
	if color == "" {
		color = model.DefaultColor
	}
	task := model.Task{
		ID:                 uuid.NewString(),
		Title:              d.Title,
		Duration:           d.Duration,
		DueDate:            model.DateOnly(d.DueDate),
		Flexibility:        d.Flexibility,
		IsRecurring:        d.IsRecurring,
		RecurrencePattern:  d.RecurrencePattern,
		RecurrenceInterval: d.RecurrenceInterval,
		RecurrenceEndDate:  d.RecurrenceEndDate,
		Color:              color,
		UserID:             s.session.UserID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	stored, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return model.Task{}, err
	}
	if !stored.IsRecurring {
		return stored, nil
	}

	instances, err := model.Expand(stored, now)
	if err != nil {
		return stored, &ExpansionError{Parent: stored, Err: err}
	}
	if len(instances) > 0 {
		if err := s.repo.CreateTasks(ctx, instances); err != nil {
			return stored, &ExpansionError{Parent: stored, Err: err}
		}
	}
	return stored, nil
}

// Reexpand re-materializes the instances of a recurring parent. Instances
// that already exist are left alone; the call is safe to repeat after a
// partial Create failure.
func (s *TaskService) Reexpand(ctx context.Context, parentID string) (int, error) {
	if err := s.requireUser(); err != nil {
		return 0, err
	}
	parent, err := s.repo.GetTask(ctx, parentID)
	if err != nil {
		return 0, err
	}
	instances, err := model.Expand(parent, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if len(instances) == 0 {
		return 0, nil
	}
	if err := s.repo.CreateTasks(ctx, instances); err != nil {
		return 0, err
	}
	return len(instances), nil
}

// Update applies a partial field set to one task and returns the updated
// record. Changes do not propagate across a series.
func (s *TaskService) Update(ctx context.Context, id string, upd storage.TaskUpdate) (model.Task, error) {
	if err := s.requireUser(); err != nil {
		return model.Task{}, err
	}
	return s.repo.UpdateTask(ctx, id, upd)
}

// Toggle marks one task record complete or incomplete.
func (s *TaskService) Toggle(ctx context.Context, id string, completed bool) (model.Task, error) {
	return s.Update(ctx, id, storage.TaskUpdate{Completed: &completed})
}

// Delete removes one task record. Deleting a series parent does not
// remove its instances; that propagation is left to the caller.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, id)
}

// Month computes calendar placements for the user's full task set. The
// calendar shows every record, uncollapsed, so each occurrence of a
// series is visible on its own date.
func (s *TaskService) Month(ctx context.Context, year int, month time.Month) (calendar.Month, error) {
	if err := s.requireUser(); err != nil {
		return calendar.Month{}, err
	}
	all, err := s.repo.ListTasks(ctx, s.session.UserID)
	if err != nil {
		return calendar.Month{}, err
	}
	return calendar.Placements(all, year, month), nil
}
