package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"flexplan/internal/model"
)

const timestampLayout = time.RFC3339Nano

const taskColumns = `id, user_id, title, duration_minutes, due_date, flexibility_days,
	completed, is_recurring, recurrence_pattern, recurrence_interval, recurrence_end_date,
	parent_task_id, color, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE user_id = ?
		ORDER BY due_date ASC, created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *SQLiteRepository) ListTasksFitting(ctx context.Context, userID string, maxDuration int) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE user_id = ? AND duration_minutes <= ? AND completed = 0
		ORDER BY due_date ASC, created_at ASC`, userID, maxDuration)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.Task) (model.Task, error) {
	if _, err := r.db.ExecContext(ctx, insertTaskSQL(false), taskArgs(in)...); err != nil {
		return model.Task{}, err
	}
	return r.GetTask(ctx, in.ID)
}

func (r *SQLiteRepository) CreateTasks(ctx context.Context, in []model.Task) error {
	if len(in) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertTaskSQL(true))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, task := range in {
		if _, err := stmt.ExecContext(ctx, taskArgs(task)...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (model.Task, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Duration != nil {
		sets = append(sets, "duration_minutes = ?")
		args = append(args, *upd.Duration)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, model.DateOnly(*upd.DueDate).Format(model.DateLayout))
	}
	if upd.Flexibility != nil {
		sets = append(sets, "flexibility_days = ?")
		args = append(args, *upd.Flexibility)
	}
	if upd.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolInt(*upd.Completed))
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *upd.Color)
	}
	if len(sets) == 0 {
		return r.GetTask(ctx, id)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, mustTime(time.Now()), id)

	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return model.Task{}, err
	}
	if err := checkRowsAffected(res); err != nil {
		return model.Task{}, err
	}
	return r.GetTask(ctx, id)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func insertTaskSQL(orIgnore bool) string {
	verb := "INSERT"
	if orIgnore {
		verb = "INSERT OR IGNORE"
	}
	return verb + ` INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func taskArgs(in model.Task) []any {
	return []any{
		in.ID, in.UserID, in.Title, in.Duration,
		model.DateOnly(in.DueDate).Format(model.DateLayout), in.Flexibility,
		boolInt(in.Completed), boolInt(in.IsRecurring),
		nullString(string(in.RecurrencePattern)), nullInt(in.RecurrenceInterval),
		nullDate(in.RecurrenceEndDate), nullString(in.ParentTaskID),
		in.Color, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	}
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return model.DateOnly(*v).Format(model.DateLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(timestampLayout)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var due string
	var completed, recurring int
	var pattern, endDate, parentID sql.NullString
	var interval sql.NullInt64
	var created, updated string
	if err := s.Scan(
		&out.ID, &out.UserID, &out.Title, &out.Duration, &due, &out.Flexibility,
		&completed, &recurring, &pattern, &interval, &endDate,
		&parentID, &out.Color, &created, &updated,
	); err != nil {
		return model.Task{}, err
	}

	dueDate, err := time.ParseInLocation(model.DateLayout, due, time.UTC)
	if err != nil {
		return model.Task{}, err
	}
	createdAt, err := time.Parse(timestampLayout, created)
	if err != nil {
		return model.Task{}, err
	}
	updatedAt, err := time.Parse(timestampLayout, updated)
	if err != nil {
		return model.Task{}, err
	}

	out.DueDate = dueDate
	out.Completed = completed == 1
	out.IsRecurring = recurring == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	if pattern.Valid {
		out.RecurrencePattern = model.Pattern(pattern.String)
	}
	if interval.Valid {
		out.RecurrenceInterval = int(interval.Int64)
	}
	if endDate.Valid && endDate.String != "" {
		end, parseErr := time.ParseInLocation(model.DateLayout, endDate.String, time.UTC)
		if parseErr != nil {
			return model.Task{}, parseErr
		}
		out.RecurrenceEndDate = &end
	}
	if parentID.Valid {
		out.ParentTaskID = parentID.String
	}
	return out, nil
}

func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	out := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
