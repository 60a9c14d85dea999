// ABOUTME: Task persistence operations for the SQLite store
// ABOUTME: All reads and mutations are owner-scoped so foreign tasks look missing

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTask inserts a new task. The caller is responsible for setting OwnerID
// from the authenticated identity, never from client input.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if task.Tags == nil {
		task.Tags = []string{}
	}

	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	var deadline *string
	if task.Deadline != nil {
		d := task.Deadline.Format(time.RFC3339)
		deadline = &d
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, name, description, completed, deadline, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.OwnerID, task.Name, task.Description, task.Completed, deadline, string(tags),
		task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339))

	return err
}

// GetTask retrieves a task by ID for the given owner. A task owned by a
// different user yields ErrNotFound, identical to a missing ID.
func (s *SQLiteStore) GetTask(ctx context.Context, ownerID, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, completed, deadline, tags, created_at, updated_at
		FROM tasks WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	return scanTask(row)
}

// ListTasks lists tasks for an owner with optional filters
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error) {
	query := `
		SELECT id, owner_id, name, description, completed, deadline, tags, created_at, updated_at
		FROM tasks WHERE owner_id = ?
	`
	args := []interface{}{ownerID}

	if filter.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *filter.Completed)
	}

	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		// Tag filtering happens here since tags live in a JSON column
		if filter.Tag != "" && !hasTag(t.Tags, filter.Tag) {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask persists changes to an existing task. The WHERE clause includes
// the owner so a foreign task is reported as ErrNotFound.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *Task) error {
	task.UpdatedAt = time.Now()
	if task.Tags == nil {
		task.Tags = []string{}
	}

	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	var deadline *string
	if task.Deadline != nil {
		d := task.Deadline.Format(time.RFC3339)
		deadline = &d
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, description = ?, completed = ?, deadline = ?, tags = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, task.Name, task.Description, task.Completed, deadline, string(tags),
		task.UpdatedAt.Format(time.RFC3339), task.ID, task.OwnerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask deletes a task by ID for the given owner
func (s *SQLiteStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM tasks WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row *sql.Row) (*Task, error) {
	t, err := scanTaskFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func scanTaskRows(rows *sql.Rows) (*Task, error) {
	return scanTaskFrom(rows)
}

func scanTaskFrom(row rowScanner) (*Task, error) {
	var t Task
	var deadline sql.NullString
	var tags string
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.Completed,
		&deadline, &tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		d, err := time.Parse(time.RFC3339, deadline.String)
		if err == nil {
			t.Deadline = &d
		}
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &t, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
