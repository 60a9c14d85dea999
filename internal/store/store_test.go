// ABOUTME: Tests for the SQLite store covering users, sessions, and tasks
// ABOUTME: Uses temp-dir databases; verifies uniqueness and owner scoping at the SQL level

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func createTestUser(t *testing.T, s *SQLiteStore, username string) *User {
	t.Helper()
	user := &User{
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func TestStore_CreateUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := &User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}

	err := store.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID, "CreateUser should assign an ID")
	assert.False(t, user.CreatedAt.IsZero())

	retrieved, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", retrieved.Username)
	assert.Equal(t, "alice@example.com", retrieved.Email)
	assert.Equal(t, "hash", retrieved.PasswordHash)
}

func TestStore_CreateUser_DuplicateUsername(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "alice")

	err := store.CreateUser(ctx, &User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.CreateUser(ctx, &User{Username: "alice", Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	err = store.CreateUser(ctx, &User{Username: "bob", Email: "a@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestStore_CreateUser_EmptyEmailNotUnique(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Multiple accounts without an email must be allowed
	require.NoError(t, store.CreateUser(ctx, &User{Username: "alice", PasswordHash: "h"}))
	require.NoError(t, store.CreateUser(ctx, &User{Username: "bob", PasswordHash: "h"}))
}

func TestStore_GetUserByLogin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := &User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, store.CreateUser(ctx, user))

	byUsername, err := store.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := store.GetUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = store.GetUserByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SessionRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "alice")

	session := &Session{Token: "tok-abc", UserID: user.ID}
	require.NoError(t, store.CreateSession(ctx, session))

	retrieved, err := store.GetSession(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.UserID)

	require.NoError(t, store.DeleteSession(ctx, "tok-abc"))

	_, err = store.GetSession(ctx, "tok-abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteSession_UnknownTokenIsNoOp(t *testing.T) {
	store := setupTestStore(t)

	err := store.DeleteSession(context.Background(), "never-issued")
	assert.NoError(t, err)
}

func TestStore_CreateTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "alice")
	deadline := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	task := &Task{
		OwnerID:     user.ID,
		Name:        "buy milk",
		Description: "2 liters",
		Deadline:    &deadline,
		Tags:        []string{"errand", "home"},
	}
	require.NoError(t, store.CreateTask(ctx, task))
	assert.NotEmpty(t, task.ID)

	retrieved, err := store.GetTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", retrieved.Name)
	assert.Equal(t, "2 liters", retrieved.Description)
	assert.False(t, retrieved.Completed)
	require.NotNil(t, retrieved.Deadline)
	assert.Equal(t, deadline, retrieved.Deadline.UTC())
	assert.Equal(t, []string{"errand", "home"}, retrieved.Tags)
}

func TestStore_GetTask_ForeignOwnerLooksNotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	task := &Task{OwnerID: alice.ID, Name: "private"}
	require.NoError(t, store.CreateTask(ctx, task))

	_, err := store.GetTask(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, missingErr := store.GetTask(ctx, bob.ID, "no-such-id")
	assert.Equal(t, missingErr, err, "foreign and missing IDs must be indistinguishable")
}

func TestStore_ListTasks_OwnerScoped(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	require.NoError(t, store.CreateTask(ctx, &Task{OwnerID: alice.ID, Name: "a1"}))
	require.NoError(t, store.CreateTask(ctx, &Task{OwnerID: alice.ID, Name: "a2"}))
	require.NoError(t, store.CreateTask(ctx, &Task{OwnerID: bob.ID, Name: "b1"}))

	tasks, err := store.ListTasks(ctx, alice.ID, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, alice.ID, task.OwnerID)
	}
}

func TestStore_ListTasks_Filters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")

	require.NoError(t, store.CreateTask(ctx, &Task{OwnerID: alice.ID, Name: "done", Completed: true, Tags: []string{"work"}}))
	require.NoError(t, store.CreateTask(ctx, &Task{OwnerID: alice.ID, Name: "open", Tags: []string{"home"}}))

	completed := true
	tasks, err := store.ListTasks(ctx, alice.ID, TaskFilter{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Name)

	tasks, err = store.ListTasks(ctx, alice.ID, TaskFilter{Tag: "home"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "open", tasks[0].Name)
}

func TestStore_UpdateTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	task := &Task{OwnerID: alice.ID, Name: "draft"}
	require.NoError(t, store.CreateTask(ctx, task))

	task.Name = "final"
	task.Completed = true
	require.NoError(t, store.UpdateTask(ctx, task))

	retrieved, err := store.GetTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", retrieved.Name)
	assert.True(t, retrieved.Completed)
}

func TestStore_UpdateTask_ForeignOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	task := &Task{OwnerID: alice.ID, Name: "private"}
	require.NoError(t, store.CreateTask(ctx, task))

	stolen := *task
	stolen.OwnerID = bob.ID
	stolen.Name = "hijacked"
	assert.ErrorIs(t, store.UpdateTask(ctx, &stolen), ErrNotFound)

	retrieved, err := store.GetTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", retrieved.Name, "foreign update must not change the task")
}

func TestStore_DeleteTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	task := &Task{OwnerID: alice.ID, Name: "to delete"}
	require.NoError(t, store.CreateTask(ctx, task))

	// Foreign delete must look like a missing ID and leave the task intact
	assert.ErrorIs(t, store.DeleteTask(ctx, bob.ID, task.ID), ErrNotFound)
	_, err := store.GetTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteTask(ctx, alice.ID, task.ID))
	_, err = store.GetTask(ctx, alice.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteTask(ctx, alice.ID, task.ID), ErrNotFound)
}
