// ABOUTME: HTTP API handlers for authentication and task CRUD
// ABOUTME: Maps service errors to status codes without leaking account or task existence

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/taskyhq/tasky-server/internal/auth"
	"github.com/taskyhq/tasky-server/internal/store"
	"github.com/taskyhq/tasky-server/internal/suggest"
	"github.com/taskyhq/tasky-server/internal/task"
)

// RegisterRequest is the JSON request body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// LoginRequest is the JSON request body for POST /api/auth/login.
// Username also accepts the account's email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account. The password hash and email
// are never included.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResponse is the JSON response for successful register/login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// CreateTaskRequest is the JSON request body for POST /api/tasks.
// There is no owner field; the owner is always the authenticated caller.
type CreateTaskRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Deadline    *string  `json:"deadline"`
	Tags        []string `json:"tags"`
}

// UpdateTaskRequest is the JSON request body for PUT /api/tasks/{id}.
// Absent fields keep their prior values. Deadline uses a RawMessage so an
// explicit null (clear the deadline) is distinguishable from an absent key.
type UpdateTaskRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Deadline    json.RawMessage `json:"deadline"`
	Tags        []string        `json:"tags"`
	Completed   *bool           `json:"completed"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Deadline    *string  `json:"deadline"`
	Tags        []string `json:"tags"`
	OwnerID     string   `json:"ownerId"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// SuggestRequest is the JSON request body for POST /api/tasks/suggest-improvements.
type SuggestRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func taskResponse(t *store.Task) TaskResponse {
	var deadline *string
	if t.Deadline != nil {
		d := t.Deadline.Format(time.RFC3339)
		deadline = &d
	}
	return TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Completed:   t.Completed,
		Deadline:    deadline,
		Tags:        t.Tags,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// handleRegister handles POST /api/auth/register requests
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "user created",
		Token:   token,
		User:    UserResponse{ID: user.ID, Username: user.Username},
	})
}

// handleLogin handles POST /api/auth/login requests
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    UserResponse{ID: user.ID, Username: user.Username},
	})
}

// handleLogout handles POST /api/auth/logout requests.
// Runs behind the auth middleware, and revocation is idempotent, so it
// always acknowledges success.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if err := s.auth.Logout(r.Context(), token); err != nil {
		s.logger.Error("revoking session", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

// handleTasks handles GET and POST /api/tasks requests
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTasks(w, r)
	case http.MethodPost:
		s.handleCreateTask(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleListTasks returns the caller's tasks.
// Supports optional ?completed=true|false and ?tag=X filters.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())

	var filter task.ListFilter
	if completedStr := r.URL.Query().Get("completed"); completedStr != "" {
		switch completedStr {
		case "true":
			v := true
			filter.Completed = &v
		case "false":
			v := false
			filter.Completed = &v
		default:
			s.sendJSONError(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
	}
	filter.Tag = r.URL.Query().Get("tag")

	tasks, err := s.tasks.List(r.Context(), id.UserID, filter)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, taskResponse(t))
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateTask creates a task owned by the caller
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	deadline, ok := s.parseDeadline(w, req.Deadline)
	if !ok {
		return
	}

	created, err := s.tasks.Create(r.Context(), id.UserID, task.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    deadline,
		Tags:        req.Tags,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, taskResponse(created))
}

// handleTaskRoutes dispatches /api/tasks/{id} and /api/tasks/suggest-improvements
func (s *Server) handleTaskRoutes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/tasks/suggest-improvements" {
		s.handleSuggestImprovements(w, r)
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if taskID == "" || strings.Contains(taskID, "/") {
		s.sendJSONError(w, http.StatusNotFound, "task not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetTask(w, r, taskID)
	case http.MethodPut:
		s.handleUpdateTask(w, r, taskID)
	case http.MethodDelete:
		s.handleDeleteTask(w, r, taskID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleGetTask handles GET /api/tasks/{id}
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request, taskID string) {
	id := auth.MustFromContext(r.Context())

	t, err := s.tasks.Get(r.Context(), id.UserID, taskID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskResponse(t))
}

// handleUpdateTask handles PUT /api/tasks/{id}
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	id := auth.MustFromContext(r.Context())

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := task.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Completed:   req.Completed,
	}

	// A present "deadline" key either sets a new deadline or, when null,
	// clears the existing one.
	if len(req.Deadline) > 0 {
		if string(req.Deadline) == "null" {
			in.ClearDeadline = true
		} else {
			var raw string
			if err := json.Unmarshal(req.Deadline, &raw); err != nil {
				s.sendJSONError(w, http.StatusBadRequest, "deadline must be an RFC3339 string or null")
				return
			}
			deadline, ok := s.parseDeadline(w, &raw)
			if !ok {
				return
			}
			in.Deadline = deadline
		}
	}

	updated, err := s.tasks.Update(r.Context(), id.UserID, taskID, in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskResponse(updated))
}

// handleDeleteTask handles DELETE /api/tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, taskID string) {
	id := auth.MustFromContext(r.Context())

	if err := s.tasks.Delete(r.Context(), id.UserID, taskID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSuggestImprovements handles POST /api/tasks/suggest-improvements
func (s *Server) handleSuggestImprovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	suggestion, err := s.suggest.Improve(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, suggest.ErrUnavailable) {
			s.sendJSONError(w, http.StatusServiceUnavailable, "suggestion service not configured")
			return
		}
		s.logger.Error("generating suggestions", "error", err)
		s.sendJSONError(w, http.StatusBadGateway, "failed to process AI suggestions")
		return
	}

	s.writeJSON(w, http.StatusOK, suggestion)
}

// parseDeadline parses an optional RFC3339 deadline string.
// Writes a 400 response and returns ok=false on parse failure.
func (s *Server) parseDeadline(w http.ResponseWriter, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "deadline must be an RFC3339 timestamp")
		return nil, false
	}
	return &parsed, true
}

// bearerToken returns the raw token from the Authorization header.
// Only called behind the auth middleware, which has already validated it.
func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// writeJSON writes a JSON response with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service-layer errors to HTTP responses.
// Not-found and foreign-owner failures share one body; credential failures
// never reveal whether the identity exists.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, task.ErrInvalidInput):
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUsernameTaken):
		s.sendJSONError(w, http.StatusBadRequest, "username or email already taken")
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "task not found")
	default:
		s.logger.Error("request failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
