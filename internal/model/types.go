package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists the recognized statuses in board order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus validates a status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", &ValidationError{
		Path: "status",
		Err:  fmt.Errorf("unrecognized status %q, must be one of: todo, in_progress, done", s),
	}
}

// UnmarshalJSON rejects statuses outside the recognized set.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Path: "status", Err: err}
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", &ValidationError{
		Path: "priority",
		Err:  fmt.Errorf("unrecognized priority %q, must be one of: low, medium, high", s),
	}
}

// UnmarshalJSON rejects priorities outside the recognized set.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Path: "priority", Err: err}
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UserKind distinguishes people from automated identities.
type UserKind string

const (
	KindHuman UserKind = "human"
	KindAgent UserKind = "agent"
)

// UserRef references a user or agent. The backend populates it as a full
// user document; older payloads may carry only the bare ID string.
type UserRef struct {
	ID   string   `json:"_id"`
	Name string   `json:"name,omitempty"`
	Kind UserKind `json:"type,omitempty"`
}

// UnmarshalJSON accepts either a populated user object or a bare ID.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = UserRef(p)
	return nil
}

// DisplayName returns the user's name, or fallback when the reference is
// empty or unnamed.
func (u *UserRef) DisplayName(fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	return u.Name
}

// IsAgent reports whether the reference points at an automated identity.
func (u *UserRef) IsAgent() bool {
	return u != nil && u.Kind == KindAgent
}

// ProjectRef is the populated project embedded in task payloads.
type ProjectRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// Project represents a project.
type Project struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	CreatedBy   *UserRef `json:"createdBy,omitempty"`
	TaskCount   int      `json:"taskCount"`
	CreatedAt   Millis   `json:"createdAt"`
	UpdatedAt   Millis   `json:"updatedAt"`
}

// Task represents a single task.
type Task struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	ProjectID   string      `json:"projectId,omitempty"`
	Project     *ProjectRef `json:"project,omitempty"`
	AssignedTo  *UserRef    `json:"assignedTo,omitempty"`
	CreatedBy   *UserRef    `json:"createdBy,omitempty"`
	DueDate     Millis      `json:"dueDate"`
	CreatedAt   Millis      `json:"createdAt"`
	UpdatedAt   Millis      `json:"updatedAt"`
	Comments    []Comment   `json:"comments,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// IsAssigned reports whether the task has an assignee.
func (t *Task) IsAssigned() bool {
	return t.AssignedTo != nil && t.AssignedTo.ID != ""
}

// ProjectName returns the populated project name, or fallback.
func (t *Task) ProjectName(fallback string) string {
	if t.Project == nil || t.Project.Name == "" {
		return fallback
	}
	return t.Project.Name
}

// Comment is an append-only note on a task.
type Comment struct {
	ID        string   `json:"_id"`
	TaskID    string   `json:"taskId,omitempty"`
	AuthorID  string   `json:"authorId,omitempty"`
	Author    *UserRef `json:"author,omitempty"`
	Content   string   `json:"content"`
	CreatedAt Millis   `json:"createdAt"`
}
