package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/nibzard/missionctl/internal/model"
)

var (
	errRequired = errors.New("is required")
	errNoFields = errors.New("no fields to update")
)

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return &model.ValidationError{Path: kind + " id", Err: errRequired}
	}
	return nil
}

// ListTasks returns tasks with assignee, creator and project populated.
// An empty projectID lists every task.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	var query url.Values
	if projectID != "" {
		query = url.Values{"projectId": {projectID}}
	}
	var tasks []model.Task
	err := c.do(ctx, request{
		op:     "list tasks",
		method: http.MethodGet,
		path:   "/api/tasks",
		query:  query,
		kind:   model.PayloadTaskList,
	}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches one task including its comments.
func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	if err := requireID("task", id); err != nil {
		return nil, err
	}
	var task model.Task
	err := c.do(ctx, request{
		op:     "get task",
		method: http.MethodGet,
		path:   "/api/tasks/" + url.PathEscape(id),
		kind:   model.PayloadTask,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task recorded as created by the configured user and
// returns its ID. The backend requires a description and a priority, so an
// absent description is sent empty and an absent priority as medium.
func (c *Client) CreateTask(ctx context.Context, fields model.Fields) (string, error) {
	if title, _ := fields[model.FieldTitle].(string); strings.TrimSpace(title) == "" {
		return "", &model.ValidationError{Path: model.FieldTitle, Err: errRequired}
	}
	if err := fields.Validate(); err != nil {
		return "", err
	}
	if err := c.requireUser(); err != nil {
		return "", err
	}

	body := fields.Clone()
	body["createdBy"] = c.userID
	if _, ok := body[model.FieldDescription]; !ok {
		body[model.FieldDescription] = ""
	}
	if _, ok := body[model.FieldPriority]; !ok {
		body[model.FieldPriority] = model.PriorityMedium
	}

	var raw map[string]any
	err := c.do(ctx, request{
		op:     "create task",
		method: http.MethodPost,
		path:   "/api/tasks",
		body:   body,
	}, &raw)
	if err != nil {
		return "", err
	}
	return decodeID("create task", raw, "taskId")
}

// UpdateTask applies a partial update. Recognized fields are validated
// before any request is made.
func (c *Client) UpdateTask(ctx context.Context, id string, fields model.Fields) error {
	if err := requireID("task", id); err != nil {
		return err
	}
	if len(fields) == 0 {
		return &model.ValidationError{Err: errNoFields}
	}
	if err := fields.Validate(); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "update task",
		method: http.MethodPatch,
		path:   "/api/tasks/" + url.PathEscape(id),
		body:   fields,
	}, nil)
}

// AddComment appends a comment authored by the configured user and returns
// the new comment ID.
func (c *Client) AddComment(ctx context.Context, taskID, content string) (string, error) {
	if err := requireID("task", taskID); err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", &model.ValidationError{Path: "content", Err: errRequired}
	}
	if err := c.requireUser(); err != nil {
		return "", err
	}

	var raw map[string]any
	err := c.do(ctx, request{
		op:     "add comment",
		method: http.MethodPost,
		path:   "/api/tasks/" + url.PathEscape(taskID) + "/comments",
		body: map[string]any{
			"content":  content,
			"authorId": c.userID,
		},
	}, &raw)
	if err != nil {
		return "", err
	}
	return decodeID("add comment", raw, "commentId")
}
