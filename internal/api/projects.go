package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/nibzard/missionctl/internal/model"
)

// DefaultProjectColor is used when a project is created without a color.
const DefaultProjectColor = "#3B82F6"

// ListProjects returns every project with its task count.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := c.do(ctx, request{
		op:     "list projects",
		method: http.MethodGet,
		path:   "/api/projects",
		kind:   model.PayloadProjectList,
	}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project. A missing project is an APIError for
// which IsNotFound reports true.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if err := requireID("project", id); err != nil {
		return nil, err
	}
	var project model.Project
	err := c.do(ctx, request{
		op:     "get project",
		method: http.MethodGet,
		path:   "/api/projects/" + url.PathEscape(id),
		kind:   model.PayloadProject,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project owned by the configured user and returns
// its ID.
func (c *Client) CreateProject(ctx context.Context, name, description, color string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &model.ValidationError{Path: "name", Err: errRequired}
	}
	if err := c.requireUser(); err != nil {
		return "", err
	}
	if color == "" {
		color = DefaultProjectColor
	}

	var raw map[string]any
	err := c.do(ctx, request{
		op:     "create project",
		method: http.MethodPost,
		path:   "/api/projects",
		body: map[string]any{
			"name":        name,
			"description": description,
			"color":       color,
			"createdBy":   c.userID,
		},
	}, &raw)
	if err != nil {
		return "", err
	}
	return decodeID("create project", raw, "projectId")
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id string, fields model.Fields) error {
	if err := requireID("project", id); err != nil {
		return err
	}
	if len(fields) == 0 {
		return &model.ValidationError{Err: errNoFields}
	}
	return c.do(ctx, request{
		op:     "update project",
		method: http.MethodPatch,
		path:   "/api/projects/" + url.PathEscape(id),
		body:   fields,
	}, nil)
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := requireID("project", id); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "delete project",
		method: http.MethodDelete,
		path:   "/api/projects/" + url.PathEscape(id),
	}, nil)
}
