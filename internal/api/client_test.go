package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nibzard/missionctl/internal/config"
	"github.com/nibzard/missionctl/internal/model"
)

// recorded captures the last request a test server saw.
type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

// newServer starts a server that records each request and answers with
// status and body.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorded, *int32) {
	t.Helper()
	rec := &recorded{}
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.header = r.Header.Clone()
		rec.body = nil
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			if err := json.Unmarshal(data, &rec.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec, &calls
}

func newClient(t *testing.T, baseURL string, mutate func(*Options)) *Client {
	t.Helper()
	opts := Options{BaseURL: baseURL + "/", APIKey: "mc_test", UserID: "u1"}
	if mutate != nil {
		mutate(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

const taskListBody = `[
  {"_id":"t1","title":"Fix login","description":"","status":"todo","priority":"high",
   "assignedTo":null,"createdBy":{"_id":"u1","name":"Ada","type":"human"},
   "project":{"_id":"p1","name":"Website","color":"#3B82F6"},"projectId":"p1",
   "createdAt":1766000000000,"updatedAt":1766000000000},
  {"_id":"t2","title":"Ship","description":"x","status":"done","priority":"low",
   "assignedTo":{"_id":"a1","name":"Standup Bot","type":"agent"},
   "createdAt":1766000000000,"updatedAt":1766000000000,"dueDate":null}
]`

func TestNewRequiresBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"relative", "convex.site"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{BaseURL: tt.baseURL})
			var cfgErr *config.ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Field != config.FieldBaseURL {
				t.Fatalf("expected base_url ConfigurationError, got %v", err)
			}
		})
	}
}

func TestNewHasNoClientTimeout(t *testing.T) {
	c, err := New(Options{BaseURL: "https://x.convex.site"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.http.Timeout != 0 {
		t.Errorf("Timeout: got %v, want none (cancellation comes from ctx)", c.http.Timeout)
	}

	custom := &http.Client{}
	c, err = New(Options{BaseURL: "https://x.convex.site", HTTPClient: custom})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.http != custom {
		t.Error("supplied HTTP client was not used")
	}
}

func TestListTasks(t *testing.T) {
	srv, rec, _ := newServer(t, http.StatusOK, taskListBody)
	c := newClient(t, srv.URL, nil)

	tasks, err := c.ListTasks(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ProjectName("") != "Website" || tasks[1].AssignedTo.Name != "Standup Bot" {
		t.Errorf("populated fields not decoded: %+v", tasks)
	}

	if rec.method != http.MethodGet || rec.path != "/api/tasks" || rec.query != "projectId=p1" {
		t.Errorf("request: %s %s?%s", rec.method, rec.path, rec.query)
	}
	if got := rec.header.Get("Authorization"); got != "Bearer mc_test" {
		t.Errorf("Authorization: got %q", got)
	}
	if rec.header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestListTasksWithoutKeyOrFilter(t *testing.T) {
	srv, rec, _ := newServer(t, http.StatusOK, `[]`)
	c := newClient(t, srv.URL, func(o *Options) { o.APIKey = "" })

	tasks, err := c.ListTasks(context.Background(), "")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
	if rec.query != "" {
		t.Errorf("unexpected query %q", rec.query)
	}
	if _, ok := rec.header["Authorization"]; ok {
		t.Error("Authorization header sent without an API key")
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway</html>`},
		{"unknown status", `[{"_id":"t1","title":"a","status":"blocked","priority":"low","updatedAt":1}]`},
		{"object instead of list", `{"tasks":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newServer(t, http.StatusOK, tt.body)
			c := newClient(t, srv.URL, nil)

			_, err := c.ListTasks(context.Background(), "")
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected DecodeError, got %T: %v", err, err)
			}
			if decErr.Op != "list tasks" {
				t.Errorf("Op: got %q", decErr.Op)
			}
		})
	}
}

func TestAPIErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv, rec, _ := newServer(t, http.StatusNotFound, `{"error":"Task not found"}`)
		c := newClient(t, srv.URL, nil)

		_, err := c.GetTask(context.Background(), "missing")
		if !IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
		var apiErr *APIError
		errors.As(err, &apiErr)
		if apiErr.Message != "Task not found" || !strings.Contains(err.Error(), "404") {
			t.Errorf("unexpected error: %v", err)
		}
		if rec.path != "/api/tasks/missing" {
			t.Errorf("path: got %q", rec.path)
		}
	})

	t.Run("server error keeps raw body", func(t *testing.T) {
		srv, _, _ := newServer(t, http.StatusInternalServerError, "boom")
		c := newClient(t, srv.URL, nil)

		_, err := c.ListProjects(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != 500 || apiErr.Body != "boom" {
			t.Errorf("got %+v", apiErr)
		}
		if IsNotFound(err) {
			t.Error("500 reported as not found")
		}
	})
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url, nil)
	_, err := c.ListProjects(context.Background())
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if !strings.HasPrefix(tErr.URL, url) {
		t.Errorf("URL: got %q", tErr.URL)
	}
}

func TestCancelledContext(t *testing.T) {
	srv, _, calls := newServer(t, http.StatusOK, `[]`)
	c := newClient(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListTasks(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("request reached the server")
	}
}

func TestCreateTask(t *testing.T) {
	srv, rec, _ := newServer(t, http.StatusCreated, `{"taskId":"t9"}`)
	c := newClient(t, srv.URL, nil)

	fields := model.Fields{model.FieldTitle: "Daily Standup - 2026-10-18", model.FieldProjectID: "p1"}
	id, err := c.CreateTask(context.Background(), fields)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if id != "t9" {
		t.Errorf("id: got %q", id)
	}
	if rec.method != http.MethodPost || rec.path != "/api/tasks" {
		t.Errorf("request: %s %s", rec.method, rec.path)
	}
	want := map[string]any{
		"title":       "Daily Standup - 2026-10-18",
		"projectId":   "p1",
		"createdBy":   "u1",
		"description": "",
		"priority":    "medium",
	}
	for k, v := range want {
		if rec.body[k] != v {
			t.Errorf("body[%s]: got %v, want %v", k, rec.body[k], v)
		}
	}
	if _, ok := fields["createdBy"]; ok {
		t.Error("CreateTask mutated the caller's fields")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	srv, _, calls := newServer(t, http.StatusCreated, `{"taskId":"t9"}`)

	tests := []struct {
		name   string
		user   string
		fields model.Fields
		check  func(error) bool
	}{
		{
			name:   "missing title",
			user:   "u1",
			fields: model.Fields{model.FieldDescription: "x"},
			check:  isValidationError,
		},
		{
			name:   "bad priority",
			user:   "u1",
			fields: model.Fields{model.FieldTitle: "x", model.FieldPriority: "urgent"},
			check:  isValidationError,
		},
		{
			name:   "no identity",
			user:   "",
			fields: model.Fields{model.FieldTitle: "x"},
			check: func(err error) bool {
				var ce *config.ConfigurationError
				return errors.As(err, &ce) && ce.Field == config.FieldUserID
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, srv.URL, func(o *Options) { o.UserID = tt.user })
			_, err := c.CreateTask(context.Background(), tt.fields)
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func isValidationError(err error) bool {
	var ve *model.ValidationError
	return errors.As(err, &ve)
}

func TestCreateResponseWithoutID(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusCreated, `{"success":true}`)
	c := newClient(t, srv.URL, nil)

	_, err := c.CreateTask(context.Background(), model.Fields{model.FieldTitle: "x"})
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	srv, rec, calls := newServer(t, http.StatusOK, `{"success":true}`)
	c := newClient(t, srv.URL, nil)

	if err := c.UpdateTask(context.Background(), "t1", model.Fields{model.FieldStatus: "in_progress"}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if rec.method != http.MethodPatch || rec.path != "/api/tasks/t1" || rec.body["status"] != "in_progress" {
		t.Errorf("request: %s %s %v", rec.method, rec.path, rec.body)
	}

	err := c.UpdateTask(context.Background(), "t1", model.Fields{model.FieldStatus: "blocked"})
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Path != "status" {
		t.Fatalf("expected status ValidationError, got %v", err)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("invalid update reached the server: %d calls", n)
	}
}

func TestAddComment(t *testing.T) {
	srv, rec, _ := newServer(t, http.StatusCreated, `{"commentId":"c1"}`)
	c := newClient(t, srv.URL, nil)

	id, err := c.AddComment(context.Background(), "t1", "On it")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if id != "c1" {
		t.Errorf("id: got %q", id)
	}
	if rec.path != "/api/tasks/t1/comments" || rec.body["content"] != "On it" || rec.body["authorId"] != "u1" {
		t.Errorf("request: %s %v", rec.path, rec.body)
	}
}

func TestProjects(t *testing.T) {
	t.Run("create uses default color", func(t *testing.T) {
		srv, rec, _ := newServer(t, http.StatusCreated, `{"projectId":"p1"}`)
		c := newClient(t, srv.URL, nil)

		id, err := c.CreateProject(context.Background(), "Website", "Marketing site", "")
		if err != nil || id != "p1" {
			t.Fatalf("CreateProject: %q, %v", id, err)
		}
		if rec.body["color"] != DefaultProjectColor || rec.body["createdBy"] != "u1" {
			t.Errorf("body: %v", rec.body)
		}
	})

	t.Run("get", func(t *testing.T) {
		srv, _, _ := newServer(t, http.StatusOK, `{"_id":"p1","name":"Website","taskCount":4}`)
		c := newClient(t, srv.URL, nil)

		p, err := c.GetProject(context.Background(), "p1")
		if err != nil {
			t.Fatalf("GetProject: %v", err)
		}
		if p.Name != "Website" || p.TaskCount != 4 {
			t.Errorf("got %+v", p)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		srv, rec, _ := newServer(t, http.StatusOK, `{"success":true}`)
		c := newClient(t, srv.URL, nil)

		if err := c.UpdateProject(context.Background(), "p1", model.Fields{"name": "Site"}); err != nil {
			t.Fatalf("UpdateProject: %v", err)
		}
		if rec.method != http.MethodPatch || rec.body["name"] != "Site" {
			t.Errorf("update request: %s %v", rec.method, rec.body)
		}
		if err := c.DeleteProject(context.Background(), "p1"); err != nil {
			t.Fatalf("DeleteProject: %v", err)
		}
		if rec.method != http.MethodDelete || rec.path != "/api/projects/p1" {
			t.Errorf("delete request: %s %s", rec.method, rec.path)
		}
	})
}

func TestOnboard(t *testing.T) {
	srv, rec, _ := newServer(t, http.StatusCreated,
		`{"userId":"u7","keyId":"k7","apiKey":"mc_new","convexUrl":"https://x.convex.site","env":"..."}`)
	c := newClient(t, srv.URL, nil)

	creds, err := c.Onboard(context.Background(), OnboardRequest{Name: "Reminder Bot", Type: "robot"})
	if err != nil {
		t.Fatalf("Onboard failed: %v", err)
	}
	if creds.UserID != "u7" || creds.APIKey != "mc_new" {
		t.Errorf("credentials: %+v", creds)
	}
	if rec.body["type"] != "agent" || rec.body["keyName"] != "Reminder Bot key" {
		t.Errorf("defaults not applied: %v", rec.body)
	}
	if _, ok := rec.header["Authorization"]; ok {
		t.Error("onboard must be unauthenticated")
	}
	if env := creds.Env(""); !strings.Contains(env, "API_KEY=mc_new") || !strings.Contains(env, "USER_ID=u7") {
		t.Errorf("Env: %q", env)
	}

	if _, err := c.Onboard(context.Background(), OnboardRequest{Name: "  "}); err == nil {
		t.Error("expected error for empty name")
	}
}
