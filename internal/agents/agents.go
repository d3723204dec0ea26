package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/missionctl/internal/logging"
	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/rules"
)

// Driver names, also used to label run logs.
const (
	NameStandup  = "standup"
	NameReminder = "reminder"
)

// TaskReader fetches the snapshot a run works from.
type TaskReader interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
}

// TaskWriter performs write-backs.
type TaskWriter interface {
	CreateTask(ctx context.Context, fields model.Fields) (string, error)
	AddComment(ctx context.Context, taskID, content string) (string, error)
}

// Backend is satisfied by *api.Client.
type Backend interface {
	TaskReader
	TaskWriter
}

// Options holds the settings shared by both drivers.
type Options struct {
	// Now is read once at the start of a run. Defaults to time.Now.
	Now func() time.Time

	// Policy holds the staleness and recency thresholds.
	Policy rules.Policy

	// Logger receives progress messages. Defaults to a discarding logger.
	Logger *log.Logger

	// RunLog records run events. May be nil.
	RunLog *logging.RunLogger

	// DryRun classifies and renders but performs no writes.
	DryRun bool

	// ProjectID narrows the snapshot to one project. Empty means all tasks.
	ProjectID string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Policy == (rules.Policy{}) {
		o.Policy = rules.DefaultPolicy()
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

// FetchError reports that the snapshot could not be read. Nothing was
// classified or written.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch tasks: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError reports the write that stopped a run.
type WriteError struct {
	Op       string
	TaskID   string
	Category string
	Err      error
}

func (e *WriteError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("%s on task %s: %v", e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// record writes a run log event. Run log failures are reported on the
// console and never fail the run.
func record(logger *log.Logger, runLog *logging.RunLogger, event logging.Event) {
	if err := runLog.Log(event); err != nil {
		logger.Warn("run log write failed", "err", err)
	}
}

func fetch(ctx context.Context, r TaskReader, opts Options) ([]model.Task, error) {
	tasks, err := r.ListTasks(ctx, opts.ProjectID)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	opts.Logger.Debug("fetched tasks", "count", len(tasks), "project", opts.ProjectID)
	return tasks, nil
}
