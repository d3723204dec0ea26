package agents

import (
	"context"

	"github.com/nibzard/missionctl/internal/logging"
	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/report"
	"github.com/nibzard/missionctl/internal/rules"
)

// StandupResult describes one standup run.
type StandupResult struct {
	// TaskID is the created standup task. Empty on a dry run.
	TaskID  string `json:"taskId,omitempty"`
	Title   string `json:"title"`
	Summary string `json:"summary"`

	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`

	DryRun bool `json:"dryRun,omitempty"`
}

// Standup creates the daily standup task.
type Standup struct {
	backend Backend
	opts    Options
}

// NewStandup returns a standup driver.
func NewStandup(backend Backend, opts Options) *Standup {
	return &Standup{backend: backend, opts: opts.withDefaults()}
}

// Run performs one pass: fetch once, summarize, create one high priority
// task whose description is the summary.
func (s *Standup) Run(ctx context.Context) (*StandupResult, error) {
	opts := s.opts
	logger := opts.Logger.With("agent", NameStandup)
	now := opts.Now()

	record(logger, opts.RunLog, logging.Event{Type: logging.EventRunStart, DryRun: opts.DryRun})

	tasks, err := fetch(ctx, s.backend, opts)
	if err != nil {
		record(logger, opts.RunLog, logging.Event{Type: logging.EventRunEnd, Error: err.Error()})
		return nil, err
	}

	c := rules.Classify(tasks, now, opts.Policy)
	result := &StandupResult{
		Title:      report.StandupTitle(now),
		Summary:    report.Standup(tasks, now, opts.Policy),
		Completed:  len(c.RecentlyCompleted),
		InProgress: len(c.InProgress),
		Todo:       len(c.Todo),
		DryRun:     opts.DryRun,
	}

	if opts.DryRun {
		logger.Debug("dry run, standup task not created", "title", result.Title)
		record(logger, opts.RunLog, logging.Event{Type: logging.EventWouldPost, Message: result.Title, DryRun: true})
	} else {
		fields := model.Fields{
			model.FieldTitle:       result.Title,
			model.FieldDescription: result.Summary,
			model.FieldPriority:    model.PriorityHigh,
		}
		if opts.ProjectID != "" {
			fields[model.FieldProjectID] = opts.ProjectID
		}
		id, err := s.backend.CreateTask(ctx, fields)
		if err != nil {
			werr := &WriteError{Op: "create standup task", Err: err}
			record(logger, opts.RunLog, logging.Event{Type: logging.EventWriteFailed, Message: result.Title, Error: err.Error()})
			record(logger, opts.RunLog, logging.Event{Type: logging.EventRunEnd, Error: werr.Error()})
			return result, werr
		}
		result.TaskID = id
		logger.Debug("created standup task", "task", id, "title", result.Title)
		record(logger, opts.RunLog, logging.Event{Type: logging.EventTaskCreated, TaskID: id, Message: result.Title})
	}

	record(logger, opts.RunLog, logging.Event{
		Type:   logging.EventRunEnd,
		DryRun: opts.DryRun,
		Counts: map[string]int{
			"completed":   result.Completed,
			"in_progress": result.InProgress,
			"todo":        result.Todo,
		},
	})
	return result, nil
}
