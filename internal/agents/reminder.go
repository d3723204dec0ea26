package agents

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/nibzard/missionctl/internal/logging"
	"github.com/nibzard/missionctl/internal/report"
	"github.com/nibzard/missionctl/internal/rules"
)

// PostedComment is one reminder written back (or, on a dry run, one that
// would have been).
type PostedComment struct {
	Category  string `json:"category"`
	TaskID    string `json:"taskId"`
	TaskTitle string `json:"taskTitle"`
	CommentID string `json:"commentId,omitempty"`
	Content   string `json:"content"`
}

// ReminderResult holds per-category counts of reminders posted.
type ReminderResult struct {
	Overdue      int `json:"overdue"`
	HighPriority int `json:"highPriority"`
	Stale        int `json:"stale"`

	Comments []PostedComment `json:"comments"`
	DryRun   bool            `json:"dryRun,omitempty"`
}

// Total returns the number of reminders across all categories.
func (r *ReminderResult) Total() int {
	return r.Overdue + r.HighPriority + r.Stale
}

func (r *ReminderResult) count(category string) {
	switch category {
	case report.CategoryOverdue:
		r.Overdue++
	case report.CategoryHighPriority:
		r.HighPriority++
	case report.CategoryStale:
		r.Stale++
	}
}

func (r *ReminderResult) counts() map[string]int {
	return map[string]int{
		report.CategoryOverdue:      r.Overdue,
		report.CategoryHighPriority: r.HighPriority,
		report.CategoryStale:        r.Stale,
	}
}

// Reminder posts reminder comments on tasks that need attention.
type Reminder struct {
	backend Backend
	opts    Options
}

// NewReminder returns a reminder driver.
func NewReminder(backend Backend, opts Options) *Reminder {
	return &Reminder{backend: backend, opts: opts.withDefaults()}
}

// Run performs one pass over a single snapshot. All three checks run against
// the same tasks and the same instant, and comments are posted in check
// order: overdue, high priority, stale.
//
// On the first failed write the remaining reminders are skipped and the
// counts accumulated so far are returned with the error.
func (r *Reminder) Run(ctx context.Context) (*ReminderResult, error) {
	opts := r.opts
	logger := opts.Logger.With("agent", NameReminder)
	now := opts.Now()

	record(logger, opts.RunLog, logging.Event{Type: logging.EventRunStart, DryRun: opts.DryRun})

	tasks, err := fetch(ctx, r.backend, opts)
	if err != nil {
		record(logger, opts.RunLog, logging.Event{Type: logging.EventRunEnd, Error: err.Error()})
		return nil, err
	}

	reminders := report.Reminders(rules.Classify(tasks, now, opts.Policy))
	result := &ReminderResult{DryRun: opts.DryRun}

	for _, rem := range reminders {
		posted := PostedComment{
			Category:  rem.Category,
			TaskID:    rem.Task.ID,
			TaskTitle: rem.Task.Title,
			Content:   rem.Content,
		}

		if opts.DryRun {
			logger.Debug("would remind", "category", rem.Category, "task", rem.Task.ID, "title", rem.Task.Title)
			record(logger, opts.RunLog, logging.Event{
				Type:     logging.EventWouldPost,
				TaskID:   rem.Task.ID,
				Category: rem.Category,
				Message:  rem.Content,
				DryRun:   true,
			})
			result.count(rem.Category)
			result.Comments = append(result.Comments, posted)
			continue
		}

		if err := ctx.Err(); err != nil {
			return r.abort(logger, result, &WriteError{Op: "add comment", TaskID: rem.Task.ID, Category: rem.Category, Err: err})
		}
		id, err := r.backend.AddComment(ctx, rem.Task.ID, rem.Content)
		if err != nil {
			record(logger, opts.RunLog, logging.Event{
				Type:     logging.EventWriteFailed,
				TaskID:   rem.Task.ID,
				Category: rem.Category,
				Error:    err.Error(),
			})
			return r.abort(logger, result, &WriteError{Op: "add comment", TaskID: rem.Task.ID, Category: rem.Category, Err: err})
		}

		posted.CommentID = id
		result.count(rem.Category)
		result.Comments = append(result.Comments, posted)
		logger.Debug("reminded", "category", rem.Category, "task", rem.Task.ID, "title", rem.Task.Title)
		record(logger, opts.RunLog, logging.Event{
			Type:     logging.EventCommentPosted,
			TaskID:   rem.Task.ID,
			Category: rem.Category,
			Message:  id,
		})
	}

	if result.Total() == 0 {
		logger.Info("all tasks are on track")
	}
	record(logger, opts.RunLog, logging.Event{Type: logging.EventRunEnd, DryRun: opts.DryRun, Counts: result.counts()})
	return result, nil
}

func (r *Reminder) abort(logger *log.Logger, result *ReminderResult, err *WriteError) (*ReminderResult, error) {
	logger.Error("reminder run aborted", "err", err, "posted", result.Total())
	record(logger, r.opts.RunLog, logging.Event{Type: logging.EventRunEnd, Error: err.Error(), Counts: result.counts()})
	return result, err
}
