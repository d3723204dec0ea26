package agents

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/missionctl/internal/logging"
	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/report"
)

var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ago(d time.Duration) model.Millis {
	return model.FromTime(fixedNow.Add(-d))
}

// fakeBackend serves a fixed snapshot and records writes. failOn makes the
// nth write (1-based) fail.
type fakeBackend struct {
	tasks   []model.Task
	listErr error
	failOn  int

	lists        int
	created      []model.Fields
	comments     []string
	commentTasks []string
	writes       int
}

func (f *fakeBackend) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeBackend) write() error {
	f.writes++
	if f.failOn > 0 && f.writes == f.failOn {
		return errors.New("backend unavailable")
	}
	return nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, fields model.Fields) (string, error) {
	if err := f.write(); err != nil {
		return "", err
	}
	f.created = append(f.created, fields)
	return "standup-1", nil
}

func (f *fakeBackend) AddComment(ctx context.Context, taskID, content string) (string, error) {
	if err := f.write(); err != nil {
		return "", err
	}
	f.commentTasks = append(f.commentTasks, taskID)
	f.comments = append(f.comments, content)
	return "c-" + taskID, nil
}

func TestStandupCreatesOneTask(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "1", Title: "Shipped", Status: model.StatusDone, UpdatedAt: ago(2 * time.Hour)},
		{ID: "2", Title: "Doing", Status: model.StatusInProgress, Priority: model.PriorityMedium, UpdatedAt: ago(time.Hour)},
		{ID: "3", Title: "Later", Status: model.StatusTodo},
	}}

	res, err := NewStandup(fake, Options{Now: clock}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fake.lists != 1 {
		t.Errorf("expected one fetch, got %d", fake.lists)
	}
	if len(fake.created) != 1 {
		t.Fatalf("expected one created task, got %d", len(fake.created))
	}

	fields := fake.created[0]
	if fields[model.FieldTitle] != "Daily Standup - 2026-10-18" {
		t.Errorf("title: got %v", fields[model.FieldTitle])
	}
	if fields[model.FieldPriority] != model.PriorityHigh {
		t.Errorf("priority: got %v", fields[model.FieldPriority])
	}
	if fields[model.FieldDescription] != res.Summary {
		t.Error("description should be the summary")
	}
	if _, ok := fields[model.FieldProjectID]; ok {
		t.Error("projectId set without a project filter")
	}
	if res.TaskID != "standup-1" || res.Completed != 1 || res.InProgress != 1 || res.Todo != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Summary, "- **Shipped** (Unassigned)") {
		t.Errorf("summary missing completed task:\n%s", res.Summary)
	}
}

func TestStandupDryRun(t *testing.T) {
	fake := &fakeBackend{}
	res, err := NewStandup(fake, Options{Now: clock, DryRun: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fake.writes != 0 {
		t.Errorf("dry run wrote %d times", fake.writes)
	}
	if res.TaskID != "" || !res.DryRun {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Summary, report.NoCompletedPlaceholder) {
		t.Errorf("summary:\n%s", res.Summary)
	}
}

func TestStandupProjectScope(t *testing.T) {
	fake := &fakeBackend{}
	if _, err := NewStandup(fake, Options{Now: clock, ProjectID: "p1"}).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fake.created[0][model.FieldProjectID] != "p1" {
		t.Errorf("projectId: got %v", fake.created[0][model.FieldProjectID])
	}
}

func TestStandupWriteFailure(t *testing.T) {
	fake := &fakeBackend{failOn: 1}
	res, err := NewStandup(fake, Options{Now: clock}).Run(context.Background())
	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WriteError, got %v", err)
	}
	if res == nil || res.Summary == "" {
		t.Error("summary should be returned with the error")
	}
}

func TestFetchFailureAborts(t *testing.T) {
	fake := &fakeBackend{listErr: errors.New("boom")}

	res, err := NewReminder(fake, Options{Now: clock}).Run(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	if fake.writes != 0 {
		t.Error("no writes expected after a failed fetch")
	}

	if _, err := NewStandup(fake, Options{Now: clock}).Run(context.Background()); !errors.As(err, &ferr) {
		t.Fatalf("standup: expected *FetchError, got %v", err)
	}
}

func TestReminderUnassignedHighPriority(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "t1", Title: "Launch", Status: model.StatusTodo, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
	}}

	res, err := NewReminder(fake, Options{Now: clock}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.HighPriority != 1 || res.Overdue != 0 || res.Stale != 0 {
		t.Errorf("counts: got %+v", res)
	}
	if len(fake.comments) != 1 || !strings.Contains(fake.comments[0], "Consider assigning") {
		t.Errorf("comments: %q", fake.comments)
	}
}

func TestReminderStale(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "t1", Title: "Stuck", Status: model.StatusInProgress, Priority: model.PriorityLow, UpdatedAt: ago(8 * 24 * time.Hour)},
	}}

	res, err := NewReminder(fake, Options{Now: clock}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Stale != 1 || res.Total() != 1 {
		t.Errorf("counts: got %+v", res)
	}
	if !strings.Contains(fake.comments[0], "8 day(s)") {
		t.Errorf("comment: %q", fake.comments[0])
	}
}

func TestReminderSkipsDone(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "t1", Status: model.StatusDone, Priority: model.PriorityHigh, DueDate: ago(72 * time.Hour), UpdatedAt: ago(2 * time.Hour)},
	}}

	res, err := NewReminder(fake, Options{Now: clock}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Total() != 0 || fake.writes != 0 {
		t.Errorf("done task reminded: %+v", res)
	}
}

func TestReminderOrderAndMultipleCategories(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "stale", Status: model.StatusInProgress, Priority: model.PriorityLow, UpdatedAt: ago(10 * 24 * time.Hour)},
		{ID: "both", Status: model.StatusTodo, Priority: model.PriorityHigh, DueDate: ago(30 * time.Hour), UpdatedAt: ago(time.Hour)},
	}}

	res, err := NewReminder(fake, Options{Now: clock}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"both", "both", "stale"}
	if strings.Join(fake.commentTasks, ",") != strings.Join(want, ",") {
		t.Errorf("order: got %v, want %v", fake.commentTasks, want)
	}
	if res.Overdue != 1 || res.HighPriority != 1 || res.Stale != 1 {
		t.Errorf("counts: got %+v", res)
	}
	if res.Comments[0].CommentID != "c-both" {
		t.Errorf("comment id: got %q", res.Comments[0].CommentID)
	}
}

func TestReminderPartialFailure(t *testing.T) {
	fake := &fakeBackend{
		failOn: 2,
		tasks: []model.Task{
			{ID: "a", Status: model.StatusTodo, Priority: model.PriorityLow, DueDate: ago(48 * time.Hour), UpdatedAt: ago(time.Hour)},
			{ID: "b", Status: model.StatusTodo, Priority: model.PriorityLow, DueDate: ago(48 * time.Hour), UpdatedAt: ago(time.Hour)},
			{ID: "c", Status: model.StatusTodo, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
		},
	}

	res, err := NewReminder(fake, Options{Now: clock}).Run(context.Background())
	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WriteError, got %v", err)
	}
	if werr.TaskID != "b" || werr.Category != report.CategoryOverdue {
		t.Errorf("failed write: got %+v", werr)
	}
	if fake.writes != 2 {
		t.Errorf("writes after failure should stop, got %d attempts", fake.writes)
	}
	if res == nil || res.Overdue != 1 || res.HighPriority != 0 {
		t.Errorf("partial counts: got %+v", res)
	}
}

func TestReminderDryRun(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "t1", Status: model.StatusTodo, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
	}}

	res, err := NewReminder(fake, Options{Now: clock, DryRun: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fake.writes != 0 {
		t.Error("dry run should not write")
	}
	if res.HighPriority != 1 || !res.DryRun || res.Comments[0].CommentID != "" {
		t.Errorf("result: %+v", res)
	}
}

func TestReminderCancelledContext(t *testing.T) {
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "t1", Status: model.StatusTodo, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReminder(fake, Options{Now: clock}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.writes != 0 {
		t.Error("no writes expected after cancellation")
	}
}

func TestRunLogEvents(t *testing.T) {
	runLog, err := logging.NewRunLogger(t.TempDir(), "https://demo.convex.site", NameReminder)
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}
	fake := &fakeBackend{tasks: []model.Task{
		{ID: "t1", Status: model.StatusTodo, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
	}}

	if _, err := NewReminder(fake, Options{Now: clock, RunLog: runLog}).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := runLog.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, err := logging.ReadEvents(runLog.Path())
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	want := []string{logging.EventRunStart, logging.EventCommentPosted, logging.EventRunEnd}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("events: got %v, want %v", types, want)
	}
	last := events[len(events)-1]
	if last.Counts[report.CategoryHighPriority] != 1 || last.Agent != NameReminder {
		t.Errorf("run_end: got %+v", last)
	}
}

func TestPerWriteLogsAreDebugOnly(t *testing.T) {
	tasks := []model.Task{
		{ID: "h", Title: "Hot", Status: model.StatusTodo, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
	}

	var info bytes.Buffer
	infoLogger := logging.NewConsole(&info, logging.DefaultConsoleOptions())
	if _, err := NewReminder(&fakeBackend{tasks: tasks}, Options{Now: clock, Logger: infoLogger}).Run(context.Background()); err != nil {
		t.Fatalf("reminder Run failed: %v", err)
	}
	if _, err := NewStandup(&fakeBackend{tasks: tasks}, Options{Now: clock, Logger: infoLogger}).Run(context.Background()); err != nil {
		t.Fatalf("standup Run failed: %v", err)
	}
	for _, msg := range []string{"reminded", "created standup task"} {
		if strings.Contains(info.String(), msg) {
			t.Errorf("%q logged at info level:\n%s", msg, info.String())
		}
	}

	var debug bytes.Buffer
	opts := logging.DefaultConsoleOptions()
	opts.Level = log.DebugLevel
	if _, err := NewReminder(&fakeBackend{tasks: tasks}, Options{Now: clock, Logger: logging.NewConsole(&debug, opts)}).Run(context.Background()); err != nil {
		t.Fatalf("reminder Run failed: %v", err)
	}
	if !strings.Contains(debug.String(), "reminded") {
		t.Errorf("expected reminded at debug level:\n%s", debug.String())
	}
}
