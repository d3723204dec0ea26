package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/rules"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func ago(d time.Duration) model.Millis {
	return model.FromTime(now.Add(-d))
}

func agent(name string) *model.UserRef {
	return &model.UserRef{ID: "u-" + name, Name: name, Kind: model.KindAgent}
}

func TestStandupEmpty(t *testing.T) {
	got := Standup(nil, now, rules.DefaultPolicy())

	for _, want := range []string{
		"# Daily Standup - Sunday, October 18, 2026",
		NoCompletedPlaceholder,
		NoInProgressPlaceholder,
		"## ⏳ Todo: 0 tasks",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestStandupSections(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "Ship it", Status: model.StatusDone, UpdatedAt: ago(2 * time.Hour), AssignedTo: agent("Ada")},
		{ID: "2", Title: "Old win", Status: model.StatusDone, UpdatedAt: ago(48 * time.Hour)},
		{ID: "3", Title: "Refactor", Status: model.StatusInProgress, Priority: model.PriorityHigh, UpdatedAt: ago(time.Hour)},
		{ID: "4", Title: "A", Status: model.StatusTodo},
		{ID: "5", Title: "B", Status: model.StatusTodo},
	}
	got := Standup(tasks, now, rules.DefaultPolicy())

	if !strings.Contains(got, "- **Ship it** (Ada)") {
		t.Errorf("completed task missing:\n%s", got)
	}
	if strings.Contains(got, "Old win") {
		t.Errorf("completion outside window listed:\n%s", got)
	}
	if !strings.Contains(got, "- 🔴 **Refactor** (Unassigned)") {
		t.Errorf("in-progress task missing:\n%s", got)
	}
	if strings.Contains(got, NoCompletedPlaceholder) || strings.Contains(got, NoInProgressPlaceholder) {
		t.Errorf("placeholder rendered for non-empty section:\n%s", got)
	}
	if !strings.HasSuffix(got, "## ⏳ Todo: 2 tasks") {
		t.Errorf("todo count line: got\n%s", got)
	}
}

func TestStandupTitle(t *testing.T) {
	if got := StandupTitle(now); got != "Daily Standup - 2026-10-18" {
		t.Errorf("StandupTitle: got %q", got)
	}
}

func TestOverdueReminder(t *testing.T) {
	task := model.Task{Status: model.StatusTodo, AssignedTo: agent("Ada")}
	got := OverdueReminder(task, 8)
	if !strings.Contains(got, "overdue by 8 day(s)") || !strings.Contains(got, "Current status: todo") {
		t.Errorf("unexpected text: %q", got)
	}
	if !strings.Contains(got, "@Ada") {
		t.Errorf("assignee mention missing: %q", got)
	}

	task.AssignedTo = nil
	if strings.Contains(OverdueReminder(task, 1), "@") {
		t.Error("unassigned task should not mention anyone")
	}
}

func TestHighPriorityReminder(t *testing.T) {
	unassigned := HighPriorityReminder(model.Task{Priority: model.PriorityHigh})
	if !strings.Contains(unassigned, "Assigned to: No one") || !strings.Contains(unassigned, "Tip:") {
		t.Errorf("unassigned text: %q", unassigned)
	}

	assigned := HighPriorityReminder(model.Task{Priority: model.PriorityHigh, AssignedTo: agent("Ada")})
	if !strings.Contains(assigned, "Assigned to: Ada") || strings.Contains(assigned, "Tip:") {
		t.Errorf("assigned text: %q", assigned)
	}
}

func TestStaleReminderFloorsDays(t *testing.T) {
	got := StaleReminder(model.Task{}, 9*24*time.Hour+23*time.Hour)
	if !strings.Contains(got, "in progress for 9 day(s)") {
		t.Errorf("unexpected text: %q", got)
	}
	if !strings.Contains(got, "unassigned") {
		t.Errorf("unassigned hint missing: %q", got)
	}
}

func TestRemindersOrder(t *testing.T) {
	overdueHigh := model.Task{
		ID: "a", Status: model.StatusTodo, Priority: model.PriorityHigh,
		DueDate: ago(50 * time.Hour), UpdatedAt: ago(time.Hour),
	}
	stale := model.Task{ID: "b", Status: model.StatusInProgress, Priority: model.PriorityLow, UpdatedAt: ago(10 * 24 * time.Hour)}

	got := Reminders(rules.Classify([]model.Task{stale, overdueHigh}, now, rules.DefaultPolicy()))
	want := []struct{ cat, id string }{
		{CategoryOverdue, "a"},
		{CategoryHighPriority, "a"},
		{CategoryStale, "b"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d reminders, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Category != w.cat || got[i].Task.ID != w.id {
			t.Errorf("reminder %d: got %s/%s, want %s/%s", i, got[i].Category, got[i].Task.ID, w.cat, w.id)
		}
	}
	if !strings.Contains(got[0].Content, "2 day(s)") {
		t.Errorf("overdue days: %q", got[0].Content)
	}
}

func TestTasksGrouped(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "One", Status: model.StatusTodo, Priority: model.PriorityHigh, Project: &model.ProjectRef{ID: "p", Name: "Web"}},
		{ID: "2", Title: "Two", Status: model.StatusDone, Priority: model.PriorityLow},
		{ID: "3", Title: "Three", Status: model.StatusInProgress, Priority: model.PriorityMedium, Project: &model.ProjectRef{ID: "p", Name: "Web"}, AssignedTo: agent("Ada")},
	}
	var buf bytes.Buffer
	Tasks(&buf, tasks, true)
	out := buf.String()

	for _, want := range []string{
		"📋 Found 3 tasks:",
		"📁 Web (2 tasks)",
		"📁 No Project (1 tasks)",
		"  ⏳ [HIGH] One",
		"     Status: in_progress | 🤖 Ada",
		"     ID: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "Web") > strings.Index(out, "No Project") {
		t.Error("groups should follow first appearance")
	}
}

func TestTasksFlatTruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 100)
	var buf bytes.Buffer
	Tasks(&buf, []model.Task{{ID: "1", Title: "One", Status: model.StatusTodo, Priority: model.PriorityLow, Description: long}}, false)
	out := buf.String()

	if !strings.Contains(out, "⏳ [LOW] One\n") {
		t.Errorf("flat line missing:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("x", 77)+"...") || strings.Contains(out, long) {
		t.Errorf("description not truncated:\n%s", out)
	}
}

func TestTasksEmpty(t *testing.T) {
	var buf bytes.Buffer
	Tasks(&buf, nil, true)
	if buf.String() != "📋 No tasks found\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestTaskDetail(t *testing.T) {
	task := &model.Task{
		ID: "t1", Title: "Fix", Status: model.StatusTodo, Priority: model.PriorityMedium,
		Description: "Broken", Project: &model.ProjectRef{ID: "p", Name: "Web"},
		Comments: []model.Comment{
			{ID: "c1", AuthorID: "u1", Author: &model.UserRef{ID: "u1", Name: "Bo", Kind: model.KindHuman}, Content: "Looking", CreatedAt: model.FromTime(now)},
		},
	}
	var buf bytes.Buffer
	TaskDetail(&buf, task, time.UTC)
	out := buf.String()

	for _, want := range []string{
		"📌 Fix",
		"Project: Web",
		"Description:\nBroken",
		"💬 Comments (1):",
		"  👤 Bo - 2026-10-18 09:00",
		"  Looking",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Assigned to:") {
		t.Errorf("unassigned task printed assignee:\n%s", out)
	}
}

func TestProjects(t *testing.T) {
	var buf bytes.Buffer
	Projects(&buf, []model.Project{{ID: "p1", Name: "Web", Description: "Site", Color: "#3B82F6", TaskCount: 4}})
	out := buf.String()
	for _, want := range []string{"📁 Found 1 projects:", "📂 Web (4 tasks)", "   Site", "   ID: p1", "   Color: #3B82F6"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestReminderSummary(t *testing.T) {
	var buf bytes.Buffer
	ReminderSummary(&buf, 0, 0, 0, false)
	if !strings.Contains(buf.String(), "All tasks are on track") {
		t.Errorf("zero summary:\n%s", buf.String())
	}

	buf.Reset()
	ReminderSummary(&buf, 1, 2, 0, true)
	out := buf.String()
	if !strings.Contains(out, "dry run, not posted): 3") || !strings.Contains(out, "no comments were posted") {
		t.Errorf("dry-run summary:\n%s", out)
	}
}
