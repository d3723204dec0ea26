package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/rules"
)

// Placeholders rendered for empty standup sections.
const (
	NoCompletedPlaceholder  = "- No tasks completed"
	NoInProgressPlaceholder = "- No tasks in progress"
)

// Unassigned is shown in place of an assignee name.
const Unassigned = "Unassigned"

// StandupTitle returns the title of the standup task for the day of now.
func StandupTitle(now time.Time) string {
	return "Daily Standup - " + now.Format("2006-01-02")
}

// PriorityEmoji returns the marker used for a priority in summaries.
func PriorityEmoji(p model.Priority) string {
	switch p {
	case model.PriorityLow:
		return "🔵"
	case model.PriorityMedium:
		return "🟡"
	case model.PriorityHigh:
		return "🔴"
	default:
		return "⚪"
	}
}

// Standup renders the daily summary: tasks completed within the policy's
// recent window, tasks in progress with their priority, and the todo count.
func Standup(tasks []model.Task, now time.Time, p rules.Policy) string {
	completed := rules.RecentlyCompleted(tasks, now, p)
	inProgress := rules.InProgress(tasks)
	todo := rules.Todo(tasks)

	lines := []string{
		fmt.Sprintf("# Daily Standup - %s", now.Format("Monday, January 02, 2006")),
		"",
		"## ✅ Completed Yesterday",
	}
	if len(completed) == 0 {
		lines = append(lines, NoCompletedPlaceholder)
	}
	for _, t := range completed {
		lines = append(lines, fmt.Sprintf("- **%s** (%s)", t.Title, t.AssignedTo.DisplayName(Unassigned)))
	}

	lines = append(lines, "", "## 🔄 In Progress")
	if len(inProgress) == 0 {
		lines = append(lines, NoInProgressPlaceholder)
	}
	for _, t := range inProgress {
		lines = append(lines, fmt.Sprintf("- %s **%s** (%s)", PriorityEmoji(t.Priority), t.Title, t.AssignedTo.DisplayName(Unassigned)))
	}

	lines = append(lines, "", fmt.Sprintf("## ⏳ Todo: %d tasks", len(todo)))
	return strings.Join(lines, "\n")
}
