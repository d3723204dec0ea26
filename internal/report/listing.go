package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/utils"
)

const rule = "────────────────────────────────────────────────────────────"

// NoProject labels tasks that belong to no project.
const NoProject = "No Project"

// StatusEmoji returns the marker used for a status in listings.
func StatusEmoji(s model.Status) string {
	switch s {
	case model.StatusTodo:
		return "⏳"
	case model.StatusInProgress:
		return "🔄"
	case model.StatusDone:
		return "✅"
	default:
		return "📌"
	}
}

// KindIcon distinguishes agents from people.
func KindIcon(u *model.UserRef) string {
	if u.IsAgent() {
		return "🤖"
	}
	return "👤"
}

// Projects writes a project listing.
func Projects(w io.Writer, projects []model.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "📁 No projects found")
		return
	}
	fmt.Fprintf(w, "📁 Found %d projects:\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(w, "📂 %s (%d tasks)\n", p.Name, p.TaskCount)
		if p.Description != "" {
			fmt.Fprintf(w, "   %s\n", p.Description)
		}
		fmt.Fprintf(w, "   ID: %s\n", p.ID)
		fmt.Fprintf(w, "   Color: %s\n\n", p.Color)
	}
}

// ProjectDetail writes one project.
func ProjectDetail(w io.Writer, p *model.Project, loc *time.Location) {
	fmt.Fprintf(w, "📂 %s\n", p.Name)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ID: %s\n", p.ID)
	fmt.Fprintf(w, "Description: %s\n", p.Description)
	fmt.Fprintf(w, "Color: %s\n", p.Color)
	fmt.Fprintf(w, "Tasks: %d\n", p.TaskCount)
	if p.CreatedBy != nil {
		fmt.Fprintf(w, "Created by: %s\n", p.CreatedBy.DisplayName(p.CreatedBy.ID))
	}
	if p.CreatedAt.IsSet() {
		fmt.Fprintf(w, "Created: %s\n", p.CreatedAt.In(loc).Format("2006-01-02 15:04"))
	}
}

// Tasks writes a task listing. When grouped, tasks are grouped by project
// in order of first appearance.
func Tasks(w io.Writer, tasks []model.Task, grouped bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "📋 No tasks found")
		return
	}
	fmt.Fprintf(w, "📋 Found %d tasks:\n", len(tasks))

	if !grouped {
		fmt.Fprintln(w)
		for _, t := range tasks {
			writeTaskLine(w, t, "")
			if t.Description != "" {
				fmt.Fprintf(w, "   %s\n", utils.Truncate(firstLine(t.Description), 80))
			}
			fmt.Fprintln(w)
		}
		return
	}

	var order []string
	groups := make(map[string][]model.Task)
	for _, t := range tasks {
		name := t.ProjectName(NoProject)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], t)
	}
	for _, name := range order {
		fmt.Fprintf(w, "\n📁 %s (%d tasks)\n", name, len(groups[name]))
		fmt.Fprintln(w, rule)
		for _, t := range groups[name] {
			writeTaskLine(w, t, "  ")
			fmt.Fprintln(w)
		}
	}
}

func writeTaskLine(w io.Writer, t model.Task, indent string) {
	assignee := ""
	if t.IsAssigned() {
		assignee = fmt.Sprintf(" | %s %s", KindIcon(t.AssignedTo), t.AssignedTo.DisplayName(t.AssignedTo.ID))
	}
	fmt.Fprintf(w, "%s%s [%s] %s\n", indent, StatusEmoji(t.Status), strings.ToUpper(string(t.Priority)), t.Title)
	fmt.Fprintf(w, "%s   Status: %s%s\n", indent, t.Status, assignee)
	if t.DueDate.IsSet() {
		fmt.Fprintf(w, "%s   Due: %s\n", indent, t.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "%s   ID: %s\n", indent, t.ID)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// TaskDetail writes one task with its comments. Timestamps are shown in loc.
func TaskDetail(w io.Writer, t *model.Task, loc *time.Location) {
	fmt.Fprintf(w, "📌 %s\n", t.Title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ID: %s\n", t.ID)
	fmt.Fprintf(w, "Status: %s\n", t.Status)
	fmt.Fprintf(w, "Priority: %s\n", t.Priority)
	if t.Project != nil {
		fmt.Fprintf(w, "Project: %s\n", t.ProjectName(t.Project.ID))
	}
	if t.DueDate.IsSet() {
		fmt.Fprintf(w, "Due: %s\n", t.DueDate.In(loc).Format("2006-01-02"))
	}
	if t.IsAssigned() {
		fmt.Fprintf(w, "Assigned to: %s %s\n", KindIcon(t.AssignedTo), t.AssignedTo.DisplayName(t.AssignedTo.ID))
	}

	fmt.Fprintf(w, "\nDescription:\n%s\n", t.Description)

	if len(t.Comments) == 0 {
		return
	}
	fmt.Fprintf(w, "\n💬 Comments (%d):\n", len(t.Comments))
	for _, c := range t.Comments {
		author := c.Author
		if author == nil {
			author = &model.UserRef{ID: c.AuthorID}
		}
		fmt.Fprintf(w, "\n  %s %s - %s\n", KindIcon(author), author.DisplayName(author.ID), c.CreatedAt.In(loc).Format("2006-01-02 15:04"))
		for _, line := range strings.Split(c.Content, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// ReminderSummary writes the per-category counts after a reminder run.
func ReminderSummary(w io.Writer, overdue, highPriority, stale int, dryRun bool) {
	total := overdue + highPriority + stale
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "📊 Summary:")
	fmt.Fprintf(w, "  Overdue tasks: %d\n", overdue)
	fmt.Fprintf(w, "  High-priority todos: %d\n", highPriority)
	fmt.Fprintf(w, "  Stale in-progress: %d\n", stale)
	if dryRun {
		fmt.Fprintf(w, "  Total reminders (dry run, not posted): %d\n", total)
	} else {
		fmt.Fprintf(w, "  Total reminders sent: %d\n", total)
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))

	switch {
	case total == 0:
		fmt.Fprintln(w, "\n✅ All tasks are on track! No reminders needed.")
	case dryRun:
		fmt.Fprintln(w, "\n📝 Dry run: no comments were posted.")
	default:
		fmt.Fprintln(w, "\n📬 Reminder comments have been posted to tasks.")
	}
}
