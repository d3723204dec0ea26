package report

import (
	"fmt"
	"time"

	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/rules"
)

// Reminder categories, in the order the reminder agent checks them.
const (
	CategoryOverdue      = "overdue"
	CategoryHighPriority = "high_priority"
	CategoryStale        = "stale"
)

// OverdueReminder is posted on an unfinished task past its due date.
func OverdueReminder(t model.Task, days int) string {
	msg := fmt.Sprintf("⚠️ Reminder: This task is overdue by %d day(s). Current status: %s", days, t.Status)
	if t.IsAssigned() {
		msg += fmt.Sprintf("\n\n@%s - Please update the status or due date.", t.AssignedTo.DisplayName(Unassigned))
	}
	return msg
}

// HighPriorityReminder is posted on a high priority task still in todo.
func HighPriorityReminder(t model.Task) string {
	msg := "🔴 High Priority Reminder: This task is marked as high priority but hasn't been started yet.\n\n" +
		"Assigned to: " + t.AssignedTo.DisplayName("No one")
	if !t.IsAssigned() {
		msg += "\n\n💡 Tip: Consider assigning this task to someone."
	}
	return msg
}

// StaleReminder is posted on an in-progress task with no recent updates.
// The age is floored to whole days.
func StaleReminder(t model.Task, age time.Duration) string {
	days := int(age / (24 * time.Hour))
	msg := fmt.Sprintf("⏰ Status Check: This task has been in progress for %d day(s) without updates.\n\n", days)
	if t.IsAssigned() {
		return msg + fmt.Sprintf("@%s - Is this task still being worked on?", t.AssignedTo.DisplayName(Unassigned))
	}
	return msg + "This task is unassigned. Should it be assigned or moved back to todo?"
}

// Reminder is one comment the reminder agent intends to post.
type Reminder struct {
	Category string
	Task     model.Task
	Content  string
}

// Reminders renders every reminder for c in posting order: overdue, then
// high priority, then stale. A task matching several categories gets one
// reminder per category.
func Reminders(c rules.Classification) []Reminder {
	var out []Reminder
	for _, o := range c.Overdue {
		out = append(out, Reminder{Category: CategoryOverdue, Task: o.Task, Content: OverdueReminder(o.Task, o.Days)})
	}
	for _, t := range c.HighPriority {
		out = append(out, Reminder{Category: CategoryHighPriority, Task: t, Content: HighPriorityReminder(t)})
	}
	for _, s := range c.Stale {
		out = append(out, Reminder{Category: CategoryStale, Task: s.Task, Content: StaleReminder(s.Task, s.Age)})
	}
	return out
}
