// Package rules classifies a task snapshot into the categories the agent
// drivers act on. Every function is pure: the caller captures now once per
// run and passes the same value to each rule.
package rules

import (
	"time"

	"github.com/nibzard/missionctl/internal/model"
)

const day = 24 * time.Hour

// Policy holds the time thresholds. Overdue needs none: it compares the due
// date directly.
type Policy struct {
	// StaleAfter is how long an in-progress task may go without an update.
	// A task is stale only when strictly older than this.
	StaleAfter time.Duration
	// RecentWindow is how far back a completion counts as recent.
	RecentWindow time.Duration
}

// DefaultPolicy returns a seven day staleness threshold and a 24 hour
// completion window.
func DefaultPolicy() Policy {
	return Policy{StaleAfter: 7 * day, RecentWindow: day}
}

// Overdue is an unfinished task past its due date.
type Overdue struct {
	Task model.Task
	// Days is the whole number of days past due, floored.
	Days int
}

// Stale is an in-progress task that has not been updated for longer than
// the policy allows.
type Stale struct {
	Task model.Task
	// Age is the exact time since the last update.
	Age time.Duration
}

// Days returns the age in whole days, floored.
func (s Stale) Days() int {
	return int(s.Age / day)
}

// OverdueTasks returns tasks that are not done, have a due date, and whose
// due date is before now.
func OverdueTasks(tasks []model.Task, now time.Time) []Overdue {
	var out []Overdue
	for _, t := range tasks {
		if t.Status == model.StatusDone || !t.DueDate.IsSet() {
			continue
		}
		if !t.DueDate.Before(now) {
			continue
		}
		out = append(out, Overdue{Task: t, Days: int(now.Sub(t.DueDate.Time) / day)})
	}
	return out
}

// StaleTasks returns in-progress tasks whose last update is strictly older
// than p.StaleAfter.
func StaleTasks(tasks []model.Task, now time.Time, p Policy) []Stale {
	var out []Stale
	for _, t := range tasks {
		if t.Status != model.StatusInProgress {
			continue
		}
		age := now.Sub(t.UpdatedAt.Time)
		if age > p.StaleAfter {
			out = append(out, Stale{Task: t, Age: age})
		}
	}
	return out
}

// HighPriorityUnstarted returns high priority tasks still in todo.
func HighPriorityUnstarted(tasks []model.Task) []model.Task {
	return filter(tasks, func(t model.Task) bool {
		return t.Priority == model.PriorityHigh && t.Status == model.StatusTodo
	})
}

// RecentlyCompleted returns done tasks updated within p.RecentWindow of now.
func RecentlyCompleted(tasks []model.Task, now time.Time, p Policy) []model.Task {
	cutoff := now.Add(-p.RecentWindow)
	return filter(tasks, func(t model.Task) bool {
		return t.Status == model.StatusDone && t.UpdatedAt.After(cutoff)
	})
}

// InProgress returns tasks with status in_progress.
func InProgress(tasks []model.Task) []model.Task {
	return ByStatus(tasks, model.StatusInProgress)
}

// Todo returns tasks with status todo.
func Todo(tasks []model.Task) []model.Task {
	return ByStatus(tasks, model.StatusTodo)
}

// ByStatus returns tasks whose status is any of statuses, in input order.
func ByStatus(tasks []model.Task, statuses ...model.Status) []model.Task {
	return filter(tasks, func(t model.Task) bool {
		for _, s := range statuses {
			if t.Status == s {
				return true
			}
		}
		return false
	})
}

func filter(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Classification is every category computed from one snapshot. A task may
// appear in more than one category.
type Classification struct {
	Overdue           []Overdue
	HighPriority      []model.Task
	Stale             []Stale
	RecentlyCompleted []model.Task
	InProgress        []model.Task
	Todo              []model.Task
}

// Classify runs every rule against the same snapshot and instant.
func Classify(tasks []model.Task, now time.Time, p Policy) Classification {
	return Classification{
		Overdue:           OverdueTasks(tasks, now),
		HighPriority:      HighPriorityUnstarted(tasks),
		Stale:             StaleTasks(tasks, now, p),
		RecentlyCompleted: RecentlyCompleted(tasks, now, p),
		InProgress:        InProgress(tasks),
		Todo:              Todo(tasks),
	}
}
