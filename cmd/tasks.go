package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nibzard/missionctl/internal/api"
	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/report"
	"github.com/nibzard/missionctl/internal/rules"
	"github.com/nibzard/missionctl/internal/utils"
)

// dueLayout is the date format accepted by -due.
const dueLayout = "2006-01-02"

// tasksCommand dispatches the task verbs.
func (a *app) tasksCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("tasks <list|create|get|update|move|comment>")
	}
	verb, rest := args[0], args[1:]
	switch verb {
	case "list", "ls":
		return a.tasksList(ctx, rest)
	case "create":
		return a.tasksCreate(ctx, rest)
	case "get", "show":
		return a.tasksGet(ctx, rest)
	case "update":
		return a.tasksUpdate(ctx, rest)
	case "move":
		return a.tasksMove(ctx, rest)
	case "comment":
		return a.tasksComment(ctx, rest)
	default:
		fmt.Fprintf(a.stderr, "Unknown task command: %s\n", verb)
		return fmt.Errorf("unknown task command: %s", verb)
	}
}

func (a *app) tasksList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tasks list")
	status := fs.String("status", "", "Only show tasks with these statuses, comma separated (todo,in_progress,done)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return a.usage("tasks list [project_id] [-status todo,in_progress,done]")
	}
	projectID := ""
	if len(positional) == 1 {
		projectID = positional[0]
	}
	var want []model.Status
	for _, s := range utils.SplitAndTrim(*status, ",") {
		st, err := model.ParseStatus(s)
		if err != nil {
			return err
		}
		want = append(want, st)
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	tasks, err := client.ListTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	if len(want) > 0 {
		tasks = rules.ByStatus(tasks, want...)
	}
	return a.emit(tasks, func(w io.Writer) {
		report.Tasks(w, tasks, projectID == "")
	})
}

func (a *app) tasksCreate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tasks create")
	project := fs.String("project", "", "Project ID")
	priority := fs.String("priority", string(model.PriorityMedium), "Priority (low|medium|high)")
	assign := fs.String("assign", "", "Assignee user ID")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 1 || len(positional) > 2 {
		return a.usage("tasks create <title> [description] [-project id] [-priority low|medium|high] [-assign user_id] [-due YYYY-MM-DD]")
	}

	fields := model.Fields{
		model.FieldTitle:    positional[0],
		model.FieldPriority: *priority,
	}
	if len(positional) == 2 {
		fields[model.FieldDescription] = positional[1]
	}
	if *project != "" {
		fields[model.FieldProjectID] = *project
	}
	if *assign != "" {
		fields[model.FieldAssignedTo] = *assign
	}
	if *due != "" {
		t, err := parseDue(*due)
		if err != nil {
			return err
		}
		fields.SetDueDate(t)
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	id, err := client.CreateTask(ctx, fields)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return a.emit(map[string]string{"taskId": id}, func(w io.Writer) {
		fmt.Fprintln(w, "✅ Task created successfully!")
		fmt.Fprintf(w, "   Task ID: %s\n", id)
		fmt.Fprintf(w, "   Title: %s\n", positional[0])
		if *project != "" {
			fmt.Fprintf(w, "   Project: %s\n", *project)
		}
	})
}

func (a *app) tasksGet(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tasks get")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return a.usage("tasks get <task_id>")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	task, err := client.GetTask(ctx, positional[0])
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("task not found: %s", positional[0])
		}
		return fmt.Errorf("getting task: %w", err)
	}
	return a.emit(task, func(w io.Writer) {
		report.TaskDetail(w, task, time.Local)
	})
}

func (a *app) tasksUpdate(ctx context.Context, args []string) error {
	const line = "tasks update <task_id> [todo|in_progress|done] [-priority] [-title] [-description] [-assign] [-due]"
	fs := a.newFlagSet("tasks update")
	fs.String("priority", "", "New priority (low|medium|high)")
	fs.String("title", "", "New title")
	fs.String("description", "", "New description")
	fs.String("assign", "", "Assignee user ID")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 1 || len(positional) > 2 {
		return a.usage(line)
	}

	fields := visitedFields(fs, map[string]string{
		"priority":    model.FieldPriority,
		"title":       model.FieldTitle,
		"description": model.FieldDescription,
		"assign":      model.FieldAssignedTo,
	})
	if len(positional) == 2 {
		status, err := model.ParseStatus(positional[1])
		if err != nil {
			return err
		}
		fields[model.FieldStatus] = status
	}
	if *due != "" {
		t, err := parseDue(*due)
		if err != nil {
			return err
		}
		fields.SetDueDate(t)
	}
	if len(fields) == 0 {
		return a.usage(line)
	}
	// Reject bad enums before a client is even built.
	if err := fields.Validate(); err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	if err := client.UpdateTask(ctx, positional[0], fields); err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return a.emit(map[string]any{"success": true, "taskId": positional[0]}, func(w io.Writer) {
		if status, ok := fields[model.FieldStatus]; ok {
			fmt.Fprintf(w, "✅ Task updated to '%s'\n", status)
			return
		}
		fmt.Fprintln(w, "✅ Task updated")
	})
}

func (a *app) tasksMove(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tasks move")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return a.usage("tasks move <task_id> <project_id>")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	fields := model.Fields{model.FieldProjectID: positional[1]}
	if err := client.UpdateTask(ctx, positional[0], fields); err != nil {
		return fmt.Errorf("moving task: %w", err)
	}
	return a.emit(map[string]any{"success": true, "taskId": positional[0], "projectId": positional[1]}, func(w io.Writer) {
		fmt.Fprintln(w, "✅ Task moved to project")
	})
}

func (a *app) tasksComment(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tasks comment")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 2 {
		return a.usage("tasks comment <task_id> <message...>")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	id, err := client.AddComment(ctx, positional[0], joinArgs(positional[1:]))
	if err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}
	return a.emit(map[string]string{"commentId": id}, func(w io.Writer) {
		fmt.Fprintln(w, "✅ Comment added successfully!")
	})
}

// parseDue reads a calendar date as local midnight.
func parseDue(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dueLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &model.ValidationError{Path: model.FieldDueDate, Err: fmt.Errorf("expected YYYY-MM-DD, got %q", s)}
	}
	return t, nil
}
