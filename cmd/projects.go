package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/nibzard/missionctl/internal/api"
	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/report"
)

// projectsCommand dispatches the project verbs.
func (a *app) projectsCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("projects <list|create|get|update|delete>")
	}
	verb, rest := args[0], args[1:]
	switch verb {
	case "list", "ls":
		return a.projectsList(ctx, rest)
	case "create":
		return a.projectsCreate(ctx, rest)
	case "get", "show":
		return a.projectsGet(ctx, rest)
	case "update":
		return a.projectsUpdate(ctx, rest)
	case "delete", "rm":
		return a.projectsDelete(ctx, rest)
	default:
		fmt.Fprintf(a.stderr, "Unknown project command: %s\n", verb)
		return fmt.Errorf("unknown project command: %s", verb)
	}
}

func (a *app) projectsList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("projects list")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	return a.emit(projects, func(w io.Writer) {
		report.Projects(w, projects)
	})
}

func (a *app) projectsCreate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("projects create")
	color := fs.String("color", api.DefaultProjectColor, "Project color (hex)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 1 || len(positional) > 2 {
		return a.usage("projects create <name> [description] [-color #3B82F6]")
	}
	name := positional[0]
	description := ""
	if len(positional) == 2 {
		description = positional[1]
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	id, err := client.CreateProject(ctx, name, description, *color)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return a.emit(map[string]string{"projectId": id}, func(w io.Writer) {
		fmt.Fprintln(w, "✅ Project created successfully!")
		fmt.Fprintf(w, "   Project ID: %s\n", id)
		fmt.Fprintf(w, "   Name: %s\n", name)
	})
}

func (a *app) projectsGet(ctx context.Context, args []string) error {
	fs := a.newFlagSet("projects get")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return a.usage("projects get <project_id>")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	project, err := client.GetProject(ctx, positional[0])
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("project not found: %s", positional[0])
		}
		return fmt.Errorf("getting project: %w", err)
	}
	return a.emit(project, func(w io.Writer) {
		report.ProjectDetail(w, project, time.Local)
	})
}

func (a *app) projectsUpdate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("projects update")
	fs.String("name", "", "New project name")
	fs.String("description", "", "New description")
	fs.String("color", "", "New color (hex)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return a.usage("projects update <project_id> [-name] [-description] [-color]")
	}

	fields := visitedFields(fs, map[string]string{
		"name":        "name",
		"description": model.FieldDescription,
		"color":       "color",
	})
	if len(fields) == 0 {
		return a.usage("projects update <project_id> [-name] [-description] [-color]")
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	if err := client.UpdateProject(ctx, positional[0], fields); err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return a.emit(map[string]any{"success": true, "projectId": positional[0]}, func(w io.Writer) {
		fmt.Fprintln(w, "✅ Project updated")
	})
}

func (a *app) projectsDelete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("projects delete")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return a.usage("projects delete <project_id>")
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	if err := client.DeleteProject(ctx, positional[0]); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return a.emit(map[string]any{"success": true, "projectId": positional[0]}, func(w io.Writer) {
		fmt.Fprintf(w, "🗑️  Project deleted: %s\n", positional[0])
	})
}

// visitedFields collects the string flags that were set on the command line
// into a Fields map, keyed by the backend field name in keys.
func visitedFields(fs *flag.FlagSet, keys map[string]string) model.Fields {
	fields := model.Fields{}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := keys[f.Name]; ok {
			fields[key] = f.Value.String()
		}
	})
	return fields
}
