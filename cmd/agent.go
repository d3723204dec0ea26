package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nibzard/missionctl/internal/agents"
	"github.com/nibzard/missionctl/internal/config"
	"github.com/nibzard/missionctl/internal/logging"
	"github.com/nibzard/missionctl/internal/report"
	"github.com/nibzard/missionctl/internal/rules"
)

// reminderLines are printed as each reminder is posted.
var reminderLines = map[string]string{
	report.CategoryOverdue:      "📌 Reminded about overdue task: %s",
	report.CategoryHighPriority: "🔴 Reminded about high-priority task: %s",
	report.CategoryStale:        "⏰ Reminded about stale task: %s",
}

// agentCommand runs one of the automation drivers.
func (a *app) agentCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("agent <standup|remind> [-dry-run] [-project id] [-stale-days N] [-recent-hours N]")
	}
	name, rest := args[0], args[1:]

	fs := a.newFlagSet("agent " + name)
	dryRun := fs.Bool("dry-run", a.cfg.Agents.DryRun, "Classify and render without writing to the backend")
	project := fs.String("project", "", "Only consider tasks in this project")
	staleDays := fs.Int("stale-days", a.cfg.Agents.StaleAfterDays, "Days an in-progress task may go without updates")
	recentHours := fs.Int("recent-hours", a.cfg.Agents.RecentHours, "Hours a completion counts as recent")
	positional, err := parseArgs(fs, rest)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}
	if *staleDays <= 0 || *recentHours <= 0 {
		return &config.ConfigurationError{Field: "agents", Err: fmt.Errorf("-stale-days and -recent-hours must be positive")}
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	if !*dryRun {
		if err := a.cfg.Require(config.FieldUserID); err != nil {
			return err
		}
	}

	opts := agents.Options{
		Now: time.Now,
		Policy: rules.Policy{
			StaleAfter:   time.Duration(*staleDays) * 24 * time.Hour,
			RecentWindow: time.Duration(*recentHours) * time.Hour,
		},
		Logger:    a.logger,
		DryRun:    *dryRun,
		ProjectID: *project,
	}

	switch name {
	case "standup":
		runLog := a.openRunLog(agents.NameStandup)
		defer runLog.Close()
		opts.RunLog = runLog
		res, err := agents.NewStandup(client, opts).Run(ctx)
		if res != nil {
			if emitErr := a.emitStandup(res); emitErr != nil && err == nil {
				err = emitErr
			}
		}
		if err != nil {
			return fmt.Errorf("standup agent: %w", err)
		}
		return nil
	case "remind", "reminder", "reminders":
		runLog := a.openRunLog(agents.NameReminder)
		defer runLog.Close()
		opts.RunLog = runLog
		if !a.structured() {
			fmt.Fprintln(a.stdout, "🤖 Task Reminder Agent Starting...")
			fmt.Fprintln(a.stdout)
		}
		res, err := agents.NewReminder(client, opts).Run(ctx)
		if res != nil {
			if emitErr := a.emitReminders(res); emitErr != nil && err == nil {
				err = emitErr
			}
		}
		if err != nil {
			return fmt.Errorf("reminder agent: %w", err)
		}
		return nil
	default:
		fmt.Fprintf(a.stderr, "Unknown agent: %s\n", name)
		return fmt.Errorf("unknown agent: %s", name)
	}
}

// openRunLog starts a run log when enabled. Failure to create one is a
// warning; the run proceeds without it.
func (a *app) openRunLog(agent string) *logging.RunLogger {
	if !a.cfg.RunLog {
		return nil
	}
	runLog, err := logging.NewRunLogger(a.cfg.LogDir, a.cfg.BaseURL, agent)
	if err != nil {
		a.logger.Warn("run log disabled", "err", err)
		return nil
	}
	a.logger.Debug("run log", "path", runLog.Path())
	return runLog
}

func (a *app) emitStandup(res *agents.StandupResult) error {
	return a.emit(res, func(w io.Writer) {
		if res.DryRun {
			fmt.Fprintf(w, "📝 Dry run: would create standup task %q\n", res.Title)
		} else if res.TaskID != "" {
			fmt.Fprintf(w, "✅ Created standup task: %s\n", res.TaskID)
		}
		fmt.Fprintf(w, "\n%s\n", res.Summary)
		if res.TaskID != "" {
			fmt.Fprintln(w, "\n🎉 Daily standup created successfully!")
		}
	})
}

func (a *app) emitReminders(res *agents.ReminderResult) error {
	summary := struct {
		*agents.ReminderResult
		Total int `json:"total"`
	}{res, res.Total()}
	return a.emit(summary, func(w io.Writer) {
		for _, c := range res.Comments {
			line := reminderLines[c.Category]
			if res.DryRun {
				line = "(dry run) " + line
			}
			fmt.Fprintf(w, line+"\n", c.TaskTitle)
		}
		if len(res.Comments) > 0 {
			fmt.Fprintln(w)
		}
		report.ReminderSummary(w, res.Overdue, res.HighPriority, res.Stale, res.DryRun)
	})
}
