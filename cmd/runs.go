package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/missionctl/internal/logging"
)

// runsCommand prints the latest agent run log, or lists past runs.
func (a *app) runsCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("runs")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List recorded runs instead of printing one")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return a.usage("runs [-n N] [-f] [-list]")
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(a.stdout, "No runs recorded.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(a.stdout, "%s  %-8s  %s\n", r.ModTime.Local().Format("2006-01-02 15:04:05"), r.Agent, r.RunID)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(a.stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(a.stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, a.stdout, logPath, *n, *follow)
}
