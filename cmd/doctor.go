package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nibzard/missionctl/internal/config"
)

// doctorTimeout bounds the connectivity check.
const doctorTimeout = 10 * time.Second

// doctorCommand checks configuration, the run log directory, and that the
// backend answers.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("doctor")
	offline := fs.Bool("offline", false, "Skip the connectivity check")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return a.usage("doctor [-offline]")
	}

	w := a.stdout
	fmt.Fprintln(w, "missionctl doctor")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  File: (none, using environment and flags)")
	}
	for _, field := range []string{config.FieldBaseURL, config.FieldAPIKey, config.FieldUserID} {
		value := a.cws.Describe(field)
		if err := a.cfg.Require(field); err != nil {
			fmt.Fprintf(w, "  ❌ %s: %v\n", field, err)
			allOK = false
			continue
		}
		fmt.Fprintf(w, "  ✅ %s: %s (%s)\n", field, value, a.cws.Sources[field])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Run log directory: %s\n", a.cfg.LogDir)
	switch info, err := os.Stat(a.cfg.LogDir); {
	case !a.cfg.RunLog:
		fmt.Fprintln(w, "  ⚠️  Run logs disabled")
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first agent run)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case !info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Backend:")
	switch {
	case *offline:
		fmt.Fprintln(w, "  ⚠️  Skipped (-offline)")
	case a.cfg.BaseURL == "":
		fmt.Fprintln(w, "  ❌ No base URL configured")
		allOK = false
	default:
		client, err := a.client()
		if err != nil {
			fmt.Fprintf(w, "  ❌ %v\n", err)
			allOK = false
			break
		}
		checkCtx, cancel := context.WithTimeout(ctx, doctorTimeout)
		projects, err := client.ListProjects(checkCtx)
		cancel()
		if err != nil {
			fmt.Fprintf(w, "  ❌ %s: %v\n", client.BaseURL(), err)
			allOK = false
			break
		}
		fmt.Fprintf(w, "  ✅ %s (%d projects)\n", client.BaseURL(), len(projects))
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. missionctl may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}
