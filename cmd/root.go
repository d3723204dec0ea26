// Package cmd implements the CLI command structure for missionctl.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/missionctl/internal/api"
	"github.com/nibzard/missionctl/internal/config"
	"github.com/nibzard/missionctl/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errUsage marks a usage error whose message has already been printed.
var errUsage = errors.New("invalid usage")

// app carries what every command needs. It is built once per invocation.
type app struct {
	cfg    *config.Config
	cws    *config.ConfigWithSources
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the missionctl CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("missionctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	a := &app{
		cfg:    cws.Config,
		cws:    cws,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logging.NewConsoleFromConfig(stderr, cws.Config.LogLevel, cws.Config.LogFormat, cws.Config.LogTimestamps, cws.Config.LogCaller),
	}

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("no command given")
	}
	subcommand, remaining := remaining[0], remaining[1:]

	a.logger.Debug("dispatch", "command", subcommand, "url", a.cfg.BaseURL, "user", a.cfg.UserID)

	// Execute the subcommand
	switch subcommand {
	case "projects", "project":
		return a.projectsCommand(ctx, remaining)
	case "tasks", "task":
		return a.tasksCommand(ctx, remaining)
	case "agent", "agents":
		return a.agentCommand(ctx, remaining)
	case "onboard":
		return a.onboardCommand(ctx, remaining)
	case "board":
		return a.boardCommand(ctx, remaining)
	case "runs":
		return a.runsCommand(ctx, remaining)
	case "config":
		return a.configCommand(remaining)
	case "doctor":
		return a.doctorCommand(ctx, remaining)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// client builds the API client from the loaded configuration.
func (a *app) client() (*api.Client, error) {
	if err := a.cfg.Require(config.FieldBaseURL); err != nil {
		return nil, err
	}
	opts := api.OptionsFromConfig(a.cfg, a.logger)
	opts.UserAgent = "missionctl/" + Version
	return api.New(opts)
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "missionctl version %s\n", Version)
	return nil
}

// usage prints a one-line usage hint and returns errUsage.
func (a *app) usage(line string) error {
	fmt.Fprintf(a.stderr, "Usage: missionctl %s\n", line)
	return fmt.Errorf("%w: missionctl %s", errUsage, line)
}

// parseArgs parses fs from args, allowing flags to follow positional
// arguments. It returns the positional arguments in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// newFlagSet returns a flag set for a subcommand that reports to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("missionctl "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "missionctl - Mission Control task tracker client and automation agents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  missionctl [global options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  projects list                              List projects")
	fmt.Fprintln(w, "  projects create <name> [description]       Create a project (-color)")
	fmt.Fprintln(w, "  projects get <project_id>                  Show a project")
	fmt.Fprintln(w, "  projects update <project_id>               Update a project (-name, -description, -color)")
	fmt.Fprintln(w, "  projects delete <project_id>               Delete a project")
	fmt.Fprintln(w, "  tasks list [project_id]                    List tasks (-status todo,in_progress)")
	fmt.Fprintln(w, "  tasks create <title> [description]         Create a task (-project, -priority, -assign, -due)")
	fmt.Fprintln(w, "  tasks get <task_id>                        Show a task with comments")
	fmt.Fprintln(w, "  tasks update <task_id> [status]            Update a task (-priority, -title, -description, -assign, -due)")
	fmt.Fprintln(w, "  tasks move <task_id> <project_id>          Move a task to another project")
	fmt.Fprintln(w, "  tasks comment <task_id> <message...>       Add a comment")
	fmt.Fprintln(w, "  agent standup                              Create today's standup task")
	fmt.Fprintln(w, "  agent remind                               Post reminders on tasks needing attention")
	fmt.Fprintln(w, "  onboard [name] [agent|human]               Register an identity and issue an API key")
	fmt.Fprintln(w, "  board                                      Read-only terminal task board")
	fmt.Fprintln(w, "  runs                                       Show the latest agent run log (-n, -f, -list)")
	fmt.Fprintln(w, "  config                                     Show effective configuration (-sources, -example)")
	fmt.Fprintln(w, "  doctor                                     Check configuration and connectivity")
	fmt.Fprintln(w, "  version                                    Show version information")
	fmt.Fprintln(w, "  help                                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Agent Options (use with 'agent standup' and 'agent remind'):")
	fmt.Fprintln(w, "  -dry-run")
	fmt.Fprintln(w, "        Classify and render without writing to the backend")
	fmt.Fprintln(w, "  -project string")
	fmt.Fprintln(w, "        Only consider tasks in this project")
	fmt.Fprintln(w, "  -stale-days int")
	fmt.Fprintln(w, "        Days an in-progress task may go without updates")
	fmt.Fprintln(w, "  -recent-hours int")
	fmt.Fprintln(w, "        Hours a completion counts as recent")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MISSIONCTL_URL (or CONVEX_URL), MISSIONCTL_API_KEY (or API_KEY),")
	fmt.Fprintln(w, "  MISSIONCTL_USER_ID (or USER_ID, DEMO_USER_ID)")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
