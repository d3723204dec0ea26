package cmd

import (
	"fmt"

	"github.com/nibzard/missionctl/internal/config"
)

// configCommand prints the effective configuration with the API key masked.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	showSources := fs.Bool("sources", false, "Show where each value came from")
	example := fs.Bool("example", false, "Print an example config file")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return a.usage("config [-sources] [-example]")
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	if a.structured() {
		values := make(map[string]string)
		for _, field := range a.cws.Fields() {
			values[field] = a.cws.Describe(field)
		}
		return a.emit(values, nil)
	}

	for _, field := range a.cws.Fields() {
		line := fmt.Sprintf("%-24s %s", field, a.cws.Describe(field))
		if *showSources {
			line = fmt.Sprintf("%-60s (%s)", line, a.cws.Sources[field])
		}
		fmt.Fprintln(a.stdout, line)
	}
	if *showSources {
		fmt.Fprintln(a.stdout)
		if len(a.cws.Files) == 0 {
			fmt.Fprintln(a.stdout, "No config files found.")
		}
		for _, f := range a.cws.Files {
			fmt.Fprintf(a.stdout, "Read: %s\n", f)
		}
	}
	return nil
}
