package cmd

import (
	"context"

	"github.com/nibzard/missionctl/internal/rules"
	"github.com/nibzard/missionctl/internal/ui"
)

// boardCommand launches the read-only terminal board.
func (a *app) boardCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("board")
	project := fs.String("project", "", "Only show tasks in this project")
	interval := fs.Duration("interval", ui.DefaultRefreshInterval, "Refresh interval")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return a.usage("board [-project id] [-interval 30s]")
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	return ui.RunBoard(ctx, client,
		ui.WithProject(*project),
		ui.WithRefreshInterval(*interval),
		ui.WithSource(client.BaseURL()),
		ui.WithPolicy(rules.Policy{
			StaleAfter:   a.cfg.Agents.StaleAfter(),
			RecentWindow: a.cfg.Agents.RecentWindow(),
		}),
	)
}
