package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/missionctl/internal/api"
	"github.com/nibzard/missionctl/internal/config"
	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/report"
)

const rule50 = "──────────────────────────────────────────────────"

// onboardCommand registers a new user or agent and prints its credentials.
func (a *app) onboardCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("onboard")
	keyName := fs.String("key-name", "", "Label for the issued API key (default \"<name> key\")")
	writeConfig := fs.String("write-config", "", "Write the credentials to this TOML config file")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 2 {
		return a.usage("onboard [name] [agent|human] [-key-name label] [-write-config path]")
	}

	req := api.OnboardRequest{Type: model.KindAgent, KeyName: *keyName}
	switch len(positional) {
	case 2:
		req.Type = model.UserKind(strings.ToLower(positional[1]))
		fallthrough
	case 1:
		req.Name = positional[0]
	default:
		if req, err = a.promptOnboard(req); err != nil {
			return err
		}
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	creds, err := client.Onboard(ctx, req)
	if err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}
	kind := model.KindAgent
	if req.Type == model.KindHuman {
		kind = model.KindHuman
	}

	if *writeConfig != "" {
		if err := config.SaveCredentials(*writeConfig, client.BaseURL(), creds.APIKey, creds.UserID); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		a.logger.Info("credentials written", "path", *writeConfig)
	}

	return a.emit(creds, func(w io.Writer) {
		writeCredentials(w, creds, strings.TrimSpace(req.Name), kind, client.BaseURL())
		if *writeConfig != "" {
			fmt.Fprintf(w, "  Credentials written to %s\n\n", *writeConfig)
		}
	})
}

// promptOnboard asks for the name and type on stdin.
func (a *app) promptOnboard(req api.OnboardRequest) (api.OnboardRequest, error) {
	in := bufio.NewScanner(a.stdin)
	fmt.Fprintln(a.stdout, "Mission Control - New User Onboarding")
	fmt.Fprintln(a.stdout)

	fmt.Fprint(a.stdout, "Name (person or agent): ")
	if in.Scan() {
		req.Name = strings.TrimSpace(in.Text())
	}
	if req.Name == "" {
		return req, &model.ValidationError{Path: "name", Err: fmt.Errorf("name is required")}
	}

	fmt.Fprint(a.stdout, "Type [agent/human] (default: agent): ")
	if in.Scan() && strings.EqualFold(strings.TrimSpace(in.Text()), string(model.KindHuman)) {
		req.Type = model.KindHuman
	}
	if err := in.Err(); err != nil {
		return req, fmt.Errorf("reading input: %w", err)
	}
	return req, nil
}

func writeCredentials(w io.Writer, creds *api.Credentials, name string, kind model.UserKind, baseURL string) {
	icon := report.KindIcon(&model.UserRef{Kind: kind})
	env := creds.Env(baseURL)

	fmt.Fprintf(w, "\n%s  Created %s: %s\n", icon, kind, name)
	fmt.Fprintf(w, "   User ID : %s\n", creds.UserID)
	fmt.Fprintf(w, "   Key ID  : %s\n", creds.KeyID)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule50)
	fmt.Fprintln(w, "  Copy this .env block:")
	fmt.Fprintln(w, rule50)
	fmt.Fprintf(w, "\n%s\n\n", env)
	fmt.Fprintln(w, rule50)
	fmt.Fprintln(w, "  Then use the CLI:")
	fmt.Fprintln(w)
	for _, line := range strings.Split(env, "\n") {
		fmt.Fprintf(w, "    export %s\n", line)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    missionctl tasks list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  WARNING: Save the API_KEY now, it won't be shown again.")
	fmt.Fprintln(w)
}
