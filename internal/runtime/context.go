// Package runtime provides a context type that holds the translator, config
// and logger for use throughout the application. This avoids passing multiple
// parameters.
package runtime

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sapstack.dev/sapstack/internal/config"
	"sapstack.dev/sapstack/internal/eden"
	"sapstack.dev/sapstack/internal/github"
	"sapstack.dev/sapstack/internal/output"
	"sapstack.dev/sapstack/internal/shell"
)

// Context provides access to the translator, config and output for commands
type Context struct {
	Shell    *eden.Shell
	Splog    *output.Splog
	Config   *config.Config
	GitHub   github.Endpoint
	Runner   shell.Runner
	RepoRoot string
}

// GetContext builds the runtime context for the current working directory.
// The working directory must be inside a Sapling checkout.
func GetContext(ctx context.Context) (*Context, error) {
	runner := shell.NewCommandRunner("")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// Config may name a different Sapling CLI, so load it from the working
	// directory first and reload from the resolved root after.
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	repoRoot, err := runner.RunWith(ctx, shell.Options{
		Env:   map[string]string{"HGPLAIN": "1"},
		Quiet: true,
	}, cfg.GetEdenCLI(), "root")
	if err != nil {
		return nil, fmt.Errorf("not inside a Sapling checkout: %w", err)
	}

	if repoRoot != cwd {
		cfg, err = config.Load(repoRoot)
		if err != nil {
			return nil, err
		}
	}

	splog, err := output.NewSplogWithLogFile(filepath.Join(repoRoot, ".sapstack", "logs", "sapstack.log"))
	if err != nil {
		return nil, err
	}

	edenShell, err := eden.NewShellWithCLI(ctx, cfg.GetRemoteName(), cfg.GetEdenCLI(), runner)
	if err != nil {
		return nil, err
	}

	rctx := &Context{
		Shell:    edenShell,
		Splog:    splog,
		Config:   cfg,
		Runner:   runner,
		RepoRoot: repoRoot,
	}

	// GitHub access is optional; commands that need it check for nil
	if token, err := github.GetToken(ctx, runner); err == nil {
		endpoint, err := github.NewRealEndpoint(ctx, cfg.GetGithubURL(), cfg.GetProxy(), token)
		if err == nil {
			rctx.GitHub = endpoint
		}
	}

	return rctx, nil
}
