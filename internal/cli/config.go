package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sapstack.dev/sapstack/internal/config"
	"sapstack.dev/sapstack/internal/output"
	"sapstack.dev/sapstack/internal/shell"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved sapstack configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := checkoutRoot(cmd.Context())
			if err != nil {
				return err
			}

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			splog := output.NewSplog()
			splog.Info("remoteName: %s", cfg.GetRemoteName())
			splog.Info("edenCli:    %s", cfg.GetEdenCLI())
			splog.Info("githubUrl:  %s", cfg.GetGithubURL())
			if proxy := cfg.GetProxy(); proxy != "" {
				splog.Info("proxy:      %s", proxy)
			}
			return nil
		},
	}

	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a sapstack configuration value",
		Long:  "Set a configuration key. Valid keys: remoteName, edenCli, githubUrl, proxy.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := checkoutRoot(cmd.Context())
			if err != nil {
				return err
			}
			return config.Set(root, args[0], args[1])
		},
	}
}

// checkoutRoot resolves the Sapling checkout root for the working directory
func checkoutRoot(ctx context.Context) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return "", err
	}

	runner := shell.NewCommandRunner("")
	root, err := runner.RunWith(ctx, shell.Options{
		Env:   map[string]string{"HGPLAIN": "1"},
		Quiet: true,
	}, cfg.GetEdenCLI(), "root")
	if err != nil {
		return "", fmt.Errorf("not inside a Sapling checkout: %w", err)
	}
	return root, nil
}
