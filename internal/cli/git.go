package cli

import (
	"github.com/spf13/cobra"

	"sapstack.dev/sapstack/internal/runtime"
)

// newGitCmd creates the git command
func newGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git <args>...",
		Short: "Run one git command translated for the Sapling checkout",
		Long: `Run a single git-shaped command. Commands with a Sapling translation
(remote get-url, fetch --prune, merge-base, push) run through Sapling; anything
else is forwarded to git against the backing bare repository with symbolic
HEAD tokens resolved to concrete commit hashes.`,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ctx.Splog.Close() }()

			out, err := ctx.Shell.Git(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if out != "" {
				ctx.Splog.Page(out + "\n")
			}
			return nil
		},
	}

	return cmd
}
