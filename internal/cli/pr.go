package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sapstack.dev/sapstack/internal/github"
	"sapstack.dev/sapstack/internal/output"
	"sapstack.dev/sapstack/internal/runtime"
)

// newPRCmd creates the pr command
func newPRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Inspect and create pull requests for stack branches",
	}

	cmd.AddCommand(newPRViewCmd())
	cmd.AddCommand(newPRCreateCmd())

	return cmd
}

// newPRViewCmd creates the pr view command
func newPRViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <branch>",
		Short: "Show the pull request whose head is a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = rctx.Splog.Close() }()

			owner, repo, err := checkoutRepo(cmd.Context(), rctx)
			if err != nil {
				return err
			}

			pr, err := rctx.GitHub.GetPullRequestByBranch(cmd.Context(), owner, repo, args[0])
			if err != nil {
				return err
			}
			if pr == nil {
				rctx.Splog.Info("no pull request found for branch %s", args[0])
				return nil
			}

			rctx.Splog.Info("#%d %s (%s)", pr.Number, pr.Title, pr.State)
			rctx.Splog.Info("%s", output.Dim(pr.HTMLURL))
			return nil
		},
	}
}

// newPRCreateCmd creates the pr create command
func newPRCreateCmd() *cobra.Command {
	var (
		title string
		base  string
		body  string
		draft bool
	)

	cmd := &cobra.Command{
		Use:   "create <branch>",
		Short: "Open a pull request for a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = rctx.Splog.Close() }()

			owner, repo, err := checkoutRepo(cmd.Context(), rctx)
			if err != nil {
				return err
			}

			pr, err := rctx.GitHub.CreatePullRequest(cmd.Context(), owner, repo, github.CreatePROptions{
				Title: title,
				Head:  args[0],
				Base:  base,
				Body:  body,
				Draft: draft,
			})
			if err != nil {
				return err
			}

			rctx.Splog.Info("#%d %s", pr.Number, pr.HTMLURL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "pull request title")
	cmd.Flags().StringVarP(&base, "base", "b", "main", "base branch")
	cmd.Flags().StringVar(&body, "body", "", "pull request body")
	cmd.Flags().BoolVar(&draft, "draft", false, "create as a draft")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// checkoutRepo derives the GitHub owner and repository from the checkout's
// configured remote. It fails when no GitHub endpoint is attached.
func checkoutRepo(ctx context.Context, rctx *runtime.Context) (string, string, error) {
	if rctx.GitHub == nil {
		return "", "", fmt.Errorf("no GitHub token available; set GITHUB_TOKEN or log in with gh")
	}

	remoteURL, err := rctx.Shell.Git(ctx, "remote", "get-url", rctx.Config.GetRemoteName())
	if err != nil {
		return "", "", err
	}

	return github.ParseRepoURL(remoteURL)
}
