package cli

import (
	"fmt"
	"os"
	"os/exec"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"

	"sapstack.dev/sapstack/internal/config"
	"sapstack.dev/sapstack/internal/eden"
	"sapstack.dev/sapstack/internal/github"
	"sapstack.dev/sapstack/internal/output"
	"sapstack.dev/sapstack/internal/shell"
)

// newDoctorCmd creates the doctor command
func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues with your sapstack setup",
		Long: `Run diagnostic checks on your sapstack environment and checkout.

The doctor command checks:
  - Environment: git and the Sapling CLI on PATH
  - Checkout: backing bare repository resolution and readability
  - GitHub: token availability and API authentication`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}

	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	splog := output.NewSplog()
	runner := shell.NewCommandRunner("")
	healthy := true

	report := func(name string, err error) {
		if err != nil {
			healthy = false
			splog.Info("%s %s: %v", output.Red("✗"), name, err)
		} else {
			splog.Info("%s %s", output.Green("✓"), name)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	_, err = exec.LookPath("git")
	report("git on PATH", err)

	edenCLI := cfg.GetEdenCLI()
	_, err = exec.LookPath(edenCLI)
	report(fmt.Sprintf("%s on PATH", edenCLI), err)
	if err != nil {
		return fmt.Errorf("doctor found problems")
	}

	edenShell, err := eden.NewShellWithCLI(ctx, cfg.GetRemoteName(), edenCLI, runner)
	report("backing git directory resolved", err)

	if err == nil {
		splog.Info("  %s", output.Dim(edenShell.GitDir()))
		repo, openErr := gogit.PlainOpen(edenShell.GitDir())
		if openErr != nil {
			report("backing repository readable", openErr)
		} else {
			refs, refErr := repo.References()
			if refErr != nil {
				report("backing repository readable", refErr)
			} else {
				count := 0
				_ = refs.ForEach(func(*plumbing.Reference) error {
					count++
					return nil
				})
				report(fmt.Sprintf("backing repository readable (%d refs)", count), nil)
			}
		}
	}

	token, err := github.GetToken(ctx, runner)
	report("GitHub token available", err)
	if err == nil {
		endpoint, err := github.NewRealEndpoint(ctx, cfg.GetGithubURL(), cfg.GetProxy(), token)
		if err == nil {
			login, viewerErr := endpoint.Viewer(ctx)
			if viewerErr == nil {
				report(fmt.Sprintf("GitHub authenticated as %s", login), nil)
			} else {
				report("GitHub authentication", viewerErr)
			}
		} else {
			report("GitHub client", err)
		}
	}

	if !healthy {
		return fmt.Errorf("doctor found problems")
	}
	splog.Info("%s", output.Green("Everything looks good"))
	return nil
}
