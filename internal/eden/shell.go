// Package eden translates git commands issued by stacked-diff tooling into
// Sapling (EdenSCM) invocations against the checkout's backing bare Git
// repository. Commands that have no Sapling translation are forwarded to git
// with --git-dir pointing at the backing repository.
package eden

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	saperrors "sapstack.dev/sapstack/internal/errors"
	"sapstack.dev/sapstack/internal/shell"
)

const (
	// DefaultCLI is the Sapling command-line program
	DefaultCLI = "hg"

	// plainEnvVar forces plain output mode so Sapling's output is parseable
	plainEnvVar = "HGPLAIN"

	// fetchRefspec places remote branch heads under refs/remotes/origin, which
	// the bare clone's config does not specify on its own
	fetchRefspec = "+refs/heads/*:refs/remotes/origin/*"

	headsPrefix = "refs/heads/"
)

// gitDirExpr asks Sapling where the backing bare Git repository lives.
var gitDirExpr = []string{
	"debugshell",
	"-c",
	`print(repo.svfs.join(repo.svfs.readutf8("gitdir")))`,
}

// Shell translates git commands for a Sapling-backed checkout. The backing
// git directory is resolved once at construction and never changes.
type Shell struct {
	runner     shell.Runner
	remoteName string
	cli        string
	gitDir     string
}

// NewShell creates a Shell for the checkout the runner is rooted in.
// Construction fails if the backing git directory cannot be resolved.
func NewShell(ctx context.Context, remoteName string, runner shell.Runner) (*Shell, error) {
	return NewShellWithCLI(ctx, remoteName, DefaultCLI, runner)
}

// NewShellWithCLI creates a Shell using a specific Sapling CLI name
// (e.g., "sl" instead of "hg").
func NewShellWithCLI(ctx context.Context, remoteName string, cli string, runner shell.Runner) (*Shell, error) {
	if remoteName == "" {
		remoteName = "origin"
	}
	if cli == "" {
		cli = DefaultCLI
	}

	s := &Shell{
		runner:     runner,
		remoteName: remoteName,
		cli:        cli,
	}

	gitDir, err := s.runEden(ctx, gitDirExpr...)
	if err != nil {
		return nil, errors.Join(saperrors.ErrGitDirUnresolved, err)
	}
	s.gitDir = gitDir
	slog.Debug(fmt.Sprintf("--git-dir set to: %s", gitDir))

	return s, nil
}

// GitDir returns the resolved backing git directory
func (s *Shell) GitDir() string {
	return s.gitDir
}

// Git runs one git-shaped command, translating it to Sapling where a
// translation exists and forwarding it to git against the backing bare
// repository otherwise. The returned output has trailing whitespace trimmed.
func (s *Shell) Git(ctx context.Context, args ...string) (string, error) {
	return s.GitWith(ctx, shell.Options{}, args...)
}

// GitWith is Git with per-call execution options for the forwarded case.
func (s *Shell) GitWith(ctx context.Context, opts shell.Options, args ...string) (string, error) {
	switch {
	case matchArgs([]patternArg{lit("remote"), lit("get-url"), lit(s.remoteName)}, args):
		return s.getOrigin(ctx)

	case matchArgs([]patternArg{lit("fetch"), lit("--prune")}, args) &&
		(len(args) < 3 || args[2] == s.remoteName):
		if len(args) != 3 {
			return "", saperrors.NewBadArgsError("fetch", args, "expected exactly 3 args")
		}
		origin, err := s.getOrigin(ctx)
		if err != nil {
			return "", err
		}
		return s.forward(ctx, opts, []string{args[0], args[1], origin, fetchRefspec})

	case matchArgs([]patternArg{lit("merge-base"), wildcard, lit("HEAD")}, args):
		// The remote ref is typically "origin/main"; Sapling's revset wants
		// the bare branch name.
		branch := args[1]
		if i := strings.LastIndex(branch, "/"); i != -1 {
			branch = branch[i+1:]
		}
		return s.runEden(ctx, "log", "-T", "{node}", "-r", fmt.Sprintf("ancestor(., %s)", branch))

	case matchArgs([]patternArg{lit("push"), lit(s.remoteName)}, args):
		if len(args) == 2 {
			return "", saperrors.NewBadArgsError("push", args, "expected more args")
		}
		isForce := args[2] == "--force"
		branchArgs := args[2:]
		if isForce {
			branchArgs = args[3:]
		}
		return s.pushBranches(ctx, isForce, branchArgs)
	}

	return s.forward(ctx, opts, args)
}

// forward rewrites symbolic tokens and runs the command with git against the
// backing bare repository.
func (s *Shell) forward(ctx context.Context, opts shell.Options, args []string) (string, error) {
	rewritten, err := s.rewriteArgs(ctx, args)
	if err != nil {
		return "", err
	}

	fullArgs := append([]string{"--git-dir", s.gitDir}, rewritten...)
	return s.runner.RunWith(ctx, opts, "git", fullArgs...)
}

// pushBranches pushes each <hash>:<refspec> mapping in turn. This maps to
// multiple Sapling commands, so only the last one's output is returned.
func (s *Shell) pushBranches(ctx context.Context, _ bool, branchArgs []string) (string, error) {
	var lastResult string
	for _, arg := range branchArgs {
		split := strings.Index(arg, ":")
		if split == -1 {
			return "", saperrors.NewBadArgsError("push", branchArgs, "expected <hash>:<refspec> mapping")
		}
		commitHash := arg[:split]
		refspec := strings.TrimPrefix(arg[split+1:], headsPrefix)

		// Sapling refuses to push a commit it does not already know about,
		// which happens when the commit was written straight into the backing
		// store via git commit-tree. Pull it into the client first.
		if _, err := s.runEden(ctx, "pull", "-r", commitHash); err != nil {
			return "", err
		}

		// Always force: the pushed commit rewrites the remote branch rather
		// than fast-forwarding it, so a plain push is rejected. Ideally this
		// would only apply when the caller asked for --force.
		result, err := s.runEden(ctx, "push", "-r", commitHash, "--to", refspec, "--force")
		if err != nil {
			return "", err
		}
		lastResult = result
	}
	return lastResult, nil
}

// rewriteArgs resolves symbolic HEAD tokens to a concrete commit hash. Git
// cannot resolve HEAD when pointed at the bare repository with --git-dir,
// since the checkout's head lives with Sapling.
func (s *Shell) rewriteArgs(ctx context.Context, args []string) ([]string, error) {
	rewritten := make([]string, len(args))
	copy(rewritten, args)

	for i, arg := range rewritten {
		if arg != "HEAD" {
			continue
		}
		top, err := s.runEden(ctx, "log", "-r", "max(.::)", "-T", "{node}")
		if err != nil {
			return nil, err
		}
		for j := i; j < len(rewritten); j++ {
			if rewritten[j] == "HEAD" {
				rewritten[j] = top
			}
		}
		break
	}

	return rewritten, nil
}

// getOrigin returns the configured remote's URL from Sapling's path config
func (s *Shell) getOrigin(ctx context.Context) (string, error) {
	return s.runEden(ctx, "config", "paths.default")
}

// runEden runs one Sapling command with plain output mode forced on
func (s *Shell) runEden(ctx context.Context, args ...string) (string, error) {
	return s.runner.RunWith(ctx, shell.Options{
		Env: map[string]string{plainEnvVar: "1"},
	}, s.cli, args...)
}
