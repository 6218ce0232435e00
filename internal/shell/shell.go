// Package shell provides generic subprocess execution for sapstack.
// Commands run synchronously with captured output; callers pass per-call
// environment overrides instead of mutating the ambient process environment.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	saperrors "sapstack.dev/sapstack/internal/errors"
)

// DefaultCommandTimeout is the default timeout for subprocess execution
const DefaultCommandTimeout = 5 * time.Minute

// Options holds per-call settings for a command invocation
type Options struct {
	// Dir is the working directory for the command. Empty means inherit.
	Dir string

	// Env is a map of environment variable overrides merged into the
	// base environment for this call only.
	Env map[string]string

	// Quiet suppresses debug logging of the command line.
	Quiet bool
}

// Runner is the capability interface for running external commands.
// Implementations capture standard output, trim trailing whitespace,
// and surface non-zero exits as *errors.CommandError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	RunWith(ctx context.Context, opts Options, name string, args ...string) (string, error)
}

// CommandRunner handles execution of external commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner rooted at workingDir.
// An empty workingDir inherits the process working directory.
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// SetWorkingDir sets the working directory for subsequent commands.
func (r *CommandRunner) SetWorkingDir(dir string) {
	r.workingDir = dir
}

// GetWorkingDir returns the current working directory setting.
func (r *CommandRunner) GetWorkingDir() string {
	return r.workingDir
}

// Run executes a command with default options and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return r.RunWith(ctx, Options{}, name, args...)
}

// RunWith executes a command with the given options and returns the trimmed output
func (r *CommandRunner) RunWith(ctx context.Context, opts Options, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	} else if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(opts.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), opts.Env)
	}

	if !opts.Quiet {
		slog.Debug(fmt.Sprintf("$ %s %s", name, strings.Join(args, " ")))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", saperrors.NewCommandError(name, args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", saperrors.NewCommandError(name, args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

// mergeEnv merges override variables into a base environment list.
// Overrides win over base entries with the same key.
func mergeEnv(base []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if _, ok := overrides[key]; ok {
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+overrides[k])
	}
	return merged
}
