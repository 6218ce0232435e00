// Package errors provides sentinel errors and custom error types for the sapstack application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrBadArgs indicates that a translated command was invoked with the wrong argument shape
	ErrBadArgs = errors.New("bad arguments")

	// ErrGitDirUnresolved indicates that the backing repository's git directory could not be resolved
	ErrGitDirUnresolved = errors.New("git directory unresolved")

	// ErrNoGitHubToken indicates that no GitHub token could be found
	ErrNoGitHubToken = errors.New("no GitHub token")
)

// BadArgsError represents an argument-shape violation in a translated command
type BadArgsError struct {
	Op     string
	Args   []string
	Reason string
}

func (e *BadArgsError) Error() string {
	return fmt.Sprintf("%s: %s, but was: %v", e.Op, e.Reason, e.Args)
}

// Is returns true if the target error is ErrBadArgs
func (e *BadArgsError) Is(target error) bool {
	return target == ErrBadArgs
}

// NewBadArgsError creates a new BadArgsError
func NewBadArgsError(op string, args []string, reason string) *BadArgsError {
	return &BadArgsError{Op: op, Args: args, Reason: reason}
}

// CommandError represents an error from a subprocess execution
type CommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
