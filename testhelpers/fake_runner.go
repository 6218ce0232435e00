package testhelpers

import (
	"context"
	"fmt"
	"strings"

	"sapstack.dev/sapstack/internal/shell"
)

// FakeCall records one command invocation made against a FakeRunner.
type FakeCall struct {
	Name string
	Args []string
	Opts shell.Options
}

// CommandLine returns the invocation as a single space-joined string.
func (c FakeCall) CommandLine() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner implements shell.Runner with canned responses keyed by the full
// command line. Every invocation is recorded for assertions.
type FakeRunner struct {
	Calls     []FakeCall
	Responses map[string]string
	Errors    map[string]error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

// Respond registers a canned response for a command line.
func (f *FakeRunner) Respond(commandLine, output string) {
	f.Responses[commandLine] = output
}

// Fail registers an error for a command line.
func (f *FakeRunner) Fail(commandLine string, err error) {
	f.Errors[commandLine] = err
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f.RunWith(ctx, shell.Options{}, name, args...)
}

// RunWith implements shell.Runner. Unregistered command lines succeed with
// empty output, mirroring commands whose output the caller discards.
func (f *FakeRunner) RunWith(_ context.Context, opts shell.Options, name string, args ...string) (string, error) {
	call := FakeCall{Name: name, Args: args, Opts: opts}
	f.Calls = append(f.Calls, call)

	key := call.CommandLine()
	if err, ok := f.Errors[key]; ok {
		return "", err
	}
	if out, ok := f.Responses[key]; ok {
		return strings.TrimRight(out, " \t\r\n"), nil
	}
	return "", nil
}

// CommandLines returns every recorded invocation as command-line strings.
func (f *FakeRunner) CommandLines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.CommandLine()
	}
	return lines
}

// LastCall returns the most recent invocation, or an error if none happened.
func (f *FakeRunner) LastCall() (FakeCall, error) {
	if len(f.Calls) == 0 {
		return FakeCall{}, fmt.Errorf("no calls recorded")
	}
	return f.Calls[len(f.Calls)-1], nil
}
