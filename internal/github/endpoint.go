// Package github provides a client for interacting with the GitHub API.
// It supports both the GraphQL and REST interfaces.
package github

import (
	"context"
	"encoding/json"
)

// PullRequestInfo contains information about a pull request
// This is a simplified struct to avoid coupling to go-github library
type PullRequestInfo struct {
	Number  int
	NodeID  string
	HTMLURL string
	Title   string
	Body    string
	State   string
	Base    string
	Head    string
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title string
	Head  string
	Base  string
	Body  string
	Draft bool
}

// Endpoint is an interface for GitHub API interactions
type Endpoint interface {
	// GraphQL executes a GraphQL query with variables and returns the raw response
	GraphQL(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error)

	// REST executes a REST request against a subpath of the API root
	REST(ctx context.Context, method, path string, body any) (json.RawMessage, error)

	// Viewer returns the login of the authenticated user
	Viewer(ctx context.Context) (string, error)

	// CreatePullRequest creates a new pull request
	CreatePullRequest(ctx context.Context, owner, repo string, opts CreatePROptions) (*PullRequestInfo, error)

	// GetPullRequestByBranch gets the pull request whose head is a branch, or nil
	GetPullRequestByBranch(ctx context.Context, owner, repo, branchName string) (*PullRequestInfo, error)
}
