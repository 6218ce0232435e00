package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	saperrors "sapstack.dev/sapstack/internal/errors"
	"sapstack.dev/sapstack/internal/shell"
)

// RealEndpoint implements Endpoint against a real GitHub host
type RealEndpoint struct {
	client     *github.Client
	httpClient *http.Client
	graphqlURL string
	token      string
}

// NewRealEndpoint creates an endpoint for the given host (e.g., "github.com"
// or an enterprise hostname). An optional proxy URL is applied to all
// connections.
func NewRealEndpoint(ctx context.Context, host, proxy, token string) (*RealEndpoint, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		base := &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}

	httpClient := oauth2.NewClient(ctx, ts)

	client := github.NewClient(httpClient)
	graphqlURL := "https://api.github.com/graphql"
	if host != "" && host != "github.com" {
		baseURL := fmt.Sprintf("https://%s/api/v3/", host)
		uploadURL := fmt.Sprintf("https://%s/api/uploads/", host)
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, uploadURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URLs: %w", err)
		}
		graphqlURL = fmt.Sprintf("https://%s/api/graphql", host)
	}

	return &RealEndpoint{
		client:     client,
		httpClient: httpClient,
		graphqlURL: graphqlURL,
		token:      token,
	}, nil
}

// NewEndpointWithURLs creates an endpoint with explicit API URLs.
// Used by tests to point at a local server.
func NewEndpointWithURLs(httpClient *http.Client, restBaseURL, graphqlURL, token string) (*RealEndpoint, error) {
	client := github.NewClient(httpClient)
	base, err := url.Parse(restBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REST base URL: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	client.BaseURL = base

	return &RealEndpoint{
		client:     client,
		httpClient: httpClient,
		graphqlURL: graphqlURL,
		token:      token,
	}, nil
}

// GraphQL executes a GraphQL query and returns the data portion of the
// response. A response carrying errors is surfaced as an error.
func (e *RealEndpoint) GraphQL(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error) {
	requestBody, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": vars,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.graphqlURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", e.token))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result struct {
		Data   json.RawMessage `json:"data"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}

	if len(result.Errors) > 0 && string(result.Errors) != "null" {
		return nil, fmt.Errorf("GraphQL request failed: %s", string(result.Errors))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL request failed with status %d", resp.StatusCode)
	}

	return result.Data, nil
}

// REST executes a request against a subpath of the REST API root and returns
// the raw response body.
func (e *RealEndpoint) REST(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req, err := e.client.NewRequest(strings.ToUpper(method), strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST request: %w", err)
	}

	var buf bytes.Buffer
	if _, err := e.client.Do(ctx, req, &buf); err != nil {
		return nil, fmt.Errorf("REST request failed: %w", err)
	}

	return json.RawMessage(buf.Bytes()), nil
}

// Viewer returns the login of the authenticated user
func (e *RealEndpoint) Viewer(ctx context.Context) (string, error) {
	data, err := e.GraphQL(ctx, `query { viewer { login } }`, nil)
	if err != nil {
		return "", err
	}

	var result struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to decode viewer response: %w", err)
	}

	return result.Viewer.Login, nil
}

// CreatePullRequest creates a new pull request
func (e *RealEndpoint) CreatePullRequest(ctx context.Context, owner, repo string, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}
	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	createdPR, _, err := e.client.PullRequests.Create(ctx, owner, repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return toPullRequestInfo(createdPR), nil
}

// GetPullRequestByBranch gets the pull request whose head is a branch
func (e *RealEndpoint) GetPullRequestByBranch(ctx context.Context, owner, repo, branchName string) (*PullRequestInfo, error) {
	prs, _, err := e.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", owner, branchName),
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	if len(prs) == 0 {
		return nil, nil
	}

	return toPullRequestInfo(prs[0]), nil
}

// toPullRequestInfo converts a github.PullRequest to PullRequestInfo
func toPullRequestInfo(pr *github.PullRequest) *PullRequestInfo {
	if pr == nil {
		return nil
	}

	info := &PullRequestInfo{}

	if pr.Number != nil {
		info.Number = *pr.Number
	}
	if pr.NodeID != nil {
		info.NodeID = *pr.NodeID
	}
	if pr.HTMLURL != nil {
		info.HTMLURL = *pr.HTMLURL
	}
	if pr.Title != nil {
		info.Title = *pr.Title
	}
	if pr.Body != nil {
		info.Body = *pr.Body
	}
	if pr.State != nil {
		info.State = *pr.State
	}
	if pr.Base != nil && pr.Base.Ref != nil {
		info.Base = *pr.Base.Ref
	}
	if pr.Head != nil && pr.Head.Ref != nil {
		info.Head = *pr.Head.Ref
	}

	return info
}

// GetToken resolves a GitHub token from the environment or the gh CLI
func GetToken(ctx context.Context, runner shell.Runner) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := runner.RunWith(ctx, shell.Options{Quiet: true}, "gh", "auth", "token")
	if err != nil {
		return "", saperrors.ErrNoGitHubToken
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", saperrors.ErrNoGitHubToken
	}

	return token, nil
}
