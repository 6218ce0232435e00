package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	saperrors "sapstack.dev/sapstack/internal/errors"
	"sapstack.dev/sapstack/internal/github"
	"sapstack.dev/sapstack/testhelpers"
)

// newTestEndpoint creates an endpoint pointed at an httptest server.
func newTestEndpoint(t *testing.T, handler http.Handler) *github.RealEndpoint {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	endpoint, err := github.NewEndpointWithURLs(server.Client(), server.URL+"/", server.URL+"/graphql", "test-token")
	require.NoError(t, err)
	return endpoint
}

func TestGraphQL(t *testing.T) {
	t.Run("sends bearer auth and returns the data portion", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/graphql", r.URL.Path)
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body struct {
				Query     string         `json:"query"`
				Variables map[string]any `json:"variables"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Contains(t, body.Query, "viewer")

			fmt.Fprint(w, `{"data":{"viewer":{"login":"octocat"}}}`)
		}))

		login, err := endpoint.Viewer(context.Background())
		require.NoError(t, err)
		require.Equal(t, "octocat", login)
	})

	t.Run("surfaces GraphQL errors", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"errors":[{"message":"Bad credentials"}]}`)
		}))

		_, err := endpoint.GraphQL(context.Background(), `query { viewer { login } }`, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Bad credentials")
	})

	t.Run("passes variables through", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Variables map[string]any `json:"variables"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "PR_abc", body.Variables["pullRequestId"])
			fmt.Fprint(w, `{"data":{}}`)
		}))

		_, err := endpoint.GraphQL(context.Background(), `mutation { noop }`, map[string]any{
			"pullRequestId": "PR_abc",
		})
		require.NoError(t, err)
	})
}

func TestREST(t *testing.T) {
	t.Run("returns the raw response body", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/repos/acme/widgets", r.URL.Path)
			fmt.Fprint(w, `{"full_name":"acme/widgets"}`)
		}))

		raw, err := endpoint.REST(context.Background(), "get", "repos/acme/widgets", nil)
		require.NoError(t, err)
		require.JSONEq(t, `{"full_name":"acme/widgets"}`, string(raw))
	})

	t.Run("fails on non-2xx responses", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}))

		_, err := endpoint.REST(context.Background(), "get", "repos/acme/missing", nil)
		require.Error(t, err)
	})
}

func TestPullRequests(t *testing.T) {
	t.Run("creates a pull request", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/repos/acme/widgets/pulls", r.URL.Path)
			fmt.Fprint(w, `{"number":7,"html_url":"https://github.com/acme/widgets/pull/7","title":"Add widget","head":{"ref":"feature"},"base":{"ref":"main"},"state":"open"}`)
		}))

		pr, err := endpoint.CreatePullRequest(context.Background(), "acme", "widgets", github.CreatePROptions{
			Title: "Add widget",
			Head:  "feature",
			Base:  "main",
		})
		require.NoError(t, err)
		require.Equal(t, 7, pr.Number)
		require.Equal(t, "feature", pr.Head)
		require.Equal(t, "main", pr.Base)
	})

	t.Run("returns nil when no pull request exists for a branch", func(t *testing.T) {
		endpoint := newTestEndpoint(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		}))

		pr, err := endpoint.GetPullRequestByBranch(context.Background(), "acme", "widgets", "ghost")
		require.NoError(t, err)
		require.Nil(t, pr)
	})
}

func TestGetToken(t *testing.T) {
	t.Run("prefers the GITHUB_TOKEN environment variable", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")

		token, err := github.GetToken(context.Background(), testhelpers.NewFakeRunner())
		require.NoError(t, err)
		require.Equal(t, "env-token", token)
	})

	t.Run("falls back to the gh CLI", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")

		runner := testhelpers.NewFakeRunner()
		runner.Respond("gh auth token", "cli-token\n")

		token, err := github.GetToken(context.Background(), runner)
		require.NoError(t, err)
		require.Equal(t, "cli-token", token)
	})

	t.Run("fails when no token is available", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")

		runner := testhelpers.NewFakeRunner()
		runner.Fail("gh auth token", fmt.Errorf("not logged in"))

		_, err := github.GetToken(context.Background(), runner)
		require.ErrorIs(t, err, saperrors.ErrNoGitHubToken)
	})
}
