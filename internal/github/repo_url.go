package github

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL extracts the owner and repository name from a remote URL.
// Both https ("https://github.com/owner/repo.git") and scp-like ssh
// ("git@github.com:owner/repo.git") forms are accepted.
func ParseRepoURL(remoteURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")

	var path string
	switch {
	case strings.Contains(trimmed, "://"):
		u, parseErr := url.Parse(trimmed)
		if parseErr != nil {
			return "", "", fmt.Errorf("invalid remote URL %q: %w", remoteURL, parseErr)
		}
		path = strings.Trim(u.Path, "/")
	case strings.Contains(trimmed, ":"):
		path = strings.Trim(trimmed[strings.Index(trimmed, ":")+1:], "/")
	default:
		return "", "", fmt.Errorf("cannot determine owner and repository from remote URL %q", remoteURL)
	}

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot determine owner and repository from remote URL %q", remoteURL)
	}

	return parts[0], parts[1], nil
}
