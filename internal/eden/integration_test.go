package eden_test

import (
	"context"
	"os/exec"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"sapstack.dev/sapstack/internal/eden"
	"sapstack.dev/sapstack/internal/shell"
	"sapstack.dev/sapstack/testhelpers"
)

// These tests run the translator against a real bare Git repository, with a
// stub standing in for Sapling.
func TestTranslatorAgainstRealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	ctx := context.Background()
	scene := testhelpers.NewScene(t)
	runner := shell.NewCommandRunner("")

	sh, err := eden.NewShellWithCLI(ctx, "origin", scene.EdenCLI, runner)
	require.NoError(t, err)
	require.Equal(t, scene.Bare.Dir, sh.GitDir())

	t.Run("forwarded commands run against the bare repository", func(t *testing.T) {
		out, err := sh.Git(ctx, "cat-file", "-t", scene.Tip)
		require.NoError(t, err)
		require.Equal(t, "commit", out)
	})

	t.Run("HEAD resolves even though the bare repository has no checkout", func(t *testing.T) {
		out, err := sh.Git(ctx, "rev-parse", "HEAD")
		require.NoError(t, err)
		require.Equal(t, scene.Tip, out)
	})

	t.Run("remote get-url returns the configured path", func(t *testing.T) {
		out, err := sh.Git(ctx, "remote", "get-url", "origin")
		require.NoError(t, err)
		require.Equal(t, scene.Work.Dir, out)
	})

	t.Run("fetch lands remote heads under refs/remotes/origin", func(t *testing.T) {
		require.NoError(t, scene.Work.CreateChangeAndCommit("2", "second"))
		newTip, err := scene.Work.RevParse("HEAD")
		require.NoError(t, err)

		_, err = sh.Git(ctx, "fetch", "--prune", "origin")
		require.NoError(t, err)

		repo, err := gogit.PlainOpen(scene.Bare.Dir)
		require.NoError(t, err)
		ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", "main"), true)
		require.NoError(t, err)
		require.Equal(t, newTip, ref.Hash().String())
	})

	t.Run("subprocess failures propagate", func(t *testing.T) {
		_, err := sh.Git(ctx, "cat-file", "-t", "0000000000000000000000000000000000000000")
		require.Error(t, err)
	})
}
