package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Scene models a Sapling-backed checkout for translator tests: a working
// repository, the bare Git repository that backs it, and a stub Sapling CLI
// wired to both. Cleanup is handled via t.Cleanup().
type Scene struct {
	Dir     string
	Work    *GitRepo
	Bare    *GitRepo
	EdenCLI string
	Tip     string
}

// NewScene builds a scene with one commit in the working repository and a
// bare clone standing in for the backing store.
func NewScene(t *testing.T) *Scene {
	t.Helper()

	dir := t.TempDir()

	work, err := NewGitRepo(filepath.Join(dir, "work"))
	if err != nil {
		t.Fatalf("Failed to create work repo: %v", err)
	}
	if err := work.CreateChangeAndCommit("1", "initial"); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	bare, err := work.CloneBare(filepath.Join(dir, "backing.git"))
	if err != nil {
		t.Fatalf("Failed to clone bare repo: %v", err)
	}

	tip, err := work.RevParse("HEAD")
	if err != nil {
		t.Fatalf("Failed to resolve tip: %v", err)
	}

	cli, err := writeStubEden(dir, bare.Dir, work.Dir, tip)
	if err != nil {
		t.Fatalf("Failed to write stub CLI: %v", err)
	}

	return &Scene{
		Dir:     dir,
		Work:    work,
		Bare:    bare,
		EdenCLI: cli,
		Tip:     tip,
	}
}

// writeStubEden writes a minimal Sapling stand-in so the translator can run
// against real git without a Sapling installation. It answers the handful of
// subcommands the translator issues and rejects everything else.
func writeStubEden(dir, gitDir, originURL, tip string) (string, error) {
	path := filepath.Join(dir, "stub-hg")
	script := fmt.Sprintf(`#!/bin/sh
case "$1" in
  debugshell) printf '%%s\n' %q ;;
  config) printf '%%s\n' %q ;;
  log) printf '%%s\n' %q ;;
  pull) : ;;
  push) printf 'pushed\n' ;;
  *) echo "stub-hg: unsupported: $*" >&2; exit 1 ;;
esac
`, gitDir, originURL, tip)

	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return "", err
	}
	return path, nil
}
