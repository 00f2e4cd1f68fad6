// Package store is the persistence collaborator: an opaque save/load of the
// node collection backed by a per-workspace SQLite file. The tree engine has
// no knowledge of it; callers load a snapshot, edit, and save.
package store

import (
	"context"
	"os"
	"path/filepath"
)

const (
	workspaceDirName = ".treeline"
	sqliteFileName   = "outline.sqlite"
	seedFileName     = "outline.txt"
)

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for an existing .treeline
// workspace directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, workspaceDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace directory: the nearest existing
// .treeline above the CWD, else a fresh one in the CWD.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, workspaceDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) seedPath() string {
	return filepath.Join(s.Dir, seedFileName)
}

// SeedText returns the contents of the workspace's plain-text seed outline,
// if one exists. It is imported once, when the database holds no nodes yet.
func (s Store) seedText(_ context.Context) (string, bool) {
	b, err := os.ReadFile(s.seedPath())
	if err != nil || len(b) == 0 {
		return "", false
	}
	return string(b), true
}
