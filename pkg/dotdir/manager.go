// Package dotdir locates the .pptree/ directory that holds pptree's
// config.toml. A project-local ./.pptree/ wins over ~/.pptree/.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the pptree directory.
const DirName = ".pptree"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Resolve returns the absolute path of the .pptree/ directory to use without
// creating it. Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.pptree/ dir, if it exists
//  3. Home ~/.pptree/ dir
func (m *Manager) Resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return filepath.Abs(overrideDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	local := filepath.Join(cwd, DirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Ensure resolves the directory like Resolve and creates it if needed.
func (m *Manager) Ensure(overrideDir string) (string, error) {
	dir, err := m.Resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating pptree directory %s: %w", dir, err)
	}

	return dir, nil
}

// Exists reports whether dir exists and is a directory.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
