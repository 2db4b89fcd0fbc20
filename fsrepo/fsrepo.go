// Package fsrepo implements patch.PreimageReader against an on-disk working
// tree, and provides Repo.Apply, which commits the results of a batch of
// applied deltas back to the same tree in the order patch.PlanBatch
// produces.
package fsrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopatch/core/patch"
)

// Repo roots preimage reads and result writes at Dir, a directory on the
// local filesystem.
type Repo struct {
	Dir string
}

// New returns a Repo rooted at dir.
func New(dir string) *Repo {
	return &Repo{Dir: dir}
}

// Read implements patch.PreimageReader by reading path relative to r.Dir.
func (r *Repo) Read(path string) ([]byte, error) {
	full, err := r.join(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, patch.ErrPreimageNotFound
	}
	return data, err
}

// Apply executes a planned batch of operations against the working tree:
// every removal first, then every write, each in the order patch.PlanBatch
// returns. It stops and returns the first error encountered, leaving the tree
// partially updated; callers that need all-or-nothing semantics should
// operate on a temporary checkout and swap it into place afterward.
func (r *Repo) Apply(ops []patch.Operation) error {
	for _, op := range ops {
		if op.RemovePath != "" {
			full, err := r.join(op.RemovePath)
			if err != nil {
				return err
			}
			if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", op.RemovePath, err)
			}
		}
	}
	for _, op := range ops {
		if op.Result != nil {
			if err := r.write(op.Result); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repo) write(res *patch.Result) error {
	full, err := r.join(res.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", res.Path, err)
	}

	mode := res.Mode
	if mode == 0 {
		mode = patch.ModeRegular
	}
	if err := os.WriteFile(full, res.Bytes, fs.FileMode(mode&0o777)); err != nil {
		return fmt.Errorf("write %s: %w", res.Path, err)
	}
	return nil
}

// join resolves path under r.Dir, rejecting any path whose ".." components
// would take it outside r.Dir, since a Delta's paths come from parsed, and
// possibly adversarial, patch text. An absolute path is joined under r.Dir
// like a relative one.
func (r *Repo) join(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	full := filepath.Join(r.Dir, path)
	rel, err := filepath.Rel(r.Dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes repository root", path)
	}
	return full, nil
}
