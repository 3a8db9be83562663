package app

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"filecopier/internal/domain"
	appErrors "filecopier/internal/errors"
	"filecopier/internal/logging"
)

// Enumerator lists every file below a root in walk order. Symlinks to
// directories are reported neither as files nor descended into.
type Enumerator struct {
	FS     FileSystem
	Logger logging.Logger
	// Skip holds doublestar patterns matched against slash-separated paths
	// relative to the root. Matching directories are not descended.
	Skip []string
	// ExcludeDirs are cleaned absolute directories that are never descended.
	ExcludeDirs []string
}

func (e Enumerator) Enumerate(ctx context.Context, root string) ([]domain.FileCandidate, error) {
	if e.FS == nil {
		return nil, errors.New("enumerator requires FS")
	}
	if err := validateSkip(e.Skip); err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(e.ExcludeDirs))
	for _, dir := range e.ExcludeDirs {
		excluded[filepath.Clean(dir)] = true
	}

	var candidates []domain.FileCandidate
	err := e.FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			e.Logger.Verbosef("Skipping unreadable %s: %v", path, walkErr)
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}

		if d.IsDir() {
			if excluded[filepath.Clean(path)] || e.skipped(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			if info, statErr := e.FS.Stat(path); statErr == nil && info.IsDir() {
				return nil
			}
		} else if !mode.IsRegular() {
			return nil
		}

		if e.skipped(rel) {
			return nil
		}

		candidates = append(candidates, domain.FileCandidate{
			AbsolutePath: path,
			RelativePath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func validateSkip(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return appErrors.New(appErrors.InvalidConfig, "skip pattern", pattern, "invalid glob pattern")
		}
	}
	return nil
}

func (e Enumerator) skipped(rel string) bool {
	if len(e.Skip) == 0 {
		return false
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range e.Skip {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
