package app

import (
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"filecopier/internal/domain"
)

// Executor transfers single files.
type Executor struct {
	FS FileSystem
}

// Transfer copies or moves src to dst, creating dst's parent first, and
// returns the number of bytes transferred.
func (e *Executor) Transfer(src, dst string, mode domain.Mode) (int64, error) {
	if e.FS == nil {
		return 0, errors.New("executor requires FS")
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		return 0, errors.New("source and destination are the same file")
	}

	info, err := e.FS.Stat(src)
	if err != nil {
		return 0, err
	}

	if err := e.FS.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	switch mode {
	case domain.ModeMove:
		err = e.FS.MoveFile(src, dst)
	default:
		err = e.FS.CopyFile(src, dst)
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
