package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

type OSFS struct{}

// WalkDir walks root like filepath.WalkDir, except that a root which is a
// symlink to a directory is descended. Reported paths keep root as given;
// symlinks below the root are still not followed.
func (OSFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	if !isDirSymlink(root) {
		return filepath.WalkDir(root, fn)
	}
	linked := root + string(filepath.Separator)
	return filepath.WalkDir(linked, func(path string, d fs.DirEntry, err error) error {
		if path == linked {
			path = root
		}
		return fn(path, d, err)
	})
}

func isDirSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := os.Stat(path)
	return err == nil && target.IsDir()
}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CopyFile copies content, permission bits and modification time. An
// existing dst is overwritten.
func (OSFS) CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.Errorf("%s is a directory", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// MoveFile renames src to dst, falling back to copy and delete when the two
// paths are on different filesystems.
func (o OSFS) MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	if err := o.CopyFile(src, dst); err != nil {
		return errors.Errorf("copying across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}
