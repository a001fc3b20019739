package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// CopyTree recursively copies the directory src to dst. dst must not exist.
// A symlinked src is resolved and its target copied. File modes and
// modification times are preserved; symlinks inside the tree are recreated
// rather than followed.
func CopyTree(src string, dst string) error {
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf(messages.FsutilNotDirectoryFmt, src)
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf(messages.FsutilDestinationExistsFmt, src, dst)
	}
	src = resolved

	// Directory times are applied after their contents are written.
	type dirTimes struct {
		path string
		info fs.FileInfo
	}
	var dirs []dirTimes

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return err
			}
			dirs = append(dirs, dirTimes{path: target, info: info})
			return nil
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return CopyFile(path, target, info)
		default:
			// Sockets, devices and pipes have no place in a data tree.
			return nil
		}
	})
	if err != nil {
		return err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		if err := os.Chmod(dir.path, dir.info.Mode().Perm()); err != nil {
			return err
		}
		if err := os.Chtimes(dir.path, dir.info.ModTime(), dir.info.ModTime()); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies a regular file and applies the mode and modification time
// from info. When info is nil the source file is stat'ed.
func CopyFile(src string, dst string, info fs.FileInfo) (err error) {
	if info == nil {
		info, err = os.Stat(src)
		if err != nil {
			return err
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
