// Package fsutil holds filesystem helpers shared by the installer packages.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/messages"
)

var (
	createTemp = os.CreateTemp
	renameFile = os.Rename
)

// WriteFileAtomic writes data to filename through a temp file in the same
// directory followed by a rename, so readers never observe a partial file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := createTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFmt, filename, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf(messages.FsutilWriteTempFmt, filename, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf(messages.FsutilChmodTempFmt, filename, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf(messages.FsutilSyncTempFmt, filename, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf(messages.FsutilCloseTempFmt, filename, err)
	}
	if err := renameFile(tmpName, filename); err != nil {
		cleanup()
		return fmt.Errorf(messages.FsutilRenameTempFmt, filename, err)
	}
	return nil
}
