package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// copySharedFiles mirrors sharedDir into the project. Existing files are
// never overwritten; each one is reported instead.
func (inst *installer) copySharedFiles() error {
	if inst.sharedDir == "" {
		return nil
	}
	sys := inst.sys
	if _, err := sys.Stat(inst.sharedDir); errors.Is(err, os.ErrNotExist) {
		inst.logger.Debug("no shared directory", "path", inst.sharedDir)
		return nil
	}
	return sys.WalkDir(inst.sharedDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inst.sharedDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(inst.root, rel)
		if d.IsDir() {
			if err := sys.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf(messages.InstallCreateDirFailedFmt, target, err)
			}
			return nil
		}
		if _, err := sys.Lstat(target); err == nil {
			inst.report.SharedExisting = append(inst.report.SharedExisting, target)
			inst.notice(messages.InstallSharedFileExistsFmt, target)
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf(messages.InstallStatFailedFmt, target, err)
		}
		info, err := sys.Stat(path)
		if err != nil {
			return fmt.Errorf(messages.InstallStatFailedFmt, path, err)
		}
		if err := sys.CopyFile(path, target, info); err != nil {
			return fmt.Errorf(messages.InstallCopySharedFailedFmt, path, target, err)
		}
		inst.report.SharedCopied = append(inst.report.SharedCopied, target)
		return nil
	})
}
