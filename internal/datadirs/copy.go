package datadirs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// Pair maps a source directory to its destination.
type Pair struct {
	Src string
	Dst string
}

// OverwriteFunc asks whether an existing destination may be replaced.
type OverwriteFunc func(path string) (bool, error)

// Copier copies directory trees, asking before replacing existing ones.
type Copier struct {
	System System
	// Overwrite is consulted for every destination that already exists.
	// A nil func keeps existing destinations.
	Overwrite OverwriteFunc
	// Notice receives user-facing skip notices; nil discards them.
	Notice io.Writer
	Logger *slog.Logger
}

func (c *Copier) sys() System {
	if c.System == nil {
		return RealSystem{}
	}
	return c.System
}

func (c *Copier) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Copy copies every pair of absolute paths and returns the pairs that were
// actually copied. Pairs whose existing destination was kept are skipped.
// Each tree is staged next to its destination and renamed into place only
// once the whole copy succeeded. A replaced destination is removed after
// staging, so a failed copy leaves it untouched.
func (c *Copier) Copy(pairs []Pair) ([]Pair, error) {
	sys := c.sys()
	copied := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		replace := false
		_, err := sys.Lstat(pair.Dst)
		switch {
		case err == nil:
			if c.Overwrite != nil {
				replace, err = c.Overwrite(pair.Dst)
				if err != nil {
					return copied, err
				}
			}
			if !replace {
				c.notice(messages.DataDirsSkippingFmt, pair.Dst)
				c.logger().Info("kept existing data directory", "dst", pair.Dst)
				continue
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return copied, fmt.Errorf(messages.DataDirsStatFailedFmt, pair.Dst, err)
		}

		if err := c.copyStaged(sys, pair, replace); err != nil {
			return copied, err
		}
		c.logger().Debug("copied data directory", "src", pair.Src, "dst", pair.Dst)
		copied = append(copied, pair)
	}
	return copied, nil
}

func (c *Copier) copyStaged(sys System, pair Pair, replace bool) error {
	parent := filepath.Dir(pair.Dst)
	if err := sys.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf(messages.DataDirsCreateDirFailedFmt, parent, err)
	}
	staging, err := sys.MkdirTemp(parent, "."+filepath.Base(pair.Dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.DataDirsCreateDirFailedFmt, parent, err)
	}
	defer func() { _ = sys.RemoveAll(staging) }()

	staged := filepath.Join(staging, filepath.Base(pair.Dst))
	if err := sys.CopyTree(pair.Src, staged); err != nil {
		return fmt.Errorf(messages.DataDirsCopyFailedFmt, pair.Src, pair.Dst, err)
	}
	if replace {
		if err := sys.RemoveAll(pair.Dst); err != nil {
			return fmt.Errorf(messages.DataDirsRemoveFailedFmt, pair.Dst, err)
		}
	}
	if err := sys.Rename(staged, pair.Dst); err != nil {
		return fmt.Errorf(messages.DataDirsCopyFailedFmt, pair.Src, pair.Dst, err)
	}
	return nil
}

func (c *Copier) notice(format string, args ...any) {
	if c.Notice == nil {
		return
	}
	_, _ = fmt.Fprintf(c.Notice, format, args...)
}

// FindAndCopy selects directories under srcRoot with rules and copies each
// of them to the same relative path under dstRoot. It returns the full
// relative mapping of matched directories, including those whose existing
// destination was kept, since they are still present in the installation.
func FindAndCopy(srcRoot string, rules []Rule, dstRoot string, copier *Copier) ([]Pair, error) {
	matches, err := Find(srcRoot, rules)
	if err != nil {
		return nil, err
	}
	mapping := make([]Pair, 0, len(matches))
	absolute := make([]Pair, 0, len(matches))
	for _, match := range matches {
		mapping = append(mapping, Pair{Src: match, Dst: match})
		absolute = append(absolute, Pair{
			Src: filepath.Join(srcRoot, match),
			Dst: filepath.Join(dstRoot, match),
		})
	}
	if copier == nil {
		copier = &Copier{}
	}
	if _, err := copier.Copy(absolute); err != nil {
		return nil, err
	}
	return mapping, nil
}
