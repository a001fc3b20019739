package backend

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/slivka-install/internal/interpolate"
	"github.com/conn-castle/slivka-install/internal/manifest"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines in a preview.
const DefaultDiffMaxLines = 40

// OverwriteServiceFunc decides whether the descriptor at path is replaced.
// diff is a unified diff from the current to the new content.
type OverwriteServiceFunc func(path string, diff string) (bool, error)

// writeService renders the service template with ctx, prepends prefix to
// its command and writes it to <projectRoot>/services/.
func (c *Common) writeService(serviceFile string, projectRoot string, ctx interpolate.Context, prefix []string) (string, error) {
	sys := c.sys()
	raw, err := sys.ReadFile(serviceFile)
	if err != nil {
		return "", fmt.Errorf(messages.ManifestReadFailedFmt, serviceFile, err)
	}
	tmpl, err := manifest.ParseService(raw, serviceFile)
	if err != nil {
		return "", err
	}
	if err := tmpl.Interpolate(ctx); err != nil {
		return "", fmt.Errorf(messages.BackendRenderServiceFailedFmt, filepath.Base(serviceFile), err)
	}
	if err := tmpl.PrependCommand(prefix); err != nil {
		return "", err
	}
	data, err := tmpl.Marshal()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(projectRoot, "services")
	if err := sys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf(messages.BackendCreateDirFailedFmt, dir, err)
	}
	dst := filepath.Join(dir, filepath.Base(serviceFile))

	existing, err := sys.ReadFile(dst)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			c.logger().Debug("service descriptor unchanged", "path", dst)
			return dst, nil
		}
		overwrite := false
		if c.OverwriteService != nil {
			preview, _ := renderTruncatedUnifiedDiff(dst+" (current)", dst+" (new)", string(existing), string(data), c.DiffMaxLines)
			overwrite, err = c.OverwriteService(dst, preview)
			if err != nil {
				return "", err
			}
		}
		if !overwrite {
			return dst, ErrServiceKept
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return "", fmt.Errorf(messages.ManifestReadFailedFmt, dst, err)
	}

	if err := sys.WriteFileAtomic(dst, data, 0o644); err != nil {
		return "", fmt.Errorf(messages.BackendWriteServiceFailedFmt, dst, err)
	}
	c.logger().Info("wrote service descriptor", "path", dst)
	return dst, nil
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := maxLines
	if limit <= 0 {
		limit = DefaultDiffMaxLines
	}
	lines := splitDiffLines(udiff.Unified(fromName, toName, fromContent, toContent))
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf(messages.BackendDiffTruncatedFmt, limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
