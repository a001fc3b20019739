package datadirs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// Find returns the immediate subdirectories of srcRoot selected by rules,
// relative to srcRoot and sorted. Rules are applied in order, so a later
// rule always wins for the directories it matches.
func Find(srcRoot string, rules []Rule) ([]string, error) {
	for _, rule := range rules {
		if err := validatePattern(rule.Pattern); err != nil {
			return nil, err
		}
		if rule.Action != Include && rule.Action != Exclude {
			return nil, &InvalidRuleError{Rule: map[string]string{string(rule.Action): rule.Pattern}}
		}
	}
	dirs, err := subdirectories(srcRoot)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]struct{})
	for _, rule := range normalize(rules) {
		for _, dir := range dirs {
			ok, err := filepath.Match(rule.Pattern, dir)
			if err != nil {
				return nil, fmt.Errorf(messages.DataDirsBadPatternFmt, rule.Pattern, err)
			}
			if !ok {
				continue
			}
			if rule.Action == Include {
				matched[dir] = struct{}{}
			} else {
				delete(matched, dir)
			}
		}
	}

	out := make([]string, 0, len(matched))
	for dir := range matched {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out, nil
}

// subdirectories lists directory names directly under root, following
// symlinks the way a directory check on the path would.
func subdirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf(messages.DataDirsReadRootFmt, root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(filepath.Join(root, entry.Name()))
		if err == nil && info.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs, nil
}
