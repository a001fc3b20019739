// Package envfile parses KEY=VALUE environment listings and filters
// environment slices.
package envfile

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// ParseEnviron reads the output of `env` (one KEY=VALUE per line).
// Values keep everything after the first '='; lines without a key, such as
// the continuation lines of multi-line values, are ignored.
func ParseEnviron(content string) (map[string]string, error) {
	env := make(map[string]string)
	if content == "" {
		return env, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		key, value, ok := parseEnvironLine(scanner.Text())
		if !ok {
			continue
		}
		env[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return env, nil
}

// parseEnvironLine splits a single env line at the first '='.
func parseEnvironLine(line string) (string, string, bool) {
	line = strings.TrimRight(line, "\r")
	idx := strings.IndexByte(line, '=')
	if idx <= 0 {
		return "", "", false
	}
	key := line[:idx]
	if strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, line[idx+1:], true
}

// WithPrefix returns the KEY=VALUE entries whose key starts with prefix,
// sorted by key. An empty prefix selects nothing.
func WithPrefix(env []string, prefix string) []string {
	if prefix == "" {
		return nil
	}
	var out []string
	for _, entry := range env {
		key, _, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, entry)
	}
	sort.Strings(out)
	return out
}
