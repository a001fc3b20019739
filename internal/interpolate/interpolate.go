package interpolate

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// placeholderPattern matches {{ namespace:key }} with an optional single
// space inside each brace pair.
var placeholderPattern = regexp.MustCompile(`\{\{ ?([\w\-]+:[\w\-/.]+) ?\}\}`)

// Keys returns the composite keys referenced by s, in order of appearance.
func Keys(s string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(s, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m[1])
	}
	return keys
}

// String replaces every placeholder in s with its value from ctx. A key that
// cannot be resolved fails the whole call.
func String(s string, ctx Context) (string, error) {
	indexes := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(indexes) == 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, idx := range indexes {
		key := s[idx[2]:idx[3]]
		value, err := ctx.Lookup(key)
		if err != nil {
			return "", err
		}
		b.WriteString(s[last:idx[0]])
		b.WriteString(value)
		last = idx[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// Value interpolates decoded YAML/JSON data. Strings are interpolated, map
// values and slice elements are walked recursively, map keys and all other
// scalars are returned unchanged.
func Value(v any, ctx Context) (any, error) {
	switch typed := v.(type) {
	case string:
		return String(typed, ctx)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			resolved, err := Value(item, ctx)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case map[string]string:
		return Strings(typed, ctx)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			resolved, err := Value(item, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case []string:
		out := make([]string, len(typed))
		for i, item := range typed {
			resolved, err := String(item, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// Strings interpolates every value of m and returns a new map.
func Strings(m map[string]string, ctx Context) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for key, value := range m {
		resolved, err := String(value, ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = resolved
	}
	return out, nil
}

// Node interpolates a yaml.v3 node tree in place. Only !!str scalars are
// rewritten; mapping keys and aliases are left alone.
func Node(n *yaml.Node, ctx Context) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range n.Content {
			if err := Node(child, ctx); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			if err := Node(n.Content[i], ctx); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" {
			return nil
		}
		resolved, err := String(n.Value, ctx)
		if err != nil {
			return err
		}
		n.Value = resolved
	}
	return nil
}
