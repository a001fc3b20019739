// Package datadirs selects the data directories bundled with a service and
// copies them into an installation.
package datadirs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// Action is what a rule does with the directories it matches.
type Action string

const (
	// Include adds matching directories to the selection.
	Include Action = "include"
	// Exclude removes matching directories from the selection.
	Exclude Action = "exclude"
)

// Rule is a single include or exclude glob.
type Rule struct {
	Action  Action
	Pattern string
}

// InvalidRuleError reports a rule that does not have exactly one known key.
type InvalidRuleError struct {
	Rule map[string]string
}

func (e *InvalidRuleError) Error() string {
	keys := make([]string, 0, len(e.Rule))
	for key := range e.Rule {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Sprintf(messages.DataDirsInvalidRuleFmt, strings.Join(keys, ", "))
}

// UnsupportedPatternError reports a recursive or multi-segment glob.
type UnsupportedPatternError struct {
	Pattern string
}

func (e *UnsupportedPatternError) Error() string {
	return fmt.Sprintf(messages.DataDirsUnsupportedPatternFmt, e.Pattern)
}

// ParseRule validates a raw {include|exclude: glob} mapping.
func ParseRule(raw map[string]string) (Rule, error) {
	if len(raw) != 1 {
		return Rule{}, &InvalidRuleError{Rule: raw}
	}
	for key, pattern := range raw {
		action := Action(key)
		if action != Include && action != Exclude {
			return Rule{}, &InvalidRuleError{Rule: raw}
		}
		if err := validatePattern(pattern); err != nil {
			return Rule{}, err
		}
		return Rule{Action: action, Pattern: pattern}, nil
	}
	return Rule{}, &InvalidRuleError{Rule: raw}
}

// ParseRules validates every raw rule in order.
func ParseRules(raw []map[string]string) ([]Rule, error) {
	rules := make([]Rule, 0, len(raw))
	for _, r := range raw {
		rule, err := ParseRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func validatePattern(pattern string) error {
	if strings.Contains(pattern, "**") || strings.ContainsRune(pattern, os.PathSeparator) || strings.ContainsRune(pattern, '/') {
		return &UnsupportedPatternError{Pattern: pattern}
	}
	return nil
}

// Rules is the `files:` section of an install file.
type Rules []Rule

// UnmarshalYAML decodes and validates a sequence of single-key mappings.
func (r *Rules) UnmarshalYAML(node *yaml.Node) error {
	var raw []map[string]string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	rules, err := ParseRules(raw)
	if err != nil {
		return err
	}
	*r = rules
	return nil
}

// normalize prepends the implicit include-everything rule when rules are
// empty or do not start with an include.
func normalize(rules []Rule) []Rule {
	if len(rules) > 0 && rules[0].Action == Include {
		return rules
	}
	out := make([]Rule, 0, len(rules)+1)
	out = append(out, Rule{Action: Include, Pattern: "*"})
	return append(out, rules...)
}
