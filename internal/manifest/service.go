package manifest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/slivka-install/internal/interpolate"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// ServiceTemplate is a service descriptor kept as a node tree, so key
// order, comments and quoting survive interpolation.
type ServiceTemplate struct {
	Path string
	doc  yaml.Node
}

// Summary holds the descriptor fields shown before installation.
type Summary struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoadService reads and parses a service descriptor template.
func LoadService(path string) (*ServiceTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestReadFailedFmt, path, err)
	}
	return ParseService(data, path)
}

// ParseService parses descriptor data; source is used in error messages.
func ParseService(data []byte, source string) (*ServiceTemplate, error) {
	tmpl := &ServiceTemplate{Path: source}
	if err := yaml.Unmarshal(data, &tmpl.doc); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFailedFmt, source, err)
	}
	if tmpl.root() == nil {
		return nil, fmt.Errorf(messages.ManifestNotMappingFmt, source)
	}
	return tmpl, nil
}

// LoadSummary reads only the name and version of a descriptor.
func LoadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf(messages.ManifestReadFailedFmt, path, err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf(messages.ManifestParseFailedFmt, path, err)
	}
	return s, nil
}

func (t *ServiceTemplate) root() *yaml.Node {
	if t.doc.Kind != yaml.DocumentNode || len(t.doc.Content) == 0 {
		return nil
	}
	root := t.doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}

func (t *ServiceTemplate) field(key string) *yaml.Node {
	root := t.root()
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return root.Content[i+1]
		}
	}
	return nil
}

// Name returns the descriptor's name field.
func (t *ServiceTemplate) Name() string {
	if n := t.field("name"); n != nil {
		return n.Value
	}
	return ""
}

// Version returns the descriptor's version field.
func (t *ServiceTemplate) Version() string {
	if n := t.field("version"); n != nil {
		return n.Value
	}
	return ""
}

// Command returns the command tokens as plain strings.
func (t *ServiceTemplate) Command() ([]string, error) {
	n := t.field("command")
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf(messages.ManifestCommandNotSequenceFmt, t.Path)
	}
	var out []string
	if err := n.Decode(&out); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFailedFmt, t.Path, err)
	}
	return out, nil
}

// Interpolate resolves every placeholder in the descriptor's string values.
func (t *ServiceTemplate) Interpolate(ctx interpolate.Context) error {
	return interpolate.Node(&t.doc, ctx)
}

// PrependCommand inserts prefix in front of the descriptor's command tokens.
func (t *ServiceTemplate) PrependCommand(prefix []string) error {
	n := t.field("command")
	if n == nil || n.Kind != yaml.SequenceNode {
		return fmt.Errorf(messages.ManifestCommandNotSequenceFmt, t.Path)
	}
	nodes := make([]*yaml.Node, 0, len(prefix)+len(n.Content))
	for _, token := range prefix {
		nodes = append(nodes, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: token})
	}
	n.Content = append(nodes, n.Content...)
	return nil
}

// Marshal renders the descriptor as YAML.
func (t *ServiceTemplate) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&t.doc); err != nil {
		return nil, fmt.Errorf(messages.ManifestEncodeFailedFmt, t.Path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf(messages.ManifestEncodeFailedFmt, t.Path, err)
	}
	return buf.Bytes(), nil
}
