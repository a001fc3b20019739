package backend

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeRunner struct {
	calls   []Command
	outputs []Command
	run     func(cmd Command) error
	output  func(cmd Command) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) error {
	f.calls = append(f.calls, cmd)
	if f.run != nil {
		return f.run(cmd)
	}
	return nil
}

func (f *fakeRunner) Output(_ context.Context, cmd Command) ([]byte, error) {
	f.outputs = append(f.outputs, cmd)
	if f.output != nil {
		return f.output(cmd)
	}
	return nil, nil
}

type fakeSystem struct {
	RealSystem
	paths map[string]string
	env   map[string]string
}

func (s fakeSystem) LookPath(file string) (string, error) {
	if path, ok := s.paths[file]; ok {
		return path, nil
	}
	return "", exec.ErrNotFound
}

func (s fakeSystem) Getenv(key string) string {
	return s.env[key]
}

func (s fakeSystem) LookupEnv(key string) (string, bool) {
	value, ok := s.env[key]
	return value, ok
}

func (s fakeSystem) Environ() []string {
	out := make([]string, 0, len(s.env))
	for key, value := range s.env {
		out = append(out, key+"="+value)
	}
	sort.Strings(out)
	return out
}

func writeFile(t *testing.T, path string, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

const clustaloService = `# aligner
name: Clustal Omega
version: 1.2.4
command:
  - "{{ which:clustalo }}"
  - --outfmt={{ var:format }}
args:
  db:
    arg: --db={{ var:db }}
  runtime:
    arg: "{{ runtime-path:data }}"
`

// serviceFixture lays out services/clustalo with a data folder, a test
// folder excluded by the install files, and both install files.
func serviceFixture(t *testing.T, condaYAML string, dockerYAML string) (serviceFile string, projectRoot string) {
	t.Helper()
	src := filepath.Join(t.TempDir(), "services", "clustalo")
	writeFile(t, filepath.Join(src, "clustalo.service.yaml"), clustaloService, 0o644)
	writeFile(t, filepath.Join(src, "data", "db.fasta"), ">seq\nACGT\n", 0o644)
	writeFile(t, filepath.Join(src, "testdata", "in.fasta"), ">t\nA\n", 0o644)
	if condaYAML != "" {
		writeFile(t, filepath.Join(src, "clustalo.conda.yaml"), condaYAML, 0o644)
	}
	if dockerYAML != "" {
		writeFile(t, filepath.Join(src, "clustalo.docker.yaml"), dockerYAML, 0o644)
	}
	return filepath.Join(src, "clustalo.service.yaml"), t.TempDir()
}

type descriptor struct {
	Name    string         `yaml:"name"`
	Command []string       `yaml:"command"`
	Args    map[string]any `yaml:"args"`
}

func readDescriptor(t *testing.T, path string) descriptor {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var d descriptor
	require.NoError(t, yaml.Unmarshal(data, &d))
	return d
}

func argValue(t *testing.T, d descriptor, name string) string {
	t.Helper()
	entry, ok := d.Args[name].(map[string]any)
	require.True(t, ok, "arg %s", name)
	value, ok := entry["arg"].(string)
	require.True(t, ok, "arg %s value", name)
	return value
}
