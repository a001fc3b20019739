package install

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/slivka-install/internal/backend"
)

type fakeBackend struct {
	name       string
	applicable func(serviceFile string) bool
	// errs are returned by successive Install calls; nil entries succeed.
	errs  []error
	calls []string
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) InstallFile(serviceFile string) string {
	return serviceFile + "." + b.name
}

func (b *fakeBackend) Applicable(serviceFile string) bool {
	if b.applicable == nil {
		return true
	}
	return b.applicable(serviceFile)
}

func (b *fakeBackend) Install(_ context.Context, installFile string, projectRoot string) (string, error) {
	b.calls = append(b.calls, installFile)
	var err error
	if len(b.errs) > 0 {
		err = b.errs[0]
		b.errs = b.errs[1:]
	}
	return filepath.Join(projectRoot, "services", filepath.Base(installFile)), err
}

type fakeRunner struct {
	calls []backend.Command
	err   error
}

func (r *fakeRunner) Run(_ context.Context, cmd backend.Command) error {
	r.calls = append(r.calls, cmd)
	return r.err
}

func (r *fakeRunner) Output(_ context.Context, cmd backend.Command) ([]byte, error) {
	r.calls = append(r.calls, cmd)
	return nil, r.err
}

// scriptedPrompter answers from queues and records the questions asked.
type scriptedPrompter struct {
	confirm  bool
	choices  []string
	actions  []FailureAction
	asked    []string
	failures []error
}

func (p *scriptedPrompter) funcs() PromptFuncs {
	return PromptFuncs{
		ConfirmServicesFunc: func([]Service) (bool, error) { return p.confirm, nil },
		ChooseBackendFunc: func(svc Service, backends []string) (string, error) {
			p.asked = append(p.asked, svc.Base)
			choice := backends[0]
			if len(p.choices) > 0 {
				choice = p.choices[0]
				p.choices = p.choices[1:]
			}
			return choice, nil
		},
		OnFailureFunc: func(_ Service, err error) (FailureAction, error) {
			p.failures = append(p.failures, err)
			action := ActionAbort
			if len(p.actions) > 0 {
				action = p.actions[0]
				p.actions = p.actions[1:]
			}
			return action, nil
		},
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func services(names ...string) []Service {
	out := make([]Service, len(names))
	for i, name := range names {
		out[i] = Service{Path: filepath.Join("/src/services", name, name+".service.yaml"), Base: name, Name: name, Version: "1.0"}
	}
	return out
}
