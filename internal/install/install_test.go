package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/slivka-install/internal/backend"
)

func TestRun_RequiresInputs(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)

	_, err = Run(context.Background(), Options{ProjectRoot: t.TempDir()})
	require.Error(t, err)

	_, err = Run(context.Background(), Options{ProjectRoot: t.TempDir(), Prompter: PromptFuncs{}})
	require.ErrorIs(t, err, ErrNothingToInstall)
}

func TestRun_DeclinedConfirmation(t *testing.T) {
	runner := &fakeRunner{}
	p := &scriptedPrompter{confirm: false}
	_, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo"),
		Prompter:    p.funcs(),
		Runner:      runner,
	})
	require.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, runner.calls)
}

func TestRun_InstallsEveryService(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")
	shared := t.TempDir()
	writeFile(t, filepath.Join(shared, "settings.yaml"), "new")
	writeFile(t, filepath.Join(shared, "scripts", "run_with_docker.sh"), "#!/bin/sh\n")
	writeFile(t, filepath.Join(root, "settings.yaml"), "existing")

	conda := &fakeBackend{name: backend.NameConda}
	docker := &fakeBackend{name: backend.NameDocker, applicable: func(path string) bool {
		return strings.Contains(path, "iupred")
	}}
	runner := &fakeRunner{}
	p := &scriptedPrompter{confirm: true, choices: []string{"conda", "docker"}}
	var out bytes.Buffer
	var progress []Outcome

	report, err := Run(context.Background(), Options{
		ProjectRoot: root,
		Services:    services("clustalo", "iupred"),
		Backends:    []backend.Backend{conda, docker},
		Prompter:    p.funcs(),
		Runner:      runner,
		SlivkaExe:   "/opt/slivka/bin/slivka",
		SharedDir:   shared,
		Out:         &out,
		Progress:    func(r ServiceResult) { progress = append(progress, r.Outcome) },
	})
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"/opt/slivka/bin/slivka", "init", root}, runner.calls[0].Args)

	require.Len(t, report.Results, 2)
	assert.Equal(t, OutcomeInstalled, report.Results[0].Outcome)
	assert.Equal(t, backend.NameConda, report.Results[0].Backend)
	assert.Equal(t, OutcomeInstalled, report.Results[1].Outcome)
	assert.Equal(t, backend.NameDocker, report.Results[1].Backend)
	assert.Equal(t, []Outcome{OutcomeInstalled, OutcomeInstalled}, progress)
	assert.Len(t, conda.calls, 1)
	assert.Len(t, docker.calls, 1)

	assert.Equal(t, []string{filepath.Join(root, "settings.yaml")}, report.SharedExisting)
	assert.Equal(t, []string{filepath.Join(root, "scripts", "run_with_docker.sh")}, report.SharedCopied)
	assert.Contains(t, out.String(), "File exists: "+filepath.Join(root, "settings.yaml"))
	assert.Contains(t, out.String(), "Installing: clustalo")
}

func TestRun_NoBackend(t *testing.T) {
	conda := &fakeBackend{name: backend.NameConda, applicable: func(string) bool { return false }}
	p := &scriptedPrompter{confirm: true}
	var out bytes.Buffer
	report, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("jronn"),
		Backends:    []backend.Backend{conda},
		Prompter:    p.funcs(),
		Runner:      &fakeRunner{},
		Out:         &out,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoBackend, report.Results[0].Outcome)
	assert.Empty(t, p.asked)
	assert.Contains(t, out.String(), "No applicable installer for jronn")
}

func TestRun_FailureTransitions(t *testing.T) {
	boom := &backend.CommandError{Args: []string{"conda", "env", "create"}, ExitCode: 1}
	tests := []struct {
		name       string
		errs       []error
		actions    []FailureAction
		wantErr    error
		outcomes   []Outcome
		attempts   int
		chooseAsks int
	}{
		{
			name:       "retry then success",
			errs:       []error{boom, nil, nil},
			actions:    []FailureAction{ActionRetry},
			outcomes:   []Outcome{OutcomeInstalled, OutcomeInstalled},
			attempts:   2,
			chooseAsks: 3,
		},
		{
			name:       "skip continues with next service",
			errs:       []error{boom, nil},
			actions:    []FailureAction{ActionSkip},
			outcomes:   []Outcome{OutcomeSkipped, OutcomeInstalled},
			attempts:   1,
			chooseAsks: 2,
		},
		{
			name:       "abort stops the run",
			errs:       []error{boom},
			actions:    []FailureAction{ActionAbort},
			wantErr:    ErrAborted,
			outcomes:   []Outcome{OutcomeAborted},
			attempts:   1,
			chooseAsks: 1,
		},
		{
			name:       "kept descriptor is not a failure",
			errs:       []error{backend.ErrServiceKept, nil},
			outcomes:   []Outcome{OutcomeKept, OutcomeInstalled},
			attempts:   1,
			chooseAsks: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conda := &fakeBackend{name: backend.NameConda, errs: tt.errs}
			p := &scriptedPrompter{confirm: true, actions: tt.actions}
			report, err := Run(context.Background(), Options{
				ProjectRoot: t.TempDir(),
				Services:    services("clustalo", "iupred"),
				Backends:    []backend.Backend{conda},
				Prompter:    p.funcs(),
				SkipInit:    true,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			outcomes := make([]Outcome, len(report.Results))
			for i, r := range report.Results {
				outcomes[i] = r.Outcome
			}
			assert.Equal(t, tt.outcomes, outcomes)
			assert.Equal(t, tt.attempts, report.Results[0].Attempts)
			assert.Len(t, p.asked, tt.chooseAsks)
			for _, failure := range p.failures {
				assert.ErrorIs(t, failure, boom)
			}
		})
	}
}

func TestRun_RetryCanSwitchBackend(t *testing.T) {
	conda := &fakeBackend{name: backend.NameConda, errs: []error{errors.New("solver failed")}}
	docker := &fakeBackend{name: backend.NameDocker}
	p := &scriptedPrompter{confirm: true, choices: []string{"conda", "docker"}, actions: []FailureAction{ActionRetry}}
	report, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo"),
		Backends:    []backend.Backend{conda, docker},
		Prompter:    p.funcs(),
		SkipInit:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, backend.NameDocker, report.Results[0].Backend)
	assert.Equal(t, 2, report.Results[0].Attempts)
	assert.NoError(t, report.Results[0].Err)
}

func TestRun_InitFailureContinues(t *testing.T) {
	runner := &fakeRunner{err: errors.New("slivka: not found")}
	var out bytes.Buffer
	p := &scriptedPrompter{confirm: true}
	report, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo"),
		Backends:    []backend.Backend{&fakeBackend{name: backend.NameConda}},
		Prompter:    p.funcs(),
		Runner:      runner,
		Out:         &out,
	})
	require.NoError(t, err)
	require.Error(t, report.InitErr)
	assert.Contains(t, out.String(), "platform init failed")
	assert.Equal(t, 1, report.Count(OutcomeInstalled))
}

func TestRun_PromptErrors(t *testing.T) {
	cancelled := errors.New("cancelled")
	_, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo"),
		Backends:    []backend.Backend{&fakeBackend{name: backend.NameConda}},
		Prompter: PromptFuncs{
			ConfirmServicesFunc: func([]Service) (bool, error) { return true, nil },
			ChooseBackendFunc:   func(Service, []string) (string, error) { return "", cancelled },
		},
		SkipInit: true,
	})
	require.ErrorIs(t, err, cancelled)

	_, err = Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo"),
		Backends:    []backend.Backend{&fakeBackend{name: backend.NameConda}},
		Prompter: PromptFuncs{
			ConfirmServicesFunc: func([]Service) (bool, error) { return true, nil },
			ChooseBackendFunc:   func(Service, []string) (string, error) { return "podman", nil },
		},
		SkipInit: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podman")
}

func TestPromptFuncs_MissingHandlers(t *testing.T) {
	p := PromptFuncs{}
	_, err := p.ConfirmServices(nil)
	require.Error(t, err)
	_, err = p.ChooseBackend(Service{}, nil)
	require.Error(t, err)
	action, err := p.OnFailure(Service{}, errors.New("x"))
	require.Error(t, err)
	assert.Equal(t, ActionAbort, action)
	assert.Equal(t, "retry", ActionRetry.String())
	assert.Equal(t, "FailureAction(9)", FailureAction(9).String())
}

func TestRun_SkipFromBackendChoice(t *testing.T) {
	conda := &fakeBackend{name: backend.NameConda}
	calls := 0
	report, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo", "iupred"),
		Backends:    []backend.Backend{conda},
		Prompter: PromptFuncs{
			ConfirmServicesFunc: func([]Service) (bool, error) { return true, nil },
			ChooseBackendFunc: func(Service, []string) (string, error) {
				calls++
				if calls == 1 {
					return "", ErrSkipService
				}
				return backend.NameConda, nil
			},
		},
		SkipInit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
	assert.Equal(t, 0, report.Results[0].Attempts)
	assert.Equal(t, OutcomeInstalled, report.Results[1].Outcome)
	assert.Len(t, conda.calls, 1)
}

func TestRun_BackendAbortStopsWithoutFailurePrompt(t *testing.T) {
	conda := &fakeBackend{name: backend.NameConda, errs: []error{fmt.Errorf("overwrite prompt: %w", ErrAborted)}}
	p := &scriptedPrompter{confirm: true, actions: []FailureAction{ActionRetry}}
	report, err := Run(context.Background(), Options{
		ProjectRoot: t.TempDir(),
		Services:    services("clustalo", "iupred"),
		Backends:    []backend.Backend{conda},
		Prompter:    p.funcs(),
		SkipInit:    true,
	})
	require.ErrorIs(t, err, ErrAborted)
	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeAborted, report.Results[0].Outcome)
	assert.Empty(t, p.failures)
}
