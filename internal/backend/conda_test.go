package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/slivka-install/internal/interpolate"
)

const condaInline = `environment:
  channels: [bioconda]
  dependencies:
    - clustalo=1.2.4
files:
  - exclude: testdata
vars:
  format: "{{ env:CLUSTAL_FORMAT }}"
  db: "{{ local-path:data }}/db.fasta"
`

func newTestConda(runner Runner, env map[string]string) (*Conda, *bytes.Buffer) {
	notice := &bytes.Buffer{}
	return &Conda{
		Common: Common{
			Runner: runner,
			System: fakeSystem{env: env},
			Notice: notice,
		},
		Exe: "/opt/conda/bin/mamba",
	}, notice
}

// createEnvOnRun simulates conda creating the environment with a clustalo binary.
func createEnvOnRun(t *testing.T, specs *[]string) func(Command) error {
	return func(cmd Command) error {
		prefix := cmd.Args[4]
		spec := cmd.Args[6]
		data, err := os.ReadFile(spec)
		require.NoError(t, err)
		*specs = append(*specs, string(data))
		writeFile(t, filepath.Join(prefix, "bin", "clustalo"), "#!/bin/sh\n", 0o755)
		return nil
	}
}

func TestCondaInstall(t *testing.T) {
	serviceFile, project := serviceFixture(t, condaInline, "")
	var specs []string
	runner := &fakeRunner{}
	runner.run = createEnvOnRun(t, &specs)
	conda, _ := newTestConda(runner, map[string]string{"CLUSTAL_FORMAT": "fasta", "PATH": "/usr/bin"})

	require.True(t, conda.Applicable(serviceFile))
	out, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "services", "clustalo.service.yaml"), out)

	envPath := filepath.Join(project, DefaultCondaEnvRoot, "clustalo")
	require.Len(t, runner.calls, 1)
	args := runner.calls[0].Args
	assert.Equal(t, []string{"/opt/conda/bin/mamba", "env", "create", "--prefix", envPath}, args[:5])
	assert.Equal(t, "--file", args[5])
	assert.Equal(t, "environment.yaml", filepath.Base(args[6]))
	assert.Equal(t, []string{"--yes", "--quiet"}, args[7:])
	require.Len(t, specs, 1)
	assert.Contains(t, specs[0], "clustalo=1.2.4")
	_, err = os.Stat(filepath.Dir(args[6]))
	assert.True(t, errors.Is(err, os.ErrNotExist), "temporary spec removed")

	d := readDescriptor(t, out)
	assert.Equal(t, "Clustal Omega", d.Name)
	assert.Equal(t, []string{
		"/opt/conda/bin/mamba", "run", "-p", envPath,
		filepath.Join(envPath, "bin", "clustalo"),
		"--outfmt=fasta",
	}, d.Command)
	dataDir := filepath.Join(project, "data", "clustalo", "data")
	assert.Equal(t, "--db="+dataDir+"/db.fasta", argValue(t, d, "db"))
	assert.Equal(t, dataDir, argValue(t, d, "runtime"))

	assert.FileExists(t, filepath.Join(dataDir, "db.fasta"))
	assert.NoDirExists(t, filepath.Join(project, "data", "clustalo", "testdata"))
}

func TestCondaInstall_ReusesExistingEnv(t *testing.T) {
	serviceFile, project := serviceFixture(t, condaInline, "")
	envPath := filepath.Join(project, DefaultCondaEnvRoot, "clustalo")
	writeFile(t, filepath.Join(envPath, "bin", "clustalo"), "#!/bin/sh\n", 0o755)
	runner := &fakeRunner{}
	conda, notice := newTestConda(runner, map[string]string{"CLUSTAL_FORMAT": "fasta"})

	_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
	require.NoError(t, err)
	assert.Empty(t, runner.calls)
	assert.Contains(t, notice.String(), envPath)
}

func TestCondaInstall_RecreateEnv(t *testing.T) {
	serviceFile, project := serviceFixture(t, condaInline, "")
	envPath := filepath.Join(project, DefaultCondaEnvRoot, "clustalo")
	writeFile(t, filepath.Join(envPath, "stale"), "x", 0o644)
	var specs []string
	runner := &fakeRunner{}
	runner.run = createEnvOnRun(t, &specs)
	conda, _ := newTestConda(runner, map[string]string{"CLUSTAL_FORMAT": "fasta"})
	conda.RecreateEnv = true

	_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.NoFileExists(t, filepath.Join(envPath, "stale"))
}

func TestCondaInstall_EnvironmentFile(t *testing.T) {
	serviceFile, project := serviceFixture(t, "environment-file: envs/clustalo.yml\nvars:\n  format: fasta\n  db: x\n", "")
	specPath := filepath.Join(filepath.Dir(serviceFile), "envs", "clustalo.yml")
	writeFile(t, specPath, "dependencies: [clustalo]\n", 0o644)
	var specs []string
	runner := &fakeRunner{}
	runner.run = createEnvOnRun(t, &specs)
	conda, _ := newTestConda(runner, nil)

	_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, specPath, runner.calls[0].Args[6])
}

func TestCondaInstall_Errors(t *testing.T) {
	t.Run("missing environment file", func(t *testing.T) {
		serviceFile, project := serviceFixture(t, "vars: {}\n", "")
		runner := &fakeRunner{}
		conda, _ := newTestConda(runner, nil)
		_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "environment.yaml")
		assert.Empty(t, runner.calls)
	})

	t.Run("create fails", func(t *testing.T) {
		serviceFile, project := serviceFixture(t, condaInline, "")
		runner := &fakeRunner{run: func(cmd Command) error {
			return &CommandError{Args: cmd.Args, ExitCode: 2}
		}}
		conda, _ := newTestConda(runner, nil)
		_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, 2, cmdErr.ExitCode)
		assert.NoFileExists(t, filepath.Join(project, "services", "clustalo.service.yaml"))
	})

	t.Run("unset env var", func(t *testing.T) {
		serviceFile, project := serviceFixture(t, condaInline, "")
		var specs []string
		runner := &fakeRunner{}
		runner.run = createEnvOnRun(t, &specs)
		conda, _ := newTestConda(runner, map[string]string{})
		_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
		var missing *interpolate.MissingKeyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "env:CLUSTAL_FORMAT", missing.Key)
	})

	t.Run("executable missing from env", func(t *testing.T) {
		serviceFile, project := serviceFixture(t, condaInline, "")
		runner := &fakeRunner{}
		conda, _ := newTestConda(runner, map[string]string{"CLUSTAL_FORMAT": "fasta", "PATH": t.TempDir()})
		_, err := conda.Install(context.Background(), conda.InstallFile(serviceFile), project)
		var notFound *ExecutableNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "clustalo", notFound.Name)
	})
}

func TestCondaNotApplicable(t *testing.T) {
	serviceFile, _ := serviceFixture(t, "", "")
	conda, _ := newTestConda(&fakeRunner{}, nil)
	assert.False(t, conda.Applicable(serviceFile))
	assert.Equal(t, NameConda, conda.Name())
	assert.Equal(t, []string{"/opt/conda/bin/mamba", "run", "-p", "/env"}, conda.CommandPrefix("/env"))
}
