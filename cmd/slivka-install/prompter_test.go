package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/slivka-install/internal/install"
	"github.com/conn-castle/slivka-install/internal/prompt"
)

// fakeUI answers from queues and records every title it was shown.
type fakeUI struct {
	titles      []string
	confirms    []bool
	confirmErrs []error
	selects     []string
	selectErrs  []error
	notes       []string
}

func (u *fakeUI) Confirm(title string, value *bool) error {
	u.titles = append(u.titles, title)
	if len(u.confirmErrs) > 0 {
		err := u.confirmErrs[0]
		u.confirmErrs = u.confirmErrs[1:]
		if err != nil {
			return err
		}
	}
	if len(u.confirms) > 0 {
		*value = u.confirms[0]
		u.confirms = u.confirms[1:]
	}
	return nil
}

func (u *fakeUI) Select(title string, _ []string, current *string) error {
	u.titles = append(u.titles, title)
	if len(u.selectErrs) > 0 {
		err := u.selectErrs[0]
		u.selectErrs = u.selectErrs[1:]
		if err != nil {
			return err
		}
	}
	if len(u.selects) > 0 {
		*current = u.selects[0]
		u.selects = u.selects[1:]
	}
	return nil
}

func (u *fakeUI) Note(title string, body string) error {
	u.titles = append(u.titles, title)
	u.notes = append(u.notes, body)
	return nil
}

var clustalo = install.Service{Base: "clustalo", Name: "Clustal Omega", Version: "1.2.4"}

func TestCLIPrompter_ConfirmServices(t *testing.T) {
	var out bytes.Buffer
	p := &cliPrompter{out: &out}
	ok, err := p.confirmServices([]install.Service{clustalo})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Clustal Omega:1.2.4 (clustalo)")

	p.ui = &fakeUI{confirms: []bool{false}}
	ok, err = p.confirmServices(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	p.ui = &fakeUI{confirmErrs: []error{prompt.ErrDismissed}}
	ok, err = p.confirmServices(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	p.ui = &fakeUI{confirmErrs: []error{prompt.ErrCancelled}}
	_, err = p.confirmServices(nil)
	require.ErrorIs(t, err, install.ErrAborted)
	require.ErrorIs(t, err, prompt.ErrCancelled)
}

func TestCLIPrompter_ChooseBackend(t *testing.T) {
	tests := []struct {
		name      string
		ui        *fakeUI
		preferred string
		backends  []string
		want      string
		wantErr   error
		asked     bool
	}{
		{name: "defaults to first", backends: []string{"conda", "docker"}, want: "conda"},
		{name: "preferred without ui", preferred: "docker", backends: []string{"conda", "docker"}, want: "docker"},
		{name: "single backend is not asked", ui: &fakeUI{}, backends: []string{"docker"}, want: "docker"},
		{name: "ui choice", ui: &fakeUI{selects: []string{"docker"}}, backends: []string{"conda", "docker"}, want: "docker", asked: true},
		{name: "dismissed skips", ui: &fakeUI{selectErrs: []error{prompt.ErrDismissed}}, backends: []string{"conda", "docker"}, wantErr: install.ErrSkipService, asked: true},
		{name: "cancelled aborts", ui: &fakeUI{selectErrs: []error{prompt.ErrCancelled}}, backends: []string{"conda", "docker"}, wantErr: install.ErrAborted, asked: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &cliPrompter{out: &bytes.Buffer{}, preferred: tt.preferred}
			if tt.ui != nil {
				p.ui = tt.ui
			}
			got, err := p.chooseBackend(clustalo, tt.backends)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			if tt.ui != nil {
				assert.Equal(t, tt.asked, len(tt.ui.titles) == 1)
			}
		})
	}
}

func TestCLIPrompter_OnFailure(t *testing.T) {
	failure := errors.New("conda env create exited with status 1")
	tests := []struct {
		name    string
		ui      *fakeUI
		want    install.FailureAction
		wantErr bool
	}{
		{name: "no ui skips", want: install.ActionSkip},
		{name: "default is retry", ui: &fakeUI{}, want: install.ActionRetry},
		{name: "skip", ui: &fakeUI{selects: []string{"skip"}}, want: install.ActionSkip},
		{name: "abort", ui: &fakeUI{selects: []string{"abort"}}, want: install.ActionAbort},
		{name: "dismissed skips", ui: &fakeUI{selectErrs: []error{prompt.ErrDismissed}}, want: install.ActionSkip},
		{name: "cancelled", ui: &fakeUI{selectErrs: []error{prompt.ErrCancelled}}, want: install.ActionAbort, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := &cliPrompter{out: &out}
			if tt.ui != nil {
				p.ui = tt.ui
			}
			got, err := p.onFailure(clustalo, failure)
			if tt.wantErr {
				require.ErrorIs(t, err, install.ErrAborted)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), failure.Error())
		})
	}
}

func TestCLIPrompter_OverwriteData(t *testing.T) {
	p := &cliPrompter{out: &bytes.Buffer{}}
	replace, err := p.overwriteData("/srv/project/data/clustalo/db")
	require.NoError(t, err)
	assert.False(t, replace)

	p.overwrite = true
	replace, err = p.overwriteData("/srv/project/data/clustalo/db")
	require.NoError(t, err)
	assert.True(t, replace)

	ui := &fakeUI{confirms: []bool{true}}
	p = &cliPrompter{out: &bytes.Buffer{}, ui: ui}
	replace, err = p.overwriteData("/srv/project/data/clustalo/db")
	require.NoError(t, err)
	assert.True(t, replace)
	assert.Equal(t, []string{"/srv/project/data/clustalo/db already exists. Replace it?"}, ui.titles)

	p.ui = &fakeUI{confirmErrs: []error{prompt.ErrCancelled}}
	_, err = p.overwriteData("/srv/project/data/clustalo/db")
	require.ErrorIs(t, err, install.ErrAborted)
}

const sampleDiff = "--- a (current)\n+++ a (new)\n@@ -1 +1 @@\n-old\n+new\n"

func TestCLIPrompter_OverwriteService(t *testing.T) {
	disableTestColorOutput(t)
	var out bytes.Buffer
	p := &cliPrompter{out: &out}
	replace, err := p.overwriteService("services/clustalo.service.yaml", sampleDiff)
	require.NoError(t, err)
	assert.False(t, replace)
	assert.Contains(t, out.String(), "Diff for services/clustalo.service.yaml:")
	assert.Contains(t, out.String(), "+new")

	p.overwrite = true
	replace, err = p.overwriteService("services/clustalo.service.yaml", sampleDiff)
	require.NoError(t, err)
	assert.True(t, replace)

	ui := &fakeUI{confirms: []bool{true}}
	p = &cliPrompter{out: &bytes.Buffer{}, ui: ui}
	replace, err = p.overwriteService("services/clustalo.service.yaml", sampleDiff)
	require.NoError(t, err)
	assert.True(t, replace)
	assert.Equal(t, []string{sampleDiff}, ui.notes)
	require.Len(t, ui.titles, 2)
	assert.Contains(t, ui.titles[1], "differs from the new service descriptor")

	p.ui = &fakeUI{confirmErrs: []error{prompt.ErrDismissed}}
	replace, err = p.overwriteService("services/clustalo.service.yaml", sampleDiff)
	require.NoError(t, err)
	assert.False(t, replace)
}

// enableTestColorOutput forces ANSI output from fatih/color, which caches
// NO_COLOR and terminal detection in color.NoColor at init time.
func enableTestColorOutput(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	stubTerminal(t, true)

	origNoColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = origNoColor })
	resetDiffColors(t)
}

func disableTestColorOutput(t *testing.T) {
	t.Helper()
	stubTerminal(t, true)

	origNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = origNoColor })
	resetDiffColors(t)
}

func resetDiffColors(t *testing.T) {
	t.Helper()
	origAdded := diffColorAdded
	origRemoved := diffColorRemoved
	origHunk := diffColorHunk
	diffColorAdded = color.New(color.FgGreen)
	diffColorRemoved = color.New(color.FgRed)
	diffColorHunk = color.New(color.FgCyan)
	t.Cleanup(func() {
		diffColorAdded = origAdded
		diffColorRemoved = origRemoved
		diffColorHunk = origHunk
	})
}

func TestPrintDiff_ColorizedOnTerminal(t *testing.T) {
	enableTestColorOutput(t)
	var buf bytes.Buffer
	require.NoError(t, printDiff(&buf, "a", sampleDiff))
	output := buf.String()
	assert.Contains(t, output, "\x1b[")
	assert.Contains(t, output, "--- a (current)\n")
}

func TestPrintDiff_PlainWithoutTerminal(t *testing.T) {
	enableTestColorOutput(t)
	stubTerminal(t, false)
	var buf bytes.Buffer
	require.NoError(t, printDiff(&buf, "a", strings.TrimSuffix(sampleDiff, "\n")))
	assert.Equal(t, "Diff for a:\n"+sampleDiff, buf.String())
}

func TestPrintDiff_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printDiff(&buf, "a", "  \n"))
	assert.Empty(t, buf.String())
}
