package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/slivka-install/internal/install"
	"github.com/conn-castle/slivka-install/internal/messages"
	"github.com/conn-castle/slivka-install/internal/prompt"
)

var (
	diffColorAdded   = color.New(color.FgGreen)
	diffColorRemoved = color.New(color.FgRed)
	diffColorHunk    = color.New(color.FgCyan)
)

// cliPrompter answers installer questions through ui. A nil ui answers
// every question with its default.
type cliPrompter struct {
	ui        prompt.UI
	out       io.Writer
	preferred string
	overwrite bool
}

func (p *cliPrompter) funcs() install.PromptFuncs {
	return install.PromptFuncs{
		ConfirmServicesFunc: p.confirmServices,
		ChooseBackendFunc:   p.chooseBackend,
		OnFailureFunc:       p.onFailure,
	}
}

func (p *cliPrompter) confirmServices(services []install.Service) (bool, error) {
	_, _ = fmt.Fprint(p.out, messages.CLIServicesHeader)
	for _, svc := range services {
		_, _ = fmt.Fprintf(p.out, messages.CLIServiceLineFmt, svc.Label(), svc.Base)
	}
	if p.ui == nil {
		return true, nil
	}
	ok := true
	if err := p.ui.Confirm(messages.CLIConfirmTitle, &ok); err != nil {
		if errors.Is(err, prompt.ErrDismissed) {
			return false, nil
		}
		return false, promptError(err)
	}
	return ok, nil
}

func (p *cliPrompter) chooseBackend(svc install.Service, backends []string) (string, error) {
	choice := backends[0]
	if slices.Contains(backends, p.preferred) {
		choice = p.preferred
	}
	if p.ui == nil || len(backends) == 1 {
		return choice, nil
	}
	if err := p.ui.Select(fmt.Sprintf(messages.CLIChooseBackendFmt, svc.Label()), backends, &choice); err != nil {
		if errors.Is(err, prompt.ErrDismissed) {
			return "", install.ErrSkipService
		}
		return "", promptError(err)
	}
	return choice, nil
}

func (p *cliPrompter) onFailure(svc install.Service, failure error) (install.FailureAction, error) {
	_, _ = fmt.Fprintln(p.out, color.RedString("%v", failure))
	if p.ui == nil {
		return install.ActionSkip, nil
	}
	options := []string{
		install.ActionRetry.String(),
		install.ActionSkip.String(),
		install.ActionAbort.String(),
	}
	choice := install.ActionRetry.String()
	if err := p.ui.Select(fmt.Sprintf(messages.CLIFailureTitleFmt, svc.Label()), options, &choice); err != nil {
		if errors.Is(err, prompt.ErrDismissed) {
			return install.ActionSkip, nil
		}
		return install.ActionAbort, promptError(err)
	}
	switch choice {
	case install.ActionRetry.String():
		return install.ActionRetry, nil
	case install.ActionSkip.String():
		return install.ActionSkip, nil
	default:
		return install.ActionAbort, nil
	}
}

// overwriteData decides whether an existing data directory is replaced.
func (p *cliPrompter) overwriteData(path string) (bool, error) {
	if p.overwrite {
		return true, nil
	}
	if p.ui == nil {
		return false, nil
	}
	replace := false
	if err := p.ui.Confirm(fmt.Sprintf(messages.CLIOverwriteDataFmt, path), &replace); err != nil {
		if errors.Is(err, prompt.ErrDismissed) {
			return false, nil
		}
		return false, promptError(err)
	}
	return replace, nil
}

// overwriteService decides whether an existing, different service
// descriptor is replaced. Without a ui the diff is printed for the record.
func (p *cliPrompter) overwriteService(path string, diff string) (bool, error) {
	if p.ui == nil {
		if err := printDiff(p.out, path, diff); err != nil {
			return false, err
		}
		return p.overwrite, nil
	}
	if p.overwrite {
		return true, nil
	}
	if err := p.ui.Note(fmt.Sprintf(messages.CLIDiffTitleFmt, path), diff); err != nil {
		if !errors.Is(err, prompt.ErrDismissed) {
			return false, promptError(err)
		}
	}
	replace := false
	if err := p.ui.Confirm(fmt.Sprintf(messages.CLIOverwriteSvcFmt, path), &replace); err != nil {
		if errors.Is(err, prompt.ErrDismissed) {
			return false, nil
		}
		return false, promptError(err)
	}
	return replace, nil
}

// promptError turns a cancelled prompt into an aborted run.
func promptError(err error) error {
	if errors.Is(err, prompt.ErrCancelled) {
		return fmt.Errorf("%w: %w", install.ErrAborted, err)
	}
	return err
}

// printDiff writes a unified diff, coloured when stdout is a terminal.
func printDiff(out io.Writer, path string, diff string) error {
	if strings.TrimSpace(diff) == "" {
		return nil
	}
	if _, err := fmt.Fprintf(out, messages.CLIDiffTitleFmt+"\n", path); err != nil {
		return err
	}
	colorize := isTerminal()
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		c := diffLineColor(line)
		if !colorize || c == nil {
			if _, err := io.WriteString(out, line); err != nil {
				return err
			}
			continue
		}
		if _, err := c.Fprint(out, line); err != nil {
			return err
		}
	}
	if !strings.HasSuffix(diff, "\n") {
		_, err := fmt.Fprintln(out)
		return err
	}
	return nil
}

func diffLineColor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return nil
	case strings.HasPrefix(line, "@@"):
		return diffColorHunk
	case strings.HasPrefix(line, "+"):
		return diffColorAdded
	case strings.HasPrefix(line, "-"):
		return diffColorRemoved
	default:
		return nil
	}
}
