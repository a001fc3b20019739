package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/slivka-install/internal/messages"
	"github.com/conn-castle/slivka-install/internal/terminal"
)

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
	ctrlCAbort bool // set by the key filter while a form runs
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI that requires stdin and stdout to be terminals.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

func (ui *HuhUI) ensureInteractive() error {
	checker := ui.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return errors.New(messages.PromptRequiresTerminal)
}

// formKeyMap binds both Esc and Ctrl+C to abort; runForm tells them apart.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	escHint := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss"))
	km.Select.Prev = escHint
	km.Confirm.Prev = escHint
	km.Note.Prev = escHint

	// Choice lists are short.
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// formFilter records Ctrl+C presses and turns interrupts into a regular
// quit so the renderer clears the form.
func (ui *HuhUI) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
			ui.ctrlCAbort = true
		}
		if _, ok := msg.(tea.InterruptMsg); ok {
			return tea.QuitMsg{}
		}
		return msg
	}
}

// runForm runs form on stderr. Esc yields ErrDismissed, Ctrl+C ErrCancelled.
func (ui *HuhUI) runForm(form *huh.Form) error {
	if err := ui.ensureInteractive(); err != nil {
		return err
	}
	ui.ctrlCAbort = false
	form.WithKeyMap(formKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(ui.formFilter()),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ui.abortError()
	}
	return err
}

func (ui *HuhUI) abortError() error {
	if ui.ctrlCAbort {
		return ErrCancelled
	}
	return ErrDismissed
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	if len(options) == 0 {
		return fmt.Errorf(messages.PromptNoOptionsFmt, title)
	}
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(current),
		),
	))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(value),
		),
	))
}

// Note renders an informational screen.
func (ui *HuhUI) Note(title string, body string) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(title).
				Description(body),
		),
	))
}
