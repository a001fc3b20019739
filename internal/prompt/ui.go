// Package prompt asks the operator questions, through charmbracelet/huh
// forms on a terminal or plain lines otherwise.
package prompt

import (
	"errors"

	"github.com/conn-castle/slivka-install/internal/messages"
)

var (
	// ErrCancelled reports that the operator asked to stop (Ctrl+C).
	ErrCancelled = errors.New(messages.PromptCancelled)
	// ErrDismissed reports that the operator dismissed a single question (Esc).
	ErrDismissed = errors.New(messages.PromptDismissed)
	// ErrNoInput reports that input ended before an answer was given.
	ErrNoInput = errors.New(messages.PromptNoInput)
)

// UI defines the interaction methods.
type UI interface {
	Select(title string, options []string, current *string) error
	Confirm(title string, value *bool) error
	Note(title string, body string) error
}
