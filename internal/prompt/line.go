package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// LineUI implements UI with plain line-based prompts.
type LineUI struct {
	out    io.Writer
	reader *bufio.Reader
}

// NewLineUI reads answers from in and writes prompts to out.
func NewLineUI(in io.Reader, out io.Writer) *LineUI {
	return &LineUI{out: out, reader: bufio.NewReader(in)}
}

// readLine returns the trimmed next line and whether input has ended.
func (ui *LineUI) readLine() (string, bool, error) {
	line, err := ui.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	return strings.TrimSpace(line), errors.Is(err, io.EOF), nil
}

// Confirm asks a yes/no question; *value is the default and receives the answer.
func (ui *LineUI) Confirm(title string, value *bool) error {
	for {
		format := messages.PromptNoDefaultFmt
		if *value {
			format = messages.PromptYesDefaultFmt
		}
		if _, err := fmt.Fprintf(ui.out, format, title); err != nil {
			return err
		}
		response, eof, err := ui.readLine()
		if err != nil {
			return err
		}
		if response == "" {
			if eof {
				return ErrNoInput
			}
			return nil
		}
		switch strings.ToLower(response) {
		case "y", "yes":
			*value = true
			return nil
		case "n", "no":
			*value = false
			return nil
		}
		if eof {
			return fmt.Errorf(messages.PromptInvalidResponseFmt, response)
		}
		if _, err := fmt.Fprintln(ui.out, messages.PromptRetryYesNo); err != nil {
			return err
		}
	}
}

// Select asks for one of options. Answers match an option name, a unique
// prefix of one (case-insensitive) or its 1-based number. An empty answer
// keeps *current when it is one of the options.
func (ui *LineUI) Select(title string, options []string, current *string) error {
	if len(options) == 0 {
		return fmt.Errorf(messages.PromptNoOptionsFmt, title)
	}
	labels := make([]string, len(options))
	for i, option := range options {
		labels[i] = fmt.Sprintf("%d) %s", i+1, option)
	}
	for {
		def := ""
		if contains(options, *current) {
			def = fmt.Sprintf(messages.PromptDefaultFmt, *current)
		}
		if _, err := fmt.Fprintf(ui.out, messages.PromptSelectFmt, title, strings.Join(labels, ", "), def); err != nil {
			return err
		}
		response, eof, err := ui.readLine()
		if err != nil {
			return err
		}
		if response == "" && def != "" {
			return nil
		}
		if choice, ok := matchOption(options, response); ok {
			*current = choice
			return nil
		}
		if eof {
			if response == "" {
				return ErrNoInput
			}
			return fmt.Errorf(messages.PromptInvalidResponseFmt, response)
		}
		if _, err := fmt.Fprintf(ui.out, messages.PromptRetrySelectFmt, strings.Join(options, ", ")); err != nil {
			return err
		}
	}
}

// Note prints a titled block of text.
func (ui *LineUI) Note(title string, body string) error {
	_, err := fmt.Fprintf(ui.out, "%s\n%s\n", title, strings.TrimRight(body, "\n"))
	return err
}

func matchOption(options []string, response string) (string, bool) {
	if response == "" {
		return "", false
	}
	if n, err := strconv.Atoi(response); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	lower := strings.ToLower(response)
	match := ""
	for _, option := range options {
		candidate := strings.ToLower(option)
		if candidate == lower {
			return option, true
		}
		if strings.HasPrefix(candidate, lower) {
			if match != "" {
				return "", false
			}
			match = option
		}
	}
	return match, match != ""
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
