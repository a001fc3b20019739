package install

import (
	"fmt"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// FailureAction is the operator's answer to a failed installation.
type FailureAction int

// Failure actions.
const (
	ActionRetry FailureAction = iota
	ActionSkip
	ActionAbort
)

func (a FailureAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionSkip:
		return "skip"
	case ActionAbort:
		return "abort"
	default:
		return fmt.Sprintf("FailureAction(%d)", int(a))
	}
}

// Prompter asks the operator for the decisions the installation needs.
type Prompter interface {
	ConfirmServices(services []Service) (bool, error)
	ChooseBackend(service Service, backends []string) (string, error)
	OnFailure(service Service, err error) (FailureAction, error)
}

// PromptConfirmServicesFunc asks whether to install the listed services.
type PromptConfirmServicesFunc func(services []Service) (bool, error)

// PromptChooseBackendFunc asks which backend installs a service.
type PromptChooseBackendFunc func(service Service, backends []string) (string, error)

// PromptOnFailureFunc asks how to continue after a failed installation.
type PromptOnFailureFunc func(service Service, err error) (FailureAction, error)

// PromptFuncs adapts optional prompt callbacks into a Prompter.
type PromptFuncs struct {
	ConfirmServicesFunc PromptConfirmServicesFunc
	ChooseBackendFunc   PromptChooseBackendFunc
	OnFailureFunc       PromptOnFailureFunc
}

// ConfirmServices returns an error if no ConfirmServicesFunc is configured.
func (p PromptFuncs) ConfirmServices(services []Service) (bool, error) {
	if p.ConfirmServicesFunc == nil {
		return false, fmt.Errorf(messages.InstallPromptRequiredFmt, "confirm")
	}
	return p.ConfirmServicesFunc(services)
}

// ChooseBackend returns an error if no ChooseBackendFunc is configured.
func (p PromptFuncs) ChooseBackend(service Service, backends []string) (string, error) {
	if p.ChooseBackendFunc == nil {
		return "", fmt.Errorf(messages.InstallPromptRequiredFmt, "backend choice")
	}
	return p.ChooseBackendFunc(service, backends)
}

// OnFailure returns an error if no OnFailureFunc is configured.
func (p PromptFuncs) OnFailure(service Service, err error) (FailureAction, error) {
	if p.OnFailureFunc == nil {
		return ActionAbort, fmt.Errorf(messages.InstallPromptRequiredFmt, "failure")
	}
	return p.OnFailureFunc(service, err)
}
