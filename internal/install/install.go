// Package install drives an installation run: it confirms the selected
// services, prepares the project, and installs each service with the
// backend the operator picks.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/conn-castle/slivka-install/internal/backend"
	"github.com/conn-castle/slivka-install/internal/messages"
)

var (
	// ErrNothingToInstall reports that no service matched.
	ErrNothingToInstall = errors.New(messages.InstallNothingToInstall)
	// ErrAborted reports that the operator stopped the run.
	ErrAborted = errors.New(messages.InstallAborted)
	// ErrSkipService may be returned by Prompter.ChooseBackend to skip the
	// current service without stopping the run.
	ErrSkipService = errors.New(messages.InstallSkipService)
)

// Options controls an installation run.
type Options struct {
	// ProjectRoot is the installation directory.
	ProjectRoot string
	Services    []Service
	// Backends are the usable backends in preference order.
	Backends []backend.Backend
	Prompter Prompter
	// Runner runs the platform init command.
	Runner    backend.Runner
	SlivkaExe string
	SkipInit  bool
	// SharedDir is copied into the project; empty skips it.
	SharedDir string
	// Out receives progress lines; nil discards them.
	Out io.Writer
	// Progress is called with each service result as soon as it is final.
	Progress func(ServiceResult)
	Logger   *slog.Logger
	System   System
}

type installer struct {
	root      string
	services  []Service
	backends  []backend.Backend
	prompter  Prompter
	runner    backend.Runner
	slivkaExe string
	skipInit  bool
	sharedDir string
	out       io.Writer
	progress  func(ServiceResult)
	logger    *slog.Logger
	sys       System
	report    Report
}

type state int

const (
	stateSelecting state = iota
	stateInstalling
)

// Run installs opts.Services into opts.ProjectRoot. The returned report is
// valid even when an error is returned.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.ProjectRoot == "" {
		return Report{}, errors.New(messages.InstallRootRequired)
	}
	if opts.Prompter == nil {
		return Report{}, errors.New(messages.InstallPrompterRequired)
	}
	if len(opts.Services) == 0 {
		return Report{}, ErrNothingToInstall
	}
	inst := newInstaller(opts)

	ok, err := inst.prompter.ConfirmServices(inst.services)
	if err != nil {
		return inst.report, err
	}
	if !ok {
		return inst.report, ErrAborted
	}

	if err := inst.ensureRoot(); err != nil {
		return inst.report, err
	}
	lock, err := lockProject(ctx, inst.root)
	if err != nil {
		return inst.report, err
	}
	defer func() {
		_ = lock.release()
	}()

	inst.initPlatform(ctx)
	if err := inst.copySharedFiles(); err != nil {
		return inst.report, err
	}

	for _, svc := range inst.services {
		result, err := inst.installService(ctx, svc)
		inst.report.Results = append(inst.report.Results, result)
		if inst.progress != nil {
			inst.progress(result)
		}
		if err != nil {
			return inst.report, err
		}
	}
	return inst.report, nil
}

func newInstaller(opts Options) *installer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}
	runner := opts.Runner
	if runner == nil {
		runner = backend.ExecRunner{Logger: logger}
	}
	slivkaExe := opts.SlivkaExe
	if slivkaExe == "" {
		slivkaExe = "slivka"
	}
	return &installer{
		root:      opts.ProjectRoot,
		services:  opts.Services,
		backends:  opts.Backends,
		prompter:  opts.Prompter,
		runner:    runner,
		slivkaExe: slivkaExe,
		skipInit:  opts.SkipInit,
		sharedDir: opts.SharedDir,
		out:       opts.Out,
		progress:  opts.Progress,
		logger:    logger,
		sys:       sys,
	}
}

// initPlatform runs "<slivka> init <root>". A failure is reported and the
// run continues.
func (inst *installer) initPlatform(ctx context.Context) {
	if inst.skipInit {
		return
	}
	err := inst.runner.Run(ctx, backend.Command{Args: []string{inst.slivkaExe, "init", inst.root}})
	if err != nil {
		inst.report.InitErr = err
		inst.notice(messages.InstallInitFailedFmt, err)
		inst.logger.Warn("platform init failed", "error", err)
	}
}

func (inst *installer) ensureRoot() error {
	if err := inst.sys.MkdirAll(inst.root, 0o755); err != nil {
		return fmt.Errorf(messages.InstallCreateDirFailedFmt, inst.root, err)
	}
	return nil
}

func (inst *installer) applicable(svc Service) []backend.Backend {
	var out []backend.Backend
	for _, b := range inst.backends {
		if b.Applicable(svc.Path) {
			out = append(out, b)
		}
	}
	return out
}

// installService moves one service from selecting through installing
// until it succeeds, is skipped or the run is aborted.
func (inst *installer) installService(ctx context.Context, svc Service) (ServiceResult, error) {
	result := ServiceResult{Service: svc}
	inst.notice(messages.InstallInstallingFmt, svc.Base)
	candidates := inst.applicable(svc)
	if len(candidates) == 0 {
		result.Outcome = OutcomeNoBackend
		inst.notice(messages.InstallNoBackendFmt, svc.Base)
		return result, nil
	}
	names := make([]string, len(candidates))
	for i, b := range candidates {
		names[i] = b.Name()
	}

	var chosen backend.Backend
	st := stateSelecting
	for {
		switch st {
		case stateSelecting:
			name, err := inst.prompter.ChooseBackend(svc, names)
			if errors.Is(err, ErrSkipService) {
				result.Outcome = OutcomeSkipped
				return result, nil
			}
			if err != nil {
				result.Outcome = OutcomeAborted
				return result, err
			}
			chosen = findBackend(candidates, name)
			if chosen == nil {
				result.Outcome = OutcomeAborted
				return result, fmt.Errorf(messages.InstallUnknownBackendFmt, name)
			}
			st = stateInstalling

		case stateInstalling:
			result.Attempts++
			result.Backend = chosen.Name()
			inst.logger.Info("installing service", "service", svc.Base, "backend", chosen.Name(), "attempt", result.Attempts)
			output, err := chosen.Install(ctx, chosen.InstallFile(svc.Path), inst.root)
			result.Output = output
			if err == nil {
				result.Outcome = OutcomeInstalled
				result.Err = nil
				return result, nil
			}
			if errors.Is(err, backend.ErrServiceKept) {
				result.Outcome = OutcomeKept
				result.Err = nil
				return result, nil
			}
			result.Err = err
			if errors.Is(err, ErrAborted) {
				result.Outcome = OutcomeAborted
				return result, err
			}
			inst.logger.Warn("service installation failed", "service", svc.Base, "error", err)
			action, perr := inst.prompter.OnFailure(svc, err)
			if perr != nil {
				result.Outcome = OutcomeAborted
				return result, perr
			}
			switch action {
			case ActionRetry:
				st = stateSelecting
			case ActionSkip:
				result.Outcome = OutcomeSkipped
				return result, nil
			default:
				result.Outcome = OutcomeAborted
				return result, ErrAborted
			}
		}
	}
}

func findBackend(backends []backend.Backend, name string) backend.Backend {
	for _, b := range backends {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (inst *installer) notice(format string, args ...any) {
	if inst.out == nil {
		return
	}
	_, _ = fmt.Fprintf(inst.out, format, args...)
}
