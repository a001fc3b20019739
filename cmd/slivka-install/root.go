package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/conn-castle/slivka-install/internal/backend"
	"github.com/conn-castle/slivka-install/internal/config"
	"github.com/conn-castle/slivka-install/internal/datadirs"
	"github.com/conn-castle/slivka-install/internal/install"
	"github.com/conn-castle/slivka-install/internal/messages"
	"github.com/conn-castle/slivka-install/internal/prompt"
	"github.com/conn-castle/slivka-install/internal/root"
	"github.com/conn-castle/slivka-install/internal/terminal"
)

var (
	getwd        = os.Getwd
	isTerminal   = terminal.IsInteractive
	installRun   = install.Run
	detectConda  = backend.DetectConda
	detectDocker = backend.DetectDocker
)

// newUI returns the prompt UI for cmd: huh forms on a terminal, plain
// lines on the command's streams otherwise.
var newUI = func(cmd *cobra.Command) prompt.UI {
	if isTerminal() {
		return prompt.NewHuhUI()
	}
	return prompt.NewLineUI(cmd.InOrStdin(), cmd.OutOrStdout())
}

type rootOptions struct {
	source      string
	configPath  string
	services    []string
	condaExe    string
	dockerExe   string
	backend     string
	yes         bool
	overwrite   bool
	recreateEnv bool
	noInit      bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runInstall(cmd, opts, args[0])
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.source, "source", "", messages.FlagSource)
	persistent.StringVar(&opts.configPath, "config", "", messages.FlagConfig)
	persistent.StringArrayVarP(&opts.services, "service", "s", nil, messages.FlagService)
	persistent.StringVar(&opts.condaExe, "conda-exe", "", messages.FlagCondaExe)
	persistent.StringVar(&opts.dockerExe, "docker-exe", "", messages.FlagDockerExe)

	flags := cmd.Flags()
	flags.StringVar(&opts.backend, "backend", "", messages.FlagBackend)
	flags.BoolVarP(&opts.yes, "yes", "y", false, messages.FlagYes)
	flags.BoolVar(&opts.overwrite, "overwrite", false, messages.FlagOverwrite)
	flags.BoolVar(&opts.recreateEnv, "recreate-env", false, messages.FlagRecreateEnv)
	flags.BoolVar(&opts.noInit, "no-init", false, messages.FlagNoInit)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, messages.FlagVerbose)

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newDoctorCmd(opts))
	return cmd
}

// runInstall installs the selected services into target.
func runInstall(cmd *cobra.Command, opts *rootOptions, target string) error {
	if err := validateBackendName(opts.backend); err != nil {
		return err
	}
	cfg, paths, err := loadSettings(opts)
	if err != nil {
		return err
	}
	projectRoot, err := absPath(target)
	if err != nil {
		return err
	}
	services, err := install.Discover(paths.ServicesDir, opts.services)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return install.ErrNothingToInstall
	}

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	prompter := &cliPrompter{
		out:       out,
		preferred: opts.backend,
		overwrite: opts.overwrite,
	}
	if !opts.yes {
		prompter.ui = newUI(cmd)
	}
	runner := backend.ExecRunner{Stdout: out, Stderr: cmd.ErrOrStderr(), Logger: logger}
	common := backend.Common{
		Runner: runner,
		Copier: &datadirs.Copier{
			Overwrite: prompter.overwriteData,
			Notice:    out,
			Logger:    logger,
		},
		OverwriteService: prompter.overwriteService,
		Notice:           out,
		Logger:           logger,
	}
	backends := detectBackends(out, cfg, common, opts)

	report, err := installRun(cmd.Context(), install.Options{
		ProjectRoot: projectRoot,
		Services:    services,
		Backends:    backends,
		Prompter:    prompter.funcs(),
		Runner:      runner,
		SlivkaExe:   cfg.SlivkaExe,
		SkipInit:    opts.noInit,
		SharedDir:   paths.SharedDir,
		Out:         out,
		Progress:    func(result install.ServiceResult) { printResult(out, result) },
		Logger:      logger,
	})
	printSummary(out, report)
	return err
}

func validateBackendName(name string) error {
	switch name {
	case "", backend.NameConda, backend.NameDocker:
		return nil
	default:
		return fmt.Errorf(messages.CLIBackendUnknownFmt, name)
	}
}

// loadSettings reads the settings file and applies the flag overrides.
func loadSettings(opts *rootOptions) (*config.Config, config.Paths, error) {
	source, configPath, optional, err := resolveSource(opts)
	if err != nil {
		return nil, config.Paths{}, err
	}
	cfg, err := config.Load(configPath, optional)
	if err != nil {
		return nil, config.Paths{}, err
	}
	applyExeFlags(cfg, opts)
	return cfg, cfg.ResolvePaths(source, configPath), nil
}

// resolveSource returns the source root and settings file path. Without
// --source the nearest source root above the working directory is used,
// falling back to the working directory itself. optional is false when
// --config names the file explicitly.
func resolveSource(opts *rootOptions) (source string, configPath string, optional bool, err error) {
	source = opts.source
	if source == "" {
		cwd, err := getwd()
		if err != nil {
			return "", "", false, err
		}
		source = cwd
		if found, ok, err := root.FindSourceRoot(cwd); err != nil {
			return "", "", false, err
		} else if ok {
			source = found
		}
	}
	source, err = absPath(source)
	if err != nil {
		return "", "", false, err
	}
	if opts.configPath == "" {
		return source, config.DefaultConfigPath(source), true, nil
	}
	configPath, err = absPath(opts.configPath)
	if err != nil {
		return "", "", false, err
	}
	return source, configPath, false, nil
}

// absPath expands a leading ~ and makes path absolute.
func absPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.CLIResolvePathFailedFmt, path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf(messages.CLIResolvePathFailedFmt, path, err)
	}
	return abs, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// detectBackends builds every backend whose executable can be found,
// reporting each one that cannot. The preferred backend comes first.
func detectBackends(out io.Writer, cfg *config.Config, common backend.Common, opts *rootOptions) []backend.Backend {
	sys := backend.RealSystem{}
	warnColor := color.New(color.FgYellow)
	var backends []backend.Backend

	if exe, err := detectConda(sys, cfg.Conda.Exe); err != nil {
		_, _ = warnColor.Fprintf(out, messages.CLIBackendInitFailedFmt, backend.NameConda, err)
	} else {
		_, _ = fmt.Fprintf(out, messages.CLIBackendAvailableFmt, displayName(backend.NameConda), exe)
		backends = append(backends, &backend.Conda{
			Common:      common,
			Exe:         exe,
			EnvRoot:     cfg.Conda.EnvDir,
			RecreateEnv: opts.recreateEnv,
		})
	}

	if exe, err := detectDocker(sys, cfg.Docker.Exe); err != nil {
		_, _ = warnColor.Fprintf(out, messages.CLIBackendInitFailedFmt, backend.NameDocker, err)
	} else {
		_, _ = fmt.Fprintf(out, messages.CLIBackendAvailableFmt, displayName(backend.NameDocker), exe)
		backends = append(backends, &backend.Docker{
			Common:            common,
			Exe:               exe,
			MountRoot:         cfg.Docker.MountRoot,
			WrapperScript:     cfg.Docker.WrapperScript,
			PassthroughPrefix: cfg.Docker.PassthroughPrefix,
		})
	}

	if len(backends) == 0 {
		_, _ = warnColor.Fprint(out, messages.CLINoBackends)
	}
	return preferBackend(backends, opts.backend)
}

// preferBackend moves the backend called name to the front.
func preferBackend(backends []backend.Backend, name string) []backend.Backend {
	for i, b := range backends {
		if b.Name() == name && i > 0 {
			ordered := append([]backend.Backend{b}, backends[:i]...)
			return append(ordered, backends[i+1:]...)
		}
	}
	return backends
}

func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
