package messages

// CLI command descriptions.
const (
	RootUse   = "slivka-install [flags] PATH"
	RootShort = "Install slivka services into a project directory"
	RootLong  = `Install the selected slivka services into the project at PATH.

Each service under the source services directory is installed with the conda
or docker backend, depending on which install files it ships. The project is
initialised with "slivka init" and the shared files are copied first.`
	ListUse   = "list"
	ListShort = "List the services available for installation"

	VersionTemplate  = "{{.Version}}\n"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
)

// CLI flag help.
const (
	FlagSource      = "source checkout holding the services and shared directories (default: current directory)"
	FlagConfig      = "settings file (default: <source>/slivka-install.toml)"
	FlagService     = "install only services whose file name starts with this prefix (repeatable)"
	FlagCondaExe    = "conda, mamba or micromamba executable"
	FlagDockerExe   = "docker executable"
	FlagBackend     = "preferred installer when several apply (conda or docker)"
	FlagYes         = "do not prompt: install everything, keep existing files and skip failed services"
	FlagOverwrite   = "replace existing data directories and service descriptors without asking"
	FlagRecreateEnv = "remove and recreate existing conda environments"
	FlagNoInit      = "do not run slivka init"
	FlagVerbose     = "log subprocess commands and installer decisions"
)

// CLI output and prompts.
const (
	CLIBackendUnknownFmt    = "unknown backend %q: expected conda or docker"
	CLIResolvePathFailedFmt = "failed to resolve path %s: %w"
	CLIBackendAvailableFmt  = "%s available: '%s'\n"
	CLIBackendInitFailedFmt = "Failed to init %s installer: %v\n"
	CLINoBackends           = "Warning: no installer is available; services will not be installed\n"

	CLIServicesHeader   = "Services to install:\n"
	CLIServiceLineFmt   = "  %s (%s)\n"
	CLIConfirmTitle     = "Install these services?"
	CLIChooseBackendFmt = "Installer for %s"
	CLIFailureTitleFmt  = "Installing %s failed"
	CLIOverwriteDataFmt = "%s already exists. Replace it?"
	CLIOverwriteSvcFmt  = "%s differs from the new service descriptor. Replace it?"
	CLIDiffTitleFmt     = "Diff for %s:"

	CLIStatusInstalled = "Installed"
	CLIStatusKept      = "Kept"
	CLIStatusSkipping  = "Skipping"
	CLIStatusAborted   = "Aborted"
	CLIInstalledFmt    = "%s %s with %s: %s\n"
	CLIKeptFmt         = "%s existing descriptor for %s (%s): %s\n"
	CLISkippingFmt     = "%s %s\n"
	CLISkippingErrFmt  = "%s %s: %v\n"
	CLIAbortedFmt      = "%s %s: %v\n"
	CLISummaryFmt      = "\n%d installed, %d kept, %d skipped, %d without installer\n"

	ListEmptyFmt    = "No services found in %s\n"
	ListLineFmt     = "%-32s %-20s %s\n"
	ListNoInstaller = "-"
)

// Source root lookup.
const (
	RootStartRequired      = "source root search requires a start path"
	RootSettingsNotFileFmt = "%s exists but is not a regular file"
)
