package messages

// Install messages for the orchestration of a run.
const (
	InstallNothingToInstall = "nothing to install"
	InstallAborted          = "aborted"
	InstallSkipService      = "service skipped"
	InstallRootRequired     = "installation path is required"
	InstallPrompterRequired = "a prompter is required"
	// InstallPromptRequiredFmt reports a PromptFuncs field left unset.
	InstallPromptRequiredFmt = "%s prompt handler is required"
	InstallUnknownBackendFmt = "unknown backend %q"
	InstallDiscoverFailedFmt = "failed to discover services in %s: %w"
	InstallServiceLabelFmt   = "%s:%s"

	InstallInstallingFmt       = "Installing: %s\n"
	InstallNoBackendFmt        = "No applicable installer for %s\n"
	InstallInitFailedFmt       = "Warning: platform init failed: %v\n"
	InstallSharedFileExistsFmt = "File exists: %s\n"

	InstallCreateDirFailedFmt  = "failed to create directory %s: %w"
	InstallStatFailedFmt       = "failed to stat %s: %w"
	InstallCopySharedFailedFmt = "failed to copy %s to %s: %w"
)

// Project lock messages.
const (
	InstallOpenLockFmt    = "failed to open lock file %s: %w"
	InstallLockFmt        = "failed to lock %s: %w"
	InstallLockTimeoutFmt = "another installation holds the project lock (waited %s)"
)
