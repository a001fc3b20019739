package messages

// Backend messages for runtime provisioning and descriptor output.
const (
	BackendNoImage               = "no image specified: expected pull or build"
	BackendServiceKept           = "existing service descriptor kept"
	BackendCommandFailedFmt      = "%s exited with status %d"
	BackendCommandStartFailedFmt = "failed to run %s: %w"
	BackendCommandEmpty          = "command is empty"
	BackendExecutableNotFoundFmt = "executable not found: %s"
	BackendExpandPathFailedFmt   = "failed to expand %s: %w"
	// BackendCondaLabel names the conda family in detection errors.
	BackendCondaLabel = "conda (tried $MAMBA_EXE, $CONDA_EXE, micromamba, mamba, conda)"

	BackendCondaEnvExistsFmt      = "Conda env already exists: %s (reusing it; pass --recreate-env to rebuild)\n"
	BackendCondaEnvRootInvalidFmt = "invalid conda env root: %s"
	BackendFileNotFoundFmt        = "file not found: %s"
	BackendCreateDirFailedFmt     = "failed to create directory %s: %w"
	BackendRemoveFailedFmt        = "failed to remove %s: %w"
	BackendStatFailedFmt          = "failed to stat %s: %w"
	BackendWriteFileFailedFmt     = "failed to write %s: %w"

	BackendRenderServiceFailedFmt = "failed to render %s: %w"
	BackendWriteServiceFailedFmt  = "failed to write service descriptor %s: %w"
	BackendDiffTruncatedFmt       = "... (truncated to %d lines)"
)
