package messages

// Messages for placeholder interpolation, environment dumps and service documents.
const (
	// InterpolateKeyNotFound is the sentinel text for keys a provider does not know.
	InterpolateKeyNotFound   = "key not found"
	InterpolateMissingKeyFmt = "missing key %q"

	EnvfileReadFailedFmt = "failed to read env content: %w"

	ManifestReadFailedFmt         = "failed to read %s: %w"
	ManifestParseFailedFmt        = "failed to parse %s: %w"
	ManifestNotMappingFmt         = "%s: document must be a mapping"
	ManifestCommandNotSequenceFmt = "%s: command must be a sequence"
	ManifestEncodeFailedFmt       = "failed to encode %s: %w"
	ManifestPullInvalidFmt        = "pull must be an image name or a mapping with an image key (line %d)"
	ManifestImageRequired         = "image name is required"
	ManifestDockerfileRequired    = "build requires a dockerfile"
	ManifestEnvironmentConflict   = "environment and environment-file are mutually exclusive"
)

// Messages for data directory selection and copying.
const (
	DataDirsInvalidRuleFmt        = "invalid rule: expected exactly one of include or exclude, got keys [%s]"
	DataDirsUnsupportedPatternFmt = "unsupported pattern %q: patterns must not contain path separators or **"
	DataDirsBadPatternFmt         = "invalid pattern %q: %w"
	DataDirsReadRootFmt           = "failed to list data directories in %s: %w"
	// DataDirsSkippingFmt is printed when an existing data directory is kept.
	DataDirsSkippingFmt        = "Skipping: %s\n"
	DataDirsRemoveFailedFmt    = "failed to remove %s: %w"
	DataDirsStatFailedFmt      = "failed to stat %s: %w"
	DataDirsCreateDirFailedFmt = "failed to create directory %s: %w"
	DataDirsCopyFailedFmt      = "failed to copy %s to %s: %w"
)

// Messages for atomic writes and tree copies.
const (
	FsutilCreateTempFmt        = "create temp file for %s: %w"
	FsutilWriteTempFmt         = "write temp file for %s: %w"
	FsutilChmodTempFmt         = "chmod temp file for %s: %w"
	FsutilSyncTempFmt          = "sync temp file for %s: %w"
	FsutilCloseTempFmt         = "close temp file for %s: %w"
	FsutilRenameTempFmt        = "rename temp file to %s: %w"
	FsutilNotDirectoryFmt      = "copy tree %s: not a directory"
	FsutilDestinationExistsFmt = "copy tree %s: destination %s already exists"
)
