package messages

// Doctor command and check messages.
const (
	DoctorUse             = "doctor"
	DoctorShort           = "Check the source checkout and the host before installing"
	DoctorHealthCheckFmt  = "Checking %s\n\n"
	DoctorResultLineFmt   = "%-5s %-12s %s\n"
	DoctorStatusOKLabel   = "OK"
	DoctorStatusWarnLabel = "WARN"
	DoctorStatusFailLabel = "FAIL"
	DoctorSuccessSummary  = "\nEverything needed for an installation is in place."
	DoctorFailureSummary  = "\nSome checks failed; fix them before installing."
	DoctorFailureError    = "doctor found problems"

	DoctorRecommendationPrefix = "      -> "
	DoctorRecommendationIndent = "         "

	DoctorCheckNameConfig      = "config"
	DoctorCheckNameStructure   = "structure"
	DoctorCheckNameServices    = "services"
	DoctorCheckNameExecutables = "executables"

	DoctorConfigLoadedFmt     = "loaded %s"
	DoctorConfigDefaultsFmt   = "%s not found; using defaults"
	DoctorConfigLoadFailedFmt = "failed to load settings: %v"
	DoctorConfigLoadRecommend = "Fix the settings file or pass another one with --config."

	DoctorDirExistsFmt             = "%s exists"
	DoctorMissingDirFmt            = "%s is missing"
	DoctorPathNotDirFmt            = "%s is not a directory"
	DoctorPathNotDirRecommend      = "Remove the file or point the setting at a directory."
	DoctorMissingServicesRecommend = "Run from the source checkout, pass --source, or set services_dir."

	DoctorNoServices                  = "no service templates found"
	DoctorNoServicesRecommend         = "Add <name>.service.yaml files below the services directory."
	DoctorServiceOKFmt                = "%s (%s)"
	DoctorServiceInvalidFmt           = "%s: %v"
	DoctorServiceInvalidRecommend     = "Fix the service template or its install files."
	DoctorServiceNoInstallerFmt       = "%s has no install file"
	DoctorServiceNoInstallerRecommend = "Add a <name>.conda.yaml or <name>.docker.yaml next to the template."

	DoctorExecutableFoundFmt   = "%s: %s"
	DoctorExecutableMissingFmt = "%s unavailable: %v"
	DoctorCondaRecommend       = "Install conda, mamba or micromamba, or pass --conda-exe."
	DoctorDockerRecommend      = "Install docker, or pass --docker-exe."
	DoctorSlivkaRecommend      = "Install slivka, set slivka_exe, or run the installer with --no-init."
	DoctorNoInstaller          = "neither conda nor docker is available"
	DoctorNoInstallerRecommend = "At least one installer is required to install services."
)
