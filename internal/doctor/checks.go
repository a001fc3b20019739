package doctor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/slivka-install/internal/backend"
	"github.com/conn-castle/slivka-install/internal/config"
	"github.com/conn-castle/slivka-install/internal/install"
	"github.com/conn-castle/slivka-install/internal/manifest"
	"github.com/conn-castle/slivka-install/internal/messages"
)

var (
	detectConda       = backend.DetectConda
	detectDocker      = backend.DetectDocker
	resolveExecutable = backend.ResolveExecutable
)

// CheckConfig loads the settings file. The returned config is nil when
// loading failed.
func CheckConfig(configPath string, optional bool) ([]Result, *config.Config) {
	cfg, err := config.Load(configPath, optional)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}, nil
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameConfig,
			Message:   fmt.Sprintf(messages.DoctorConfigDefaultsFmt, configPath),
		}}, cfg
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameConfig,
		Message:   fmt.Sprintf(messages.DoctorConfigLoadedFmt, configPath),
	}}, cfg
}

// CheckStructure verifies the services directory exists and reports a
// missing shared directory.
func CheckStructure(paths config.Paths) []Result {
	var results []Result
	dirs := []struct {
		path     string
		required bool
	}{
		{paths.ServicesDir, true},
		{paths.SharedDir, false},
	}
	for _, d := range dirs {
		rel := relPath(paths.Root, d.path)
		info, err := os.Stat(d.path)
		switch {
		case err == nil && info.IsDir():
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameStructure,
				Message:   fmt.Sprintf(messages.DoctorDirExistsFmt, rel),
			})
		case err == nil:
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameStructure,
				Message:        fmt.Sprintf(messages.DoctorPathNotDirFmt, rel),
				Recommendation: messages.DoctorPathNotDirRecommend,
			})
		case d.required:
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameStructure,
				Message:        fmt.Sprintf(messages.DoctorMissingDirFmt, rel),
				Recommendation: messages.DoctorMissingServicesRecommend,
			})
		default:
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.DoctorCheckNameStructure,
				Message:   fmt.Sprintf(messages.DoctorMissingDirFmt, rel),
			})
		}
	}
	return results
}

// CheckServices parses every service template and its install files.
func CheckServices(paths config.Paths) []Result {
	services, err := install.Discover(paths.ServicesDir, nil)
	if err != nil {
		return []Result{{
			Status:    StatusFail,
			CheckName: messages.DoctorCheckNameServices,
			Message:   err.Error(),
		}}
	}
	if len(services) == 0 {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameServices,
			Message:        messages.DoctorNoServices,
			Recommendation: messages.DoctorNoServicesRecommend,
		}}
	}
	results := make([]Result, 0, len(services))
	for _, svc := range services {
		results = append(results, checkService(paths.Root, svc))
	}
	return results
}

func checkService(root string, svc install.Service) Result {
	rel := relPath(root, svc.Path)
	fail := func(err error) Result {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameServices,
			Message:        fmt.Sprintf(messages.DoctorServiceInvalidFmt, rel, err),
			Recommendation: messages.DoctorServiceInvalidRecommend,
		}
	}
	tmpl, err := manifest.LoadService(svc.Path)
	if err != nil {
		return fail(err)
	}
	if _, err := tmpl.Command(); err != nil {
		return fail(err)
	}

	var installers []string
	condaFile := manifest.Sibling(svc.Path, svc.Base, manifest.CondaSuffix)
	if exists(condaFile) {
		f, err := manifest.LoadConda(condaFile)
		if err != nil {
			return fail(err)
		}
		if path := f.EnvironmentFilePath(); !f.HasInlineEnvironment() && !exists(path) {
			return fail(fmt.Errorf(messages.BackendFileNotFoundFmt, path))
		}
		installers = append(installers, backend.NameConda)
	}
	dockerFile := manifest.Sibling(svc.Path, svc.Base, manifest.DockerSuffix)
	if exists(dockerFile) {
		f, err := manifest.LoadDocker(dockerFile)
		if err != nil {
			return fail(err)
		}
		if f.Pull == nil && f.Build == nil {
			return fail(backend.ErrNoImage)
		}
		if path := f.DockerfilePath(); path != "" && !exists(path) {
			return fail(fmt.Errorf(messages.BackendFileNotFoundFmt, path))
		}
		installers = append(installers, backend.NameDocker)
	}
	if len(installers) == 0 {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameServices,
			Message:        fmt.Sprintf(messages.DoctorServiceNoInstallerFmt, svc.Label()),
			Recommendation: messages.DoctorServiceNoInstallerRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameServices,
		Message:   fmt.Sprintf(messages.DoctorServiceOKFmt, svc.Label(), strings.Join(installers, ", ")),
	}
}

// CheckExecutables reports which installers can run on this host and
// whether the platform command is reachable.
func CheckExecutables(sys backend.System, cfg *config.Config) []Result {
	var results []Result
	if exe, err := detectConda(sys, cfg.Conda.Exe); err != nil {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameExecutables,
			Message:        fmt.Sprintf(messages.DoctorExecutableMissingFmt, backend.NameConda, err),
			Recommendation: messages.DoctorCondaRecommend,
		})
	} else {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameExecutables,
			Message:   fmt.Sprintf(messages.DoctorExecutableFoundFmt, backend.NameConda, exe),
		})
	}
	if exe, err := detectDocker(sys, cfg.Docker.Exe); err != nil {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameExecutables,
			Message:        fmt.Sprintf(messages.DoctorExecutableMissingFmt, backend.NameDocker, err),
			Recommendation: messages.DoctorDockerRecommend,
		})
	} else {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameExecutables,
			Message:   fmt.Sprintf(messages.DoctorExecutableFoundFmt, backend.NameDocker, exe),
		})
	}
	if exe, err := resolveExecutable(sys, cfg.SlivkaExe); err != nil {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameExecutables,
			Message:        fmt.Sprintf(messages.DoctorExecutableMissingFmt, cfg.SlivkaExe, err),
			Recommendation: messages.DoctorSlivkaRecommend,
		})
	} else {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameExecutables,
			Message:   fmt.Sprintf(messages.DoctorExecutableFoundFmt, cfg.SlivkaExe, exe),
		})
	}
	if results[0].Status != StatusOK && results[1].Status != StatusOK {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameExecutables,
			Message:        messages.DoctorNoInstaller,
			Recommendation: messages.DoctorNoInstallerRecommend,
		})
	}
	return results
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func relPath(root string, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
