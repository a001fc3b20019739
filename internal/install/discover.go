package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conn-castle/slivka-install/internal/manifest"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// Service is a discovered service template.
type Service struct {
	// Path is the absolute path of the <base>.service.yaml template.
	Path    string
	Base    string
	Name    string
	Version string
}

// Label formats the service as name:version.
func (s Service) Label() string {
	return fmt.Sprintf(messages.InstallServiceLabelFmt, s.Name, s.Version)
}

// Discover finds every *.service.yaml below servicesDir whose file name
// starts with one of filters; no filters selects all. Results are sorted
// by path.
func Discover(servicesDir string, filters []string) ([]Service, error) {
	var services []Service
	err := filepath.WalkDir(servicesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == servicesDir && errors.Is(err, os.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), manifest.ServiceSuffix) {
			return nil
		}
		if !matchesFilter(d.Name(), filters) {
			return nil
		}
		summary, err := manifest.LoadSummary(path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		services = append(services, Service{
			Path:    abs,
			Base:    manifest.BaseName(path, manifest.ServiceSuffix),
			Name:    summary.Name,
			Version: summary.Version,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(messages.InstallDiscoverFailedFmt, servicesDir, err)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Path < services[j].Path })
	return services, nil
}

func matchesFilter(name string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, filter := range filters {
		if strings.HasPrefix(name, filter) {
			return true
		}
	}
	return false
}
