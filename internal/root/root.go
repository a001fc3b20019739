// Package root locates the source checkout that holds the services to
// install.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/config"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// ServicesDirName is the default services directory of a source checkout.
const ServicesDirName = "services"

// FindSourceRoot walks up from start to the nearest directory holding the
// settings file or a services directory. found is false when no ancestor
// qualifies.
func FindSourceRoot(start string) (root string, found bool, err error) {
	if start == "" {
		return "", false, errors.New(messages.RootStartRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		ok, err := isSourceRoot(dir)
		if err != nil {
			return "", false, err
		}
		if ok {
			return dir, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func isSourceRoot(dir string) (bool, error) {
	settings := filepath.Join(dir, config.FileName)
	info, err := os.Stat(settings)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return false, fmt.Errorf(messages.RootSettingsNotFileFmt, settings)
		}
		return true, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}
	info, err = os.Stat(filepath.Join(dir, ServicesDirName))
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
