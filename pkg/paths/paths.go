package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/homer/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvConfigDir overrides the XDG config directory for homer
	EnvConfigDir = "HOMER_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for homer
	EnvStateDir = "HOMER_STATE_DIR"
)

const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "homer"

	// DefaultInputDir is linked when no input directory is given
	DefaultInputDir = "home"

	// ConfigFileName is the user configuration file inside ConfigDir
	ConfigFileName = "config.toml"

	// LocalConfigFileName is read from the working directory
	LocalConfigFileName = ".homer.toml"
)

// Roots are the absolute input and output directories of a run
type Roots struct {
	Input  string
	Output string
}

// ResolveRoots expands and absolutizes the roots. An empty input means
// DefaultInputDir in the working directory; an empty output means the home
// directory. Neither root has to exist yet.
func ResolveRoots(input, output string) (Roots, error) {
	if input == "" {
		input = DefaultInputDir
	}
	in, err := Normalize(input)
	if err != nil {
		return Roots{}, err
	}

	if output == "" {
		output, err = HomeDirectory()
		if err != nil {
			return Roots{}, err
		}
	}
	out, err := Normalize(output)
	if err != nil {
		return Roots{}, err
	}

	return Roots{Input: in, Output: out}, nil
}

// HomeDirectory returns the user's home directory. It tries
// os.UserHomeDir, then $HOME, then the xdg package's view of it.
func HomeDirectory() (string, error) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, nil
	}
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	if xdg.Home != "" {
		return xdg.Home, nil
	}
	return "", errors.New(errors.ErrNoHome, "Could not find home directory")
}

// ExpandHome expands a leading ~ to the home directory. "~user" forms are
// returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}

	home, err := HomeDirectory()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNoHome, "cannot expand %s", path)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Normalize expands ~, makes the path absolute and cleans it
func Normalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot make %s absolute", path)
	}
	return filepath.Clean(abs), nil
}

// ContractHome replaces a leading home directory with ~ for display
func ContractHome(path string) string {
	home, err := HomeDirectory()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rel, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rel)
	}
	return path
}

// ConfigDir returns homer's configuration directory. HOMER_CONFIG_DIR wins,
// then XDG_CONFIG_HOME (read at call time), then the xdg default.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		if expanded, err := ExpandHome(dir); err == nil {
			return expanded
		}
		return dir
	}
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, AppDirName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFile returns the user configuration file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns homer's state directory, where the log file lives
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		if expanded, err := ExpandHome(dir); err == nil {
			return expanded
		}
		return dir
	}
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}
