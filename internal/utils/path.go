package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// ErrDictNotFound is returned when no candidate location holds the requested dictionary.
var ErrDictNotFound = errors.New("dictionary file not found")

// PathResolver resolves dictionary locations relative to the binary
type PathResolver struct {
	executablePath string
	executableDir  string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		configDir:      getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "wordladder")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordladder")
		}
		return filepath.Join(homeDir, ".config", "wordladder")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordladder")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordladder")
	default:
		return filepath.Join(homeDir, ".wordladder")
	}
}

// dictCandidates lists where a dictionary file may live, in order of preference:
// 1. the path itself when absolute
// 2. relative to the current working directory
// 3. relative to the executable directory
// 4. inside the config dir
func (pr *PathResolver) dictCandidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userPath))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, userPath),
		filepath.Join(pr.executableDir, "data", filepath.Base(userPath)),
		filepath.Join(pr.configDir, filepath.Base(userPath)),
	)
	return candidates
}

// GetDictPath resolves the word list file named by the user.
func (pr *PathResolver) GetDictPath(userPath string) (string, error) {
	for _, path := range pr.dictCandidates(userPath) {
		if FileExists(path) {
			log.Debugf("Found dictionary: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	return "", ErrDictNotFound
}
