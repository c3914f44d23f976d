package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appDirName is the directory segment used under every OS-specific log
// root below.
const appDirName = "updatewing"

// resolvers maps a GOOS value to the function that computes its standard
// log directory. Unlisted GOOS values fall back to homeLogDir.
var resolvers = map[string]func() (string, error){
	"windows": windowsLogDir,
	"darwin":  darwinLogDir,
	"linux":   linuxLogDir,
}

// dirDescriptions documents, per GOOS, where GetLogDir's result comes from
// and which convention it follows. Used by GetLogDirInfo.
var dirDescriptions = map[string][2]string{
	"windows": {"Windows Local AppData logs directory", "Windows Application Data Guidelines"},
	"darwin":  {"macOS Library Logs directory", "macOS File System Programming Guide"},
	"linux":   {"Linux XDG state directory or system logs", "XDG Base Directory Specification"},
}

// GetLogDir returns the standard log directory for the running OS.
func GetLogDir() (string, error) {
	if resolve, ok := resolvers[runtime.GOOS]; ok {
		return resolve()
	}
	return homeLogDir()
}

// windowsLogDir resolves %LOCALAPPDATA%\updatewing\logs, falling back to
// %USERPROFILE%\AppData\Local when LOCALAPPDATA isn't set.
func windowsLogDir() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return homeLogDir()
		}
		base = filepath.Join(profile, "AppData", "Local")
	}
	return filepath.Join(base, appDirName, "logs"), nil
}

// darwinLogDir resolves ~/Library/Logs/updatewing.
func darwinLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return homeLogDir()
	}
	return filepath.Join(home, "Library", "Logs", appDirName), nil
}

// linuxLogDir resolves /var/log/updatewing for root, or the XDG state
// directory (XDG_STATE_HOME, defaulting to ~/.local/state) otherwise.
func linuxLogDir() (string, error) {
	if os.Getuid() == 0 {
		return filepath.Join("/var/log", appDirName), nil
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, appDirName, "logs"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return homeLogDir()
	}
	return filepath.Join(home, ".local", "state", appDirName, "logs"), nil
}

// homeLogDir is the fallback used for unrecognized platforms, and when a
// platform-specific resolver can't determine the user's home directory:
// ~/.updatewing/logs, or a temp-dir variant as a last resort.
func homeLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName, "logs"), nil
	}
	return filepath.Join(home, "."+appDirName, "logs"), nil
}

// EnsureLogDir creates dir (and any missing parents) if it doesn't exist.
func EnsureLogDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// GetLogFilePath joins filename onto the standard log directory, creating
// the directory first.
func GetLogFilePath(filename string) (string, error) {
	return GetLogFilePathWithDir("", filename)
}

// GetLogFilePathWithDir joins filename onto dir, or the standard log
// directory when dir is empty. A leading "~/" in dir is expanded against
// the user's home directory. The resolved directory is created before the
// path is returned.
func GetLogFilePathWithDir(dir, filename string) (string, error) {
	if dir == "" {
		standard, err := GetLogDir()
		if err != nil {
			return "", err
		}
		dir = standard
	} else if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", dir, err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := EnsureLogDir(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// LogDirInfo describes where logs are written on the running platform and
// which convention that location follows.
type LogDirInfo struct {
	Path        string `json:"path"`
	OS          string `json:"os"`
	Description string `json:"description"`
	Standard    string `json:"standard"`
}

// GetLogDirInfo returns a LogDirInfo for the running platform's standard
// log directory.
func GetLogDirInfo() (*LogDirInfo, error) {
	dir, err := GetLogDir()
	if err != nil {
		return nil, err
	}

	info := &LogDirInfo{Path: dir, OS: runtime.GOOS}
	if desc, ok := dirDescriptions[runtime.GOOS]; ok {
		info.Description, info.Standard = desc[0], desc[1]
	} else {
		info.Description = "Fallback logs directory"
		info.Standard = "Default behavior"
	}
	return info, nil
}
