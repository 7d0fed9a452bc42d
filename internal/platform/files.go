package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename constants
const (
	MaxFilenameLength = 120
	DefaultBaseName   = "video"
)

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user home directory and returns
// an absolute path
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is empty")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// SafeFileName builds a cross-platform safe filename from a title and an
// extension (without the dot). Unsafe characters are replaced with
// underscores and overly long names are truncated.
func SafeFileName(title, ext string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = DefaultBaseName
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}

	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return filepath.Clean(name)
	}
	return filepath.Clean(name + "." + ext)
}

// CommandExists reports whether an executable is available in PATH
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FileSize returns the size of a regular file in bytes
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("path is a directory: %s", path)
	}
	return info.Size(), nil
}
