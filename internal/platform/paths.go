package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// MaxPathLen returns the longest path, in bytes, the current platform accepts
func MaxPathLen() int {
	switch runtime.GOOS {
	case "windows":
		return 32767
	case "darwin", "ios", "freebsd", "openbsd", "netbsd", "dragonfly":
		return 1024
	default:
		return 4096
	}
}

// NormalizePath cleans a directory path given on the command line.
// A leading UNC prefix survives cleaning on Windows.
func NormalizePath(path string) string {
	cleaned := filepath.Clean(path)
	if IsUNCPath(path) && !strings.HasPrefix(cleaned, `\\`) {
		cleaned = `\\` + strings.TrimLeft(cleaned, `\/`)
	}
	return cleaned
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// IsAbsolute reports whether path needs no working directory to resolve
func IsAbsolute(path string) bool {
	return IsUNCPath(path) || filepath.IsAbs(path)
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if strings.IndexByte(path, 0) >= 0 {
		return &PathError{Path: path, Message: "path contains a NUL byte"}
	}

	if len(path) > MaxPathLen() {
		return &PathError{Path: path, Message: "path exceeds the platform length limit"}
	}

	// Check for invalid characters based on OS
	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) && !IsUNCPath(path) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// ValidateName checks that name is a single path component
func ValidateName(name string) error {
	switch {
	case name == "":
		return &PathError{Path: name, Message: "entry name is empty"}
	case strings.IndexByte(name, 0) >= 0:
		return &PathError{Path: name, Message: "entry name contains a NUL byte"}
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, filepath.Separator):
		return &PathError{Path: name, Message: "entry name contains a path separator"}
	}
	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
