package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// Standard default permissions
// Dir:  u=rwx, g=rwx, o=rx (Requires +x to traverse)
const PermDir os.FileMode = 0775

// --- Filesystem Checks (OS-based) ---

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists checks if a path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// PathExists reports whether anything (file, directory, link target) exists at path.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsExecutable checks if path is a regular file with any execute bit set.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode()&0111 != 0
}

// EnsureDir checks if a directory exists, and creates it if it doesn't.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}
	return os.MkdirAll(path, PermDir)
}

// BaseNameNoExt returns the file name of path without directory or its last extension.
// "/data/h2o.in" -> "h2o", "job" -> "job".
func BaseNameNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WithTrailingSlash returns path with exactly one trailing slash.
// rsync copies directory contents only when the source ends with "/".
func WithTrailingSlash(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed + "/"
}
