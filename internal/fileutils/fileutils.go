// Package fileutils holds the file lookups and writes shared by input, reference and output handling.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SpreadsheetExtensions are tried in order when a spreadsheet is looked up by base name.
var SpreadsheetExtensions = []string{".xlsx", ".xls", ".csv"}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadFile reads the entire contents of a file.
func ReadFile(filePath string) ([]byte, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s: %w", filePath, os.ErrNotExist)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// WriteFile writes data to a file, creating any parent directories.
func WriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FindWithExtension returns the first existing dir/base+ext among exts.
func FindWithExtension(dir, base string, exts []string) (string, bool) {
	for _, ext := range exts {
		path := filepath.Join(dir, base+ext)
		if FileExists(path) {
			return path, true
		}
	}
	return "", false
}

// BaseName is the file name of path without directory or extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SafeName replaces path separators so a generated report name stays a single file.
func SafeName(name string) string {
	return strings.NewReplacer("/", "-", `\`, "-", ":", "-").Replace(name)
}
