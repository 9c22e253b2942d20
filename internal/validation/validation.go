// Package validation checks command inputs before a run touches them.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spmadrid/collections-reports/internal/fileutils"
)

// IsValidInput checks that path is an existing regular file with a spreadsheet extension.
func IsValidInput(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return IsValidSpreadsheet(path)
}

// IsValidSpreadsheet checks the extension of path against the readable formats.
func IsValidSpreadsheet(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, ok := range fileutils.SpreadsheetExtensions {
		if ext == ok {
			return nil
		}
	}
	return fmt.Errorf("unsupported input format: %s. Supported formats are %s", path, strings.Join(fileutils.SpreadsheetExtensions, ", "))
}

// EnsureOutputDir creates dir when missing and checks that it is a directory.
func EnsureOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output directory is empty")
	}
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return err
	}
	if !fileutils.DirectoryExists(dir) {
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	return nil
}
