// Package reporterror defines the run-aborting errors of a report run.
// Row-level problems are never errors; they become models.Warning values.
package reporterror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks.
var (
	ErrMissingColumns   = errors.New("missing required columns")
	ErrUnreadableFormat = errors.New("unreadable input format")
	ErrEncrypted        = errors.New("input is encrypted")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrMissingReference = errors.New("missing reference data")
	ErrValidation       = errors.New("validation failed")
)

// MissingColumnsError lists every required column absent from the input header.
type MissingColumnsError struct {
	Sheet   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("sheet '%s' is missing required columns: %s", e.Sheet, strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrMissingColumns }

// UnreadableFormatError is returned when the bytes are not a readable spreadsheet.
type UnreadableFormatError struct {
	Source string
	Format string
	Err    error
}

func (e *UnreadableFormatError) Error() string {
	msg := fmt.Sprintf("cannot read '%s'", e.Source)
	if e.Format != "" {
		msg += fmt.Sprintf(" as %s", e.Format)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *UnreadableFormatError) Unwrap() error { return e.Err }

func (e *UnreadableFormatError) Is(target error) bool { return target == ErrUnreadableFormat }

// EncryptedError is returned for password-protected workbooks; decryption happens before ingest.
type EncryptedError struct {
	Source string
}

func (e *EncryptedError) Error() string {
	return fmt.Sprintf("'%s' is password protected, decrypt it before processing", e.Source)
}

func (e *EncryptedError) Is(target error) bool { return target == ErrEncrypted }

// SheetNotFoundError names the requested sheet and the sheets that exist.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet '%s' not found (available: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

func (e *SheetNotFoundError) Is(target error) bool { return target == ErrSheetNotFound }

// MissingReferenceError is returned when a mandatory reference table cannot be loaded.
type MissingReferenceError struct {
	Name string
	Path string
	Err  error
}

func (e *MissingReferenceError) Error() string {
	msg := fmt.Sprintf("reference '%s' unavailable", e.Name)
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *MissingReferenceError) Unwrap() error { return e.Err }

func (e *MissingReferenceError) Is(target error) bool { return target == ErrMissingReference }

// ValidationError reports a bad command input or configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
