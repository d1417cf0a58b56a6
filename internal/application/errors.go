package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not allowed to run the export")
	ErrDirectory    = errors.New("cannot create directory")
	ErrWrite        = errors.New("cannot write file")
	ErrCycle        = errors.New("page hierarchy cycle")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthorizationError is returned when the run credential is missing or invalid.
// No filesystem mutation happens after it.
type AuthorizationError struct {
	Reason string
	Cause  error
}

func (e *AuthorizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("not allowed to run the export: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("not allowed to run the export: %s", e.Reason)
}

func (e *AuthorizationError) Unwrap() error {
	return e.Cause
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// DirectoryCreationError represents a failure to create an export directory
type DirectoryCreationError struct {
	Path  string
	Cause error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("cannot create directory %s: %v", e.Path, e.Cause)
}

func (e *DirectoryCreationError) Unwrap() error {
	return e.Cause
}

func (e *DirectoryCreationError) Is(target error) bool {
	return target == ErrDirectory
}

// SourceLookupError represents a record the content source could not supply
type SourceLookupError struct {
	Kind  string // attachment, page, url
	Key   string
	Cause error
}

func (e *SourceLookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s not found: %v", e.Kind, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func (e *SourceLookupError) Unwrap() error {
	return e.Cause
}

func (e *SourceLookupError) Is(target error) bool {
	return target == ErrNotFound
}

// SerializationWriteError represents a failure to write a record or copy a file
type SerializationWriteError struct {
	Path  string
	Cause error
}

func (e *SerializationWriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Cause)
}

func (e *SerializationWriteError) Unwrap() error {
	return e.Cause
}

func (e *SerializationWriteError) Is(target error) bool {
	return target == ErrWrite
}
