// Package domain defines domain-specific errors.
// These errors describe player failures independent of the audio backend or UI toolkit.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and engines return.
var (
	// ErrAutoplayBlocked is returned when the platform refuses to start playback
	// because no user gesture happened yet. It is recoverable.
	ErrAutoplayBlocked = errors.New("playback start blocked by autoplay policy")

	// ErrInvalidTrackHandle is returned when an invalid track handle is used.
	ErrInvalidTrackHandle = errors.New("invalid track handle")

	// ErrPlaylistEmpty is returned when an operation requires a non-empty playlist.
	ErrPlaylistEmpty = errors.New("playlist is empty")

	// ErrInvalidIndex is returned when a playlist index is out of bounds.
	ErrInvalidIndex = errors.New("invalid playlist index")

	// ErrNotInitialized is returned when an operation is attempted on an uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrAlreadyInitialized is returned when attempting to initialize an already initialized component.
	ErrAlreadyInitialized = errors.New("component already initialized")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidFilePath is returned when a file path is empty or malformed.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrPlaybackFailed is returned when playback cannot be started.
	ErrPlaybackFailed = errors.New("playback failed")
)

// AudioEngineError represents an error from the audio engine.
// It wraps low-level decoder or device errors with additional context.
type AudioEngineError struct {
	Op      string // Operation that failed (e.g., "load", "play")
	Path    string // File path (if applicable)
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AudioEngineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio engine %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("audio engine %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioEngineError) Unwrap() error {
	return e.Err
}

// NewAudioEngineError creates a new AudioEngineError.
func NewAudioEngineError(op, path, message string, err error) *AudioEngineError {
	return &AudioEngineError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a configuration or input validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlaylistService")
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
