// Package errors provides standardized error handling for jsonview.
// It defines the error kinds the browser, the downloader and the static host
// report, plus helpers for consistent creation, wrapping and inspection.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	InvalidPath
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Load error kinds
	ListLoadFailed
	FileLoadFailed
	// Transport error kinds
	UnexpectedStatus
	DownloadFailed
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file_not_found"
	case InvalidPath:
		return "invalid_path"
	case FileOperationFailed:
		return "file_operation_failed"
	case InvalidConfig:
		return "invalid_config"
	case ConfigNotFound:
		return "config_not_found"
	case ListLoadFailed:
		return "list_load_failed"
	case FileLoadFailed:
		return "file_load_failed"
	case UnexpectedStatus:
		return "unexpected_status"
	case DownloadFailed:
		return "download_failed"
	default:
		return "unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to local file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// LoadError is reported when the manifest or a single file cannot be
// fetched or decoded. Network, status and parse failures all collapse into
// it; the cause is kept for the message only.
type LoadError struct {
	ApplicationError
	name string
}

// NewListLoadError creates the error for a failed manifest load.
func NewListLoadError(manifest string, err error) *LoadError {
	return &LoadError{
		ApplicationError: ApplicationError{
			msg:  "error loading file list",
			err:  err,
			kind: ListLoadFailed,
		},
		name: manifest,
	}
}

// NewFileLoadError creates the error for a failed file load.
func NewFileLoadError(name string, err error) *LoadError {
	return &LoadError{
		ApplicationError: ApplicationError{
			msg:  "error loading " + name,
			err:  err,
			kind: FileLoadFailed,
		},
		name: name,
	}
}

// Name returns the manifest or file name that failed to load.
func (e *LoadError) Name() string {
	return e.name
}

// Reason returns the description of the underlying failure.
func (e *LoadError) Reason() string {
	if e.err == nil {
		return e.msg
	}
	return e.err.Error()
}

// StatusError is returned when a source answers with a non-success status.
type StatusError struct {
	ApplicationError
	Code int
	URL  string
}

// NewStatusError creates a status error; status is the full status text,
// e.g. "404 Not Found".
func NewStatusError(code int, status, url string) *StatusError {
	return &StatusError{
		ApplicationError: ApplicationError{
			msg:  "unexpected status " + status,
			kind: UnexpectedStatus,
		},
		Code: code,
		URL:  url,
	}
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsListLoad checks if the error is a manifest load error
func IsListLoad(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Kind() == ListLoadFailed
}

// IsFileLoad checks if the error is a file load error
func IsFileLoad(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Kind() == FileLoadFailed
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsInvalidPath checks if the error is an invalid path error
func IsInvalidPath(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == InvalidPath
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
