package errors

import (
	"fmt"
	"time"
)

// Error types for the wrensense indexing system
type ErrorType string

const (
	// Analysis errors
	ErrorTypeAnalyze ErrorType = "analyze"
	ErrorTypeParse   ErrorType = "parse"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	// Import resolution errors
	ErrorTypeImport ErrorType = "import"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// AnalyzeError represents an error while producing a file index. These are
// always recoverable from the caller's point of view: a failed analysis
// yields "no index", never an aborted query.
type AnalyzeError struct {
	Type        ErrorType
	FilePath    string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewAnalyzeError creates a new analysis error with context
func NewAnalyzeError(op string, err error) *AnalyzeError {
	return &AnalyzeError{
		Type:        ErrorTypeAnalyze,
		Operation:   op,
		Underlying:  err,
		Timestamp:   time.Now(),
		Recoverable: true,
	}
}

// WithFile adds file information to the error
func (e *AnalyzeError) WithFile(path string) *AnalyzeError {
	e.FilePath = path
	return e
}

// WithRecoverable marks the error as recoverable
func (e *AnalyzeError) WithRecoverable(recoverable bool) *AnalyzeError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *AnalyzeError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *AnalyzeError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable checks if the operation can be retried
func (e *AnalyzeError) IsRecoverable() bool {
	return e.Recoverable
}

// FileError represents a file-related error from the external file loader
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ImportError represents a failed import resolution. It carries the raw
// module string as written in the source so callers can attach a diagnostic
// to the import's path token.
type ImportError struct {
	Type       ErrorType
	Module     string
	FromFile   string
	Underlying error
	Timestamp  time.Time
}

// NewImportError creates a new import resolution error
func NewImportError(module, fromFile string, err error) *ImportError {
	return &ImportError{
		Type:       ErrorTypeImport,
		Module:     module,
		FromFile:   fromFile,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ImportError) Error() string {
	return fmt.Sprintf("import %q from %s failed: %v", e.Module, e.FromFile, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ImportError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}
