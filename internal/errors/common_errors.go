package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataSource          ErrorType = "DATA_SOURCE"
	ErrTypeSchema              ErrorType = "SCHEMA"
	ErrTypeEmptyDataset        ErrorType = "EMPTY_DATASET"
	ErrTypeInsufficientHistory ErrorType = "INSUFFICIENT_HISTORY"
	ErrTypeParsing             ErrorType = "PARSING"
	ErrTypeStorage             ErrorType = "STORAGE"
	ErrTypeValidation          ErrorType = "VALIDATION"
	ErrTypeNotFound            ErrorType = "NOT_FOUND"
	ErrTypeConfig              ErrorType = "CONFIG"
)

// Sentinels for errors.Is. An *AppError matches a sentinel of the same type.
var (
	ErrDataSource          = &AppError{Type: ErrTypeDataSource, Message: "data source unavailable"}
	ErrSchema              = &AppError{Type: ErrTypeSchema, Message: "required column missing"}
	ErrEmptyDataset        = &AppError{Type: ErrTypeEmptyDataset, Message: "no eligible records"}
	ErrInsufficientHistory = &AppError{Type: ErrTypeInsufficientHistory, Message: "insufficient history"}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewDataSourceError reports a source that cannot be located or opened.
func NewDataSourceError(path string, cause error) *AppError {
	return NewAppError(ErrTypeDataSource, fmt.Sprintf("cannot open data source %q", path), cause).
		WithContext("path", path)
}

// NewSchemaError reports required columns absent from the source header.
func NewSchemaError(missing []string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("required columns missing: %v", missing), nil).
		WithContext("missing_columns", missing)
}

// NewEmptyDatasetError reports an aggregate that has no eligible records.
func NewEmptyDatasetError(statistic string) *AppError {
	return NewAppError(ErrTypeEmptyDataset, fmt.Sprintf("no eligible records for %s", statistic), nil).
		WithContext("statistic", statistic)
}

// NewInsufficientHistoryError reports a forecast requested over too short a series.
func NewInsufficientHistoryError(years, required int) *AppError {
	return NewAppError(ErrTypeInsufficientHistory,
		fmt.Sprintf("forecast needs a defined %d-period growth average, series has %d years", required, years), nil).
		WithContext("years", years).
		WithContext("required", required)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsRecoverable reports whether err only invalidates the stage that raised it.
// Empty datasets and short forecast histories are stage-local; everything
// else aborts the run.
func IsRecoverable(err error) bool {
	return stderrors.Is(err, ErrEmptyDataset) || stderrors.Is(err, ErrInsufficientHistory)
}

// TypeOf returns the ErrorType carried by err, or "" when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
