package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeMalformedRow  = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeRequired      = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeInconsistent  = "ERR_IMPORT_INCONSISTENT"
	ErrCodeDuplicate     = "ERR_IMPORT_DUPLICATE_IN_FILE"
)

var (
	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = errors.New("CSV file is empty")
	// ErrInvalidEncoding is returned when the file is not UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, UTF-8 expected")
	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// RowError locates a failure in the file
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError
func NewRowError(row int, column, code, message string) *RowError {
	return &RowError{Row: row, Column: column, Code: code, Message: message}
}

// NewRowErrorWithValue creates a RowError carrying the offending value
func NewRowErrorWithValue(row int, column, code, message, value string) *RowError {
	return &RowError{Row: row, Column: column, Code: code, Message: message, Value: value}
}
