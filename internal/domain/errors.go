package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates missing or malformed required input
	ErrValidation = errors.New("invalid request")
	// ErrEmptyContent indicates extraction yielded no usable text
	ErrEmptyContent = errors.New("no readable content")
)

// UnsupportedFormatError reports a file the extraction layer cannot handle.
// Hint carries format-specific guidance when there is a better message than
// the generic one.
type UnsupportedFormatError struct {
	FileName       string
	FileType       string
	Hint           string
	SupportedTypes []string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Hint != "" {
		return e.Hint
	}
	return fmt.Sprintf("file type %q is not supported. Supported formats: %s",
		e.FileType, strings.Join(e.SupportedTypes, ", "))
}
