package models

import (
	"errors"
)

// Run-level errors, checked before any traversal
var (
	// ErrInvalidArguments indicates the left and right paths are the same
	ErrInvalidArguments = errors.New("paths must be different")

	// ErrUnsupportedMode indicates a comparison mode that is not implemented
	ErrUnsupportedMode = errors.New("comparison mode not supported")
)

// Traversal errors, contained at the directory-pair level
var (
	// ErrPathNotFound indicates a path vanished or never existed
	ErrPathNotFound = errors.New("does not exist")

	// ErrNotADirectory indicates a path expected to be a directory is not one
	ErrNotADirectory = errors.New("is not a directory")

	// ErrNotRegular indicates a pipe, socket, device or dangling link where
	// content had to be read
	ErrNotRegular = errors.New("is not a regular file")
)

// TraversalError records a failure for one path during traversal
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return e.Path + " " + e.Err.Error()
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// NewTraversalError wraps err with the offending path
func NewTraversalError(path string, err error) *TraversalError {
	var te *TraversalError
	if errors.As(err, &te) {
		return &TraversalError{Path: path, Err: te.Err}
	}
	return &TraversalError{Path: path, Err: err}
}
