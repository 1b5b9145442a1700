package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	ErrorKindSchema   ErrorKind = "schema"
	ErrorKindArtifact ErrorKind = "artifact"
	ErrorKindOutput   ErrorKind = "output"
	ErrorKindConfig   ErrorKind = "config"
)

// PipelineError is a fatal run error with its kind and cause.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

func SchemaError(message string, err error) *PipelineError {
	return NewError(ErrorKindSchema, message, err)
}

func ArtifactError(message string, err error) *PipelineError {
	return NewError(ErrorKindArtifact, message, err)
}

func OutputError(message string, err error) *PipelineError {
	return NewError(ErrorKindOutput, message, err)
}

func ConfigError(message string, err error) *PipelineError {
	return NewError(ErrorKindConfig, message, err)
}

// IsKind reports whether err (or anything it wraps) is a PipelineError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
