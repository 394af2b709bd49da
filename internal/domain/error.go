package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Common domain errors
	ErrSessionMissing     = errors.New("session id missing")
	ErrEmptyMessage       = errors.New("no message received")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotConfigured      = errors.New("service is not configured")
	ErrTranslationTimeout = errors.New("translation service timed out")
	ErrMalformedResponse  = errors.New("unexpected response from translation service")
	ErrTranslationFailed  = errors.New("translation service reported an error")
)

// UnsupportedLanguageError is returned when a language code is not part of
// the configured set. It carries the supported codes so callers can render
// a useful message.
type UnsupportedLanguageError struct {
	Code      string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (supported: %s)", e.Code, strings.Join(e.Supported, ", "))
}

// ServiceUnavailableError wraps a transport-level failure reaching an
// external service.
type ServiceUnavailableError struct {
	Service string
	Cause   error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s service unavailable", e.Service)
	}
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Cause)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Cause }

// ChatError wraps a failure of the underlying LLM call, including
// misconfiguration.
type ChatError struct {
	Cause error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("chat failed: %v", e.Cause)
}

func (e *ChatError) Unwrap() error { return e.Cause }

// Stage identifies where in the converse pipeline a failure happened.
type Stage string

const (
	StageTranslateIn  Stage = "translating-input"
	StageChat         Stage = "chatting"
	StageTranslateOut Stage = "translating-output"
)

// StageError tags a lower-level failure with the pipeline stage it occurred
// in. The HTTP boundary uses the stage to build its user-facing summary.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
