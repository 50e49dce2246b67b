package model

import (
	"errors"
	"fmt"
)

// Stage identifies which pipeline stage produced a failure.
type Stage string

const (
	StageLoad     Stage = "load"
	StageExtract  Stage = "extract"
	StageRetrieve Stage = "retrieve"
	StageVerify   Stage = "verify"
)

// ServiceError carries the upstream failure context for a pipeline stage:
// which stage failed, the upstream status code when one exists, and the
// wrapped cause. All four taxonomy errors share this shape and differ only
// by stage, so errors.Is can match on the stage sentinels below.
type ServiceError struct {
	Stage      Stage
	StatusCode int    // Upstream HTTP status, 0 when not applicable
	Message    string // Human-readable context
	Err        error  // Wrapped cause
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Stage, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Stage, msg)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's stage.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrUnreadableDocument:
		return e.Stage == StageLoad
	case ErrExtractionService:
		return e.Stage == StageExtract
	case ErrRetrievalService:
		return e.Stage == StageRetrieve
	case ErrVerificationService:
		return e.Stage == StageVerify
	}
	return false
}

// Taxonomy sentinels. Match with errors.Is; retrieve the full context with
// errors.As against *ServiceError.
var (
	ErrUnreadableDocument  = errors.New("unreadable document")
	ErrExtractionService   = errors.New("extraction service error")
	ErrRetrievalService    = errors.New("retrieval service error")
	ErrVerificationService = errors.New("verification service error")
)

// NewUnreadableDocument wraps a document-load failure.
func NewUnreadableDocument(msg string, err error) error {
	return &ServiceError{Stage: StageLoad, Message: msg, Err: err}
}

// NewExtractionError wraps a claim-extraction failure.
func NewExtractionError(msg string, status int, err error) error {
	return &ServiceError{Stage: StageExtract, Message: msg, StatusCode: status, Err: err}
}

// NewRetrievalError wraps an evidence-retrieval failure.
func NewRetrievalError(msg string, status int, err error) error {
	return &ServiceError{Stage: StageRetrieve, Message: msg, StatusCode: status, Err: err}
}

// NewVerificationError wraps a claim-verification failure.
func NewVerificationError(msg string, status int, err error) error {
	return &ServiceError{Stage: StageVerify, Message: msg, StatusCode: status, Err: err}
}
