package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}

// Workflow error codes. Every engine error carries one of these so the API
// layer can map it to an HTTP status and the UI can render a precise message
// without the engine knowing anything about presentation.
type ErrorCode string

const (
	ErrCodeValidation             ErrorCode = "validation_error"
	ErrCodePreconditionFailed     ErrorCode = "precondition_failed"
	ErrCodeInvalidTransition      ErrorCode = "invalid_transition"
	ErrCodeNotFound               ErrorCode = "not_found"
	ErrCodeConcurrentModification ErrorCode = "concurrent_modification"
)

// Sentinels for errors.Is matching. All WorkflowErrors with the same code
// match the corresponding sentinel.
var (
	ErrValidation             = &WorkflowError{Code: ErrCodeValidation}
	ErrPreconditionFailed     = &WorkflowError{Code: ErrCodePreconditionFailed}
	ErrInvalidTransition      = &WorkflowError{Code: ErrCodeInvalidTransition}
	ErrNotFound               = &WorkflowError{Code: ErrCodeNotFound}
	ErrConcurrentModification = &WorkflowError{Code: ErrCodeConcurrentModification}
)

// WorkflowError is the structured error every state-machine guard returns.
// All of these are locally recoverable by the caller (fix input and retry,
// or re-read and retry); none represent engine-internal failures.
type WorkflowError struct {
	Code       ErrorCode `json:"code"`
	Entity     string    `json:"entity,omitempty"`
	EntityId   string    `json:"entity_id,omitempty"`
	State      string    `json:"state,omitempty"`
	Transition string    `json:"transition,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

func (e *WorkflowError) Error() string {
	msg := string(e.Code)
	if e.Entity != "" {
		msg += " " + e.Entity
		if e.EntityId != "" {
			msg += " " + e.EntityId
		}
	}
	if e.State != "" {
		msg += fmt.Sprintf(" (state=%s)", e.State)
	}
	if e.Transition != "" {
		msg += fmt.Sprintf(" (transition=%s)", e.Transition)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *WorkflowError) Is(target error) bool {
	t, ok := target.(*WorkflowError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewValidationError(detail string) error {
	return &WorkflowError{Code: ErrCodeValidation, Detail: detail}
}

func NewPreconditionFailed(entity string, entityId string, state string, detail string) error {
	return &WorkflowError{Code: ErrCodePreconditionFailed, Entity: entity, EntityId: entityId, State: state, Detail: detail}
}

func NewInvalidTransition(entity string, entityId string, state string, attempted string) error {
	return &WorkflowError{Code: ErrCodeInvalidTransition, Entity: entity, EntityId: entityId, State: state, Transition: attempted}
}

func NewNotFound(entity string, entityId string) error {
	return &WorkflowError{Code: ErrCodeNotFound, Entity: entity, EntityId: entityId}
}

func NewConcurrentModification(entity string, entityId string) error {
	return &WorkflowError{Code: ErrCodeConcurrentModification, Entity: entity, EntityId: entityId, Detail: "stale write, re-read and retry"}
}
