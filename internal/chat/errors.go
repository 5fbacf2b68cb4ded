package chat

import (
	"errors"
	"net/http"
	"strings"
)

// ErrSearchFailed marks a failure of the flight provider on the search path.
var ErrSearchFailed = errors.New("flight search failed")

// FieldError names one offending field by its JSON path.
type FieldError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a payload does not conform to its schema.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Path == "" {
			parts = append(parts, f.Reason)
			continue
		}
		parts = append(parts, f.Path+" "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Step names one completion-service call of the orchestrator.
type Step string

const (
	StepSearchParams Step = "search_params"
	StepFilters      Step = "filters"
	StepFormUpdates  Step = "form_updates"
	StepChatReply    Step = "chat_reply"
)

// CompletionError is a failed or unusable completion-service call.
type CompletionError struct {
	Step Step
	Err  error
}

func (e *CompletionError) Error() string {
	return "completion " + string(e.Step) + ": " + e.Err.Error()
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// AppError is the HTTP-facing shape of a failure.
type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
	Fields  []FieldError
}

func (e *AppError) Error() string {
	return e.Message
}

// toAppError maps a service error onto the response the client sees.
// Internal detail never leaves this function.
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return &AppError{
			Status:  http.StatusBadRequest,
			Code:    ErrorCodeValidation,
			Message: "Invalid request",
			Fields:  valErr.Fields,
		}
	}

	if errors.Is(err, ErrSearchFailed) {
		return &AppError{
			Status:  http.StatusInternalServerError,
			Code:    ErrorCodeSearchFailed,
			Message: "Flight search failed",
		}
	}

	var compErr *CompletionError
	if errors.As(err, &compErr) {
		return &AppError{
			Status:  http.StatusInternalServerError,
			Code:    ErrorCodeCompletionFailed,
			Message: "Failed to process chat request",
		}
	}

	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    ErrorCodeInternalFailure,
		Message: "Failed to process chat request",
	}
}
