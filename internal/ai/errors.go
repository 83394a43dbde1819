package ai

import (
	"errors"
	"fmt"
)

// Kind is the failure taxonomy shown to users.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindContentBlocked
	KindMalformedOutput
	KindEmptyResponse
	KindAuthFailure
	KindRateLimited
	KindUpstreamUnavailable
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindContentBlocked:
		return "content_blocked"
	case KindMalformedOutput:
		return "malformed_output"
	case KindEmptyResponse:
		return "empty_response"
	case KindAuthFailure:
		return "auth_failure"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// BlockReason distinguishes why the provider refused to answer.
type BlockReason string

const (
	BlockSafety     BlockReason = "safety"
	BlockRecitation BlockReason = "recitation"
	BlockOther      BlockReason = "other"
)

// ErrMissingCredential is returned when no API key could be resolved.
var ErrMissingCredential = errors.New("gemini api key is required")

// Error is a classified failure. Error() returns the user-facing message; the
// wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Reason  BlockReason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.UserMessage(e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Detail returns the message with the underlying cause, for logging.
func (e *Error) Detail() string {
	if e.Err == nil {
		return e.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// UserMessage returns the human readable text for the kind.
func (k Kind) UserMessage(reason BlockReason) string {
	switch k {
	case KindContentBlocked:
		if reason == BlockRecitation {
			return "The response was flagged as recitation. Please ensure the content is original."
		}
		return "The content was flagged by safety filters. Please ensure the document does not contain sensitive personal data."
	case KindMalformedOutput:
		return "Failed to process the results. The model output was malformed."
	case KindEmptyResponse:
		return "The AI model could not generate a response. Please try again."
	case KindAuthFailure:
		return "Authentication failed. Please check your API key."
	case KindRateLimited:
		return "Service usage limit exceeded. Please wait a moment before trying again."
	case KindUpstreamUnavailable:
		return "The AI service is temporarily unavailable. Please try again later."
	case KindNetworkFailure:
		return "Network connection failed. Please check your internet connection."
	case KindValidation:
		return "The input is invalid."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Validation builds a local pre-flight error carrying its own message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Blocked(reason BlockReason) *Error {
	return &Error{Kind: KindContentBlocked, Reason: reason}
}

func Malformed(err error) *Error {
	return &Error{Kind: KindMalformedOutput, Err: err}
}

func Empty() *Error {
	return &Error{Kind: KindEmptyResponse}
}

// AsError extracts a classified error from the chain.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
