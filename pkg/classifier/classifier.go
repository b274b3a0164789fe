package classifier

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/imagine/pkg/provider"
)

type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindUnauthorized    Kind = "unauthorized"
	KindRateLimited     Kind = "rate_limited"
	KindInvalidModel    Kind = "invalid_model"
	KindProviderFailure Kind = "provider_failure"
	KindNotConfigured   Kind = "not_configured"
)

const (
	MessageUnauthorized    = "Invalid API credentials for image generation service"
	MessageRateLimited     = "Image generation quota exceeded. Please try again later."
	MessageInvalidModel    = "Invalid model specified. Please check the model name."
	MessageProviderFailure = "Failed to generate image. Please try again."
	MessageNotConfigured   = "Image generation service not configured. Please set REPLICATE_API_TOKEN environment variable."
)

// Error is a failure reduced to a stable kind and HTTP status.
type Error struct {
	Kind   Kind
	Status int

	Message string

	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns the underlying error text, if any.
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

func InvalidInput(message string) *Error {
	return &Error{
		Kind:   KindInvalidInput,
		Status: http.StatusBadRequest,

		Message: message,
	}
}

// Classify maps a gateway or transport failure to an Error. Status codes
// reported by the provider take precedence; the message heuristics apply
// only when none is available.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var cerr *Error

	if errors.As(err, &cerr) {
		return cerr
	}

	if errors.Is(err, provider.ErrNotConfigured) {
		return newError(KindNotConfigured, err)
	}

	var perr *provider.Error

	if errors.As(err, &perr) && perr.StatusCode > 0 {
		return newError(classifyStatus(perr.StatusCode), err)
	}

	return newError(classifyMessage(err.Error()), err)
}

func classifyStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized

	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return KindRateLimited

	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return KindInvalidModel
	}

	return KindProviderFailure
}

func classifyMessage(message string) Kind {
	switch {
	case containsAny(message, "authentication", "401"):
		return KindUnauthorized

	case containsAny(message, "quota", "limit", "429"):
		return KindRateLimited

	case containsAny(message, "model", "not found"):
		return KindInvalidModel
	}

	return KindProviderFailure
}

func newError(kind Kind, err error) *Error {
	e := &Error{
		Kind: kind,
		Err:  err,
	}

	switch kind {
	case KindUnauthorized:
		e.Status = http.StatusUnauthorized
		e.Message = MessageUnauthorized

	case KindRateLimited:
		e.Status = http.StatusTooManyRequests
		e.Message = MessageRateLimited

	case KindInvalidModel:
		e.Status = http.StatusBadRequest
		e.Message = MessageInvalidModel

	case KindNotConfigured:
		e.Status = http.StatusInternalServerError
		e.Message = MessageNotConfigured

	default:
		e.Kind = KindProviderFailure
		e.Status = http.StatusInternalServerError
		e.Message = MessageProviderFailure
	}

	return e
}

func containsAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}

	return false
}
