package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/setlist/pkg/decode"
)

const problemBase = "https://setlist.dev/problems/"

// ProblemDetails is an RFC 9457 problem document.
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError is one rejected field. Clients localize MessageKey; Message is
// the English fallback.
type FieldError struct {
	Field      string `json:"field"`
	MessageKey string `json:"message_key"`
	Message    string `json:"message"`
}

func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem as the response.
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newNotFound(resource string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemBase + "not-found",
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
	}
}

func newBadRequest(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemBase + "bad-request",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

func newTooLarge(limit int64) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemBase + "too-large",
		Title:  "Request Entity Too Large",
		Status: http.StatusRequestEntityTooLarge,
		Detail: fmt.Sprintf("request body exceeds %d bytes", limit),
	}
}

func newInternal() *ProblemDetails {
	return &ProblemDetails{
		Type:   problemBase + "internal",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: "An unexpected error occurred",
	}
}

func newValidation(violations []decode.Violation) *ProblemDetails {
	errs := make([]FieldError, 0, len(violations))
	for _, v := range violations {
		errs = append(errs, FieldError{Field: v.Field, MessageKey: v.MessageKey, Message: v.Reason})
	}

	detail := "One or more fields failed validation"
	if len(errs) > 0 {
		detail = fmt.Sprintf("%s: %s", errs[0].Field, errs[0].Message)
		if len(errs) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errs)-1)
		}
	}
	return &ProblemDetails{
		Type:   problemBase + "validation",
		Title:  "Validation Error",
		Status: http.StatusUnprocessableEntity,
		Detail: detail,
		Errors: errs,
	}
}

// problemFor maps a decode failure to its problem document.
func problemFor(err error) *ProblemDetails {
	de, ok := decode.AsError(err)
	switch {
	case ok && errors.Is(err, decode.ErrMalformed):
		p := newBadRequest("request body is not valid JSON")
		p.Errors = newValidation(de.Violations).Errors
		return p
	case ok:
		return newValidation(de.Violations)
	default:
		return newInternal()
	}
}
