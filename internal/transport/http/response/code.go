package response

import (
	"errors"
	"net/http"

	"studio-site-api/internal/domain"
)

const (
	CodeOK           = http.StatusOK
	CodeCreated      = http.StatusCreated
	CodeBadRequest   = http.StatusBadRequest
	CodeUnauthorized = http.StatusUnauthorized
	CodeForbidden    = http.StatusForbidden
	CodeNotFound     = http.StatusNotFound
	CodeTooMany      = http.StatusTooManyRequests
	CodeServerError  = http.StatusInternalServerError
	CodeUnavailable  = http.StatusServiceUnavailable
	CodeTimeout      = http.StatusGatewayTimeout
)

// CodeMsgMap is the fallback message per status.
var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeCreated:      "Created",
	CodeBadRequest:   "Bad request",
	CodeUnauthorized: "Not authorized to access this route",
	CodeForbidden:    "You do not have permission to perform this action",
	CodeNotFound:     "Not found",
	CodeTooMany:      "Too many requests, please try again later",
	CodeServerError:  "internal error",
	CodeUnavailable:  "server busy",
	CodeTimeout:      "timeout",
}

// StatusOf maps a service error onto its HTTP status. Anything the domain
// does not classify is a failed store operation and degrades to 400.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return CodeBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	}
	return CodeBadRequest
}
