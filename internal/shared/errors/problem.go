// Package errors renders RFC 7807 problem documents for the REST surface.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem document. Message duplicates the
// detail under "error" for clients of the /api proxies that read that key.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
	Message    string         `json:"error,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithLegacyMessage returns a copy that also carries msg under "error".
func (p ProblemDetail) WithLegacyMessage(msg string) ProblemDetail {
	p.Message = msg
	return p
}

// WithExtension returns a copy with an additional extension property. The
// receiver's map is never mutated.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

const (
	TypeBadRequest       = "/problems/bad-request"
	TypeMethodNotAllowed = "/problems/method-not-allowed"
	TypeUnauthorized     = "/problems/unauthorized"
	TypeInternal         = "/problems/internal-error"
	TypeUpstream         = "/problems/upstream-unavailable"
)

var (
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrMethodNotAllowed = ProblemDetail{
		Type:   TypeMethodNotAllowed,
		Title:  "Method Not Allowed",
		Status: http.StatusMethodNotAllowed,
	}

	// ErrUnauthorized is sent when a presented bearer token is refused.
	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrUpstream answers with 500, the status the dashboard already handles
	// for a failed proxy call.
	ErrUpstream = ProblemDetail{
		Type:   TypeUpstream,
		Title:  "Upstream Unavailable",
		Status: http.StatusInternalServerError,
	}
)

// NewUpstreamProblem describes a failed upstream fetch. The message is also
// exposed as the legacy "error" field.
func NewUpstreamProblem(source, msg string) ProblemDetail {
	return ErrUpstream.
		WithDetail(msg).
		WithLegacyMessage(msg).
		WithExtension("source", source)
}
